package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/forecast-lead-service/internal/adapter/distancematrix"
	httpadapter "github.com/couchcryptid/forecast-lead-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/forecast-lead-service/internal/adapter/kafka"
	"github.com/couchcryptid/forecast-lead-service/internal/adapter/llm"
	"github.com/couchcryptid/forecast-lead-service/internal/adapter/upstream"
	"github.com/couchcryptid/forecast-lead-service/internal/config"
	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/couchcryptid/forecast-lead-service/internal/forecast"
	"github.com/couchcryptid/forecast-lead-service/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Forecast backend (mock mode when FORECAST_API_BASE_URL is unset).
	var backend domain.ForecastBackend
	var upstreamURL string
	if !cfg.MockMode() {
		upstreamURL, err = upstream.ResolveURL(cfg.ForecastBaseURL)
		if err != nil {
			logger.Error("invalid forecast backend url", "error", err)
			os.Exit(1)
		}
		backend = upstream.NewClient(upstreamURL, cfg.ForecastTimeout, metrics, logger)
		logger.Info("forecast backend enabled", "url", upstreamURL, "timeout", cfg.ForecastTimeout, "strict", cfg.StrictUpstream)
	} else {
		logger.Warn("FORECAST_API_BASE_URL not set, serving mock forecasts")
	}

	var geocoder domain.Geocoder
	if cfg.GeocodeKey != "" {
		client := distancematrix.NewClient(cfg.GeocodeKey, cfg.GeocodeBaseURL, cfg.GeocodeTimeout, metrics, logger)
		geocoder = distancematrix.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)
		logger.Info("geocoding enabled", "cache_size", cfg.GeocodeCacheSize, "timeout", cfg.GeocodeTimeout)
	} else {
		logger.Info("geocoding disabled")
	}

	var explainer domain.Explainer
	if cfg.LLMKey != "" {
		client := llm.NewClient(cfg.LLMKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTimeout, metrics, logger)
		explainer = llm.NewRateLimitedExplainer(client, cfg.LLMRateLimit, cfg.LLMRateBurst, metrics)
		logger.Info("weather explanations enabled", "model", cfg.LLMModel, "rate_limit", cfg.LLMRateLimit)
	} else {
		logger.Info("weather explanations disabled")
	}

	opts := forecast.Options{StrictUpstream: cfg.StrictUpstream, UpstreamURL: upstreamURL}
	var writer *kafkaadapter.Writer
	if cfg.OutcomesEnabled() {
		writer = kafkaadapter.NewWriter(cfg, metrics, logger)
		opts.Publisher = writer
		logger.Info("forecast outcome events enabled", "topic", cfg.KafkaOutcomeTopic)
	}

	svc := forecast.NewService(backend, opts, metrics, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Forecast:    svc,
		Geocoder:    geocoder,
		Explainer:   explainer,
		Ready:       svc,
		Metrics:     metrics,
		CORSOrigins: cfg.CORSAllowedOrigins,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
