package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Forecast backend. An empty base URL selects mock mode.
	ForecastBaseURL string
	ForecastTimeout time.Duration
	StrictUpstream  bool

	// Distance Matrix geocoding. An empty key disables /api/geocode.
	GeocodeKey       string
	GeocodeBaseURL   string
	GeocodeTimeout   time.Duration
	GeocodeCacheSize int

	// Groq chat completions. An empty key disables /api/ai/explain-weather.
	LLMKey       string
	LLMBaseURL   string
	LLMModel     string
	LLMTimeout   time.Duration
	LLMRateLimit float64
	LLMRateBurst int

	CORSAllowedOrigins []string

	// Forecast outcome events. No brokers disables publishing.
	KafkaBrokers      []string
	KafkaOutcomeTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	forecastTimeout, err := parseDuration("FORECAST_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	llmTimeout, err := parseDuration("LLM_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	strict, err := parseBool("FORECAST_STRICT_UPSTREAM", false)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	burst, err := parsePositiveInt("LLM_RATE_BURST", 3)
	if err != nil {
		return nil, err
	}
	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("LLM_RATE_LIMIT", "1"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid LLM_RATE_LIMIT")
	}

	var brokers []string
	if raw := sharedcfg.EnvOrDefault("KAFKA_BROKERS", ""); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ForecastBaseURL: strings.TrimSpace(sharedcfg.EnvOrDefault("FORECAST_API_BASE_URL", "")),
		ForecastTimeout: forecastTimeout,
		StrictUpstream:  strict,

		GeocodeKey:       sharedcfg.EnvOrDefault("DISTANCE_MATRIX_KEY", ""),
		GeocodeBaseURL:   sharedcfg.EnvOrDefault("GEOCODE_BASE_URL", "https://api.distancematrix.ai/maps/api/geocode/json"),
		GeocodeTimeout:   geocodeTimeout,
		GeocodeCacheSize: cacheSize,

		LLMKey:       sharedcfg.EnvOrDefault("GROQ_API_KEY", ""),
		LLMBaseURL:   strings.TrimRight(sharedcfg.EnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"), "/"),
		LLMModel:     sharedcfg.EnvOrDefault("GROQ_MODEL", "llama-3.1-70b-versatile"),
		LLMTimeout:   llmTimeout,
		LLMRateLimit: rateLimit,
		LLMRateBurst: burst,

		CORSAllowedOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		KafkaBrokers:      brokers,
		KafkaOutcomeTopic: sharedcfg.EnvOrDefault("KAFKA_OUTCOME_TOPIC", "forecast-outcomes"),
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaOutcomeTopic == "" {
		return nil, errors.New("KAFKA_OUTCOME_TOPIC is required when KAFKA_BROKERS is set")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return nil, errors.New("CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	return cfg, nil
}

// MockMode reports whether forecasts are served from built-in data only.
func (c *Config) MockMode() bool { return c.ForecastBaseURL == "" }

// OutcomesEnabled reports whether forecast outcomes are published to Kafka.
func (c *Config) OutcomesEnabled() bool { return len(c.KafkaBrokers) > 0 }

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBool(key string, def bool) (bool, error) {
	v := sharedcfg.EnvOrDefault(key, strconv.FormatBool(def))
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, strconv.Itoa(def)))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
