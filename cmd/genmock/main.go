// Command genmock writes the built-in mock forecast as a JSON fixture, either
// in the upstream backend shape or already normalized. Fixtures feed the
// front-end and the validate command.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -lat -23.55 -lon -46.63 \
//	  -datetime "2025-12-15 15:00" \
//	  -raw -out data/mock/forecast_raw.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// fixtureTime stamps fixtures generated without -datetime.
var fixtureTime = time.Date(2025, time.December, 15, 15, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	lat := flag.Float64("lat", 0, "latitude to stamp on the fixture")
	lon := flag.Float64("lon", 0, "longitude to stamp on the fixture")
	datetime := flag.String("datetime", "", "timestamp to stamp on the fixture (default: fixed fixture time)")
	raw := flag.Bool("raw", false, "write the upstream payload shape instead of the normalized forecast")
	out := flag.String("out", "", "output path (default: stdout)")
	flag.Parse()

	if math.Abs(*lat) > 90 || math.Abs(*lon) > 180 {
		flag.Usage()
		return fmt.Errorf("coordinates out of range: lat=%v lon=%v", *lat, *lon)
	}

	// Fixed clock for reproducible timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	payload := domain.MockForecast()
	payload.Data.Location = domain.RawLocation{Lat: lat, Lon: lon}
	if *datetime != "" {
		payload.Data.Timestamp = *datetime
	}

	var v any = payload
	if !*raw {
		normalized, err := domain.Normalize(payload)
		if err != nil {
			return fmt.Errorf("normalize mock: %w", err)
		}
		v = domain.ForecastResponse{NormalizedForecast: normalized, Source: domain.SourceMock}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := writeFile(*out, data); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	printStats(payload)
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func printStats(payload domain.RawForecastResponse) {
	keys := make([]string, 0, len(payload.Data.Forecast))
	for k := range payload.Data.Forecast {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("\n=== Fixture summary ===")
	fmt.Printf("Timestamp: %s\n", payload.Data.Timestamp)
	fmt.Printf("Classification: %s\n", domain.Classify(payload.Data.Forecast))
	for _, k := range keys {
		m := payload.Data.Forecast[k]
		fmt.Printf("  %-12s predicted=%-8g interval=[%g, %g] series=%d precip=%v\n",
			k, m.Predicted, m.Interval90.Low(), m.Interval90.High(), m.Series.Len(), domain.IsPrecipitation(k))
	}
}
