// Command validate checks recorded forecast backend payloads against the
// normalization guarantees the service relies on: location resolution,
// precipitation clamping, metric key preservation, interval ordering and
// idempotence. The built-in mock is always checked alongside the payloads.
//
// Usage:
//
//	go run ./cmd/validate -dir data/payloads
//	go run ./cmd/validate data/payloads/saopaulo.json data/payloads/lisbon.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/forecast-lead-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// payload is one decoded backend document with its normalized form.
type payload struct {
	name       string
	body       []byte
	raw        domain.RawForecastResponse
	normalized domain.NormalizedForecast
	err        error
}

func main() {
	dir := flag.String("dir", "", "directory of recorded backend payloads (*.json)")
	flag.Parse()

	paths := flag.Args()
	if *dir != "" {
		matches, err := filepath.Glob(filepath.Join(*dir, "*.json"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: list payloads: %v\n", err)
			os.Exit(1)
		}
		paths = append(paths, matches...)
	}

	os.Exit(run(paths))
}

func run(paths []string) int {
	// Fixed clock so the mock payload is reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.December, 15, 15, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Println("=== Forecast Payload Validation ===")
	fmt.Println()

	payloads := make([]*payload, 0, len(paths)+1)
	mockBody, err := json.Marshal(domain.MockForecast())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: marshal mock: %v\n", err)
		return 1
	}
	payloads = append(payloads, &payload{name: "(built-in mock)", body: mockBody})

	for _, path := range paths {
		body, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read %s: %v\n", path, err)
			return 1
		}
		payloads = append(payloads, &payload{name: filepath.Base(path), body: body})
	}

	phases := []*phase{
		validateDecoding(payloads),
		validateLocation(payloads),
		validatePrecipitation(payloads),
		validateKeySet(payloads),
		validateIntervals(payloads),
		validateIdempotence(payloads),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Payloads: %d recorded, 1 built-in mock\n", len(paths))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phases ──

// validateDecoding decodes and normalizes every payload. Later phases skip
// payloads that failed here.
func validateDecoding(payloads []*payload) *phase {
	p := &phase{name: "Phase 1: Decoding and normalization"}
	for _, pl := range payloads {
		if !domain.HasDataMember(pl.body) {
			pl.err = fmt.Errorf("no top-level data member")
			p.errorf("%s: %v", pl.name, pl.err)
			continue
		}
		if err := json.Unmarshal(pl.body, &pl.raw); err != nil {
			pl.err = err
			p.errorf("%s: decode: %v", pl.name, err)
			continue
		}
		normalized, err := domain.Normalize(pl.raw)
		if err != nil {
			pl.err = err
			p.errorf("%s: normalize: %v", pl.name, err)
			continue
		}
		pl.normalized = normalized
	}
	return p
}

func validateLocation(payloads []*payload) *phase {
	p := &phase{name: "Phase 2: Location resolution"}
	for _, pl := range valid(payloads) {
		coords, err := domain.ResolveLocation(pl.raw.Data.Location)
		if err != nil {
			p.errorf("%s: %v", pl.name, err)
			continue
		}
		if coords.Lat != pl.normalized.Lat || coords.Lon != pl.normalized.Lon {
			p.errorf("%s: normalized (%v, %v) differs from payload (%v, %v)",
				pl.name, pl.normalized.Lat, pl.normalized.Lon, coords.Lat, coords.Lon)
		}
		if coords.Lat < -90 || coords.Lat > 90 || coords.Lon < -180 || coords.Lon > 180 {
			p.errorf("%s: coordinates out of range (%v, %v)", pl.name, coords.Lat, coords.Lon)
		}
	}
	return p
}

func validatePrecipitation(payloads []*payload) *phase {
	p := &phase{name: "Phase 3: Precipitation lower bounds"}
	for _, pl := range valid(payloads) {
		for _, k := range sortedKeys(pl.normalized.Metrics) {
			m := pl.normalized.Metrics[k]
			if domain.IsPrecipitation(k) && m.Interval90.Low() < 0 {
				p.errorf("%s: %s lower bound %v is negative", pl.name, k, m.Interval90.Low())
			}
			if !domain.IsPrecipitation(k) && m.Interval90 != pl.raw.Data.Forecast[k].Interval90 {
				p.errorf("%s: non-precipitation metric %s interval changed", pl.name, k)
			}
		}
	}
	return p
}

func validateKeySet(payloads []*payload) *phase {
	p := &phase{name: "Phase 4: Metric key preservation"}
	for _, pl := range valid(payloads) {
		want := sortedKeys(pl.raw.Data.Forecast)
		got := sortedKeys(pl.normalized.Metrics)
		if diff := cmp.Diff(want, got); diff != "" {
			p.errorf("%s: metric keys differ (-payload +normalized):\n%s", pl.name, diff)
		}
	}
	return p
}

// validateIntervals flags payloads whose bounds are inverted. These are
// passed through unchanged by the service, so they are reported, not fixed.
func validateIntervals(payloads []*payload) *phase {
	p := &phase{name: "Phase 5: Interval ordering"}
	for _, pl := range valid(payloads) {
		for _, k := range sortedKeys(pl.normalized.Metrics) {
			iv := pl.normalized.Metrics[k].Interval90
			if iv.Low() > iv.High() {
				p.errorf("%s: %s interval [%v, %v] is inverted", pl.name, k, iv.Low(), iv.High())
			}
		}
	}
	return p
}

func validateIdempotence(payloads []*payload) *phase {
	p := &phase{name: "Phase 6: Idempotent normalization"}
	for _, pl := range valid(payloads) {
		data, err := json.Marshal(pl.normalized.Raw())
		if err != nil {
			p.errorf("%s: re-marshal: %v", pl.name, err)
			continue
		}
		var raw domain.RawForecastResponse
		if err := json.Unmarshal(data, &raw); err != nil {
			p.errorf("%s: re-decode: %v", pl.name, err)
			continue
		}
		again, err := domain.Normalize(raw)
		if err != nil {
			p.errorf("%s: second normalization: %v", pl.name, err)
			continue
		}
		if diff := cmp.Diff(pl.normalized, again); diff != "" {
			p.errorf("%s: second normalization differs (-first +second):\n%s", pl.name, diff)
		}
	}
	return p
}

// ── Helpers ──

func valid(payloads []*payload) []*payload {
	out := make([]*payload, 0, len(payloads))
	for _, pl := range payloads {
		if pl.err == nil {
			out = append(out, pl)
		}
	}
	return out
}

func sortedKeys(m map[string]domain.ForecastMetric) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
