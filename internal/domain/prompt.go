package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ExplainRequest is the context sent along with an explanation request.
// "lon" is accepted as an alias for "lng".
type ExplainRequest struct {
	Lat      *float64            `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng      *float64            `json:"lng" validate:"required,gte=-180,lte=180"`
	Address  string              `json:"address" validate:"max=300"`
	Datetime string              `json:"datetime" validate:"max=64"`
	Forecast *NormalizedForecast `json:"forecast,omitempty"`
}

// UnmarshalJSON decodes the request, falling back to "lon" when "lng" is
// absent.
func (r *ExplainRequest) UnmarshalJSON(data []byte) error {
	type plain ExplainRequest
	var aux struct {
		plain
		Lon *float64 `json:"lon"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = ExplainRequest(aux.plain)
	if r.Lng == nil {
		r.Lng = aux.Lon
	}
	return nil
}

// Validate checks required coordinates and field bounds.
func (r ExplainRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid explain request: %w", err)
	}
	return nil
}

// SystemPrompt frames the model's role.
const SystemPrompt = "You are a meteorologist AI. Explain the weather data in English, clearly and simply."

// BuildPrompt renders the user prompt for a validated request.
func BuildPrompt(r ExplainRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Explain in a didactic way the weather expected at latitude %.4f, longitude %.4f", *r.Lat, *r.Lng)
	if r.Address != "" {
		fmt.Fprintf(&b, " (%s)", r.Address)
	}
	if r.Datetime != "" {
		fmt.Fprintf(&b, " on %s", r.Datetime)
	}
	b.WriteString(".\n\n")

	if r.Forecast != nil && len(r.Forecast.Metrics) > 0 {
		b.WriteString("Data:\n")
		keys := make([]string, 0, len(r.Forecast.Metrics))
		for k := range r.Forecast.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m := r.Forecast.Metrics[k]
			fmt.Fprintf(&b, "- %s: %s (90%% interval %s to %s)\n",
				k, formatValue(m.Predicted, m.Unit), formatValue(m.Interval90[0], m.Unit), formatValue(m.Interval90[1], m.Unit))
			if m.Series.Drawable() {
				fmt.Fprintf(&b, "  trend: %s\n", formatSeries(m.Series.Samples()))
			}
		}
		fmt.Fprintf(&b, "- Overall classification: %s\n", Classify(r.Forecast.Metrics))
		if r.Forecast.Model != "" && r.Forecast.Model != DefaultModel {
			fmt.Fprintf(&b, "- Model: %s\n", r.Forecast.Model)
		}
		b.WriteString("\n")
	}

	b.WriteString(`Rules:
1. Summarize the expected weather in 2-3 sentences.
2. State the main risks (rain, heat, wind).
3. Give 3 practical recommendations.
4. Format the text with simple HTML (bold, lists).
5. Answer in English.
6. Mention the latitude, longitude and address of the place in the explanation.
`)
	return b.String()
}

func formatValue(v float64, unit string) string {
	if unit == "" {
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("%g %s", v, unit)
}

func formatSeries(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, ", ")
}

// Explainer turns a prompt into a natural-language explanation.
type Explainer interface {
	Explain(ctx context.Context, system, prompt string) (string, error)
}
