package finreport

import (
	"encoding/json"
	"strings"
)

// vagueMarker is the default value for a metric the LLM left blank.
const vagueMarker = "unknown"

// analysisPayload is the wire shape the analyst prompt demands.
type analysisPayload struct {
	Revenue     string   `json:"revenue"`
	Profit      string   `json:"profit"`
	GrowthRate  string   `json:"growth_rate"`
	KeyInsights []string `json:"key_insights"`
	Trends      []string `json:"trends"`
}

// decodeAnalysis parses the LLM's structured output: strip an optional
// markdown code fence, parse as JSON, and default any missing metric to
// the vague marker. A malformed payload yields a *DecodeError.
func decodeAnalysis(raw string) (Analysis, error) {
	text := stripFence(raw)

	var payload analysisPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return Analysis{}, &DecodeError{Raw: text, Err: err}
	}

	orMarker := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return vagueMarker
		}
		return v
	}

	return Analysis{
		Metrics: Metrics{
			Revenue:    orMarker(payload.Revenue),
			Profit:     orMarker(payload.Profit),
			GrowthRate: orMarker(payload.GrowthRate),
		},
		Insights: payload.KeyInsights,
		Trends:   payload.Trends,
	}, nil
}

// stripFence removes a surrounding markdown code fence from LLM output.
// It recognizes a "```json" fence, then a bare "```" fence, and otherwise
// returns the trimmed text unchanged.
func stripFence(s string) string {
	if _, after, found := strings.Cut(s, "```json"); found {
		if inner, _, ok := strings.Cut(after, "```"); ok {
			return strings.TrimSpace(inner)
		}
		return strings.TrimSpace(after)
	}
	if _, after, found := strings.Cut(s, "```"); found {
		if inner, _, ok := strings.Cut(after, "```"); ok {
			return strings.TrimSpace(inner)
		}
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(s)
}
