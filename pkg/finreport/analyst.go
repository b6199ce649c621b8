package finreport

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/finreport/pkg/finreport/llm"
)

// analystDataBudget caps the characters of raw data embedded in the
// analysis prompt. Larger payloads are truncated with a marker.
const analystDataBudget = 8000

const truncationMarker = "...[truncated]"

// vagueTerms are the metric values that count as "not actually found".
// The set is used verbatim by the analyst's quality note and by the
// analysis gate.
var vagueTerms = []string{
	"unknown",
	"not available",
	"not disclosed",
	"estimated",
	"not found",
	"no data",
}

// isVague reports whether a metric value contains any vague term,
// case-insensitive. The empty value is vague.
func isVague(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	for _, term := range vagueTerms {
		if strings.Contains(v, term) {
			return true
		}
	}
	return false
}

// countVagueMetrics counts how many of the three metrics are vague.
func countVagueMetrics(m Metrics) int {
	count := 0
	for _, v := range []string{m.Revenue, m.Profit, m.GrowthRate} {
		if isVague(v) {
			count++
		}
	}
	return count
}

// analyzeData extracts structured metrics, insights, and trends from the
// collected raw data.
//
// With no raw data it short-circuits to a placeholder analysis without an
// LLM call. A parse failure downgrades to a placeholder analysis rather
// than an error: the quality gate downstream decides what to do with it.
func (p *Pipeline) analyzeData(ctx Context, s State) (Update, error) {
	if len(s.RawData) == 0 {
		return Update{
			Analysis: &Analysis{
				Insights: []string{"No data available for analysis"},
			},
			Messages: []string{"Warning: no raw data to analyze"},
		}, nil
	}

	combined := strings.Join(s.RawData, "\n\n")
	if len(combined) > analystDataBudget {
		combined = combined[:analystDataBudget] + truncationMarker
	}

	resp, err := ctx.LLM().Complete(ctx, llm.CompletionRequest{
		Prompt:      analysisPrompt(s.Subject, combined),
		Model:       p.cfg.Model,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.AnalystTemperature,
	})
	if err != nil {
		return Update{}, err
	}
	ctx.Metrics().RecordLLMCall(ctx, ctx.Stage().String(), resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Duration)

	analysis, err := decodeAnalysis(resp.Content)
	if err != nil {
		ctx.Logger().Warn("analysis output did not parse", "error", err.Error())
		return Update{
			Analysis: &Analysis{
				Insights: []string{"Error: could not parse analysis results"},
			},
			Messages: []string{"Error: failed to analyze data properly"},
		}, nil
	}

	vague := countVagueMetrics(analysis.Metrics)
	quality := "good data quality"
	if vague >= 2 {
		quality = "limited data quality"
	}

	return Update{
		Analysis: &analysis,
		Messages: []string{
			fmt.Sprintf("Analysis completed: extracted %d insights and %d trends",
				len(analysis.Insights), len(analysis.Trends)),
			fmt.Sprintf("Metrics extracted with %s: %d/3 specific, %d vague",
				quality, 3-vague, vague),
		},
	}, nil
}
