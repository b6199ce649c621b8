package finreport

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/finreport/pkg/finreport/llm"
)

// lowRelevanceThreshold is the advisory floor for the fraction of
// collected chunks mentioning the company token, in percent.
const lowRelevanceThreshold = 20.0

// collectData gathers raw financial data: the LLM generates three search
// queries, each is executed against the search capability, and all
// content and URLs are unioned into the state.
//
// Query generation failure (zero non-empty lines) fails fast without
// calling search. Search transport errors are swallowed per query and
// replaced with empty results; only LLM errors propagate.
func (p *Pipeline) collectData(ctx Context, s State) (Update, error) {
	resp, err := ctx.LLM().Complete(ctx, llm.CompletionRequest{
		Prompt:      queryGenPrompt(s.SearchSubject(), s.AnalysisFocus),
		Model:       p.cfg.Model,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.CollectorTemperature,
	})
	if err != nil {
		return Update{}, err
	}
	ctx.Metrics().RecordLLMCall(ctx, ctx.Stage().String(), resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Duration)

	queries := nonEmptyLines(resp.Content)
	if len(queries) == 0 {
		return Update{
			Messages: []string{"Error: could not generate search queries"},
		}, nil
	}

	messages := []string{fmt.Sprintf("Generated %d search queries", len(queries))}

	var rawData, sources []string
	for _, query := range queries {
		results, err := ctx.Searcher().Search(ctx, query)
		if err != nil {
			// Empty results substituted; the quality gate handles the
			// shortfall.
			ctx.Metrics().RecordSearch(ctx, 0, true)
			ctx.Logger().Warn("search failed, substituting empty results",
				"query", query, "error", err.Error())
			continue
		}
		ctx.Metrics().RecordSearch(ctx, len(results), false)

		for _, r := range results {
			if r.Content != "" {
				rawData = append(rawData, r.Content)
			}
			if r.URL != "" {
				sources = append(sources, r.URL)
			}
		}
	}

	if len(rawData) == 0 {
		return Update{
			Messages: []string{"Warning: no data found for the given query"},
		}, nil
	}

	relevant := relevantChunks(rawData, s.CompanyToken())
	pct := float64(relevant) / float64(len(rawData)) * 100
	if pct < lowRelevanceThreshold {
		messages = append(messages, fmt.Sprintf(
			"Warning: low relevance, only %d/%d chunks mention the company", relevant, len(rawData)))
	} else {
		messages = append(messages, fmt.Sprintf(
			"Good relevance: %d/%d chunks mention the company", relevant, len(rawData)))
	}
	messages = append(messages, fmt.Sprintf(
		"Collected %d data chunks from %d sources", len(rawData), len(sources)))

	return Update{
		RawData:     rawData,
		DataSources: sources,
		Messages:    messages,
	}, nil
}

// nonEmptyLines splits text into trimmed, non-empty lines.
func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// relevantChunks counts chunks containing the company token,
// case-insensitive.
func relevantChunks(chunks []string, token string) int {
	if token == "" {
		return 0
	}
	count := 0
	for _, chunk := range chunks {
		if strings.Contains(strings.ToLower(chunk), token) {
			count++
		}
	}
	return count
}
