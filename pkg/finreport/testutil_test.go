package finreport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/randalmurphal/finreport/pkg/finreport/config"
	"github.com/randalmurphal/finreport/pkg/finreport/llm"
	"github.com/randalmurphal/finreport/pkg/finreport/search"
	"github.com/stretchr/testify/require"
)

// Fakes and fixtures used across tests.

// fakeLLM routes every completion through a supplied function and
// records the requests it saw.
type fakeLLM struct {
	respond func(req llm.CompletionRequest) (string, error)
	calls   []llm.CompletionRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls = append(f.calls, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := f.respond(req)
	if err != nil {
		return nil, err
	}
	return &llm.CompletionResponse{
		Content:  content,
		Model:    req.Model,
		Usage:    llm.TokenUsage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30},
		Duration: time.Millisecond,
	}, nil
}

// promptKind classifies which stage produced a prompt.
func promptKind(prompt string) string {
	switch {
	case strings.Contains(prompt, "Generate 3 specific search queries"):
		return "queries"
	case strings.Contains(prompt, "EXACT JSON format"):
		return "analysis"
	case strings.Contains(prompt, "senior financial analyst"):
		return "writer"
	case strings.Contains(prompt, "professional editor"):
		return "editor"
	}
	return "unknown"
}

// happyLLM answers every stage with well-formed output that passes both
// quality gates on the first attempt.
func happyLLM(company string) *fakeLLM {
	return &fakeLLM{respond: func(req llm.CompletionRequest) (string, error) {
		switch promptKind(req.Prompt) {
		case "queries":
			return company + " revenue 2024\n" + company + " annual report\n" + company + " profit margin", nil
		case "analysis":
			return goodAnalysisJSON, nil
		case "writer", "editor":
			return strongReport(company), nil
		}
		return "", fmt.Errorf("unexpected prompt: %.60q", req.Prompt)
	}}
}

// goodAnalysisJSON parses cleanly and passes every analysis gate check
// given enough raw data.
const goodAnalysisJSON = `{
  "revenue": "$4.2B",
  "profit": "$1.1B",
  "growth_rate": "12%",
  "key_insights": [
    "Revenue growth accelerated across all operating segments this year",
    "Operating margin expanded on the back of disciplined cost control",
    "Cloud services remained the primary driver of incremental profit"
  ],
  "trends": [
    "Sustained double-digit growth in recurring subscription revenue",
    "Gradual shift of the overall revenue mix toward managed services",
    "Rising capital expenditure aimed at new data center capacity"
  ]
}`

// strongReport builds a report that passes every report gate check:
// over 3000 chars, all six section headers, dense company mentions,
// plenty of quantitative tokens, no vague terms.
func strongReport(company string) string {
	sections := []string{
		"Executive Summary",
		"Company Overview",
		"Financial Performance Analysis",
		"Market Position & Competitive Landscape",
		"Key Insights & Strategic Observations",
		"Conclusion",
	}

	para := fmt.Sprintf("%s delivered revenue of $4.2B, up 12%% year over year, with profit of $1.1B. "+
		"%s continues to lead on operating margins of 26.2%% while committing $0.8B to capacity expansion. ",
		company, company)

	var b strings.Builder
	for _, section := range sections {
		b.WriteString("## " + section + "\n\n")
		b.WriteString(strings.Repeat(para, 4))
		b.WriteString("\n\n")
	}
	return b.String()
}

// fakeSearcher returns the same fixed results for every query, or a
// fixed error, and records the queries it saw.
type fakeSearcher struct {
	results []search.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]search.Result, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// richResults are two substantial chunks per query, one mentioning the
// company. Three collector queries yield six chunks over 3000 chars
// total, three of which mention the company.
func richResults(company string) []search.Result {
	filler := strings.Repeat("Quarterly revenue grew with strong operating margins across all segments. ", 8)
	return []search.Result{
		{
			Title:   company + " earnings",
			URL:     "https://example.com/earnings",
			Content: company + " reported revenue of $4.2B for the year. " + filler,
		},
		{
			Title:   "sector outlook",
			URL:     "https://example.com/sector",
			Content: "Sector-wide performance held up through the period. " + filler,
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClock is a fixed time source so report banners are deterministic.
var testClock = func() time.Time {
	return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
}

// newTestPipeline wires a pipeline with the default configuration, a
// silent logger, and the fixed clock.
func newTestPipeline(t *testing.T, client llm.Client, searcher search.Searcher, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithLogger(discardLogger()), WithClock(testClock)}, opts...)
	p, err := New(config.Default(), client, searcher, opts...)
	require.NoError(t, err)
	return p
}

// testStageCtx builds a stage-scoped Context for exercising a stage
// function in isolation.
func testStageCtx(p *Pipeline, stage Stage) Context {
	ec := &execContext{
		Context:  context.Background(),
		logger:   discardLogger(),
		llm:      p.llm,
		searcher: p.searcher,
		metrics:  p.metrics,
		runID:    "test-run",
		now:      testClock,
	}
	return ec.withStage(stage)
}

// strongState is a state that already passed the analysis gate.
func strongState(company string) State {
	s := newState("test-run", company, "")
	filler := strings.Repeat("Quarterly revenue grew with strong operating margins across all segments. ", 8)
	for i := 0; i < 6; i++ {
		chunk := filler
		if i%2 == 0 {
			chunk = company + " reported revenue of $4.2B. " + filler
		}
		s.RawData = append(s.RawData, chunk)
		s.DataSources = append(s.DataSources, fmt.Sprintf("https://example.com/%d", i))
	}
	s.Metrics = Metrics{Revenue: "$4.2B", Profit: "$1.1B", GrowthRate: "12%"}
	s.Insights = []string{
		"Revenue growth accelerated across all operating segments this year",
		"Operating margin expanded on the back of disciplined cost control",
		"Cloud services remained the primary driver of incremental profit",
	}
	s.Trends = []string{
		"Sustained double-digit growth in recurring subscription revenue",
		"Gradual shift of the overall revenue mix toward managed services",
		"Rising capital expenditure aimed at new data center capacity",
	}
	return s
}
