package finreport

import (
	"github.com/randalmurphal/finreport/pkg/finreport/llm"
)

// writeReport composes the long-form draft report from the analysis.
//
// With neither metrics nor insights present it produces an empty report
// without an LLM call; the report gate then routes a writing retry.
func (p *Pipeline) writeReport(ctx Context, s State) (Update, error) {
	if s.Metrics.IsZero() || len(s.Insights) == 0 {
		empty := ""
		return Update{
			Report:   &empty,
			Messages: []string{"Error: missing analysis data for report generation"},
		}, nil
	}

	resp, err := ctx.LLM().Complete(ctx, llm.CompletionRequest{
		Prompt:      writerPrompt(s.Subject, s.Metrics, s.Insights, s.Trends, s.DataSources),
		Model:       p.cfg.Model,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.WriterTemperature,
	})
	if err != nil {
		return Update{}, err
	}
	ctx.Metrics().RecordLLMCall(ctx, ctx.Stage().String(), resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Duration)

	report := resp.Content
	return Update{
		Report:   &report,
		Messages: []string{"Report draft generated"},
	}, nil
}
