package finreport

import (
	"strings"

	"github.com/randalmurphal/finreport/pkg/finreport/llm"
)

// editReport polishes the draft and prepends the metadata banner. The
// banner uses the cleaned company name and the injected clock, so repeat
// runs with a pinned clock produce identical headers.
func (p *Pipeline) editReport(ctx Context, s State) (Update, error) {
	company := cleanCompanyName(s.Subject)

	resp, err := ctx.LLM().Complete(ctx, llm.CompletionRequest{
		Prompt:      editorPrompt(company, s.FinalReport),
		Model:       p.cfg.Model,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.EditorTemperature,
	})
	if err != nil {
		return Update{}, err
	}
	ctx.Metrics().RecordLLMCall(ctx, ctx.Stage().String(), resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Duration)

	polished := reportBanner(company, ctx.Now()) + strings.TrimSpace(resp.Content)
	return Update{
		Report:   &polished,
		Messages: []string{"Report polished and formatted"},
	}, nil
}
