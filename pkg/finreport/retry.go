package finreport

import "fmt"

// searchHintSuffix is appended to the search subject on a collection
// retry to sharpen query generation. The subject itself never changes.
const searchHintSuffix = "financial report earnings revenue profit quarterly results 2024 2023"

// retryCollection bumps the collection counter and installs the search
// hint before the run loops back to the collector.
func (p *Pipeline) retryCollection(ctx Context, s State) (Update, error) {
	attempt := s.CollectionAttempts + 1
	ctx.Logger().Info("retrying data collection with enhanced search terms",
		"attempt", attempt)
	return Update{
		SearchHint:     searchHintSuffix,
		BumpCollection: true,
		Messages: []string{
			fmt.Sprintf("Retrying data collection (attempt %d) with enhanced search terms", attempt),
		},
	}, nil
}

// retryWriting bumps the writing counter before the run loops back to
// the writer. Nothing else changes; the writer re-reads the same
// analysis.
func (p *Pipeline) retryWriting(ctx Context, s State) (Update, error) {
	attempt := s.WritingAttempts + 1
	ctx.Logger().Info("retrying report generation", "attempt", attempt)
	return Update{
		BumpWriting: true,
		Messages: []string{
			fmt.Sprintf("Retrying report generation (attempt %d) with focus on more detail and specifics", attempt),
		},
	}, nil
}

// abandonRun is the terminal insufficient-data path: it synthesizes the
// fixed disclaimer report without an LLM call.
func (p *Pipeline) abandonRun(ctx Context, s State) (Update, error) {
	ctx.Logger().Warn("abandoning run, insufficient data after retries",
		"collection_attempts", s.CollectionAttempts)

	report := disclaimerReport(cleanCompanyName(s.Subject), s.CollectionAttempts, ctx.Now())
	return Update{
		Report: &report,
		Messages: []string{
			fmt.Sprintf("Insufficient data found after %d attempts. Created disclaimer report.", s.CollectionAttempts),
		},
	}, nil
}
