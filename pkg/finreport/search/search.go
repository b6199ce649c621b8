// Package search defines the web search capability used by the data
// collector and an implementation backed by the Tavily API.
package search

import "context"

// Result is one search hit. Content or URL may be empty; the collector
// skips empty fields rather than erroring.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Searcher is the opaque search capability. An empty result slice is a
// valid non-error response. Implementations should surface transport
// failures as errors; the pipeline converts them to empty results.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
