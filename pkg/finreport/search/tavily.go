package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.tavily.com/search"

// Tavily implements Searcher using the Tavily search API.
type Tavily struct {
	apiKey     string
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	depth      string
	maxResults int
}

// TavilyOption configures Tavily.
type TavilyOption func(*Tavily)

// WithHTTPClient overrides the HTTP client (useful for tests).
func WithHTTPClient(c *http.Client) TavilyOption {
	return func(t *Tavily) { t.client = c }
}

// WithBaseURL overrides the API endpoint (useful for tests).
func WithBaseURL(url string) TavilyOption {
	return func(t *Tavily) { t.baseURL = url }
}

// WithSearchDepth sets the search depth ("basic" or "advanced").
func WithSearchDepth(depth string) TavilyOption {
	return func(t *Tavily) { t.depth = depth }
}

// WithMaxResults sets the per-query result cap.
func WithMaxResults(n int) TavilyOption {
	return func(t *Tavily) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) TavilyOption {
	return func(t *Tavily) {
		if rps > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewTavily creates a Tavily client.
func NewTavily(apiKey string, opts ...TavilyOption) *Tavily {
	t := &Tavily{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		client:     http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		depth:      "advanced",
		maxResults: 5,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// searchRequest is the Tavily search request body.
type searchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth,omitempty"`
	Topic       string `json:"topic,omitempty"`
	MaxResults  int    `json:"max_results,omitempty"`
}

// searchResponse is the Tavily search response body.
type searchResponse struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

// Search implements Searcher.
func (t *Tavily) Search(ctx context.Context, query string) ([]Result, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	payload, err := json.Marshal(searchRequest{
		Query:       query,
		SearchDepth: t.depth,
		Topic:       "general",
		MaxResults:  t.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily api error (status %d): %s", res.StatusCode, string(body))
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return resp.Results, nil
}
