package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTavily_Search tests request shape, auth, and result decoding.
func TestTavily_Search(t *testing.T) {
	var gotReq searchRequest
	var gotAuth, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(searchResponse{
			Query: gotReq.Query,
			Results: []Result{
				{Title: "Acme earnings", URL: "https://example.com/a", Content: "revenue grew"},
				{Title: "Acme outlook", URL: "https://example.com/b", Content: "margins held"},
			},
		})
	}))
	defer srv.Close()

	tavily := NewTavily("secret-key",
		WithBaseURL(srv.URL),
		WithSearchDepth("basic"),
		WithMaxResults(3),
	)

	results, err := tavily.Search(context.Background(), "Acme Corp revenue 2024")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, "revenue grew", results[0].Content)

	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Acme Corp revenue 2024", gotReq.Query)
	assert.Equal(t, "basic", gotReq.SearchDepth)
	assert.Equal(t, "general", gotReq.Topic)
	assert.Equal(t, 3, gotReq.MaxResults)
}

// TestTavily_SearchAPIError tests the non-200 path with the body in the
// error message.
func TestTavily_SearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	tavily := NewTavily("bad-key", WithBaseURL(srv.URL))

	_, err := tavily.Search(context.Background(), "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "invalid api key")
}

// TestTavily_SearchMalformedBody tests the decode failure path.
func TestTavily_SearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	tavily := NewTavily("key", WithBaseURL(srv.URL))

	_, err := tavily.Search(context.Background(), "query")
	assert.ErrorContains(t, err, "unmarshal response")
}

// TestTavily_SearchEmptyResults tests that zero hits are not an error.
func TestTavily_SearchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{Query: "query"})
	}))
	defer srv.Close()

	tavily := NewTavily("key", WithBaseURL(srv.URL))

	results, err := tavily.Search(context.Background(), "query")
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestTavily_RateLimiterHonorsCancellation tests that a cancelled
// context interrupts the limiter wait.
func TestTavily_RateLimiterHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer srv.Close()

	// Burst 1, tiny refill: the second call must wait, and the cancelled
	// context aborts that wait.
	tavily := NewTavily("key", WithBaseURL(srv.URL), WithRateLimit(0.001))

	_, err := tavily.Search(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tavily.Search(ctx, "second")
	assert.ErrorContains(t, err, "rate limit wait")
}

// TestTavily_Defaults tests option fallbacks.
func TestTavily_Defaults(t *testing.T) {
	tavily := NewTavily("key", WithMaxResults(0)) // ignored: non-positive

	assert.Equal(t, defaultBaseURL, tavily.baseURL)
	assert.Equal(t, "advanced", tavily.depth)
	assert.Equal(t, 5, tavily.maxResults)
	assert.NotNil(t, tavily.limiter)
}
