package finreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeAnalysis_PlainJSON tests the unfenced happy path.
func TestDecodeAnalysis_PlainJSON(t *testing.T) {
	analysis, err := decodeAnalysis(goodAnalysisJSON)

	require.NoError(t, err)
	assert.Equal(t, "$4.2B", analysis.Metrics.Revenue)
	assert.Equal(t, "$1.1B", analysis.Metrics.Profit)
	assert.Equal(t, "12%", analysis.Metrics.GrowthRate)
	assert.Len(t, analysis.Insights, 3)
	assert.Len(t, analysis.Trends, 3)
}

// TestDecodeAnalysis_JSONFence tests stripping a ```json fence.
func TestDecodeAnalysis_JSONFence(t *testing.T) {
	wrapped := "Here is the analysis:\n```json\n" + goodAnalysisJSON + "\n```\nDone."

	analysis, err := decodeAnalysis(wrapped)

	require.NoError(t, err)
	assert.Equal(t, "$4.2B", analysis.Metrics.Revenue)
}

// TestDecodeAnalysis_BareFence tests stripping an unlabeled fence.
func TestDecodeAnalysis_BareFence(t *testing.T) {
	wrapped := "```\n" + goodAnalysisJSON + "\n```"

	analysis, err := decodeAnalysis(wrapped)

	require.NoError(t, err)
	assert.Equal(t, "12%", analysis.Metrics.GrowthRate)
}

// TestDecodeAnalysis_MissingMetricsDefaulted tests that absent metrics
// carry the vague marker rather than an empty string.
func TestDecodeAnalysis_MissingMetricsDefaulted(t *testing.T) {
	analysis, err := decodeAnalysis(`{"key_insights": ["a finding"], "trends": []}`)

	require.NoError(t, err)
	assert.Equal(t, vagueMarker, analysis.Metrics.Revenue)
	assert.Equal(t, vagueMarker, analysis.Metrics.Profit)
	assert.Equal(t, vagueMarker, analysis.Metrics.GrowthRate)
}

// TestDecodeAnalysis_MalformedPayload tests the named decode error.
func TestDecodeAnalysis_MalformedPayload(t *testing.T) {
	_, err := decodeAnalysis("I could not find any financial data, sorry.")

	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.NotEmpty(t, decodeErr.Raw)
}

// TestStripFence covers the three recognized shapes.
func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence("  {\"a\":1}  "))
	assert.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}")) // unterminated fence
}

// TestCleanCompanyName covers noise-word trimming and its fallback.
func TestCleanCompanyName(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{"Acme Corp financial report", "Acme Corp"},
		{"Tesla", "Tesla"},
		{"Alpha Beta Gamma", "Alpha Beta Gamma"},
		{"financial report Acme", "financial"}, // fallback: first token
		{"Acme Quarterly results", "Acme"},     // noise match is case-insensitive
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanCompanyName(tt.subject), "subject=%q", tt.subject)
	}
}

// TestCleanCompanyName_Idempotent tests that re-extracting a clean name
// is a fixed point.
func TestCleanCompanyName_Idempotent(t *testing.T) {
	once := cleanCompanyName("Acme Corp financial report earnings")
	assert.Equal(t, once, cleanCompanyName(once))
}
