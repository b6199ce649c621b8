package finreport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/finreport/pkg/finreport/llm"
)

// TestAnalyzeData_HappyPath tests structured extraction.
func TestAnalyzeData_HappyPath(t *testing.T) {
	client := happyLLM("Acme Corp")
	p := newTestPipeline(t, client, &fakeSearcher{})
	s := strongState("Acme Corp")

	update, err := p.analyzeData(testStageCtx(p, StageAnalyze), s)

	require.NoError(t, err)
	require.NotNil(t, update.Analysis)
	assert.Equal(t, "$4.2B", update.Analysis.Metrics.Revenue)
	assert.Len(t, update.Analysis.Insights, 3)
	assert.Contains(t, strings.Join(update.Messages, "; "), "extracted 3 insights and 3 trends")
	require.Len(t, client.calls, 1)
	assert.InDelta(t, p.cfg.AnalystTemperature, client.calls[0].Temperature, 1e-9)
}

// TestAnalyzeData_EmptyRawDataShortCircuits tests that no LLM call is
// made without data.
func TestAnalyzeData_EmptyRawDataShortCircuits(t *testing.T) {
	client := happyLLM("Acme Corp")
	p := newTestPipeline(t, client, &fakeSearcher{})

	update, err := p.analyzeData(testStageCtx(p, StageAnalyze), newState("r1", "Acme Corp", ""))

	require.NoError(t, err)
	assert.Empty(t, client.calls)
	require.NotNil(t, update.Analysis)
	assert.True(t, update.Analysis.Metrics.IsZero())
	assert.Equal(t, []string{"No data available for analysis"}, update.Analysis.Insights)
	assert.Equal(t, []string{"Warning: no raw data to analyze"}, update.Messages)
}

// TestAnalyzeData_TruncatesLargeInput tests the character budget.
func TestAnalyzeData_TruncatesLargeInput(t *testing.T) {
	client := happyLLM("Acme Corp")
	p := newTestPipeline(t, client, &fakeSearcher{})

	s := newState("r1", "Acme Corp", "")
	s.RawData = []string{strings.Repeat("x", analystDataBudget+5000)}

	_, err := p.analyzeData(testStageCtx(p, StageAnalyze), s)

	require.NoError(t, err)
	require.Len(t, client.calls, 1)
	prompt := client.calls[0].Prompt
	assert.Contains(t, prompt, truncationMarker)
	assert.NotContains(t, prompt, strings.Repeat("x", analystDataBudget+1))
}

// TestAnalyzeData_ParseFailureDowngrades tests local recovery from a
// malformed structured payload: no error, placeholder analysis.
func TestAnalyzeData_ParseFailureDowngrades(t *testing.T) {
	client := &fakeLLM{respond: func(llm.CompletionRequest) (string, error) {
		return "Sorry, I cannot produce JSON today.", nil
	}}
	p := newTestPipeline(t, client, &fakeSearcher{})
	s := strongState("Acme Corp")

	update, err := p.analyzeData(testStageCtx(p, StageAnalyze), s)

	require.NoError(t, err)
	require.NotNil(t, update.Analysis)
	assert.True(t, update.Analysis.Metrics.IsZero())
	assert.Equal(t, []string{"Error: could not parse analysis results"}, update.Analysis.Insights)
	assert.Equal(t, []string{"Error: failed to analyze data properly"}, update.Messages)
}

// TestAnalyzeData_VagueQualityNote tests the limited-data message when
// two or more metrics are vague.
func TestAnalyzeData_VagueQualityNote(t *testing.T) {
	client := &fakeLLM{respond: func(llm.CompletionRequest) (string, error) {
		return `{"revenue": "unknown", "profit": "not disclosed", "growth_rate": "8%",
			"key_insights": ["a"], "trends": []}`, nil
	}}
	p := newTestPipeline(t, client, &fakeSearcher{})
	s := strongState("Acme Corp")

	update, err := p.analyzeData(testStageCtx(p, StageAnalyze), s)

	require.NoError(t, err)
	assert.Contains(t, strings.Join(update.Messages, "; "), "limited data quality")
}
