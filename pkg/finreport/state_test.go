package finreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestApply_AppendsAccumulatingFields tests that RawData, DataSources,
// and Messages only grow.
func TestApply_AppendsAccumulatingFields(t *testing.T) {
	s := newState("r1", "Acme Corp", "")
	s = s.apply(StageCollect, Update{
		RawData:     []string{"chunk1"},
		DataSources: []string{"https://a"},
		Messages:    []string{"first"},
	})
	s = s.apply(StageCollect, Update{
		RawData:     []string{"chunk2", "chunk3"},
		DataSources: []string{"https://b"},
		Messages:    []string{"second"},
	})

	assert.Equal(t, []string{"chunk1", "chunk2", "chunk3"}, s.RawData)
	assert.Equal(t, []string{"https://a", "https://b"}, s.DataSources)
	assert.Equal(t, []string{"first", "second"}, s.Messages)
}

// TestApply_AnalysisReplacesWholesale tests that a new analysis replaces
// metrics, insights, and trends together.
func TestApply_AnalysisReplacesWholesale(t *testing.T) {
	s := newState("r1", "Acme Corp", "")
	s = s.apply(StageAnalyze, Update{Analysis: &Analysis{
		Metrics:  Metrics{Revenue: "$1B", Profit: "$0.2B", GrowthRate: "5%"},
		Insights: []string{"first insight"},
		Trends:   []string{"first trend"},
	}})
	s = s.apply(StageAnalyze, Update{Analysis: &Analysis{
		Metrics:  Metrics{Revenue: "$2B"},
		Insights: []string{"second insight"},
	}})

	assert.Equal(t, "$2B", s.Metrics.Revenue)
	assert.Empty(t, s.Metrics.Profit) // replaced, not merged
	assert.Equal(t, []string{"second insight"}, s.Insights)
	assert.Empty(t, s.Trends)
}

// TestApply_NilAnalysisLeavesFieldsUntouched tests that a stage with no
// analysis output does not clobber the existing one.
func TestApply_NilAnalysisLeavesFieldsUntouched(t *testing.T) {
	s := newState("r1", "Acme Corp", "")
	s = s.apply(StageAnalyze, Update{Analysis: &Analysis{
		Metrics: Metrics{Revenue: "$1B"},
	}})
	s = s.apply(StageWrite, Update{Messages: []string{"drafted"}})

	assert.Equal(t, "$1B", s.Metrics.Revenue)
}

// TestApply_ReportOverwrite tests that the report pointer overwrites,
// including with a deliberate empty string.
func TestApply_ReportOverwrite(t *testing.T) {
	s := newState("r1", "Acme Corp", "")
	draft := "draft text"
	s = s.apply(StageWrite, Update{Report: &draft})
	assert.Equal(t, "draft text", s.FinalReport)

	empty := ""
	s = s.apply(StageWrite, Update{Report: &empty})
	assert.Empty(t, s.FinalReport)

	s = s.apply(StageEdit, Update{})
	assert.Empty(t, s.FinalReport) // nil pointer leaves it alone
}

// TestApply_CountersBumpIndependently tests the two attempt counters.
func TestApply_CountersBumpIndependently(t *testing.T) {
	s := newState("r1", "Acme Corp", "")
	s = s.apply(StageRetryCollect, Update{BumpCollection: true})
	s = s.apply(StageRetryCollect, Update{BumpCollection: true})
	s = s.apply(StageRetryWrite, Update{BumpWriting: true})

	assert.Equal(t, 2, s.CollectionAttempts)
	assert.Equal(t, 1, s.WritingAttempts)
}

// TestApply_RecordsStage tests the observational stage tag.
func TestApply_RecordsStage(t *testing.T) {
	s := newState("r1", "Acme Corp", "")
	s = s.apply(StageCollect, Update{})
	assert.Equal(t, StageCollect, s.Stage)

	s = s.apply(StageAbandon, Update{})
	assert.Equal(t, StageAbandon, s.Stage)
}

// TestSearchSubject tests hint composition without subject mutation.
func TestSearchSubject(t *testing.T) {
	s := newState("r1", "Acme Corp", "")
	assert.Equal(t, "Acme Corp", s.SearchSubject())

	s = s.apply(StageRetryCollect, Update{SearchHint: searchHintSuffix})
	assert.Equal(t, "Acme Corp "+searchHintSuffix, s.SearchSubject())
	assert.Equal(t, "Acme Corp", s.Subject) // subject itself untouched
}

// TestCompanyToken tests the relevance probe derivation.
func TestCompanyToken(t *testing.T) {
	assert.Equal(t, "acme", newState("r1", "Acme Corp", "").CompanyToken())
	assert.Equal(t, "tesla", newState("r1", "Tesla", "").CompanyToken())
	assert.Empty(t, newState("r1", "   ", "").CompanyToken())
}

// TestNewState_TrimsInputs tests subject and focus normalization.
func TestNewState_TrimsInputs(t *testing.T) {
	s := newState("r1", "  Acme Corp  ", " margins ")
	assert.Equal(t, "Acme Corp", s.Subject)
	assert.Equal(t, "margins", s.AnalysisFocus)
	assert.Zero(t, s.CollectionAttempts)
	assert.Zero(t, s.WritingAttempts)
}
