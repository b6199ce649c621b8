package finreport

import "strings"

// Metrics holds the three named financial metrics the analyst extracts.
// Values are free-form strings; a metric the LLM could not find carries a
// vague marker such as "unknown".
type Metrics struct {
	Revenue    string `json:"revenue"`
	Profit     string `json:"profit"`
	GrowthRate string `json:"growth_rate"`
}

// IsZero reports whether no metric was extracted.
func (m Metrics) IsZero() bool {
	return m == Metrics{}
}

// Analysis is the structured result of one analyst run. The three fields
// always replace their predecessors together: State keeps only the most
// recent analysis, never a history.
type Analysis struct {
	Metrics  Metrics
	Insights []string
	Trends   []string
}

// State is the single record threaded through every stage of a run.
//
// Fields grow or change under fixed merge rules enforced by apply:
// RawData, DataSources, and Messages only ever append within a run;
// Metrics, Insights, and Trends are replaced wholesale by each analyst
// pass; FinalReport is overwritten by the writer, then the editor; the
// two attempt counters are bumped only by their dedicated retry handlers.
type State struct {
	// RunID identifies the run for logs and persistence.
	RunID string `json:"run_id"`

	// Subject is the company name or query as given by the caller.
	// It is never mutated by the pipeline.
	Subject string `json:"subject"`

	// SearchHint carries extra search terms appended by the collection
	// retry handler. Empty on the first attempt.
	SearchHint string `json:"search_hint,omitempty"`

	// AnalysisFocus is an optional user-supplied narrowing hint.
	AnalysisFocus string `json:"analysis_focus,omitempty"`

	// RawData accumulates text chunks from search results.
	RawData []string `json:"raw_data"`

	// DataSources accumulates result URLs. It grows alongside RawData but
	// is not positionally aligned with it.
	DataSources []string `json:"data_sources"`

	Metrics  Metrics  `json:"key_metrics"`
	Insights []string `json:"insights"`
	Trends   []string `json:"trends"`

	// FinalReport is the draft after the writer, the polished report
	// after the editor, or the disclaimer on the early-exit path.
	FinalReport string `json:"final_report"`

	// Stage records the last stage that executed. Observational only;
	// routing never reads it.
	Stage Stage `json:"stage"`

	// Messages is the append-only human-readable log, in emission order.
	Messages []string `json:"messages"`

	// CollectionAttempts counts traversals of the collection retry edge.
	CollectionAttempts int `json:"data_collection_attempts"`

	// WritingAttempts counts traversals of the writing retry edge.
	WritingAttempts int `json:"writing_attempts"`
}

// newState builds the initial state for a run: accumulating fields empty,
// counters zero.
func newState(runID, subject, focus string) State {
	return State{
		RunID:         runID,
		Subject:       strings.TrimSpace(subject),
		AnalysisFocus: strings.TrimSpace(focus),
	}
}

// CompanyToken returns the first whitespace-delimited token of the
// subject, lowercased. It is the relevance probe used by the collector
// and the analysis gate.
func (s State) CompanyToken() string {
	fields := strings.Fields(s.Subject)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// SearchSubject returns the subject enriched with any retry search hint.
// This is what the collector feeds into query generation.
func (s State) SearchSubject() string {
	if s.SearchHint == "" {
		return s.Subject
	}
	return s.Subject + " " + s.SearchHint
}

// Update is the partial state produced by one stage. Zero-valued fields
// leave the corresponding State field untouched.
type Update struct {
	// RawData, DataSources, and Messages are appended in order.
	RawData     []string
	DataSources []string
	Messages    []string

	// Analysis, when non-nil, replaces Metrics, Insights, and Trends
	// wholesale.
	Analysis *Analysis

	// Report, when non-nil, overwrites FinalReport (an empty string is a
	// deliberate overwrite, hence the pointer).
	Report *string

	// SearchHint, when non-empty, overwrites the hint.
	SearchHint string

	// BumpCollection and BumpWriting increment their attempt counters.
	// Only the retry handlers set these.
	BumpCollection bool
	BumpWriting    bool
}

// apply merges an update into the state and records the stage that
// produced it. State is a value type, so callers get a fresh copy; the
// slices are re-sliced via append which never aliases a shorter backing
// array across runs because every run starts from newState.
func (s State) apply(stage Stage, u Update) State {
	s.Stage = stage

	s.RawData = append(s.RawData, u.RawData...)
	s.DataSources = append(s.DataSources, u.DataSources...)
	s.Messages = append(s.Messages, u.Messages...)

	if u.Analysis != nil {
		s.Metrics = u.Analysis.Metrics
		s.Insights = u.Analysis.Insights
		s.Trends = u.Analysis.Trends
	}

	if u.Report != nil {
		s.FinalReport = *u.Report
	}

	if u.SearchHint != "" {
		s.SearchHint = u.SearchHint
	}

	if u.BumpCollection {
		s.CollectionAttempts++
	}
	if u.BumpWriting {
		s.WritingAttempts++
	}

	return s
}
