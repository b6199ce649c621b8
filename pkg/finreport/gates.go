package finreport

import (
	"fmt"
	"regexp"
	"strings"
)

// Analysis gate thresholds.
const (
	minInsights        = 3
	minTrends          = 3
	minRawChunks       = 5
	minRawChars        = 2000
	minCompanyChunks   = 2
	genericInsightChar = 30
)

// Report gate thresholds.
const (
	minReportChars    = 3000
	maxVagueTermHits  = 5
	minCompanyHits    = 10
	minNumericTokens  = 5
	minNonEmptyReport = 500

	// The banner mentions the company, so that many hits are discounted
	// before the mention check.
	bannerMentionOffset = 2
)

// requiredSections are the section headers every report must carry,
// matched as verbatim substrings.
var requiredSections = []string{
	"Executive Summary",
	"Company Overview",
	"Financial Performance",
	"Market Position",
	"Key Insights",
	"Conclusion",
}

// numericTokenRe matches currency amounts ($1,234.5B) and percentages
// (12.3%), the quantitative tokens a substantive report should carry.
var numericTokenRe = regexp.MustCompile(`\$[\d,]+\.?\d*[BMK]?|\d+\.?\d*%`)

// CheckAnalysisQuality is the three-way gate evaluated after every
// analyst pass. It is a pure function of the state and the retry
// ceiling: the same inputs always produce the same verdict.
//
// Seven independent checks contribute to the issues list; any issue
// routes a collection retry while attempts remain, and forces
// abandonment once the ceiling is reached.
func CheckAnalysisQuality(s State, retryCeiling int) (AnalysisVerdict, []string) {
	var issues []string

	if vague := countVagueMetrics(s.Metrics); vague >= 2 {
		issues = append(issues, fmt.Sprintf("too many vague/unknown metrics: %d/3", vague))
	}

	if len(s.Insights) < minInsights {
		issues = append(issues, fmt.Sprintf("insufficient insights: %d (need at least %d)", len(s.Insights), minInsights))
	}

	generic := 0
	for _, insight := range s.Insights {
		if len(insight) < genericInsightChar {
			generic++
		}
	}
	if generic*2 > len(s.Insights) {
		issues = append(issues, fmt.Sprintf("insights too generic/short: %d/%d", generic, len(s.Insights)))
	}

	if len(s.Trends) < minTrends {
		issues = append(issues, fmt.Sprintf("insufficient trends: %d (need at least %d)", len(s.Trends), minTrends))
	}

	if len(s.RawData) < minRawChunks {
		issues = append(issues, fmt.Sprintf("insufficient raw data: %d chunks (need at least %d)", len(s.RawData), minRawChunks))
	}

	totalChars := 0
	for _, chunk := range s.RawData {
		totalChars += len(chunk)
	}
	if totalChars < minRawChars {
		issues = append(issues, fmt.Sprintf("raw data too short: %d chars (need at least %d)", totalChars, minRawChars))
	}

	if mentions := relevantChunks(s.RawData, s.CompanyToken()); mentions < minCompanyChunks {
		issues = append(issues, fmt.Sprintf("company barely mentioned in data: %d times", mentions))
	}

	switch {
	case len(issues) > 0 && s.CollectionAttempts < retryCeiling:
		return CollectMoreData, issues
	case len(issues) > 0:
		return InsufficientData, issues
	default:
		return ProceedToWriter, nil
	}
}

// CheckReportQuality is the two-way gate evaluated after every editor
// pass, a pure function of the report text and the writing attempt
// count. Issues route a writing retry while attempts remain; at the
// ceiling the report finalizes anyway as degraded output.
func CheckReportQuality(s State, retryCeiling int) (ReportVerdict, []string) {
	report := s.FinalReport
	reportLower := strings.ToLower(report)

	var issues []string

	if len(report) < minReportChars {
		issues = append(issues, fmt.Sprintf("report too short: %d chars (minimum %d)", len(report), minReportChars))
	}

	var missing []string
	for _, section := range requiredSections {
		if !strings.Contains(report, section) {
			missing = append(missing, section)
		}
	}
	if len(missing) > 0 {
		issues = append(issues, "missing sections: "+strings.Join(missing, ", "))
	}

	vagueHits := 0
	for _, term := range vagueTerms {
		vagueHits += strings.Count(reportLower, term)
	}
	if vagueHits > maxVagueTermHits {
		issues = append(issues, fmt.Sprintf("too many vague terms: %d instances", vagueHits))
	}

	base := strings.ToLower(cleanCompanyName(s.Subject))
	if i := strings.IndexByte(base, ' '); i >= 0 {
		base = base[:i]
	}
	mentions := 0
	if base != "" {
		mentions = strings.Count(reportLower, base) +
			strings.Count(reportLower, base+"'s") +
			strings.Count(reportLower, base+" inc")
		mentions = max(0, mentions-bannerMentionOffset)
	}
	if mentions < minCompanyHits {
		issues = append(issues, fmt.Sprintf("company barely discussed: mentioned only %d times", mentions))
	}

	if numbers := len(numericTokenRe.FindAllString(report, -1)); numbers < minNumericTokens {
		issues = append(issues, fmt.Sprintf("lacks specific data points: only %d quantitative metrics", numbers))
	}

	if len(strings.TrimSpace(report)) < minNonEmptyReport {
		issues = append(issues, "report is essentially empty")
	}

	switch {
	case len(issues) > 0 && s.WritingAttempts < retryCeiling:
		return ReviseReport, issues
	default:
		return FinalizeReport, issues
	}
}
