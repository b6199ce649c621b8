package finreport

import "strings"

// searchNoiseWords are generic financial-report search terms. A subject
// like "Acme financial report" carries them as query padding, not as part
// of the company name, so name extraction stops at the first one.
var searchNoiseWords = map[string]bool{
	"financial": true,
	"report":    true,
	"earnings":  true,
	"revenue":   true,
	"profit":    true,
	"quarterly": true,
	"results":   true,
}

// cleanCompanyName extracts the company name from a subject: leading
// tokens up to (excluding) the first noise word, falling back to the
// first token when the subject starts with one. Deterministic and
// idempotent for a given subject.
func cleanCompanyName(subject string) string {
	words := strings.Fields(subject)
	if len(words) == 0 {
		return ""
	}

	var parts []string
	for _, word := range words {
		if searchNoiseWords[strings.ToLower(word)] {
			break
		}
		parts = append(parts, word)
	}

	if len(parts) == 0 {
		return words[0]
	}
	return strings.Join(parts, " ")
}
