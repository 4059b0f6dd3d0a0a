package storage

import (
	"math"
	"strings"
	"unicode"
)

// ftsMatchQuery turns free text into an FTS5 MATCH expression. Each term is
// quoted so FTS5 operators in user input are matched literally; a trailing
// * is kept as a prefix marker.
func ftsMatchQuery(query string) string {
	var terms []string
	for _, field := range strings.Fields(query) {
		prefix := strings.HasSuffix(field, "*")
		term := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
		})
		if term == "" {
			continue
		}
		term = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
		if prefix {
			term += "*"
		}
		terms = append(terms, term)
	}
	return strings.Join(terms, " ")
}

// normalizeBM25 converts a BM25 score (negative, lower is better) into (0, 1].
// BM25 scores are typically in range [-50, 0].
func normalizeBM25(score float64) float64 {
	return 1.0 / (1.0 + math.Abs(score)/50.0)
}
