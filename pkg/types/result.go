package types

// SearchResult represents a single symbol search hit with relevance information
type SearchResult struct {
	// Identification
	SymbolID int64
	Rank     int // Position in result set (1-based)

	// Scoring
	RelevanceScore float64 // Normalized BM25 score

	// Metadata
	Module  string
	Kind    SymbolKind
	Name    string
	Docs    string
	Snippet string // Matched docs excerpt with the query terms marked
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.SymbolID == 0 {
		return ErrInvalidSymbolID
	}

	if sr.Rank < 1 {
		return ErrInvalidRank
	}

	if sr.RelevanceScore < 0 || sr.RelevanceScore > 1 {
		return ErrInvalidRelevanceScore
	}

	if sr.Module == "" {
		return ErrNoModuleName
	}

	return ValidateKind(sr.Kind)
}
