package types

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Parse errors
	ErrSyntax           = errors.New("syntax error")
	ErrGrammarMismatch  = errors.New("grammar mismatch")
	ErrInvalidPrimitive = errors.New("invalid primitive")
	ErrInvalidVector    = errors.New("invalid vector dimension")

	// Document lifecycle errors
	ErrAlreadyRegistered = errors.New("document already registered")
	ErrNoModuleName      = errors.New("module name is required")

	// Model errors
	ErrInvalidSymbolKind = errors.New("invalid symbol kind")

	// Search result errors
	ErrInvalidSymbolID       = errors.New("invalid symbol ID")
	ErrInvalidRank           = errors.New("rank must be >= 1")
	ErrInvalidRelevanceScore = errors.New("relevance score must be between 0 and 1")
)

// GrammarMismatchError reports a parse tree node of an unexpected rule.
// It indicates a bug in the grammar/builder pairing, not bad input.
type GrammarMismatchError struct {
	Expected string
	Got      string
}

func (e *GrammarMismatchError) Error() string {
	return fmt.Sprintf("grammar mismatch: expected %s, got %s", e.Expected, e.Got)
}

// Unwrap returns ErrGrammarMismatch
func (e *GrammarMismatchError) Unwrap() error {
	return ErrGrammarMismatch
}

// InvalidLiteralError reports a token in a primitive or vector slot that names no known kind
type InvalidLiteralError struct {
	Kind    error // ErrInvalidPrimitive or ErrInvalidVector
	Literal string
}

func (e *InvalidLiteralError) Error() string {
	return fmt.Sprintf("%v: %q", e.Kind, e.Literal)
}

// Unwrap returns the literal kind
func (e *InvalidLiteralError) Unwrap() error {
	return e.Kind
}
