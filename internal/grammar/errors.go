package grammar

import (
	"fmt"
	"strings"

	"github.com/dshills/wgsldoc/pkg/types"
)

// SyntaxError reports input that does not match the grammar
type SyntaxError struct {
	Message string
	Offset  int
	Line    int
	Column  int
	Source  string // Original source code (for context display)
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return "syntax error: " + e.Message
	}
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// Unwrap returns types.ErrSyntax
func (e *SyntaxError) Unwrap() error {
	return types.ErrSyntax
}

// FormatWithContext returns the error message with the offending line and a caret
func (e *SyntaxError) FormatWithContext() string {
	if e.Source == "" || e.Line == 0 {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line < 1 || e.Line > len(lines) {
		return e.Error()
	}

	line := strings.TrimSuffix(lines[e.Line-1], "\r")
	col := e.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", e.Line, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", e.Line, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))
	return sb.String()
}
