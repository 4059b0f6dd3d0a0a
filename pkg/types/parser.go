package types

import "fmt"

// ParseResult represents the output of parsing one WGSL module
type ParseResult struct {
	Module *Wgsl

	// Recoverable conditions found while building the module
	Diagnostics Diagnostics
}

// DiagnosticCode classifies a recoverable condition
type DiagnosticCode string

const (
	CodeDuplicateDeclaration DiagnosticCode = "duplicate-declaration"
	CodeUnregisteredImport   DiagnosticCode = "unregistered-import"
	CodeDanglingDocs         DiagnosticCode = "dangling-docs"
	CodeDuplicateAsset       DiagnosticCode = "duplicate-asset"
)

// Diagnostic is a warning attached to a module position
type Diagnostic struct {
	Module  string
	Line    int
	Column  int
	Code    DiagnosticCode
	Message string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.Module, d.Line, d.Column, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Module, d.Code, d.Message)
}

// Diagnostics is an ordered list of warnings
type Diagnostics []Diagnostic

// Add appends a diagnostic
func (ds *Diagnostics) Add(module string, line, col int, code DiagnosticCode, format string, args ...any) {
	*ds = append(*ds, Diagnostic{
		Module:  module,
		Line:    line,
		Column:  col,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// ByCode returns the diagnostics carrying code
func (ds Diagnostics) ByCode(code DiagnosticCode) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// HasWarnings returns true if any diagnostic was recorded
func (ds Diagnostics) HasWarnings() bool {
	return len(ds) > 0
}
