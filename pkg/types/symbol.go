package types

import (
	"path"
	"strings"
)

// SymbolKind represents the kind of a module-level declaration
type SymbolKind string

const (
	KindImport    SymbolKind = "import"
	KindFunction  SymbolKind = "function"
	KindStructure SymbolKind = "structure"
	KindConstant  SymbolKind = "constant"
	KindBinding   SymbolKind = "binding"
)

// ValidateKind checks if the symbol kind is valid
func ValidateKind(k SymbolKind) error {
	switch k {
	case KindImport, KindFunction, KindStructure, KindConstant, KindBinding:
		return nil
	default:
		return ErrInvalidSymbolKind
	}
}

// Import represents `#import path as Name`
type Import struct {
	Docs       string
	Path       string // Relative file path as written
	Name       string // Alias used in qualified references
	ModuleName string // File stem of Path

	registered bool
}

// NewImport creates an unregistered import, deriving ModuleName from the path
func NewImport(docs, importPath, name string) Import {
	return Import{
		Docs:       docs,
		Path:       importPath,
		Name:       name,
		ModuleName: ModuleNameOf(importPath),
	}
}

// Registered reports whether the import path matched a file of the document
func (i *Import) Registered() bool { return i.registered }

// MarkRegistered records a registry match. It never clears the flag.
func (i *Import) MarkRegistered() { i.registered = true }

// ModuleNameOf returns the file stem of a slash or backslash separated path
func ModuleNameOf(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if dot := strings.LastIndexByte(base, '.'); dot > 0 {
		return base[:dot]
	}
	return base
}

// Arg is a function parameter
type Arg struct {
	Docs string
	Name string
	Type FunctionType
}

// Function represents a `fn` declaration. The body is not modelled.
type Function struct {
	Docs   string
	Name   string
	Stage  string // vertex, fragment or compute for entry points
	Args   []Arg
	Return Type // nil when the function returns nothing
}

// Field is a structure member
type Field struct {
	Docs string
	Name string
	Type Type
}

// Structure represents a `struct` declaration
type Structure struct {
	Docs   string
	Name   string
	Fields []Field
}

// Constant represents `const NAME[: T] = value`
type Constant struct {
	Docs  string
	Name  string
	Type  Type   // nil when the type is inferred
	Value string // Raw expression text
}

// Binding represents a module-scope `var`, usually a resource bound with @group/@binding
type Binding struct {
	Docs         string
	AttrGroup    uint16
	AttrBinding  uint16
	AddressSpace string // uniform, storage, private, workgroup or empty
	AccessMode   string // read, write, read_write or empty
	Name         string
	Type         Type
}

// Wgsl is one parsed module
type Wgsl struct {
	ModuleName string
	SourceCode string
	GlobalDocs string

	Imports    []Import
	Functions  []Function
	Structures []Structure
	Constants  []Constant
	Bindings   []Binding
}

// Validate checks the fields every module must carry
func (w *Wgsl) Validate() error {
	if w.ModuleName == "" {
		return ErrNoModuleName
	}
	return nil
}

// IsEmpty returns true if the module declares nothing
func (w *Wgsl) IsEmpty() bool {
	return len(w.Imports) == 0 && len(w.Functions) == 0 && len(w.Structures) == 0 &&
		len(w.Constants) == 0 && len(w.Bindings) == 0
}

// Function looks up a function by name
func (w *Wgsl) Function(name string) (*Function, bool) {
	for i := range w.Functions {
		if w.Functions[i].Name == name {
			return &w.Functions[i], true
		}
	}
	return nil, false
}

// Structure looks up a structure by name
func (w *Wgsl) Structure(name string) (*Structure, bool) {
	for i := range w.Structures {
		if w.Structures[i].Name == name {
			return &w.Structures[i], true
		}
	}
	return nil, false
}

// Import looks up an import by alias
func (w *Wgsl) Import(name string) (*Import, bool) {
	for i := range w.Imports {
		if w.Imports[i].Name == name {
			return &w.Imports[i], true
		}
	}
	return nil, false
}

// PathTypes returns every path type occurrence in declaration order:
// bindings, constants, structure fields, function arguments and returns.
func (w *Wgsl) PathTypes() []*PathType {
	var out []*PathType
	add := func(p *PathType) {
		if p != nil {
			out = append(out, p)
		}
	}
	for i := range w.Bindings {
		add(PathOf(w.Bindings[i].Type))
	}
	for i := range w.Constants {
		add(PathOf(w.Constants[i].Type))
	}
	for i := range w.Structures {
		for j := range w.Structures[i].Fields {
			add(PathOf(w.Structures[i].Fields[j].Type))
		}
	}
	for i := range w.Functions {
		fn := &w.Functions[i]
		for j := range fn.Args {
			add(FunctionPathOf(fn.Args[j].Type))
		}
		add(PathOf(fn.Return))
	}
	return out
}

// Clone deep-copies the module, including all path types
func (w *Wgsl) Clone() *Wgsl {
	cp := *w
	cp.Imports = cloneSlice(w.Imports)

	cp.Functions = cloneSlice(w.Functions)
	for i, fn := range w.Functions {
		fn.Args = cloneSlice(fn.Args)
		for j := range fn.Args {
			fn.Args[j].Type = CloneFunctionType(fn.Args[j].Type)
		}
		fn.Return = CloneType(fn.Return)
		cp.Functions[i] = fn
	}

	cp.Structures = cloneSlice(w.Structures)
	for i, st := range w.Structures {
		st.Fields = cloneSlice(st.Fields)
		for j := range st.Fields {
			st.Fields[j].Type = CloneType(st.Fields[j].Type)
		}
		cp.Structures[i] = st
	}

	cp.Constants = cloneSlice(w.Constants)
	for i, c := range w.Constants {
		c.Type = CloneType(c.Type)
		cp.Constants[i] = c
	}

	cp.Bindings = cloneSlice(w.Bindings)
	for i, b := range w.Bindings {
		b.Type = CloneType(b.Type)
		cp.Bindings[i] = b
	}
	return &cp
}

// cloneSlice copies s, keeping nil as nil
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
