package document

import (
	"fmt"

	"github.com/dshills/wgsldoc/pkg/types"
)

// UndocumentedKind names the item kinds the report covers
type UndocumentedKind string

const (
	UndocumentedModule    UndocumentedKind = "module"
	UndocumentedFunction  UndocumentedKind = "function"
	UndocumentedArgument  UndocumentedKind = "argument"
	UndocumentedStructure UndocumentedKind = "structure"
	UndocumentedField     UndocumentedKind = "field"
	UndocumentedImport    UndocumentedKind = "import"
	UndocumentedConstant  UndocumentedKind = "constant"
	UndocumentedBinding   UndocumentedKind = "binding"
)

// Undocumented is one item without documentation
type Undocumented struct {
	Module string
	Kind   UndocumentedKind
	Name   string
	Parent string // Owning function or structure for arguments and fields
}

func (u Undocumented) String() string {
	switch {
	case u.Kind == UndocumentedModule:
		return fmt.Sprintf("module %s has no documentation", u.Module)
	case u.Parent != "":
		return fmt.Sprintf("%s %s of %s in module %s has no documentation", u.Kind, u.Name, u.Parent, u.Module)
	default:
		return fmt.Sprintf("%s %s in module %s has no documentation", u.Kind, u.Name, u.Module)
	}
}

// Undocumented lists the items of every module that carry no documentation,
// module by module in declaration order
func (r *RegisteredDocument) Undocumented() []Undocumented {
	var out []Undocumented
	for _, m := range r.modules {
		out = append(out, undocumentedIn(m)...)
	}
	return out
}

func undocumentedIn(m *types.Wgsl) []Undocumented {
	var out []Undocumented
	add := func(kind UndocumentedKind, name, parent, docs string) {
		if docs == "" {
			out = append(out, Undocumented{Module: m.ModuleName, Kind: kind, Name: name, Parent: parent})
		}
	}

	add(UndocumentedModule, m.ModuleName, "", m.GlobalDocs)
	for _, fn := range m.Functions {
		add(UndocumentedFunction, fn.Name, "", fn.Docs)
		for _, a := range fn.Args {
			add(UndocumentedArgument, a.Name, fn.Name, a.Docs)
		}
	}
	for _, st := range m.Structures {
		add(UndocumentedStructure, st.Name, "", st.Docs)
		for _, f := range st.Fields {
			add(UndocumentedField, f.Name, st.Name, f.Docs)
		}
	}
	for _, imp := range m.Imports {
		add(UndocumentedImport, imp.Name, "", imp.Docs)
	}
	for _, c := range m.Constants {
		add(UndocumentedConstant, c.Name, "", c.Docs)
	}
	for _, b := range m.Bindings {
		add(UndocumentedBinding, b.Name, "", b.Docs)
	}
	return out
}
