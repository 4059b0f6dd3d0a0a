package resolver

import (
	"github.com/dshills/wgsldoc/pkg/types"
)

// Registry answers whether an import path names a file of the document
type Registry interface {
	HasSuffix(importPath string) bool
}

// Roster is the set of structure names declared in one module.
// Only structures can resolve to This.
type Roster map[string]struct{}

// NewRoster collects the structure names of module
func NewRoster(module *types.Wgsl) Roster {
	r := make(Roster, len(module.Structures))
	for _, st := range module.Structures {
		r[st.Name] = struct{}{}
	}
	return r
}

// Contains reports whether name is a structure of the module
func (r Roster) Contains(name string) bool {
	_, ok := r[name]
	return ok
}

// Resolve registers the imports of module against registry, then resolves
// every path type it declares. It never fails; unmatched references stay
// Undefined and unmatched imports are reported.
func Resolve(module *types.Wgsl, registry Registry) types.Diagnostics {
	diags := RegisterImports(module, registry)
	ResolveModule(module)
	return diags
}

// RegisterImports marks the imports whose path matches a registry entry
func RegisterImports(module *types.Wgsl, registry Registry) types.Diagnostics {
	var diags types.Diagnostics
	for i := range module.Imports {
		imp := &module.Imports[i]
		if imp.Registered() {
			continue
		}
		if registry.HasSuffix(imp.Path) {
			imp.MarkRegistered()
			continue
		}
		diags.Add(module.ModuleName, 0, 0, types.CodeUnregisteredImport,
			"import `%s` (%s) does not match any input file", imp.Name, imp.Path)
	}
	return diags
}

// ResolveModule resolves every path type of module using its registered
// imports and its structure roster
func ResolveModule(module *types.Wgsl) {
	roster := NewRoster(module)
	for _, p := range module.PathTypes() {
		ResolvePath(p, module.Imports, roster)
	}
}

// ResolvePath applies the resolution order to one path type: a qualifier
// naming a registered import wins, then a same-module structure name.
// Already resolved path types are left untouched.
func ResolvePath(p *types.PathType, imports []types.Import, roster Roster) {
	if !p.Resolution().IsUndefined() {
		return
	}
	if p.Module != "" {
		for i := range imports {
			if imports[i].Name == p.Module && imports[i].Registered() {
				p.ResolveNamed(imports[i].Name)
				return
			}
		}
	}
	if roster.Contains(p.Name) {
		p.ResolveThis()
	}
}
