package storage

import (
	"github.com/dshills/wgsldoc/pkg/types"
)

// symbolsOf flattens the module-level declarations of m
func symbolsOf(m *types.Wgsl) []Symbol {
	var out []Symbol
	add := func(kind types.SymbolKind, ordinal int, name, docs, signature string) {
		out = append(out, Symbol{
			Module:    m.ModuleName,
			Kind:      kind,
			Name:      name,
			Docs:      docs,
			Signature: signature,
			Ordinal:   ordinal,
		})
	}
	for i := range m.Imports {
		imp := &m.Imports[i]
		add(types.KindImport, i, imp.Name, imp.Docs, imp.Signature())
	}
	for i := range m.Constants {
		c := &m.Constants[i]
		add(types.KindConstant, i, c.Name, c.Docs, c.Signature())
	}
	for i := range m.Bindings {
		b := &m.Bindings[i]
		add(types.KindBinding, i, b.Name, b.Docs, b.Signature())
	}
	for i := range m.Structures {
		st := &m.Structures[i]
		add(types.KindStructure, i, st.Name, st.Docs, st.Signature())
	}
	for i := range m.Functions {
		fn := &m.Functions[i]
		add(types.KindFunction, i, fn.Name, fn.Docs, fn.Signature())
	}
	return out
}

// typeRefsOf lists every path type of m with the declaration that holds it
func typeRefsOf(m *types.Wgsl) []TypeRef {
	var out []TypeRef
	add := func(owner string, p *types.PathType) {
		if p == nil {
			return
		}
		origin := p.Resolution()
		alias, _ := origin.Alias()
		out = append(out, TypeRef{
			Module:    m.ModuleName,
			Owner:     owner,
			Qualifier: p.Module,
			Name:      p.Name,
			Origin:    origin.Kind(),
			Alias:     alias,
		})
	}
	for _, b := range m.Bindings {
		add(b.Name, types.PathOf(b.Type))
	}
	for _, c := range m.Constants {
		add(c.Name, types.PathOf(c.Type))
	}
	for _, st := range m.Structures {
		for _, f := range st.Fields {
			add(st.Name+"."+f.Name, types.PathOf(f.Type))
		}
	}
	for _, fn := range m.Functions {
		for _, a := range fn.Args {
			add(fn.Name+"("+a.Name+")", types.FunctionPathOf(a.Type))
		}
		add(fn.Name+" -> return", types.PathOf(fn.Return))
	}
	return out
}
