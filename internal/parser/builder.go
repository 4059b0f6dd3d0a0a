package parser

import (
	"strings"

	"github.com/dshills/wgsldoc/internal/grammar"
	"github.com/dshills/wgsldoc/pkg/types"
)

// builder turns a RuleShader tree into a types.Wgsl
type builder struct {
	module string
	diags  types.Diagnostics
}

// nameSet tracks declared names for first-wins deduplication
type nameSet map[string]struct{}

func (s nameSet) claim(name string) bool {
	if _, ok := s[name]; ok {
		return false
	}
	s[name] = struct{}{}
	return true
}

func (b *builder) shader(n *grammar.Node) (*types.Wgsl, error) {
	if err := expectRule(n, grammar.RuleShader); err != nil {
		return nil, err
	}

	w := &types.Wgsl{ModuleName: b.module}
	var global docAccumulator
	seen := map[types.SymbolKind]nameSet{
		types.KindImport:    {},
		types.KindConstant:  {},
		types.KindBinding:   {},
		types.KindStructure: {},
		types.KindFunction:  {},
	}
	keep := func(kind types.SymbolKind, name string, at *grammar.Node) bool {
		if seen[kind].claim(name) {
			return true
		}
		b.warn(at, types.CodeDuplicateDeclaration, "duplicate %s `%s` ignored, the first declaration is kept", kind, name)
		return false
	}

	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleGlobalDocs:
			global.addLines(c)
		case grammar.RuleDocs:
			b.warn(c, types.CodeDanglingDocs, "doc comment is not attached to a declaration")
		case grammar.RuleBuiltinImport:
			// Accepted for compatibility, nothing is modelled.
		case grammar.RuleImport:
			imp, err := b.importDecl(c)
			if err != nil {
				return nil, err
			}
			if keep(types.KindImport, imp.Name, c) {
				w.Imports = append(w.Imports, imp)
			}
		case grammar.RuleConst:
			cst, err := b.constant(c)
			if err != nil {
				return nil, err
			}
			if keep(types.KindConstant, cst.Name, c) {
				w.Constants = append(w.Constants, cst)
			}
		case grammar.RuleBinding:
			bnd, err := b.binding(c)
			if err != nil {
				return nil, err
			}
			if keep(types.KindBinding, bnd.Name, c) {
				w.Bindings = append(w.Bindings, bnd)
			}
		case grammar.RuleStructure:
			st, err := b.structure(c)
			if err != nil {
				return nil, err
			}
			if keep(types.KindStructure, st.Name, c) {
				w.Structures = append(w.Structures, st)
			}
		case grammar.RuleFunction:
			fn, err := b.function(c)
			if err != nil {
				return nil, err
			}
			if keep(types.KindFunction, fn.Name, c) {
				w.Functions = append(w.Functions, fn)
			}
		default:
			return nil, mismatch("declaration", c)
		}
	}

	w.GlobalDocs = global.String()
	return w, nil
}

func (b *builder) importDecl(n *grammar.Node) (types.Import, error) {
	if err := expectRule(n, grammar.RuleImport); err != nil {
		return types.Import{}, err
	}
	var docs, path, alias string
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleDocs:
			docs = docsOf(c)
		case grammar.RuleImportPath:
			path = c.Text
		case grammar.RuleIdent:
			alias = c.Text
		default:
			return types.Import{}, mismatch("import part", c)
		}
	}
	return types.NewImport(docs, path, alias), nil
}

func (b *builder) constant(n *grammar.Node) (types.Constant, error) {
	if err := expectRule(n, grammar.RuleConst); err != nil {
		return types.Constant{}, err
	}
	var cst types.Constant
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleDocs:
			cst.Docs = docsOf(c)
		case grammar.RuleIdent:
			cst.Name = c.Text
		case grammar.RuleType:
			t, err := buildType(c)
			if err != nil {
				return types.Constant{}, err
			}
			cst.Type = t
		case grammar.RuleConstValue:
			cst.Value = c.Text
		default:
			return types.Constant{}, mismatch("constant part", c)
		}
	}
	return cst, nil
}

func (b *builder) binding(n *grammar.Node) (types.Binding, error) {
	if err := expectRule(n, grammar.RuleBinding); err != nil {
		return types.Binding{}, err
	}
	bnd := types.Binding{Type: types.DefaultType()}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleDocs:
			bnd.Docs = docsOf(c)
		case grammar.RuleAttribute:
			name, args := attribute(c)
			switch name {
			case "group":
				bnd.AttrGroup = attributeUint16(args)
			case "binding":
				bnd.AttrBinding = attributeUint16(args)
			}
		case grammar.RuleAddressSpace:
			bnd.AddressSpace = c.Text
		case grammar.RuleAccessMode:
			bnd.AccessMode = c.Text
		case grammar.RuleIdent:
			bnd.Name = c.Text
		case grammar.RuleType:
			t, err := buildType(c)
			if err != nil {
				return types.Binding{}, err
			}
			bnd.Type = t
		case grammar.RuleConstValue:
			// Initializers of private variables are not documented.
		default:
			return types.Binding{}, mismatch("binding part", c)
		}
	}
	return bnd, nil
}

func (b *builder) structure(n *grammar.Node) (types.Structure, error) {
	if err := expectRule(n, grammar.RuleStructure); err != nil {
		return types.Structure{}, err
	}
	var st types.Structure
	fields := nameSet{}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleDocs:
			if st.Name == "" {
				st.Docs = docsOf(c)
			} else {
				b.warn(c, types.CodeDanglingDocs, "doc comment in structure `%s` is not attached to a field", st.Name)
			}
		case grammar.RuleIdent:
			st.Name = c.Text
		case grammar.RuleField:
			f, err := b.field(c)
			if err != nil {
				return types.Structure{}, err
			}
			if !fields.claim(f.Name) {
				b.warn(c, types.CodeDuplicateDeclaration, "duplicate field `%s` in structure `%s` ignored", f.Name, st.Name)
				continue
			}
			st.Fields = append(st.Fields, f)
		default:
			return types.Structure{}, mismatch("structure part", c)
		}
	}
	return st, nil
}

func (b *builder) field(n *grammar.Node) (types.Field, error) {
	f := types.Field{Type: types.DefaultType()}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleDocs:
			f.Docs = docsOf(c)
		case grammar.RuleAttribute:
		case grammar.RuleIdent:
			f.Name = c.Text
		case grammar.RuleType:
			t, err := buildType(c)
			if err != nil {
				return types.Field{}, err
			}
			f.Type = t
		default:
			return types.Field{}, mismatch("field part", c)
		}
	}
	return f, nil
}

func (b *builder) function(n *grammar.Node) (types.Function, error) {
	if err := expectRule(n, grammar.RuleFunction); err != nil {
		return types.Function{}, err
	}
	var fn types.Function
	args := nameSet{}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleDocs:
			if fn.Name == "" {
				fn.Docs = docsOf(c)
			} else {
				b.warn(c, types.CodeDanglingDocs, "doc comment in function `%s` is not attached to a parameter", fn.Name)
			}
		case grammar.RuleAttribute:
			if name, _ := attribute(c); isStage(name) {
				fn.Stage = name
			}
		case grammar.RuleIdent:
			fn.Name = c.Text
		case grammar.RuleArg:
			a, err := b.arg(c)
			if err != nil {
				return types.Function{}, err
			}
			if !args.claim(a.Name) {
				b.warn(c, types.CodeDuplicateDeclaration, "duplicate parameter `%s` in function `%s` ignored", a.Name, fn.Name)
				continue
			}
			fn.Args = append(fn.Args, a)
		case grammar.RuleReturn:
			t := c.Child(grammar.RuleType)
			if t == nil {
				return types.Function{}, mismatch("return type", c)
			}
			ret, err := buildType(t)
			if err != nil {
				return types.Function{}, err
			}
			fn.Return = ret
		case grammar.RuleBody:
		default:
			return types.Function{}, mismatch("function part", c)
		}
	}
	return fn, nil
}

func (b *builder) arg(n *grammar.Node) (types.Arg, error) {
	a := types.Arg{Type: types.DefaultType().(types.FunctionType)}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleDocs:
			a.Docs = docsOf(c)
		case grammar.RuleAttribute:
		case grammar.RuleIdent:
			a.Name = c.Text
		case grammar.RuleFunctionType:
			t, err := buildFunctionType(c)
			if err != nil {
				return types.Arg{}, err
			}
			a.Type = t
		default:
			return types.Arg{}, mismatch("parameter part", c)
		}
	}
	return a, nil
}

func (b *builder) warn(at *grammar.Node, code types.DiagnosticCode, format string, args ...any) {
	b.diags.Add(b.module, at.Span.Line, at.Span.Column, code, format, args...)
}

// docAccumulator joins doc lines with "\n", skipping leading blank lines.
// Trailing blank lines are dropped and an all-blank block is no documentation.
type docAccumulator struct {
	sb strings.Builder
}

func (d *docAccumulator) addLines(n *grammar.Node) {
	for _, line := range n.Children {
		if d.sb.Len() > 0 {
			d.sb.WriteByte('\n')
		}
		d.sb.WriteString(line.Text)
	}
}

func (d *docAccumulator) String() string {
	return strings.TrimRight(d.sb.String(), "\n")
}

func docsOf(n *grammar.Node) string {
	var acc docAccumulator
	acc.addLines(n)
	return acc.String()
}

func expectRule(n *grammar.Node, rule grammar.Rule) error {
	if n == nil {
		return &types.GrammarMismatchError{Expected: rule.String(), Got: "nothing"}
	}
	if n.Rule != rule {
		return &types.GrammarMismatchError{Expected: rule.String(), Got: n.Rule.String()}
	}
	return nil
}

func mismatch(expected string, got *grammar.Node) error {
	return &types.GrammarMismatchError{Expected: expected, Got: got.Rule.String()}
}
