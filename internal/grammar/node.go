package grammar

import "strings"

// Rule names a grammar production. Every Node is tagged with the rule that matched it.
type Rule uint8

const (
	RuleShader Rule = iota
	RuleGlobalDocs
	RuleDocs
	RuleDocLine
	RuleImport
	RuleImportPath
	RuleBuiltinImport
	RuleImportItem
	RuleConst
	RuleConstValue
	RuleBinding
	RuleAddressSpace
	RuleAccessMode
	RuleStructure
	RuleField
	RuleFunction
	RuleArg
	RuleReturn
	RuleBody
	RuleAttribute
	RuleAttributeArgs
	RuleIdent
	RuleFunctionType
	RuleFunctionPointer
	RuleType
	RulePrimitive
	RuleVector
	RuleVectorDimension
	RulePathType
	RuleModule
	RuleGenericArgs
	RuleNumber
)

var ruleNames = [...]string{
	RuleShader:          "shader",
	RuleGlobalDocs:      "global_docs",
	RuleDocs:            "docs",
	RuleDocLine:         "doc_line",
	RuleImport:          "import",
	RuleImportPath:      "import_path",
	RuleBuiltinImport:   "builtin_import",
	RuleImportItem:      "import_item",
	RuleConst:           "const",
	RuleConstValue:      "const_value",
	RuleBinding:         "binding",
	RuleAddressSpace:    "address_space",
	RuleAccessMode:      "access_mode",
	RuleStructure:       "structure",
	RuleField:           "field",
	RuleFunction:        "function",
	RuleArg:             "arg",
	RuleReturn:          "return",
	RuleBody:            "body",
	RuleAttribute:       "attribute",
	RuleAttributeArgs:   "attribute_args",
	RuleIdent:           "ident",
	RuleFunctionType:    "function_type",
	RuleFunctionPointer: "function_pointer",
	RuleType:            "type",
	RulePrimitive:       "primitive",
	RuleVector:          "vector",
	RuleVectorDimension: "vector_dimension",
	RulePathType:        "path_type",
	RuleModule:          "module",
	RuleGenericArgs:     "generic_args",
	RuleNumber:          "number",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return "unknown"
}

// Span locates a node in the source
type Span struct {
	Offset int
	End    int
	Line   int
	Column int
}

// Node is one matched production
type Node struct {
	Rule     Rule
	Text     string // Matched source text; doc text for RuleDocLine
	Span     Span
	Children []*Node
}

// Child returns the first child matching rule
func (n *Node) Child(rule Rule) *Node {
	for _, c := range n.Children {
		if c.Rule == rule {
			return c
		}
	}
	return nil
}

// ChildrenOf returns all direct children matching rule
func (n *Node) ChildrenOf(rule Rule) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Rule == rule {
			out = append(out, c)
		}
	}
	return out
}

// String renders the tree in an s-expression form, used by tests and debugging
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	sb.WriteString("(")
	sb.WriteString(n.Rule.String())
	if len(n.Children) == 0 {
		sb.WriteString(" ")
		sb.WriteString(quote(n.Text))
	}
	for _, c := range n.Children {
		sb.WriteString(" ")
		c.write(sb)
	}
	sb.WriteString(")")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
