package parser

import (
	"github.com/dshills/wgsldoc/internal/grammar"
	"github.com/dshills/wgsldoc/pkg/types"
)

// buildType converts a RuleType node. Generic arguments of path types are
// validated by the grammar but not modelled.
func buildType(n *grammar.Node) (types.Type, error) {
	if err := expectRule(n, grammar.RuleType); err != nil {
		return nil, err
	}
	if len(n.Children) != 1 {
		return nil, &types.GrammarMismatchError{Expected: "single type variant", Got: n.Rule.String()}
	}

	inner := n.Children[0]
	switch inner.Rule {
	case grammar.RulePrimitive:
		return types.ParsePrimitive(inner.Text)
	case grammar.RuleVector:
		return buildVector(inner)
	case grammar.RulePathType:
		return buildPathType(inner)
	default:
		return nil, mismatch("primitive, vector or path type", inner)
	}
}

func buildVector(n *grammar.Node) (types.Type, error) {
	dimNode := n.Child(grammar.RuleVectorDimension)
	compNode := n.Child(grammar.RulePrimitive)
	if dimNode == nil || compNode == nil {
		return nil, mismatch("vector dimension and component", n)
	}
	dim, err := types.ParseDimension(dimNode.Text)
	if err != nil {
		return nil, err
	}
	comp, err := types.ParsePrimitive(compNode.Text)
	if err != nil {
		return nil, err
	}
	return types.Vector{Dimension: dim, Component: comp}, nil
}

func buildPathType(n *grammar.Node) (*types.PathType, error) {
	var module, name string
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleModule:
			module = c.Text
		case grammar.RuleIdent:
			name = c.Text
		case grammar.RuleGenericArgs:
		default:
			return nil, mismatch("path type part", c)
		}
	}
	if name == "" {
		return nil, mismatch("path type name", n)
	}
	return types.NewPathType(module, name), nil
}

func buildFunctionType(n *grammar.Node) (types.FunctionType, error) {
	if err := expectRule(n, grammar.RuleFunctionType); err != nil {
		return nil, err
	}
	if len(n.Children) != 1 {
		return nil, &types.GrammarMismatchError{Expected: "single function type variant", Got: n.Rule.String()}
	}

	inner := n.Children[0]
	switch inner.Rule {
	case grammar.RuleFunctionPointer:
		elem, err := buildType(inner.Child(grammar.RuleType))
		if err != nil {
			return nil, err
		}
		return types.FunctionPointer{Elem: elem}, nil
	case grammar.RuleType:
		t, err := buildType(inner)
		if err != nil {
			return nil, err
		}
		return t.(types.FunctionType), nil
	default:
		return nil, mismatch("type or function pointer", inner)
	}
}
