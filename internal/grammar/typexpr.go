package grammar

import "github.com/dshills/wgsldoc/pkg/types"

// typeExpr parses a primitive, vecN<primitive> or a path type.
// vecN with a non-primitive component, or N outside 2..4, is a path type.
func (p *parser) typeExpr() (*Node, error) {
	start := p.peek()
	if start.Kind != TokenIdent {
		return nil, p.errorAtCurrent("expected type, found %s", start.describe())
	}

	var inner *Node
	switch {
	case types.IsPrimitiveKeyword(start.Text) && !p.checkAt(1, TokenLess) && !p.checkAt(1, TokenColonColon):
		inner = leaf(RulePrimitive, p.advance())
	case p.isVector():
		kw := p.advance()
		p.advance()
		component := p.advance()
		p.advance()
		dim := &Node{
			Rule: RuleVectorDimension,
			Text: kw.Text[3:],
			Span: Span{Offset: kw.Offset + 3, End: kw.End, Line: kw.Line, Column: kw.Column + 3},
		}
		inner = &Node{Rule: RuleVector, Children: []*Node{dim, leaf(RulePrimitive, component)}}
		p.finish(inner, kw)
	default:
		var err error
		if inner, err = p.pathType(); err != nil {
			return nil, err
		}
	}

	n := &Node{Rule: RuleType, Children: []*Node{inner}}
	p.finish(n, start)
	return n, nil
}

func (p *parser) isVector() bool {
	kw := p.peek()
	if len(kw.Text) != 4 || kw.Text[:3] != "vec" {
		return false
	}
	if _, err := types.ParseDimension(kw.Text[3:]); err != nil {
		return false
	}
	component := p.peekAt(2)
	return p.checkAt(1, TokenLess) &&
		component.Kind == TokenIdent && types.IsPrimitiveKeyword(component.Text) &&
		p.checkAt(3, TokenGreater)
}

// pathType parses `[Module::]Name[<args>]`
func (p *parser) pathType() (*Node, error) {
	first := p.advance()
	n := &Node{Rule: RulePathType}

	if p.match(TokenColonColon) {
		name, err := p.expectIdent("type name after `::`")
		if err != nil {
			return nil, err
		}
		if p.check(TokenColonColon) {
			return nil, p.errorAtCurrent("nested module paths are not supported in type `%s::%s`", first.Text, name.Text)
		}
		n.Children = append(n.Children, leaf(RuleModule, first), leaf(RuleIdent, name))
	} else {
		n.Children = append(n.Children, leaf(RuleIdent, first))
	}

	if p.check(TokenLess) {
		args, err := p.genericArgs()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, args)
	}
	p.finish(n, first)
	return n, nil
}

// genericArgs parses `<arg, ...>` where each arg is a type or a number
func (p *parser) genericArgs() (*Node, error) {
	open := p.advance()
	n := &Node{Rule: RuleGenericArgs}

	for {
		switch {
		case p.check(TokenNumber):
			n.Children = append(n.Children, leaf(RuleNumber, p.advance()))
		case p.check(TokenIdent):
			t, err := p.typeExpr()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, t)
		default:
			return nil, p.errorAtCurrent("expected type or number in generic arguments, found %s", p.peek().describe())
		}
		if !p.match(TokenComma) || p.check(TokenGreater) {
			break
		}
	}

	if !p.check(TokenGreater) {
		if p.isAtEnd() {
			return nil, p.errorAt(open, "unclosed generic arguments")
		}
		return nil, p.errorAtCurrent("expected `,` or `>` in generic arguments, found %s", p.peek().describe())
	}
	p.advance()
	p.finish(n, open)
	return n, nil
}

// functionType parses a type or `ptr<function, T>`
func (p *parser) functionType() (*Node, error) {
	start := p.peek()
	if !p.isFunctionPointer() {
		t, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		return &Node{Rule: RuleFunctionType, Text: t.Text, Span: t.Span, Children: []*Node{t}}, nil
	}

	p.advance()
	p.advance()
	p.advance()
	p.advance()
	elem, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	p.match(TokenComma)
	if _, err := p.expect(TokenGreater, "expected `>` to close `ptr<function, ...>`"); err != nil {
		return nil, err
	}

	ptr := &Node{Rule: RuleFunctionPointer, Children: []*Node{elem}}
	p.finish(ptr, start)
	n := &Node{Rule: RuleFunctionType, Children: []*Node{ptr}}
	p.finish(n, start)
	return n, nil
}

func (p *parser) isFunctionPointer() bool {
	kw := p.peek()
	space := p.peekAt(2)
	return kw.Kind == TokenIdent && kw.Text == "ptr" &&
		p.checkAt(1, TokenLess) &&
		space.Kind == TokenIdent && space.Text == "function" &&
		p.checkAt(3, TokenComma)
}
