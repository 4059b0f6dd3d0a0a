package grammar

import (
	"fmt"
	"strings"
)

// Parse matches a whole module and returns its RuleShader tree
func Parse(source string) (*Node, error) {
	return ParseRule(RuleShader, source)
}

// ParseRule matches rule against the entire input. Declaration rules accept
// leading doc comments and an optional trailing `;`.
func ParseRule(rule Rule, source string) (*Node, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{source: source, tokens: tokens}

	var n *Node
	switch rule {
	case RuleShader:
		return p.shader()
	case RuleGlobalDocs:
		if !p.check(TokenModuleDoc) {
			return nil, p.errorAtCurrent("expected module doc comment")
		}
		n = p.globalDocs()
	case RuleImport, RuleBuiltinImport, RuleConst, RuleBinding, RuleStructure, RuleFunction:
		n, err = p.declaration()
		if err != nil {
			return nil, err
		}
		if n == nil || n.Rule != rule {
			return nil, &SyntaxError{Message: "expected " + rule.String() + " declaration", Line: 1, Column: 1, Source: source}
		}
		p.match(TokenSemicolon)
	case RuleField:
		n, err = p.field()
	case RuleArg:
		n, err = p.arg()
	case RuleType:
		n, err = p.typeExpr()
	case RuleFunctionType:
		n, err = p.functionType()
	default:
		return nil, fmt.Errorf("grammar: rule %s cannot be parsed on its own", rule)
	}
	if err != nil {
		return nil, err
	}
	if !p.isAtEnd() {
		return nil, p.errorAtCurrent("unexpected %s after %s", p.peek().describe(), rule)
	}
	return n, nil
}

// parser is a recursive descent parser over the token stream.
// It stops at the first error: a module either parses completely or not at all.
type parser struct {
	source  string
	tokens  []Token
	current int
}

func (p *parser) shader() (*Node, error) {
	root := &Node{
		Rule: RuleShader,
		Text: p.source,
		Span: Span{Offset: 0, End: len(p.source), Line: 1, Column: 1},
	}

	for !p.isAtEnd() {
		switch {
		case p.check(TokenModuleDoc):
			root.Children = append(root.Children, p.globalDocs())
		case p.match(TokenSemicolon):
		default:
			n, err := p.declaration()
			if err != nil {
				return nil, err
			}
			if n != nil {
				root.Children = append(root.Children, n)
			}
			p.match(TokenSemicolon)
		}
	}
	return root, nil
}

// declaration parses one top-level item with its leading docs and attributes.
// Directives and aliases are consumed and return a nil node. Docs that are
// not followed by an item come back as a bare RuleDocs node.
func (p *parser) declaration() (*Node, error) {
	docs := p.docs()
	if docs != nil && (p.isAtEnd() || p.check(TokenModuleDoc)) {
		return docs, nil
	}

	start := p.peek()
	attrs, err := p.attributes()
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	if tok.Kind == TokenHash {
		if len(attrs) > 0 {
			return nil, p.errorAt(tok, "attributes cannot be applied to an import")
		}
		return p.importDecl(docs)
	}
	if tok.Kind != TokenIdent {
		return nil, p.errorAt(tok, "expected declaration, found %s", tok.describe())
	}

	switch tok.Text {
	case "fn":
		return p.function(start, docs, attrs)
	case "var":
		return p.binding(start, docs, attrs)
	}

	if len(attrs) > 0 {
		return nil, p.errorAt(tok, "expected `fn` or `var` after attributes, found %s", tok.describe())
	}

	switch tok.Text {
	case "const":
		return p.constDecl(docs)
	case "struct":
		return p.structure(docs)
	case "enable", "requires", "diagnostic":
		p.advance()
		p.rawValue()
		return nil, nil
	case "alias":
		return nil, p.alias()
	default:
		return nil, p.errorAt(tok, "expected declaration, found %s", tok.describe())
	}
}

func (p *parser) globalDocs() *Node {
	return p.docBlock(TokenModuleDoc, RuleGlobalDocs)
}

func (p *parser) docs() *Node {
	if !p.check(TokenItemDoc) {
		return nil
	}
	return p.docBlock(TokenItemDoc, RuleDocs)
}

func (p *parser) docBlock(kind TokenKind, rule Rule) *Node {
	first := p.peek()
	n := &Node{Rule: rule}
	for p.check(kind) {
		t := p.advance()
		n.Children = append(n.Children, &Node{Rule: RuleDocLine, Text: t.Text, Span: spanOf(t)})
	}
	p.finish(n, first)
	return n
}

// attributes parses `@name` and `@name(raw args)` sequences
func (p *parser) attributes() ([]*Node, error) {
	var attrs []*Node
	for p.check(TokenAt) {
		at := p.advance()
		name, err := p.expectIdent("attribute name after `@`")
		if err != nil {
			return nil, err
		}
		n := &Node{Rule: RuleAttribute, Children: []*Node{leaf(RuleIdent, name)}}

		if p.check(TokenLeftParen) {
			open := p.advance()
			depth := 1
			var closing Token
			for depth > 0 {
				if p.isAtEnd() {
					return nil, p.errorAt(open, "unclosed arguments of attribute `@%s`", name.Text)
				}
				closing = p.advance()
				switch closing.Kind {
				case TokenLeftParen:
					depth++
				case TokenRightParen:
					depth--
				}
			}
			args := &Node{
				Rule: RuleAttributeArgs,
				Text: strings.TrimSpace(p.source[open.End:closing.Offset]),
				Span: Span{Offset: open.End, End: closing.Offset, Line: open.Line, Column: open.Column + 1},
			}
			n.Children = append(n.Children, args)
		}
		p.finish(n, at)
		attrs = append(attrs, n)
	}
	return attrs, nil
}

// importDecl parses `#import path as Alias` or a builtin `#import a::b::{c, d}`
func (p *parser) importDecl(docs *Node) (*Node, error) {
	hash := p.advance()
	kw := p.peek()
	if kw.Kind != TokenIdent || kw.Text != "import" {
		return nil, p.errorAt(kw, "expected `import` after `#`, found %s", kw.describe())
	}
	p.advance()

	first := p.peek()
	if !isPathToken(first.Kind) {
		return nil, p.errorAt(first, "expected import path, found %s", first.describe())
	}
	last := p.advance()
	single := first.Kind == TokenIdent
	for isPathToken(p.peek().Kind) && p.peek().Offset == last.End {
		last = p.advance()
		single = false
	}

	if single && (p.check(TokenColonColon) || !p.checkKeyword("as")) {
		return p.builtinImport(hash, docs, first)
	}

	if !p.checkKeyword("as") {
		return nil, p.errorAtCurrent("expected `as` after import path, found %s", p.peek().describe())
	}
	p.advance()
	alias, err := p.expectIdent("import alias after `as`")
	if err != nil {
		return nil, err
	}

	n := &Node{Rule: RuleImport}
	n.Children = appendDocs(n.Children, docs)
	n.Children = append(n.Children,
		&Node{
			Rule: RuleImportPath,
			Text: p.source[first.Offset:last.End],
			Span: Span{Offset: first.Offset, End: last.End, Line: first.Line, Column: first.Column},
		},
		leaf(RuleIdent, alias),
	)
	p.finish(n, hash)
	return n, nil
}

func (p *parser) builtinImport(hash Token, docs *Node, first Token) (*Node, error) {
	n := &Node{Rule: RuleBuiltinImport}
	n.Children = appendDocs(n.Children, docs)
	n.Children = append(n.Children, leaf(RuleIdent, first))

	for p.match(TokenColonColon) {
		if p.check(TokenLeftBrace) {
			open := p.advance()
			for !p.check(TokenRightBrace) {
				if p.isAtEnd() {
					return nil, p.errorAt(open, "unclosed import list")
				}
				item, err := p.expectIdent("imported item name")
				if err != nil {
					return nil, err
				}
				n.Children = append(n.Children, leaf(RuleImportItem, item))
				if !p.match(TokenComma) && !p.check(TokenRightBrace) {
					return nil, p.errorAtCurrent("expected `,` or `}` in import list, found %s", p.peek().describe())
				}
			}
			p.advance()
			break
		}
		seg, err := p.expectIdent("module name after `::`")
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, leaf(RuleIdent, seg))
	}
	p.finish(n, hash)
	return n, nil
}

// constDecl parses `const NAME[: T] = raw`
func (p *parser) constDecl(docs *Node) (*Node, error) {
	kw := p.advance()
	name, err := p.expectIdent("constant name")
	if err != nil {
		return nil, err
	}

	n := &Node{Rule: RuleConst}
	n.Children = appendDocs(n.Children, docs)
	n.Children = append(n.Children, leaf(RuleIdent, name))

	if p.match(TokenColon) {
		t, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, t)
	}

	if _, err := p.expect(TokenEqual, "expected `=` in declaration of constant `%s`", name.Text); err != nil {
		return nil, err
	}
	value := p.rawValue()
	if value == nil {
		return nil, p.errorAtCurrent("expected value of constant `%s`, found %s", name.Text, p.peek().describe())
	}
	n.Children = append(n.Children, value)
	p.finish(n, docOr(docs, kw))
	return n, nil
}

// rawValue captures tokens up to `;` or the end of the line at bracket depth zero
func (p *parser) rawValue() *Node {
	if p.isAtEnd() || p.check(TokenSemicolon) || p.isDocToken() {
		return nil
	}
	first := p.advance()
	last := first
	depth := bracketDelta(first.Kind)

	for !p.isAtEnd() {
		next := p.peek()
		if depth <= 0 {
			if next.Kind == TokenSemicolon || next.Line > last.Line || p.isDocToken() {
				break
			}
			if bracketDelta(next.Kind) < 0 {
				break
			}
		}
		last = p.advance()
		depth += bracketDelta(last.Kind)
	}

	return &Node{
		Rule: RuleConstValue,
		Text: p.source[first.Offset:last.End],
		Span: Span{Offset: first.Offset, End: last.End, Line: first.Line, Column: first.Column},
	}
}

// binding parses `[@group(N)] [@binding(N)] var[<space[, access]>] name: T [= raw]`
func (p *parser) binding(start Token, docs *Node, attrs []*Node) (*Node, error) {
	p.advance()

	n := &Node{Rule: RuleBinding}
	n.Children = appendDocs(n.Children, docs)
	n.Children = append(n.Children, attrs...)

	if open, ok := p.matchToken(TokenLess); ok {
		space, err := p.expectIdent("address space")
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, leaf(RuleAddressSpace, space))
		if p.match(TokenComma) && !p.check(TokenGreater) {
			access, err := p.expectIdent("access mode")
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, leaf(RuleAccessMode, access))
			p.match(TokenComma)
		}
		if !p.check(TokenGreater) {
			return nil, p.errorAt(open, "expected `>` to close `var<...>`, found %s", p.peek().describe())
		}
		p.advance()
	}

	name, err := p.expectIdent("variable name")
	if err != nil {
		return nil, err
	}
	n.Children = append(n.Children, leaf(RuleIdent, name))

	if _, err := p.expect(TokenColon, "expected `:` after variable `%s`", name.Text); err != nil {
		return nil, err
	}
	t, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	n.Children = append(n.Children, t)

	if p.match(TokenEqual) {
		value := p.rawValue()
		if value == nil {
			return nil, p.errorAtCurrent("expected initializer of variable `%s`", name.Text)
		}
		n.Children = append(n.Children, value)
	}
	p.finish(n, docOr(docs, start))
	return n, nil
}

// structure parses `struct Name { field, ... }`
func (p *parser) structure(docs *Node) (*Node, error) {
	kw := p.advance()
	name, err := p.expectIdent("structure name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftBrace, "expected `{` after structure name `%s`", name.Text); err != nil {
		return nil, err
	}

	n := &Node{Rule: RuleStructure}
	n.Children = appendDocs(n.Children, docs)
	n.Children = append(n.Children, leaf(RuleIdent, name))

	for !p.check(TokenRightBrace) {
		if p.isAtEnd() {
			return nil, p.errorAt(kw, "unclosed body of structure `%s`", name.Text)
		}
		f, err := p.field()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, f)
		if f.Rule == RuleDocs {
			continue
		}
		if !p.match(TokenComma) && !p.match(TokenSemicolon) {
			if p.isAtEnd() {
				return nil, p.errorAt(kw, "unclosed body of structure `%s`", name.Text)
			}
			if !p.check(TokenRightBrace) {
				return nil, p.errorAtCurrent("expected `,` or `}` after field, found %s", p.peek().describe())
			}
		}
	}
	p.advance()
	p.finish(n, docOr(docs, kw))
	return n, nil
}

// field parses `[docs] [@attr...] name: T`. Docs directly before `}` come back alone.
func (p *parser) field() (*Node, error) {
	docs := p.docs()
	if docs != nil && p.check(TokenRightBrace) {
		return docs, nil
	}
	start := p.peek()
	attrs, err := p.attributes()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent("field name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon, "expected `:` after field `%s`", name.Text); err != nil {
		return nil, err
	}
	t, err := p.typeExpr()
	if err != nil {
		return nil, err
	}

	n := &Node{Rule: RuleField}
	n.Children = appendDocs(n.Children, docs)
	n.Children = append(n.Children, attrs...)
	n.Children = append(n.Children, leaf(RuleIdent, name), t)
	p.finish(n, docOr(docs, start))
	return n, nil
}

// function parses `[@attr...] fn name(args) [-> [@attr...] T] { body }`
func (p *parser) function(start Token, docs *Node, attrs []*Node) (*Node, error) {
	p.advance()
	name, err := p.expectIdent("function name")
	if err != nil {
		return nil, err
	}
	open, err := p.expect(TokenLeftParen, "expected `(` after function name `%s`", name.Text)
	if err != nil {
		return nil, err
	}

	n := &Node{Rule: RuleFunction}
	n.Children = appendDocs(n.Children, docs)
	n.Children = append(n.Children, attrs...)
	n.Children = append(n.Children, leaf(RuleIdent, name))

	for !p.check(TokenRightParen) {
		if p.isAtEnd() {
			return nil, p.errorAt(open, "unclosed parameter list of function `%s`", name.Text)
		}
		a, err := p.arg()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, a)
		if a.Rule == RuleDocs {
			continue
		}
		if !p.match(TokenComma) && !p.check(TokenRightParen) {
			if p.isAtEnd() {
				return nil, p.errorAt(open, "unclosed parameter list of function `%s`", name.Text)
			}
			return nil, p.errorAtCurrent("expected `,` or `)` after parameter, found %s", p.peek().describe())
		}
	}
	p.advance()

	if arrow, ok := p.matchToken(TokenArrow); ok {
		retAttrs, err := p.attributes()
		if err != nil {
			return nil, err
		}
		t, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		ret := &Node{Rule: RuleReturn, Children: append(retAttrs, t)}
		p.finish(ret, arrow)
		n.Children = append(n.Children, ret)
	}

	if !p.check(TokenLeftBrace) {
		return nil, p.errorAtCurrent("expected `{` to open the body of function `%s`, found %s", name.Text, p.peek().describe())
	}
	body, err := p.body(name.Text)
	if err != nil {
		return nil, err
	}
	n.Children = append(n.Children, body)
	p.finish(n, docOr(docs, start))
	return n, nil
}

// arg parses `[docs] [@attr...] name: FunctionType`. Docs directly before `)` come back alone.
func (p *parser) arg() (*Node, error) {
	docs := p.docs()
	if docs != nil && p.check(TokenRightParen) {
		return docs, nil
	}
	start := p.peek()
	attrs, err := p.attributes()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent("parameter name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon, "expected `:` after parameter `%s`", name.Text); err != nil {
		return nil, err
	}
	t, err := p.functionType()
	if err != nil {
		return nil, err
	}

	n := &Node{Rule: RuleArg}
	n.Children = appendDocs(n.Children, docs)
	n.Children = append(n.Children, attrs...)
	n.Children = append(n.Children, leaf(RuleIdent, name), t)
	p.finish(n, docOr(docs, start))
	return n, nil
}

// body skips a brace-balanced function body without analysing it
func (p *parser) body(fnName string) (*Node, error) {
	open := p.advance()
	depth := 1
	for depth > 0 {
		if p.isAtEnd() {
			return nil, p.errorAt(open, "unclosed body of function `%s`", fnName)
		}
		switch p.advance().Kind {
		case TokenLeftBrace:
			depth++
		case TokenRightBrace:
			depth--
		}
	}
	n := &Node{Rule: RuleBody}
	p.finish(n, open)
	return n, nil
}

// alias parses `alias Name = T`; the alias is not modelled
func (p *parser) alias() error {
	p.advance()
	name, err := p.expectIdent("alias name")
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenEqual, "expected `=` in alias `%s`", name.Text); err != nil {
		return err
	}
	_, err = p.typeExpr()
	return err
}

// ----------------------------------------------------------------------------
// Token helpers
// ----------------------------------------------------------------------------

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) peekAt(offset int) Token {
	i := p.current + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) isAtEnd() bool {
	return p.peek().Kind == TokenEOF
}

func (p *parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *parser) checkAt(offset int, kind TokenKind) bool {
	return p.peekAt(offset).Kind == kind
}

func (p *parser) checkKeyword(word string) bool {
	t := p.peek()
	return t.Kind == TokenIdent && t.Text == word
}

func (p *parser) isDocToken() bool {
	return p.check(TokenItemDoc) || p.check(TokenModuleDoc)
}

func (p *parser) match(kind TokenKind) bool {
	_, ok := p.matchToken(kind)
	return ok
}

func (p *parser) matchToken(kind TokenKind) (Token, bool) {
	if !p.check(kind) {
		return Token{}, false
	}
	return p.advance(), true
}

func (p *parser) expect(kind TokenKind, format string, args ...any) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	msg := fmt.Sprintf(format, args...)
	return Token{}, p.errorAtCurrent("%s, found %s", msg, p.peek().describe())
}

func (p *parser) expectIdent(what string) (Token, error) {
	if p.check(TokenIdent) {
		return p.advance(), nil
	}
	return Token{}, p.errorAtCurrent("expected %s, found %s", what, p.peek().describe())
}

func (p *parser) errorAt(tok Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Offset:  tok.Offset,
		Line:    tok.Line,
		Column:  tok.Column,
		Source:  p.source,
	}
}

func (p *parser) errorAtCurrent(format string, args ...any) *SyntaxError {
	return p.errorAt(p.peek(), format, args...)
}

// finish sets the node text and span from start to the last consumed token
func (p *parser) finish(n *Node, start Token) {
	end := p.previous().End
	if end < start.Offset {
		end = start.Offset
	}
	n.Span = Span{Offset: start.Offset, End: end, Line: start.Line, Column: start.Column}
	n.Text = p.source[start.Offset:end]
}

func leaf(rule Rule, t Token) *Node {
	return &Node{Rule: rule, Text: t.Text, Span: spanOf(t)}
}

func spanOf(t Token) Span {
	return Span{Offset: t.Offset, End: t.End, Line: t.Line, Column: t.Column}
}

func appendDocs(children []*Node, docs *Node) []*Node {
	if docs == nil {
		return children
	}
	return append(children, docs)
}

// docOr returns the token where a declaration starts, its docs included
func docOr(docs *Node, start Token) Token {
	if docs == nil {
		return start
	}
	return Token{Offset: docs.Span.Offset, Line: docs.Span.Line, Column: docs.Span.Column}
}

func isPathToken(kind TokenKind) bool {
	switch kind {
	case TokenIdent, TokenNumber, TokenDot, TokenSlash, TokenMinus:
		return true
	default:
		return false
	}
}

func bracketDelta(kind TokenKind) int {
	switch kind {
	case TokenLeftParen, TokenLeftBrace, TokenLeftBracket:
		return 1
	case TokenRightParen, TokenRightBrace, TokenRightBracket:
		return -1
	default:
		return 0
	}
}
