package grammar

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes WGSL source. Plain comments and whitespace are dropped,
// doc comments are kept as tokens.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	start  int

	startLine   int
	startColumn int

	tokens []Token
}

// NewLexer creates a new lexer for the given source
func NewLexer(source string) *Lexer {
	estTokens := len(source) / 6
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens followed by a TokenEOF
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.pos
		l.startLine, l.startColumn = l.line, l.column
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Offset: len(l.source),
		End:    len(l.source),
		Line:   l.line,
		Column: l.column,
	})
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	r := l.advance()

	switch r {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		// whitespace
	case '(':
		l.addToken(TokenLeftParen)
	case ')':
		l.addToken(TokenRightParen)
	case '{':
		l.addToken(TokenLeftBrace)
	case '}':
		l.addToken(TokenRightBrace)
	case '[':
		l.addToken(TokenLeftBracket)
	case ']':
		l.addToken(TokenRightBracket)
	case '<':
		l.addToken(TokenLess)
	case '>':
		// Never merged into >>, so nested generic lists close one level per token.
		l.addToken(TokenGreater)
	case ',':
		l.addToken(TokenComma)
	case ';':
		l.addToken(TokenSemicolon)
	case '@':
		l.addToken(TokenAt)
	case '#':
		l.addToken(TokenHash)
	case '=':
		if l.match('=') {
			l.addToken(TokenOther)
		} else {
			l.addToken(TokenEqual)
		}
	case '.':
		l.addToken(TokenDot)
	case ':':
		if l.match(':') {
			l.addToken(TokenColonColon)
		} else {
			l.addToken(TokenColon)
		}
	case '-':
		if l.match('>') {
			l.addToken(TokenArrow)
		} else {
			l.addToken(TokenMinus)
		}
	case '/':
		switch {
		case l.peek() == '/':
			l.lineComment()
		case l.peek() == '*':
			l.advance()
			return l.blockComment()
		default:
			l.addToken(TokenSlash)
		}
	default:
		switch {
		case r == '_' || unicode.IsLetter(r):
			l.identifier()
		case r >= '0' && r <= '9':
			l.number()
		default:
			l.addToken(TokenOther)
		}
	}
	return nil
}

// lineComment handles //, /// and //! comments. The cursor is on the second slash.
func (l *Lexer) lineComment() {
	l.advance()
	kind := TokenEOF
	switch {
	case l.peek() == '!':
		l.advance()
		kind = TokenModuleDoc
	case l.peek() == '/' && l.peekNext() != '/':
		l.advance()
		kind = TokenItemDoc
	}

	textStart := l.pos
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
	if kind == TokenEOF {
		return
	}

	text := strings.TrimSuffix(l.source[textStart:l.pos], "\r")
	text = strings.TrimPrefix(text, " ")
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Text:   text,
		Offset: l.start,
		End:    l.pos,
		Line:   l.startLine,
		Column: l.startColumn,
	})
}

// blockComment skips a possibly nested /* */ comment
func (l *Lexer) blockComment() error {
	depth := 1
	for depth > 0 {
		if l.isAtEnd() {
			return &SyntaxError{
				Message: "unterminated block comment",
				Offset:  l.start,
				Line:    l.startLine,
				Column:  l.startColumn,
				Source:  l.source,
			}
		}
		switch r := l.advance(); {
		case r == '/' && l.peek() == '*':
			l.advance()
			depth++
		case r == '*' && l.peek() == '/':
			l.advance()
			depth--
		}
	}
	return nil
}

func (l *Lexer) identifier() {
	for !l.isAtEnd() {
		r := l.peek()
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.advance()
	}
	l.addToken(TokenIdent)
}

// number consumes any literal shape: 42, 1.5e-3, 0x1Fu, 2.0f. Values stay raw.
func (l *Lexer) number() {
	hex := l.source[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X')
	for !l.isAtEnd() {
		r := l.peek()
		prev := l.source[l.pos-1]
		switch {
		case r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r):
			l.advance()
		case (r == '+' || r == '-') && !hex && (prev == 'e' || prev == 'E'):
			l.advance()
		default:
			l.addToken(TokenNumber)
			return
		}
	}
	l.addToken(TokenNumber)
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Text:   l.source[l.start:l.pos],
		Offset: l.start,
		End:    l.pos,
		Line:   l.startLine,
		Column: l.startColumn,
	})
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if l.pos+size >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos+size:])
	return r
}
