package grammar

// TokenKind represents the type of token
type TokenKind uint8

const (
	TokenEOF TokenKind = iota

	TokenIdent
	TokenNumber
	TokenModuleDoc // //! line
	TokenItemDoc   // /// line

	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenLess         // <
	TokenGreater      // >
	TokenComma        // ,
	TokenColon        // :
	TokenColonColon   // ::
	TokenSemicolon    // ;
	TokenAt           // @
	TokenHash         // #
	TokenEqual        // =
	TokenArrow        // ->
	TokenDot          // .
	TokenSlash        // /
	TokenMinus        // -

	// Any other operator character. Only function bodies and constant values
	// contain these and both are kept as raw text.
	TokenOther
)

var tokenNames = [...]string{
	TokenEOF:          "end of input",
	TokenIdent:        "identifier",
	TokenNumber:       "number",
	TokenModuleDoc:    "module doc comment",
	TokenItemDoc:      "doc comment",
	TokenLeftParen:    "`(`",
	TokenRightParen:   "`)`",
	TokenLeftBrace:    "`{`",
	TokenRightBrace:   "`}`",
	TokenLeftBracket:  "`[`",
	TokenRightBracket: "`]`",
	TokenLess:         "`<`",
	TokenGreater:      "`>`",
	TokenComma:        "`,`",
	TokenColon:        "`:`",
	TokenColonColon:   "`::`",
	TokenSemicolon:    "`;`",
	TokenAt:           "`@`",
	TokenHash:         "`#`",
	TokenEqual:        "`=`",
	TokenArrow:        "`->`",
	TokenDot:          "`.`",
	TokenSlash:        "`/`",
	TokenMinus:        "`-`",
	TokenOther:        "operator",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "unknown"
}

// Token is a lexed token. Offset and End index into the source.
type Token struct {
	Kind   TokenKind
	Text   string // For doc tokens, the comment text after the marker
	Offset int
	End    int
	Line   int
	Column int
}

// describe renders the token for error messages
func (t Token) describe() string {
	switch t.Kind {
	case TokenIdent, TokenNumber:
		return "`" + t.Text + "`"
	case TokenOther:
		return "`" + t.Text + "`"
	default:
		return t.Kind.String()
	}
}
