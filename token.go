package hdrgen

import "fmt"

// TokenKind discriminates the tokens the header parser consumes.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenThing
	TokenString
	TokenNumber
	TokenCharLiteral

	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLSquare
	TokenRSquare
	TokenLTriangle
	TokenRTriangle
	TokenComma
	TokenSemicolon
	TokenColon
	TokenAsterisk
	TokenAmpersand
	TokenEqual
	TokenEllipses
	TokenTilde
	TokenPunct

	TokenStruct
	TokenClass
	TokenUnion
	TokenEnum
	TokenTypedef
	TokenNamespace
	TokenTemplate
	TokenConst
	TokenConstexpr
	TokenSigned
	TokenUnsigned

	TokenPPDefine
	TokenPPUndef
	TokenPPIf
	TokenPPIfdef
	TokenPPIfndef
	TokenPPElif
	TokenPPElse
	TokenPPEndif
	TokenPPInclude
	TokenPPError
	TokenPragma

	TokenLineComment
	TokenBlockComment
	TokenNewline
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:          "EOF",
	TokenThing:        "THING",
	TokenString:       "STRING",
	TokenNumber:       "NUMBER",
	TokenCharLiteral:  "CHAR",
	TokenLParen:       "LPAREN",
	TokenRParen:       "RPAREN",
	TokenLBrace:       "LBRACE",
	TokenRBrace:       "RBRACE",
	TokenLSquare:      "LSQUARE",
	TokenRSquare:      "RSQUARE",
	TokenLTriangle:    "LTRIANGLE",
	TokenRTriangle:    "RTRIANGLE",
	TokenComma:        "COMMA",
	TokenSemicolon:    "SEMICOLON",
	TokenColon:        "COLON",
	TokenAsterisk:     "ASTERISK",
	TokenAmpersand:    "AMPERSAND",
	TokenEqual:        "EQUAL",
	TokenEllipses:     "ELLIPSES",
	TokenTilde:        "TILDE",
	TokenPunct:        "PUNCT",
	TokenStruct:       "STRUCT",
	TokenClass:        "CLASS",
	TokenUnion:        "UNION",
	TokenEnum:         "ENUM",
	TokenTypedef:      "TYPEDEF",
	TokenNamespace:    "NAMESPACE",
	TokenTemplate:     "TEMPLATE",
	TokenConst:        "CONST",
	TokenConstexpr:    "CONSTEXPR",
	TokenSigned:       "SIGNED",
	TokenUnsigned:     "UNSIGNED",
	TokenPPDefine:     "PPDEFINE",
	TokenPPUndef:      "PPUNDEF",
	TokenPPIf:         "PPIF",
	TokenPPIfdef:      "PPIFDEF",
	TokenPPIfndef:     "PPIFNDEF",
	TokenPPElif:       "PPELIF",
	TokenPPElse:       "PPELSE",
	TokenPPEndif:      "PPENDIF",
	TokenPPInclude:    "PPINCLUDE",
	TokenPPError:      "PPERROR",
	TokenPragma:       "PRAGMA",
	TokenLineComment:  "LINE_COMMENT",
	TokenBlockComment: "BLOCK_COMMENT",
	TokenNewline:      "NEWLINE",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical unit of a header file.  Value holds the
// verbatim source text of the token.  WasReference and NonNullable
// carry rewrite markers set by the reference and by-value conversion
// passes; they survive on the token so the thunk and metadata writers
// can see what the pointer used to be.
type Token struct {
	Kind        TokenKind
	Value       string
	Location    Location
	WasReference bool
	NonNullable  bool
}

func (t Token) String() string {
	if t.Value == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s[%s]", t.Kind, t.Value)
}

// NewToken builds a marker-free token, which is what the lexer and
// every synthesizing modifier want.
func NewToken(kind TokenKind, value string) Token {
	return Token{Kind: kind, Value: value}
}

// TokenStream provides the peek/take/rewind interface the parser is
// written against.  The whole input is lexed eagerly; checkpoints are
// plain cursor values.
type TokenStream struct {
	tokens []Token
	cursor int
}

func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

func (s *TokenStream) eofToken() Token {
	var loc Location
	if len(s.tokens) > 0 {
		loc = s.tokens[len(s.tokens)-1].Location
	}
	return Token{Kind: TokenEOF, Location: loc}
}

// Peek returns the token under the cursor without consuming it.
func (s *TokenStream) Peek() Token {
	if s.cursor >= len(s.tokens) {
		return s.eofToken()
	}
	return s.tokens[s.cursor]
}

// PeekSkipNewlines returns the next token that isn't a NEWLINE,
// without consuming anything.
func (s *TokenStream) PeekSkipNewlines() Token {
	for i := s.cursor; i < len(s.tokens); i++ {
		if s.tokens[i].Kind != TokenNewline {
			return s.tokens[i]
		}
	}
	return s.eofToken()
}

// Get consumes and returns the token under the cursor.
func (s *TokenStream) Get() Token {
	t := s.Peek()
	if s.cursor < len(s.tokens) {
		s.cursor++
	}
	return t
}

// GetOfKind consumes the next token if its kind is one of kinds,
// optionally skipping newlines on the way.  Returns false without
// consuming anything when the next token doesn't match.
func (s *TokenStream) GetOfKind(kinds []TokenKind, skipNewlines bool) (Token, bool) {
	cp := s.Checkpoint()
	for {
		t := s.Get()
		if skipNewlines && t.Kind == TokenNewline {
			continue
		}
		for _, k := range kinds {
			if t.Kind == k {
				return t, true
			}
		}
		s.Rewind(cp)
		return Token{}, false
	}
}

// RewindOne puts the most recently consumed token back.
func (s *TokenStream) RewindOne() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// Checkpoint returns an opaque mark Rewind can restore.
func (s *TokenStream) Checkpoint() int {
	return s.cursor
}

func (s *TokenStream) Rewind(cp int) {
	s.cursor = cp
}

// AtEOF reports whether the stream has been fully consumed.
func (s *TokenStream) AtEOF() bool {
	return s.cursor >= len(s.tokens)
}

// tokensToString joins token values with single spaces, except that
// no space is inserted before `*`, `&`, `,`, `)`, `]`, `>` or after
// `(`, `[`, `<`, `::` or a unary sign.  Good enough for type strings
// and expressions.
func tokensToString(tokens []Token) string {
	out := ""
	prevColon := false
	for i, t := range tokens {
		v := t.Value
		if v == "" {
			continue
		}
		if i > 0 && out != "" && needsSpaceBetween(tokens[i-1], t) && !prevColon &&
			!isUnarySign(tokens, i-1) {
			out += " "
		}
		out += v
		prevColon = t.Kind == TokenColon
	}
	return out
}

// isUnarySign reports whether tokens[i] is a sign operator applied to
// the next token rather than a binary operator.
func isUnarySign(tokens []Token, i int) bool {
	t := tokens[i]
	if t.Kind != TokenPunct && t.Kind != TokenTilde {
		return false
	}
	if t.Value != "-" && t.Value != "+" && t.Value != "~" && t.Value != "!" {
		return false
	}
	if i == 0 {
		return true
	}
	switch tokens[i-1].Kind {
	case TokenThing, TokenNumber, TokenString, TokenCharLiteral, TokenRParen, TokenRSquare:
		return false
	}
	return true
}

func needsSpaceBetween(a, b Token) bool {
	switch b.Kind {
	case TokenAsterisk, TokenAmpersand, TokenComma, TokenRParen, TokenRSquare,
		TokenRTriangle, TokenSemicolon, TokenColon:
		return false
	case TokenLParen:
		// Call style: `ImVec2(0, 0)`.
		if a.Kind == TokenThing {
			return false
		}
	case TokenLSquare:
		if a.Kind == TokenThing {
			return false
		}
	}
	switch a.Kind {
	case TokenLParen, TokenLSquare, TokenLTriangle, TokenColon:
		return false
	case TokenAsterisk, TokenAmpersand:
		// `char* p`, `char**`
		if b.Kind == TokenAsterisk || b.Kind == TokenAmpersand {
			return false
		}
	}
	return true
}
