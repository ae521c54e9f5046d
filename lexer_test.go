package hdrgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexFile(t *testing.T) {
	for _, test := range []struct {
		Name          string
		Input         string
		ExpectedKinds []TokenKind
	}{
		{
			Name:  "Declaration",
			Input: "int x;",
			ExpectedKinds: []TokenKind{
				TokenThing, TokenThing, TokenSemicolon,
			},
		},
		{
			Name:  "Keywords",
			Input: "struct class union enum typedef namespace template const constexpr signed unsigned",
			ExpectedKinds: []TokenKind{
				TokenStruct, TokenClass, TokenUnion, TokenEnum, TokenTypedef,
				TokenNamespace, TokenTemplate, TokenConst, TokenConstexpr,
				TokenSigned, TokenUnsigned,
			},
		},
		{
			Name:  "Pointer And Reference",
			Input: "char* p, &r",
			ExpectedKinds: []TokenKind{
				TokenThing, TokenAsterisk, TokenThing, TokenComma,
				TokenAmpersand, TokenThing,
			},
		},
		{
			Name:  "Directive",
			Input: "#define FOO 1\n",
			ExpectedKinds: []TokenKind{
				TokenPPDefine, TokenThing, TokenNumber, TokenNewline,
			},
		},
		{
			Name:  "Conditional Directives",
			Input: "#ifdef A\n#elif B\n#else\n#endif\n",
			ExpectedKinds: []TokenKind{
				TokenPPIfdef, TokenThing, TokenNewline,
				TokenPPElif, TokenThing, TokenNewline,
				TokenPPElse, TokenNewline,
				TokenPPEndif, TokenNewline,
			},
		},
		{
			Name:  "Comments",
			Input: "// line\n/* block */",
			ExpectedKinds: []TokenKind{
				TokenLineComment, TokenNewline, TokenBlockComment,
			},
		},
		{
			Name:  "Ellipses",
			Input: "(...)",
			ExpectedKinds: []TokenKind{
				TokenLParen, TokenEllipses, TokenRParen,
			},
		},
		{
			Name:  "Backslash Continuation",
			Input: "#define A \\\n  1\n",
			ExpectedKinds: []TokenKind{
				TokenPPDefine, TokenThing, TokenNumber, TokenNewline,
			},
		},
		{
			Name:  "String And Char Literals",
			Input: `"a\"b" 'x'`,
			ExpectedKinds: []TokenKind{
				TokenString, TokenCharLiteral,
			},
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			tokens, err := LexFile(test.Input, "test.h")
			require.NoError(t, err)
			kinds := make([]TokenKind, len(tokens))
			for i, tok := range tokens {
				kinds[i] = tok.Kind
			}
			assert.Equal(t, test.ExpectedKinds, kinds)
		})
	}
}

func TestLexerLocations(t *testing.T) {
	tokens, err := LexFile("int x;\nfloat y;\n", "test.h")
	require.NoError(t, err)
	assert.Equal(t, 1, tokens[0].Location.Line)
	assert.Equal(t, 1, tokens[0].Location.Column)
	// float on line 2
	assert.Equal(t, 2, tokens[4].Location.Line)
	assert.Equal(t, "float", tokens[4].Value)
}

func TestTokenStream(t *testing.T) {
	tokens, err := LexFile("int x ;", "test.h")
	require.NoError(t, err)
	s := NewTokenStream(tokens)

	assert.Equal(t, "int", s.Peek().Value)
	cp := s.Checkpoint()
	assert.Equal(t, "int", s.Get().Value)
	assert.Equal(t, "x", s.Get().Value)
	s.RewindOne()
	assert.Equal(t, "x", s.Get().Value)
	s.Rewind(cp)
	assert.Equal(t, "int", s.Peek().Value)

	tok, ok := s.GetOfKind([]TokenKind{TokenThing}, true)
	require.True(t, ok)
	assert.Equal(t, "int", tok.Value)
	_, ok = s.GetOfKind([]TokenKind{TokenSemicolon}, false)
	assert.False(t, ok)
}
