package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// tokenCase represents a single Lex() table test case.
type tokenCase struct {
	name     string
	input    string
	expected []Token
}

func literal(kind Kind, lit string) Token {
	return Token{Kind: kind, Literal: lit}
}

// stripPositions discards Line/Column so test tables only need to assert
// on Kind and Literal.
func stripPositions(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		out[i] = Token{Kind: tok.Kind, Literal: tok.Literal}
	}
	return out
}

func TestLex_Tokens(t *testing.T) {
	tests := []tokenCase{
		{
			name:  "integers and operators",
			input: ` 123 + 2   31 - 12 `,
			expected: []Token{
				literal(Integer, "123"),
				literal(Operator, "+"),
				literal(Integer, "2"),
				literal(Integer, "31"),
				literal(Operator, "-"),
				literal(Integer, "12"),
			},
		},
		{
			name:  "identifiers and braces",
			input: ` { } + ( ) abc - a12 `,
			expected: []Token{
				literal(Operator, "{"),
				literal(Operator, "}"),
				literal(Operator, "+"),
				literal(Operator, "("),
				literal(Operator, ")"),
				literal(Identifier, "abc"),
				literal(Operator, "-"),
				literal(Identifier, "a12"),
			},
		},
		{
			name:  "two-character operators longest match",
			input: `== != <= >= = < > !`,
			expected: []Token{
				literal(Operator, "=="),
				literal(Operator, "!="),
				literal(Operator, "<="),
				literal(Operator, ">="),
				literal(Operator, "="),
				literal(Operator, "<"),
				literal(Operator, ">"),
				literal(Operator, "!"),
			},
		},
		{
			name:  "decimal literals",
			input: `1.5 2e3 4.25e10 7`,
			expected: []Token{
				literal(Decimal, "1.5"),
				literal(Decimal, "2e3"),
				literal(Decimal, "4.25e10"),
				literal(Integer, "7"),
			},
		},
		{
			name:  "string and character literals keep their quotes",
			input: `"hi\n" 'a' '\''`,
			expected: []Token{
				literal(String, `"hi\n"`),
				literal(Character, `'a'`),
				literal(Character, `'\''`),
			},
		},
		{
			name:  "keywords are plain identifiers",
			input: `let x def f if else for return`,
			expected: []Token{
				literal(Identifier, "let"),
				literal(Identifier, "x"),
				literal(Identifier, "def"),
				literal(Identifier, "f"),
				literal(Identifier, "if"),
				literal(Identifier, "else"),
				literal(Identifier, "for"),
				literal(Identifier, "return"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Lex(tc.input)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, stripPositions(tokens))
		})
	}
}

func TestLex_Errors(t *testing.T) {
	errorCases := []struct {
		name  string
		input string
	}{
		{"unterminated string", `"abc`},
		{"unterminated character", `'a`},
		{"invalid escape", `"\q"`},
		{"unexpected character", `@`},
		{"dangling dot", `1.`},
		{"dangling exponent", `1e`},
		{"empty character literal", `''`},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Lex(tc.input)
			assert.Error(t, err)
			var lexErr *LexError
			assert.ErrorAs(t, err, &lexErr)
		})
	}
}

func TestLex_LineAndColumnTracking(t *testing.T) {
	tokens, err := Lex("let\nx")
	assert.NoError(t, err)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 1, tokens[1].Column)
}
