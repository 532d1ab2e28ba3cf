package tokenizer

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTokenIterator(t *testing.T) {
	src := "x*2 for x in [1,2,3]"
	tokenizer := New(src)

	expectedTypes := []TokenType{
		IDENTIFIER, OPERATOR, NUMBER, WHITESPACE, FOR, WHITESPACE, IDENTIFIER, WHITESPACE,
		IN, WHITESPACE, OPENED_BRACKET, NUMBER, COMMA, NUMBER, COMMA, NUMBER, CLOSED_BRACKET, EOF,
	}

	var actualTypes []TokenType

	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestTokenIteratorSkipWhitespace(t *testing.T) {
	src := "x / y for x, y in pairs if y != 0"
	tokenizer := New(src, Options{SkipWhitespace: true})

	expectedTypes := []TokenType{
		IDENTIFIER, OPERATOR, IDENTIFIER, FOR, IDENTIFIER, COMMA, IDENTIFIER,
		IN, IDENTIFIER, IF, IDENTIFIER, OPERATOR, NUMBER, EOF,
	}

	var actualTypes []TokenType

	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestKeywordsOnlyAsWholeWords(t *testing.T) {
	tokens, err := Tokenize("info force inner iffy")
	assert.NoError(t, err)

	for _, token := range tokens[:4] {
		assert.Equal(t, IDENTIFIER, token.Type)
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected TokenType
		value    string
	}{
		{"single quoted string", "'hello'", STRING, "'hello'"},
		{"double quoted string", `"wor ld"`, STRING, `"wor ld"`},
		{"escaped quote", `'a\'b'`, STRING, `'a\'b'`},
		{"integer", "42", NUMBER, "42"},
		{"float", "3.14", NUMBER, "3.14"},
		{"exponent", "1e10", NUMBER, "1e10"},
		{"boolean true", "true", BOOLEAN, "true"},
		{"boolean false", "false", BOOLEAN, "false"},
		{"null", "null", NULL, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.src)
			assert.NoError(t, err)
			assert.Equal(t, 2, len(tokens)) // literal + EOF
			assert.Equal(t, tt.expected, tokens[0].Type)
			assert.Equal(t, tt.value, tokens[0].Value)
		})
	}
}

func TestOperators(t *testing.T) {
	tokens, err := Tokenize("a == b != c <= d >= e && f || g")
	assert.NoError(t, err)

	var ops []string

	for _, token := range tokens {
		if token.Type == OPERATOR {
			ops = append(ops, token.Value)
		}
	}

	assert.Equal(t, []string{"==", "!=", "<=", ">=", "&&", "||"}, ops)
}

func TestPositionTracking(t *testing.T) {
	tokens, err := Tokenize("x for\ny in zs")
	assert.NoError(t, err)

	// y is the first token of line 2
	assert.Equal(t, IDENTIFIER, tokens[2].Type)
	assert.Equal(t, "y", tokens[2].Value)
	assert.Equal(t, 2, tokens[2].Position.Line)
	assert.Equal(t, 1, tokens[2].Position.Column)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected error
	}{
		{"unterminated string", "'abc", ErrUnterminatedString},
		{"newline in string", "'ab\nc'", ErrUnterminatedString},
		{"dangling exponent", "1e+", ErrInvalidNumber},
		{"unexpected character", "x # y", ErrUnexpectedCharacter},
		{"single ampersand", "a & b", ErrUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			assert.IsError(t, err, tt.expected)
		})
	}
}

func TestRenderSource(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"list literal", "[1,2,3]", "[1, 2, 3]"},
		{"binary expression", "x*2", "x * 2"},
		{"selector chain", "a.b.c", "a.b.c"},
		{"call", "size( xs )", "size(xs)"},
		{"map literal", "{'a':1}", "{'a': 1}"},
		{"comparison", "y!=0", "y != 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.src)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, RenderSource(tokens[:len(tokens)-1]))
		})
	}
}
