package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	tok "github.com/shibukawa/seqcomp/tokenizer"
)

func mustTokenize(t *testing.T, src string) []tok.Token {
	t.Helper()

	tokens, err := tok.Tokenize(src)
	assert.NoError(t, err)

	// drop the trailing EOF; spans handed to the sublanguage never carry it
	return tokens[:len(tokens)-1]
}

func TestCELParseExpression(t *testing.T) {
	lang := NewCELLanguage()

	tests := []struct {
		name   string
		input  string
		source string
		ok     bool
	}{
		{name: "arithmetic", input: "x * 2 + 1", source: "x * 2 + 1", ok: true},
		{name: "list literal", input: "[1, 2, 3]", source: "[1, 2, 3]", ok: true},
		{name: "map literal", input: "{'a': 1, 'b': 2}", source: "{'a': 1, 'b': 2}", ok: true},
		{name: "selector chain", input: "user.address.city", source: "user.address.city", ok: true},
		{name: "call", input: "size(xs) > 0", source: "size(xs) > 0", ok: true},
		{name: "dangling operator", input: "x +", ok: false},
		{name: "unbalanced call", input: "size(xs", ok: false},
		{name: "adjacent identifiers", input: "x y", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := lang.ParseExpression(mustTokenize(t, tt.input), "mapping")
			if !tt.ok {
				assert.Error(t, err)
				assert.IsError(t, err, ErrExpressionRejected)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.source, expr.Source)
		})
	}
}

func TestCELParsePattern(t *testing.T) {
	lang := NewCELLanguage()

	tests := []struct {
		name  string
		input string
		want  []string
		ok    bool
	}{
		{name: "single name", input: "x", want: []string{"x"}, ok: true},
		{name: "two names", input: "x, y", want: []string{"x", "y"}, ok: true},
		{name: "parenthesized", input: "(a, b, c)", want: []string{"a", "b", "c"}, ok: true},
		{name: "duplicate name", input: "x, x", ok: false},
		{name: "reserved word", input: "let", ok: false},
		{name: "trailing comma", input: "x, y,", ok: false},
		{name: "number", input: "42", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, err := lang.ParsePattern(mustTokenize(t, tt.input))
			if !tt.ok {
				assert.Error(t, err)
				assert.IsError(t, err, ErrInvalidPattern)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, pattern.Names)
		})
	}
}

func TestFreeIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "plain variables", input: "x + y * x", want: []string{"x", "y"}},
		{name: "selector fields excluded", input: "user.name", want: []string{"user"}},
		{name: "call targets excluded", input: "size(xs)", want: []string{"xs"}},
		{name: "literals only", input: "[1, 2, 3]", want: []string{}},
		{name: "sorted output", input: "c + a + b", want: []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreeIdentifiers(mustTokenize(t, tt.input))
			assert.Equal(t, tt.want, got)
		})
	}
}
