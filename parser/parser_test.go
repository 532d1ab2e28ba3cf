package parser

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	tok "github.com/shibukawa/seqcomp/tokenizer"
)

func TestParseSingleNameComprehension(t *testing.T) {
	comp, err := ParseString("x * 2 for x in [1, 2, 3]", NewCELLanguage())
	assert.NoError(t, err)

	assert.Equal(t, "x * 2", comp.Mapping.Expr.Source)
	assert.Equal(t, []string{"x"}, comp.Clause.Pattern.Names)
	assert.True(t, comp.Clause.Pattern.Single())
	assert.Equal(t, "[1, 2, 3]", comp.Clause.Sequence.Source)
	assert.Equal(t, 0, len(comp.Clause.Conditions))
}

func TestParseMultiNamePattern(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "bare list", input: "x / y for x, y in pairs if y != 0"},
		{name: "parenthesized list", input: "x / y for (x, y) in pairs if y != 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, err := ParseString(tt.input, NewCELLanguage())
			assert.NoError(t, err)

			assert.Equal(t, []string{"x", "y"}, comp.Clause.Pattern.Names)
			assert.False(t, comp.Clause.Pattern.Single())
			assert.Equal(t, "pairs", comp.Clause.Sequence.Source)
			assert.Equal(t, 1, len(comp.Clause.Conditions))
			assert.Equal(t, "y != 0", comp.Clause.Conditions[0].Expr.Source)
		})
	}
}

func TestParseMultipleConditions(t *testing.T) {
	comp, err := ParseString("x for x in [1, 2, 3, 4] if x > 1 if x < 4", NewCELLanguage())
	assert.NoError(t, err)

	assert.Equal(t, 2, len(comp.Clause.Conditions))
	assert.Equal(t, "x > 1", comp.Clause.Conditions[0].Expr.Source)
	assert.Equal(t, "x < 4", comp.Clause.Conditions[1].Expr.Source)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		rule     string
		expected string
		line     int
		column   int
	}{
		{
			name:     "empty input",
			input:    "",
			rule:     "comprehension",
			expected: "mapping expression",
			line:     1,
			column:   1,
		},
		{
			name:     "missing for",
			input:    "x * 2",
			rule:     "generator_clause",
			expected: "keyword 'for'",
			line:     1,
			column:   6,
		},
		{
			name:     "missing mapping",
			input:    "for x in xs",
			rule:     "mapping",
			expected: "mapping expression",
			line:     1,
			column:   1,
		},
		{
			name:     "missing in",
			input:    "x * 2 for x [1, 2, 3]",
			rule:     "generator_clause",
			expected: "keyword 'in'",
			line:     1,
			column:   13,
		},
		{
			name:     "missing pattern",
			input:    "x * 2 for in xs",
			rule:     "pattern",
			expected: "binding pattern",
			line:     1,
			column:   11,
		},
		{
			name:     "missing sequence",
			input:    "x * 2 for x in",
			rule:     "generator_clause",
			expected: "sequence expression",
			line:     1,
			column:   15,
		},
		{
			name:     "dangling if",
			input:    "x for x in xs if",
			rule:     "comprehension",
			expected: "end of input",
			line:     1,
			column:   15,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, err := ParseString(tt.input, NewCELLanguage())
			assert.Error(t, err)
			assert.Zero(t, comp)
			assert.IsError(t, err, ErrInvalidSyntax)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.rule, perr.Rule)
			assert.Equal(t, tt.expected, perr.Expected)
			assert.Equal(t, tt.line, perr.Pos.Line)
			assert.Equal(t, tt.column, perr.Pos.Column)
		})
	}
}

func TestParseRejectsInvalidExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rule  string
	}{
		{name: "broken mapping", input: "x + for x in xs", rule: "mapping"},
		{name: "broken sequence", input: "x for x in xs +", rule: "generator_clause"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input, NewCELLanguage())
			assert.Error(t, err)
			assert.IsError(t, err, ErrExpressionRejected)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.rule, perr.Rule)
		})
	}
}

func TestParseKeywordsInsideDelimitersDoNotSplitSpans(t *testing.T) {
	// the inner 'in' belongs to the sequence expression, not the grammar
	comp, err := ParseString("x for x in [1 in ys, 2 in ys]", NewCELLanguage())
	assert.NoError(t, err)

	assert.Equal(t, "[1 in ys, 2 in ys]", comp.Clause.Sequence.Source)
}

func TestParseConditionRollbackConsumesNothing(t *testing.T) {
	// the condition attempt fails inside the sublanguage, so the repetition
	// ends before the 'if' and the leftover input is reported there
	_, err := ParseString("x for x in xs if x > 0 extra junk", NewCELLanguage())
	assert.Error(t, err)

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, "end of input", perr.Expected)
	assert.Equal(t, 15, perr.Pos.Column)
}

func TestParsePreservesSpanTokens(t *testing.T) {
	comp, err := ParseString("x * 2 for x in xs", NewCELLanguage())
	assert.NoError(t, err)

	types := make([]tok.TokenType, 0, len(comp.Mapping.Expr.Tokens))
	for _, token := range comp.Mapping.Expr.Tokens {
		types = append(types, token.Type)
	}

	assert.Equal(t, []tok.TokenType{tok.IDENTIFIER, tok.OPERATOR, tok.NUMBER}, types)
	assert.Equal(t, tok.Position{Line: 1, Column: 1, Offset: 0}, comp.Mapping.Expr.Pos)
}
