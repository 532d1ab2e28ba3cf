package parser

import (
	"fmt"
	"slices"

	"github.com/google/cel-go/cel"
	tok "github.com/shibukawa/seqcomp/tokenizer"
)

// Sublanguage is the external expression grammar the parser delegates to.
// The grammar parser captures balanced token spans and hands them over; the
// sublanguage validates them and returns opaque nodes. The core depends only
// on this capability, never on any particular expression grammar.
type Sublanguage interface {
	// ParseExpression validates a captured token span as a general
	// expression. rule names the grammar rule the span belongs to and only
	// appears in error messages.
	ParseExpression(tokens []tok.Token, rule string) (Expression, error)
	// ParsePattern validates a captured token span as a single binding
	// pattern (identifier or identifier list).
	ParsePattern(tokens []tok.Token) (Pattern, error)
}

// CELLanguage implements Sublanguage on top of cel-go. Expression spans are
// compiled in a throwaway environment where every free identifier is declared
// dyn, so validation covers syntax and function resolution without demanding
// upfront type information.
type CELLanguage struct{}

func NewCELLanguage() *CELLanguage {
	return &CELLanguage{}
}

func (l *CELLanguage) ParseExpression(tokens []tok.Token, rule string) (Expression, error) {
	src := tok.RenderSource(tokens)

	vars := FreeIdentifiers(tokens)

	opts := make([]cel.EnvOption, 0, len(vars))
	for _, name := range vars {
		opts = append(opts, cel.Variable(name, cel.DynType))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return Expression{}, fmt.Errorf("%w: %s expression %q: %w", ErrExpressionRejected, rule, src, err)
	}

	if _, issues := env.Compile(src); issues != nil && issues.Err() != nil {
		return Expression{}, fmt.Errorf("%w: %s expression %q: %w", ErrExpressionRejected, rule, src, issues.Err())
	}

	return Expression{
		Source: src,
		Tokens: slices.Clone(tokens),
		Pos:    tokens[0].Position,
	}, nil
}

func (l *CELLanguage) ParsePattern(tokens []tok.Token) (Pattern, error) {
	span := tokens

	// optional surrounding parens
	if len(span) >= 2 && span[0].Type == tok.OPENED_PARENS && span[len(span)-1].Type == tok.CLOSED_PARENS {
		span = span[1 : len(span)-1]
	}

	if len(span) == 0 {
		return Pattern{}, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	names := make([]string, 0, (len(span)+1)/2)
	seen := make(map[string]struct{}, cap(names))

	for i, token := range span {
		if i%2 == 1 {
			if token.Type != tok.COMMA {
				return Pattern{}, fmt.Errorf("%w: expected ',' but found %q", ErrInvalidPattern, token.Value)
			}

			continue
		}

		if token.Type != tok.IDENTIFIER {
			return Pattern{}, fmt.Errorf("%w: expected identifier but found %q", ErrInvalidPattern, token.Value)
		}

		if isReservedWord(token.Value) {
			return Pattern{}, fmt.Errorf("%w: %q is a reserved word", ErrInvalidPattern, token.Value)
		}

		if _, dup := seen[token.Value]; dup {
			return Pattern{}, fmt.Errorf("%w: duplicate name %q", ErrInvalidPattern, token.Value)
		}

		seen[token.Value] = struct{}{}
		names = append(names, token.Value)
	}

	if len(span)%2 == 0 {
		return Pattern{}, fmt.Errorf("%w: trailing ','", ErrInvalidPattern)
	}

	return Pattern{Names: names, Pos: tokens[0].Position}, nil
}

// FreeIdentifiers collects the identifier tokens a span may reference as
// variables: selector fields (preceded by '.') and call targets (followed by
// '(') are excluded, the rest is deduplicated and sorted.
func FreeIdentifiers(tokens []tok.Token) []string {
	seen := make(map[string]struct{})

	for i, token := range tokens {
		if token.Type != tok.IDENTIFIER {
			continue
		}

		if i > 0 && tokens[i-1].Type == tok.DOT {
			continue
		}

		if i+1 < len(tokens) && tokens[i+1].Type == tok.OPENED_PARENS {
			continue
		}

		seen[token.Value] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// reserved words of the CEL spec; binding one of these would produce an
// expression the sublanguage itself cannot parse
var celReservedWords = map[string]struct{}{
	"as": {}, "break": {}, "const": {}, "continue": {}, "else": {},
	"false": {}, "for": {}, "function": {}, "if": {}, "import": {},
	"in": {}, "let": {}, "loop": {}, "null": {}, "namespace": {},
	"package": {}, "return": {}, "true": {}, "var": {}, "void": {},
	"while": {},
}

func isReservedWord(name string) bool {
	_, ok := celReservedWords[name]
	return ok
}
