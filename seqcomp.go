// Package seqcomp translates comprehension expressions into equivalent lazy
// CEL expressions. A comprehension is a mapping expression followed by a
// single 'for pattern in sequence' clause and any number of 'if' guards.
//
// The pipeline has two stages: the frontend (tokenizer + parser) builds a
// Comprehension AST, delegating embedded expressions and binding patterns to
// the CEL sublanguage; the backend (langs/celgen) lowers that AST into a
// filtered, mapped iterator-chain expression. runtime/seqrun additionally
// executes parsed comprehensions in process over Go values.
package seqcomp

import (
	"strings"

	"github.com/shibukawa/seqcomp/langs/celgen"
	"github.com/shibukawa/seqcomp/parser"
	"github.com/shibukawa/seqcomp/tokenizer"
)

// Translate converts comprehension source text into a CEL expression using
// the default configuration.
func Translate(src string) (string, error) {
	return TranslateWithConfig(src, getDefaultConfig())
}

// TranslateWithConfig converts comprehension source text into a CEL
// expression. Tokenization or parse failures are returned as-is; generation
// itself cannot fail.
func TranslateWithConfig(src string, config *Config) (string, error) {
	comp, err := TranslateAST(src)
	if err != nil {
		return "", err
	}

	tree := celgen.Generate(comp, celgen.WithIterVar(config.Generation.IteratorVariable))

	return tree.String(), nil
}

// TranslateAST runs only the frontend and exposes the parsed comprehension
// for tooling that wants the tree rather than the rendered text.
func TranslateAST(src string) (*parser.Comprehension, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptyInput
	}

	tokens, err := tokenizer.Tokenize(src)
	if err != nil {
		return nil, err
	}

	return parser.Parse(tokens, parser.NewCELLanguage())
}
