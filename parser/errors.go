package parser

import (
	"errors"
	"fmt"

	"github.com/shibukawa/seqcomp/tokenizer"
)

// Sentinel errors
var (
	// ErrInvalidSyntax is the base error for every syntax failure; use
	// errors.Is against it to detect parse failures of any kind.
	ErrInvalidSyntax = errors.New("invalid comprehension syntax")
	// ErrExpressionRejected indicates the expression sublanguage refused a
	// captured expression span.
	ErrExpressionRejected = errors.New("expression rejected by sublanguage")
	// ErrInvalidPattern indicates a malformed binding pattern.
	ErrInvalidPattern = errors.New("invalid binding pattern")
)

// ParseError is the single syntax error kind. It records which grammar rule
// was being attempted, the construct that was expected and the token stream
// position where the mismatch occurred. No partial AST accompanies it.
type ParseError struct {
	Rule     string
	Expected string
	Pos      tokenizer.Position
	Cause    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error in %s: expected %s at line %d, column %d", e.Rule, e.Expected, e.Pos.Line, e.Pos.Column)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidSyntax, e.Cause}
	}

	return []error{ErrInvalidSyntax}
}
