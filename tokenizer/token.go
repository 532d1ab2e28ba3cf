package tokenizer

import "errors"

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrInvalidNumber       = errors.New("invalid number format")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	IDENTIFIER // names, excluding comprehension keywords
	NUMBER     // numeric literals
	STRING     // string literals ('text', "text")
	BOOLEAN    // true, false
	NULL       // null

	// Comprehension keywords
	FOR // for keyword
	IN  // in keyword
	IF  // if keyword

	// Delimiters
	OPENED_PARENS  // (
	CLOSED_PARENS  // )
	OPENED_BRACKET // [
	CLOSED_BRACKET // ]
	OPENED_BRACE   // {
	CLOSED_BRACE   // }
	COMMA          // ,
	DOT            // .
	COLON          // :

	// Everything the expression sublanguage cares about but the grammar
	// does not: arithmetic, comparison and logical operators
	OPERATOR
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case IDENTIFIER:
		return "IDENTIFIER"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case BOOLEAN:
		return "BOOLEAN"
	case NULL:
		return "NULL"
	case FOR:
		return "FOR"
	case IN:
		return "IN"
	case IF:
		return "IF"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	case OPENED_BRACKET:
		return "OPENED_BRACKET"
	case CLOSED_BRACKET:
		return "CLOSED_BRACKET"
	case OPENED_BRACE:
		return "OPENED_BRACE"
	case CLOSED_BRACE:
		return "CLOSED_BRACE"
	case COMMA:
		return "COMMA"
	case DOT:
		return "DOT"
	case COLON:
		return "COLON"
	case OPERATOR:
		return "OPERATOR"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// IsKeyword reports whether the token is one of the comprehension keywords.
func (t Token) IsKeyword() bool {
	return t.Type == FOR || t.Type == IN || t.Type == IF
}
