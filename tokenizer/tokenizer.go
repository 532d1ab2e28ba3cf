package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// TokenIterator uses the Go 1.23 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// Tokenizer turns comprehension source text into a token stream
type Tokenizer struct {
	input   string
	options Options
}

// Options are options for the tokenizer
type Options struct {
	SkipWhitespace bool
}

// New creates a new Tokenizer
func New(input string, options ...Options) *Tokenizer {
	opts := Options{}
	if len(options) > 0 {
		opts = options[0]
	}

	return &Tokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens
func (t *Tokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		s := &scanner{
			input:  t.input,
			line:   1,
			column: 1,
		}

		s.readChar()

		for {
			token, err := s.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// Tokenize materializes the whole token stream at once, dropping whitespace.
// The final EOF token is included.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token

	for token, err := range New(input, Options{SkipWhitespace: true}).Tokens() {
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

type scanner struct {
	input    string
	position int // current position (points to ch)
	readPos  int // next read position
	ch       byte
	line     int
	column   int
}

func (s *scanner) readChar() {
	if s.readPos >= len(s.input) {
		s.ch = 0
	} else {
		s.ch = s.input[s.readPos]
	}

	s.position = s.readPos
	s.readPos++
}

func (s *scanner) peekChar() byte {
	if s.readPos >= len(s.input) {
		return 0
	}

	return s.input[s.readPos]
}

func (s *scanner) currentPosition() Position {
	return Position{Line: s.line, Column: s.column, Offset: s.position}
}

// advance moves over the current character keeping line/column bookkeeping
func (s *scanner) advance() {
	if s.ch == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}

	s.readChar()
}

func (s *scanner) nextToken() (Token, error) {
	pos := s.currentPosition()

	switch {
	case s.ch == 0:
		return Token{Type: EOF, Position: pos}, nil
	case isWhitespace(s.ch):
		return s.scanWhitespace(pos), nil
	case s.ch == '\'' || s.ch == '"':
		return s.scanString(pos)
	case isDigit(s.ch):
		return s.scanNumber(pos)
	case isIdentStart(s.ch):
		return s.scanWord(pos), nil
	}

	switch s.ch {
	case '(':
		return s.single(OPENED_PARENS, pos), nil
	case ')':
		return s.single(CLOSED_PARENS, pos), nil
	case '[':
		return s.single(OPENED_BRACKET, pos), nil
	case ']':
		return s.single(CLOSED_BRACKET, pos), nil
	case '{':
		return s.single(OPENED_BRACE, pos), nil
	case '}':
		return s.single(CLOSED_BRACE, pos), nil
	case ',':
		return s.single(COMMA, pos), nil
	case '.':
		return s.single(DOT, pos), nil
	case ':':
		return s.single(COLON, pos), nil
	case '+', '-', '*', '/', '%', '?':
		return s.single(OPERATOR, pos), nil
	case '=', '!', '<', '>':
		return s.scanComparison(pos), nil
	case '&', '|':
		return s.scanLogical(pos)
	}

	return Token{}, fmt.Errorf("%w: %q at line %d, column %d", ErrUnexpectedCharacter, string(s.ch), pos.Line, pos.Column)
}

func (s *scanner) single(tt TokenType, pos Position) Token {
	value := string(s.ch)
	s.advance()

	return Token{Type: tt, Value: value, Position: pos}
}

func (s *scanner) scanWhitespace(pos Position) Token {
	start := s.position
	for isWhitespace(s.ch) {
		s.advance()
	}

	return Token{Type: WHITESPACE, Value: s.input[start:s.position], Position: pos}
}

func (s *scanner) scanWord(pos Position) Token {
	start := s.position
	for isIdentStart(s.ch) || isDigit(s.ch) {
		s.advance()
	}

	word := s.input[start:s.position]

	// keywords are only recognized as whole words
	switch word {
	case "for":
		return Token{Type: FOR, Value: word, Position: pos}
	case "in":
		return Token{Type: IN, Value: word, Position: pos}
	case "if":
		return Token{Type: IF, Value: word, Position: pos}
	case "true", "false":
		return Token{Type: BOOLEAN, Value: word, Position: pos}
	case "null":
		return Token{Type: NULL, Value: word, Position: pos}
	}

	return Token{Type: IDENTIFIER, Value: word, Position: pos}
}

// scanString keeps the surrounding quotes in the token value so the source
// text can be reassembled later
func (s *scanner) scanString(pos Position) (Token, error) {
	quote := s.ch
	start := s.position

	s.advance()

	for s.ch != quote {
		if s.ch == 0 || s.ch == '\n' {
			return Token{}, fmt.Errorf("%w: starting at line %d, column %d", ErrUnterminatedString, pos.Line, pos.Column)
		}

		if s.ch == '\\' {
			s.advance()
			if s.ch == 0 {
				return Token{}, fmt.Errorf("%w: starting at line %d, column %d", ErrUnterminatedString, pos.Line, pos.Column)
			}
		}

		s.advance()
	}

	s.advance() // closing quote

	return Token{Type: STRING, Value: s.input[start:s.position], Position: pos}, nil
}

func (s *scanner) scanNumber(pos Position) (Token, error) {
	start := s.position

	for isDigit(s.ch) {
		s.advance()
	}

	if s.ch == '.' && isDigit(s.peekChar()) {
		s.advance()
		for isDigit(s.ch) {
			s.advance()
		}
	}

	if s.ch == 'e' || s.ch == 'E' {
		s.advance()

		if s.ch == '+' || s.ch == '-' {
			s.advance()
		}

		if !isDigit(s.ch) {
			return Token{}, fmt.Errorf("%w: %q at line %d, column %d", ErrInvalidNumber, s.input[start:s.position], pos.Line, pos.Column)
		}

		for isDigit(s.ch) {
			s.advance()
		}
	}

	value := s.input[start:s.position]

	// arbitrary precision validation matches what the generated expressions
	// will accept downstream
	if _, err := decimal.NewFromString(value); err != nil {
		return Token{}, fmt.Errorf("%w: %q at line %d, column %d", ErrInvalidNumber, value, pos.Line, pos.Column)
	}

	return Token{Type: NUMBER, Value: value, Position: pos}, nil
}

func (s *scanner) scanComparison(pos Position) Token {
	start := s.position
	s.advance()

	if s.ch == '=' {
		s.advance()
	}

	return Token{Type: OPERATOR, Value: s.input[start:s.position], Position: pos}
}

func (s *scanner) scanLogical(pos Position) (Token, error) {
	first := s.ch
	start := s.position

	s.advance()

	if s.ch != first {
		return Token{}, fmt.Errorf("%w: %q at line %d, column %d", ErrUnexpectedCharacter, string(first), pos.Line, pos.Column)
	}

	s.advance()

	return Token{Type: OPERATOR, Value: s.input[start:s.position], Position: pos}, nil
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || unicode.IsLetter(rune(ch))
}

// RenderSource reassembles the source text of a token span. Spacing follows
// fixed rules so the result is deterministic: no space after an opening
// delimiter or dot, no space before a closing delimiter, comma, colon or dot.
func RenderSource(tokens []Token) string {
	var b strings.Builder

	for i, token := range tokens {
		if i > 0 && needsSpace(tokens[i-1], token) {
			b.WriteByte(' ')
		}

		b.WriteString(token.Value)
	}

	return b.String()
}

func needsSpace(prev, cur Token) bool {
	switch prev.Type {
	case OPENED_PARENS, OPENED_BRACKET, OPENED_BRACE, DOT:
		return false
	}

	switch cur.Type {
	case CLOSED_PARENS, CLOSED_BRACKET, CLOSED_BRACE, COMMA, COLON, DOT:
		return false
	case OPENED_PARENS, OPENED_BRACKET:
		// function calls and index accesses attach to the preceding name
		if prev.Type == IDENTIFIER || prev.Type == CLOSED_PARENS || prev.Type == CLOSED_BRACKET || prev.Type == STRING {
			return false
		}
	}

	return true
}
