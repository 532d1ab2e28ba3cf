package parser

import (
	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/shibukawa/seqcomp/tokenizer"
)

// Parse builds a Comprehension from a token stream, delegating expression and
// pattern spans to the given sublanguage. The grammar is fixed:
//
//	comprehension   := mapping generator_clause
//	mapping         := expression
//	generator_clause:= 'for' pattern 'in' expression condition*
//	condition       := 'if' expression
//
// Parsing is strictly left to right with one token of structural lookahead
// per keyword. The first failure aborts with a *ParseError; no partial AST is
// ever returned.
func Parse(tokens []tok.Token, lang Sublanguage) (*Comprehension, error) {
	entities := toParserTokens(tokens)

	eof := endPosition(tokens)
	if len(entities) == 0 {
		return nil, &ParseError{Rule: "comprehension", Expected: "mapping expression", Pos: eof}
	}

	g := &grammar{lang: lang, eof: eof}

	pctx := pc.NewParseContext[Entity]()

	consumed, parsed, err := g.comprehension()(pctx, entities)
	if err != nil {
		return nil, err
	}

	if consumed < len(entities) {
		return nil, &ParseError{
			Rule:     "comprehension",
			Expected: "end of input",
			Pos:      entities[consumed].Val.Original.Position,
		}
	}

	comp, ok := parsed[0].Val.Node.(*Comprehension)
	if !ok {
		return nil, &ParseError{Rule: "comprehension", Expected: "comprehension", Pos: eof}
	}

	return comp, nil
}

// ParseString tokenizes src and parses it in one step.
func ParseString(src string, lang Sublanguage) (*Comprehension, error) {
	tokens, err := tok.Tokenize(src)
	if err != nil {
		return nil, err
	}

	return Parse(tokens, lang)
}

type grammar struct {
	lang Sublanguage
	eof  tok.Position
}

func (g *grammar) comprehension() pc.Parser[Entity] {
	return pc.Trans(
		pc.Seq(
			g.mapping(),
			g.keyword(tok.FOR, "generator_clause", "keyword 'for'"),
			g.pattern(),
			g.keyword(tok.IN, "generator_clause", "keyword 'in'"),
			g.sequence(),
			pc.ZeroOrMore("conditions", g.condition()),
		),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			comp := &Comprehension{}

			for _, token := range tokens {
				switch token.Type {
				case "mapping":
					comp.Mapping = token.Val.Node.(Mapping)
				case "pattern":
					comp.Clause.Pattern = token.Val.Node.(Pattern)
				case "sequence":
					comp.Clause.Sequence = token.Val.Node.(Expression)
				case "condition":
					comp.Clause.Conditions = append(comp.Clause.Conditions, token.Val.Node.(Condition))
				}
			}

			return []pc.Token[Entity]{nodeToken("comprehension", comp, tokens)}, nil
		},
	)
}

// mapping := expression, captured up to the top-level 'for'
func (g *grammar) mapping() pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		n := scanSpan(tokens, tok.FOR)
		if n == 0 {
			return 0, nil, &ParseError{Rule: "mapping", Expected: "mapping expression", Pos: g.posAt(tokens, 0)}
		}

		span := tokens[:n]

		expr, err := g.lang.ParseExpression(rawTokens(span), "mapping")
		if err != nil {
			return 0, nil, &ParseError{Rule: "mapping", Expected: "valid expression", Pos: g.posAt(tokens, 0), Cause: err}
		}

		return n, []pc.Token[Entity]{nodeToken("mapping", Mapping{Expr: expr}, span)}, nil
	}
}

func (g *grammar) keyword(tt tok.TokenType, rule string, expected string) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) == 0 || tokens[0].Val.Original.Type != tt {
			return 0, nil, &ParseError{Rule: rule, Expected: expected, Pos: g.posAt(tokens, 0)}
		}

		return 1, []pc.Token[Entity]{nodeToken("keyword", nil, tokens[:1])}, nil
	}
}

// pattern := identifier | identifier (',' identifier)* | '(' ... ')'
//
// The scan is structural only; validation of the captured span is the
// sublanguage's job.
func (g *grammar) pattern() pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		n := scanPattern(tokens)
		if n == 0 {
			return 0, nil, &ParseError{Rule: "pattern", Expected: "binding pattern", Pos: g.posAt(tokens, 0)}
		}

		span := tokens[:n]

		pattern, err := g.lang.ParsePattern(rawTokens(span))
		if err != nil {
			return 0, nil, &ParseError{Rule: "pattern", Expected: "binding pattern", Pos: g.posAt(tokens, 0), Cause: err}
		}

		return n, []pc.Token[Entity]{nodeToken("pattern", pattern, span)}, nil
	}
}

// sequence expression, captured up to the first top-level 'if' (or the end of
// input when there are no conditions)
func (g *grammar) sequence() pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		n := scanSpan(tokens, tok.IF)
		if n == 0 {
			return 0, nil, &ParseError{Rule: "generator_clause", Expected: "sequence expression", Pos: g.posAt(tokens, 0)}
		}

		span := tokens[:n]

		expr, err := g.lang.ParseExpression(rawTokens(span), "sequence")
		if err != nil {
			return 0, nil, &ParseError{Rule: "generator_clause", Expected: "valid sequence expression", Pos: g.posAt(tokens, 0), Cause: err}
		}

		return n, []pc.Token[Entity]{nodeToken("sequence", expr, span)}, nil
	}
}

// condition := 'if' expression. The whole rule is speculative: any failure
// (no 'if', empty span, sublanguage rejection) consumes nothing and reports
// ErrNotMatch so the surrounding zero-or-more repetition ends silently.
func (g *grammar) condition() pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) == 0 || tokens[0].Val.Original.Type != tok.IF {
			return 0, nil, pc.ErrNotMatch
		}

		rest := tokens[1:]

		n := scanSpan(rest, tok.IF)
		if n == 0 {
			return 0, nil, pc.ErrNotMatch
		}

		span := rest[:n]

		expr, err := g.lang.ParseExpression(rawTokens(span), "condition")
		if err != nil {
			return 0, nil, pc.ErrNotMatch
		}

		return 1 + n, []pc.Token[Entity]{nodeToken("condition", Condition{Expr: expr}, span)}, nil
	}
}

func (g *grammar) posAt(tokens []pc.Token[Entity], i int) tok.Position {
	if i >= len(tokens) {
		return g.eof
	}

	return tokens[i].Val.Original.Position
}

// scanSpan counts the tokens before the first top-level occurrence of the
// stop keyword. Delimited groups are skipped whole, so keywords nested inside
// parens, brackets or braces never terminate a span.
func scanSpan(tokens []pc.Token[Entity], stop tok.TokenType) int {
	depth := 0

	for i, token := range tokens {
		switch token.Val.Original.Type {
		case tok.OPENED_PARENS, tok.OPENED_BRACKET, tok.OPENED_BRACE:
			depth++
		case tok.CLOSED_PARENS, tok.CLOSED_BRACKET, tok.CLOSED_BRACE:
			depth--
		case stop:
			if depth == 0 {
				return i
			}
		}
	}

	return len(tokens)
}

// scanPattern counts the tokens of a leading binding pattern: an identifier
// list with optional surrounding parens. It stops before anything else, so a
// missing 'in' is reported at the first token after the pattern.
func scanPattern(tokens []pc.Token[Entity]) int {
	i := 0
	parens := false

	if i < len(tokens) && tokens[i].Val.Original.Type == tok.OPENED_PARENS {
		parens = true
		i++
	}

	if i >= len(tokens) || tokens[i].Val.Original.Type != tok.IDENTIFIER {
		return 0
	}

	i++

	for i+1 < len(tokens) && tokens[i].Val.Original.Type == tok.COMMA && tokens[i+1].Val.Original.Type == tok.IDENTIFIER {
		i += 2
	}

	if parens {
		if i >= len(tokens) || tokens[i].Val.Original.Type != tok.CLOSED_PARENS {
			return 0
		}

		i++
	}

	return i
}

func endPosition(tokens []tok.Token) tok.Position {
	if len(tokens) == 0 {
		return tok.Position{Line: 1, Column: 1}
	}

	last := tokens[len(tokens)-1]
	if last.Type == tok.EOF {
		return last.Position
	}

	return tok.Position{
		Line:   last.Position.Line,
		Column: last.Position.Column + len(last.Value),
		Offset: last.Position.Offset + len(last.Value),
	}
}
