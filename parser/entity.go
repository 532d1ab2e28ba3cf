package parser

import (
	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/shibukawa/seqcomp/tokenizer"
)

// Entity is the value carried through the combinator pipeline. Raw tokens
// keep the original span so expression source text can be reassembled; Node
// holds the AST fragment once a rule has recognized its input.
type Entity struct {
	Original tok.Token
	Node     any
	raw      []tok.Token
}

func (e Entity) RawTokens() []tok.Token {
	result := make([]tok.Token, 0, len(e.raw))
	result = append(result, e.raw...)

	return result
}

func toParserTokens(tokens []tok.Token) []pc.Token[Entity] {
	results := make([]pc.Token[Entity], 0, len(tokens))

	for _, token := range tokens {
		if token.Type == tok.EOF || token.Type == tok.WHITESPACE {
			continue
		}

		results = append(results, pc.Token[Entity]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: Entity{
				Original: token,
				raw:      []tok.Token{token},
			},
			Raw: token.Value,
		})
	}

	return results
}

func rawTokens(entities []pc.Token[Entity]) []tok.Token {
	results := make([]tok.Token, 0, len(entities))
	for _, entity := range entities {
		results = append(results, entity.Val.RawTokens()...)
	}

	return results
}

func nodeToken(typeName string, node any, span []pc.Token[Entity]) pc.Token[Entity] {
	first := span[0]

	return pc.Token[Entity]{
		Type: typeName,
		Pos:  first.Pos,
		Val: Entity{
			Original: first.Val.Original,
			Node:     node,
			raw:      rawTokens(span),
		},
	}
}
