package celgen

import (
	"reflect"

	"github.com/shibukawa/seqcomp/parser"
	"github.com/shibukawa/seqcomp/tokenizer"
)

// DefaultIterVar is the preferred iteration variable for multi-name patterns.
const DefaultIterVar = "it"

// Option configures generation.
type Option func(*config)

type config struct {
	iterVar string
}

// WithIterVar overrides the preferred iteration variable. The generator still
// appends underscores until the name is free of collisions with identifiers
// appearing in the comprehension.
func WithIterVar(name string) Option {
	return func(c *config) {
		if name != "" {
			c.iterVar = name
		}
	}
}

// Generate lowers a comprehension into a target expression tree. It is total:
// every Comprehension produced by the parser lowers successfully, so there is
// no error path.
//
// The lowering rule is fixed:
//
//	sequence.map(var, true && (C1) && ... && (Cn), mapping)
//
// with the pattern bindings captured per element. A single-name pattern uses
// its own name as the iteration variable; a multi-name pattern destructures a
// fresh variable positionally with nested cel.bind calls around both the
// admission test and the output expression.
func Generate(c *parser.Comprehension, opts ...Option) *Tree {
	cfg := config{iterVar: DefaultIterVar}
	for _, opt := range opts {
		opt(&cfg)
	}

	source := embed(c.Clause.Sequence)

	conj := Conjunction{Terms: make([]Node, 0, len(c.Clause.Conditions))}
	for _, cond := range c.Clause.Conditions {
		conj.Terms = append(conj.Terms, embed(cond.Expr))
	}

	output := embed(c.Mapping.Expr)

	pattern := c.Clause.Pattern
	if pattern.Single() {
		return &Tree{Root: MapCall{
			Source: source,
			Var:    pattern.Names[0],
			Admit:  conj,
			Output: output,
		}}
	}

	iterVar := freshVar(cfg.iterVar, c)

	return &Tree{Root: MapCall{
		Source: source,
		Var:    iterVar,
		Admit:  bindChain(pattern.Names, iterVar, conj),
		Output: bindChain(pattern.Names, iterVar, output),
	}}
}

// Equal reports structural equality of two trees.
func (t *Tree) Equal(o *Tree) bool {
	return reflect.DeepEqual(t, o)
}

func embed(expr parser.Expression) Node {
	return Embedded{
		Source: expr.Source,
		Paren:  len(expr.Tokens) > 1,
	}
}

// bindChain captures each pattern name for the current element, binding
// names[i] to elem[i] from the innermost body outward.
func bindChain(names []string, iterVar string, body Node) Node {
	for i := len(names) - 1; i >= 0; i-- {
		body = Bind{
			Name: names[i],
			Init: Index{Base: Ident{Name: iterVar}, At: i},
			Body: body,
		}
	}

	return body
}

// freshVar picks an iteration variable that cannot shadow or be shadowed by
// anything the comprehension mentions: identifiers from every captured span
// and the pattern names themselves.
func freshVar(base string, c *parser.Comprehension) string {
	used := make(map[string]struct{})

	// every identifier counts here, selector fields and call targets
	// included, so the fresh name cannot collide with anything at all
	collect := func(tokens []tokenizer.Token) {
		for _, token := range tokens {
			if token.Type == tokenizer.IDENTIFIER {
				used[token.Value] = struct{}{}
			}
		}
	}

	collect(c.Mapping.Expr.Tokens)
	collect(c.Clause.Sequence.Tokens)

	for _, cond := range c.Clause.Conditions {
		collect(cond.Expr.Tokens)
	}

	for _, name := range c.Clause.Pattern.Names {
		used[name] = struct{}{}
	}

	name := base
	for {
		if _, taken := used[name]; !taken {
			return name
		}

		name += "_"
	}
}
