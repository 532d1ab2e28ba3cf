package parser

import "github.com/shibukawa/seqcomp/tokenizer"

// Expression is an opaque expression handed off to the sublanguage for
// validation. The core never looks inside it; it only re-embeds the source
// text during generation.
type Expression struct {
	Source string
	Tokens []tokenizer.Token
	Pos    tokenizer.Position
}

// Pattern is the binding introduced by a generator clause: a single
// identifier, or a comma separated identifier list (optionally
// parenthesized). The names scope over the mapping and all conditions.
type Pattern struct {
	Names []string
	Pos   tokenizer.Position
}

// Single reports whether the pattern binds exactly one name.
func (p Pattern) Single() bool {
	return len(p.Names) == 1
}

// Mapping wraps the expression evaluated once per admitted element.
type Mapping struct {
	Expr Expression
}

// Condition wraps one boolean expression guarding element admission.
type Condition struct {
	Expr Expression
}

// GeneratorClause is the 'for' pattern 'in' sequence ('if' condition)*
// portion of a comprehension. Conditions keep their source order; they are
// conjoined left to right with short-circuit semantics at lowering time.
type GeneratorClause struct {
	Pattern    Pattern
	Sequence   Expression
	Conditions []Condition
}

// Comprehension is the root node. It only comes into existence through a
// successful Parse, so any Comprehension value is structurally valid by
// construction. Exactly one generator clause; chained clauses are a
// deliberately omitted extension (the field would become a slice).
type Comprehension struct {
	Mapping Mapping
	Clause  GeneratorClause
}
