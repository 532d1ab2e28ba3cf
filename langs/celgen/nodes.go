// Package celgen lowers a parsed comprehension into a CEL expression.
//
// The backend is a pure tree-to-tree transform: Generate produces a target
// expression tree built from four composable primitives (iterator source,
// lazy per-element transform, guarded optional value, per-element binding
// capture), and serialization to text is a separate, mechanical step. Tests
// compare trees structurally instead of comparing strings.
package celgen

import (
	"fmt"
	"strings"
)

// Node is one node of the target expression tree.
type Node interface {
	writeTo(b *strings.Builder)
}

// Embedded re-embeds an opaque source expression. Multi-token expressions are
// parenthesized so surrounding operators cannot capture their parts.
type Embedded struct {
	Source string
	Paren  bool
}

func (n Embedded) writeTo(b *strings.Builder) {
	if n.Paren {
		b.WriteByte('(')
		b.WriteString(n.Source)
		b.WriteByte(')')

		return
	}

	b.WriteString(n.Source)
}

// Ident references a variable by name.
type Ident struct {
	Name string
}

func (n Ident) writeTo(b *strings.Builder) {
	b.WriteString(n.Name)
}

// Index is a positional element access, used to destructure list-shaped
// elements for multi-name patterns.
type Index struct {
	Base Node
	At   int
}

func (n Index) writeTo(b *strings.Builder) {
	n.Base.writeTo(b)
	fmt.Fprintf(b, "[%d]", n.At)
}

// Conjunction is the admission test: an unconditional true base conjoined
// with each condition left to right. CEL's && short-circuits, so a failing
// condition prevents evaluation of the ones after it.
type Conjunction struct {
	Terms []Node
}

func (n Conjunction) writeTo(b *strings.Builder) {
	b.WriteString("true")

	for _, term := range n.Terms {
		b.WriteString(" && ")
		term.writeTo(b)
	}
}

// Bind captures one pattern variable for the current element via cel.bind;
// nested binds destructure multi-name patterns.
type Bind struct {
	Name string
	Init Node
	Body Node
}

func (n Bind) writeTo(b *strings.Builder) {
	b.WriteString("cel.bind(")
	b.WriteString(n.Name)
	b.WriteString(", ")
	n.Init.writeTo(b)
	b.WriteString(", ")
	n.Body.writeTo(b)
	b.WriteByte(')')
}

// MapCall is the lazy per-element transform over the iterator obtained from
// the source sequence. The three-argument map form evaluates Output only for
// elements whose Admit test holds, so every input element yields at most one
// output element.
type MapCall struct {
	Source Node
	Var    string
	Admit  Node
	Output Node
}

func (n MapCall) writeTo(b *strings.Builder) {
	n.Source.writeTo(b)
	b.WriteString(".map(")
	b.WriteString(n.Var)
	b.WriteString(", ")
	n.Admit.writeTo(b)
	b.WriteString(", ")
	n.Output.writeTo(b)
	b.WriteByte(')')
}

// Tree is a complete generated expression.
type Tree struct {
	Root Node
}

// String serializes the tree to CEL source text. Serialization is
// deterministic: the same tree always renders to the same text.
func (t *Tree) String() string {
	var b strings.Builder

	t.Root.writeTo(&b)

	return b.String()
}
