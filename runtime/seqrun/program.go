// Package seqrun executes parsed comprehensions directly over Go values.
//
// Where celgen emits a translated expression for a host program to embed,
// seqrun is the in-process runtime: it compiles the sequence, the conditions
// and the mapping into CEL programs once, then streams elements through them
// lazily. Output is a pull-based iterator, so breaking out of the loop stops
// all remaining evaluation.
package seqrun

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/shibukawa/seqcomp/parser"
)

// Sentinel errors
var (
	// ErrNotIterable is returned when the sequence expression does not
	// evaluate to a list.
	ErrNotIterable = errors.New("sequence did not evaluate to an iterable value")
	// ErrPatternArity is returned when an element cannot be destructured
	// into the pattern's names.
	ErrPatternArity = errors.New("element does not match pattern arity")
	// ErrConditionNotBool is returned when a condition evaluates to a
	// non-boolean value.
	ErrConditionNotBool = errors.New("condition did not evaluate to a boolean")
	// ErrEvaluation wraps CEL evaluation failures.
	ErrEvaluation = errors.New("expression evaluation failed")
)

// Program is a compiled comprehension ready to run any number of times.
type Program struct {
	names      []string
	sequence   cel.Program
	conditions []cel.Program
	mapping    cel.Program
}

// Compile builds the per-expression CEL programs for a comprehension. All
// identifiers the comprehension mentions are declared dyn, so callers supply
// whatever parameters their expressions reference at run time.
func Compile(c *parser.Comprehension) (*Program, error) {
	env, err := newEnv(c)
	if err != nil {
		return nil, err
	}

	sequence, err := compileOne(env, c.Clause.Sequence.Source)
	if err != nil {
		return nil, err
	}

	conditions := make([]cel.Program, 0, len(c.Clause.Conditions))

	for _, cond := range c.Clause.Conditions {
		prog, err := compileOne(env, cond.Expr.Source)
		if err != nil {
			return nil, err
		}

		conditions = append(conditions, prog)
	}

	mapping, err := compileOne(env, c.Mapping.Expr.Source)
	if err != nil {
		return nil, err
	}

	return &Program{
		names:      c.Clause.Pattern.Names,
		sequence:   sequence,
		conditions: conditions,
		mapping:    mapping,
	}, nil
}

// Run evaluates the sequence once, then lazily yields the mapped value of
// every element for which all conditions hold. Conditions run in source order
// and stop at the first false, so later conditions and the mapping never see
// an element an earlier condition rejected. Evaluation errors surface through
// the error side of the pair and end the stream.
func (p *Program) Run(params map[string]any) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		activation := make(map[string]any, len(params)+len(p.names))
		maps.Copy(activation, params)

		seq, _, err := p.sequence.Eval(activation)
		if err != nil {
			yield(nil, fmt.Errorf("%w: sequence: %w", ErrEvaluation, err))
			return
		}

		lister, ok := seq.(traits.Lister)
		if !ok {
			yield(nil, fmt.Errorf("%w: got %s", ErrNotIterable, seq.Type().TypeName()))
			return
		}

		it := lister.Iterator()

		for it.HasNext() == types.True {
			elem := it.Next()

			if err := p.bind(activation, elem); err != nil {
				yield(nil, err)
				return
			}

			admitted, err := p.admit(activation)
			if err != nil {
				yield(nil, err)
				return
			}

			if !admitted {
				continue
			}

			out, _, err := p.mapping.Eval(activation)
			if err != nil {
				yield(nil, fmt.Errorf("%w: mapping: %w", ErrEvaluation, err))
				return
			}

			if !yield(out.Value(), nil) {
				return
			}
		}
	}
}

// Collect materializes a run, stopping at the first error.
func Collect(seq iter.Seq2[any, error]) ([]any, error) {
	var result []any

	for value, err := range seq {
		if err != nil {
			return nil, err
		}

		result = append(result, value)
	}

	return result, nil
}

func (p *Program) bind(activation map[string]any, elem ref.Val) error {
	if len(p.names) == 1 {
		activation[p.names[0]] = elem
		return nil
	}

	indexer, ok := elem.(traits.Indexer)
	if !ok {
		return fmt.Errorf("%w: element %s is not destructurable", ErrPatternArity, elem.Type().TypeName())
	}

	if sizer, ok := elem.(traits.Sizer); ok {
		if size, ok := sizer.Size().(types.Int); ok && int(size) != len(p.names) {
			return fmt.Errorf("%w: want %d values, element has %d", ErrPatternArity, len(p.names), int(size))
		}
	}

	for i, name := range p.names {
		value := indexer.Get(types.Int(i))
		if types.IsError(value) {
			return fmt.Errorf("%w: cannot take value %d from element", ErrPatternArity, i)
		}

		activation[name] = value
	}

	return nil
}

func (p *Program) admit(activation map[string]any) (bool, error) {
	for i, cond := range p.conditions {
		out, _, err := cond.Eval(activation)
		if err != nil {
			return false, fmt.Errorf("%w: condition %d: %w", ErrEvaluation, i+1, err)
		}

		b, ok := out.(types.Bool)
		if !ok {
			return false, fmt.Errorf("%w: condition %d evaluated to %s", ErrConditionNotBool, i+1, out.Type().TypeName())
		}

		if b != types.True {
			return false, nil
		}
	}

	return true, nil
}

func newEnv(c *parser.Comprehension) (*cel.Env, error) {
	seen := make(map[string]struct{})

	var opts []cel.EnvOption

	declare := func(names []string) {
		for _, name := range names {
			if _, done := seen[name]; done {
				continue
			}

			seen[name] = struct{}{}
			opts = append(opts, cel.Variable(name, cel.DynType))
		}
	}

	declare(c.Clause.Pattern.Names)
	declare(parser.FreeIdentifiers(c.Mapping.Expr.Tokens))
	declare(parser.FreeIdentifiers(c.Clause.Sequence.Tokens))

	for _, cond := range c.Clause.Conditions {
		declare(parser.FreeIdentifiers(cond.Expr.Tokens))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvaluation, err)
	}

	return env, nil
}

func compileOne(env *cel.Env, src string) (cel.Program, error) {
	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrEvaluation, src, issues.Err())
	}

	prog, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrEvaluation, src, err)
	}

	return prog, nil
}
