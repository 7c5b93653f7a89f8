// Package kb is a fluent knowledge base backed by a Mangle fact store.
// Told fluents are stored as ground atoms, e.g. At(C1, SFO) becomes
// At("C1", "SFO"), and entailment is fact membership.
package kb

import (
	"sort"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"

	"github.com/elektrokombinacija/aircargo/internal/core"
)

// KB holds the fluents it has been told. It implements core.Entailer.
type KB struct {
	store factstore.FactStore
}

// New returns an empty knowledge base.
func New() *KB {
	return &KB{store: factstore.NewSimpleInMemoryStore()}
}

// FromState returns a knowledge base told every fluent that holds in s.
func FromState(p *core.Problem, s core.State) *KB {
	kb := New()
	kb.TellState(p, s)
	return kb
}

func toAtom(f core.Fluent) ast.Atom {
	args := f.Args()
	terms := make([]ast.BaseTerm, len(args))
	for i, a := range args {
		terms[i] = ast.String(a)
	}
	return ast.NewAtom(f.Pred(), terms...)
}

func fromAtom(a ast.Atom) core.Fluent {
	args := make([]string, len(a.Args))
	for i, t := range a.Args {
		if c, ok := t.(ast.Constant); ok {
			args[i] = c.Symbol
		} else {
			args[i] = t.String()
		}
	}
	return core.NewFluent(a.Predicate.Symbol, args...)
}

// Tell asserts fs and returns how many were new.
func (kb *KB) Tell(fs ...core.Fluent) int {
	added := 0
	for _, f := range fs {
		if kb.store.Add(toAtom(f)) {
			added++
		}
	}
	return added
}

// TellState asserts the positive sentence of s: every fluent that holds.
func (kb *KB) TellState(p *core.Problem, s core.State) int {
	return kb.Tell(p.TrueFluents(s)...)
}

// Entails reports whether f has been told.
func (kb *KB) Entails(f core.Fluent) bool {
	return kb.store.Contains(toAtom(f))
}

// AskAll reports whether every fluent in fs is entailed.
func (kb *KB) AskAll(fs []core.Fluent) bool {
	for _, f := range fs {
		if !kb.Entails(f) {
			return false
		}
	}
	return true
}

// Missing returns the fluents of fs that are not entailed, in order.
func (kb *KB) Missing(fs []core.Fluent) []core.Fluent {
	var out []core.Fluent
	for _, f := range fs {
		if !kb.Entails(f) {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of stored facts.
func (kb *KB) Len() int { return kb.store.EstimateFactCount() }

// Facts returns every stored fluent in sorted order.
func (kb *KB) Facts() ([]core.Fluent, error) {
	var out []core.Fluent
	for _, pred := range kb.store.ListPredicates() {
		err := kb.store.GetFacts(ast.NewQuery(pred), func(a ast.Atom) error {
			out = append(out, fromAtom(a))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
