package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// createRoster builds a roster from the given entity names.
func createRoster(cargos, planes []string, airports ...string) Roster {
	return Roster{Cargos: cargos, Planes: planes, Airports: airports}
}

// completeInitial lists every At/In fluent of r, positive when in pos.
func completeInitial(r Roster, pos ...Fluent) FluentState {
	holds := NewFluentSet(pos...)
	fs := FluentState{Pos: append([]Fluent(nil), pos...)}
	addNeg := func(f Fluent) {
		if !holds.Has(f) {
			fs.Neg = append(fs.Neg, f)
		}
	}
	for _, c := range r.Cargos {
		for _, a := range r.Airports {
			addNeg(At(c, a))
		}
		for _, p := range r.Planes {
			addNeg(In(c, p))
		}
	}
	for _, p := range r.Planes {
		for _, a := range r.Airports {
			addNeg(At(p, a))
		}
	}
	return fs
}

// createTestProblem builds the 2 cargo, 2 plane, 2 airport problem.
func createTestProblem(t *testing.T) *Problem {
	t.Helper()
	r := createRoster([]string{"C1", "C2"}, []string{"P1", "P2"}, "JFK", "SFO")
	initial := completeInitial(r,
		At("C1", "SFO"), At("C2", "JFK"), At("P1", "SFO"), At("P2", "JFK"))
	goal := []Fluent{At("C1", "JFK"), At("C2", "SFO")}

	p, err := NewProblem(r, initial, goal)
	require.NoError(t, err)
	return p
}
