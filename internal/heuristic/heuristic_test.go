package heuristic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/aircargo/internal/core"
	"github.com/elektrokombinacija/aircargo/internal/heuristic"
	"github.com/elektrokombinacija/aircargo/internal/instance"
	"github.com/elektrokombinacija/aircargo/internal/search"
)

func loadBuiltin(t *testing.T, name string) *core.Problem {
	t.Helper()
	spec, err := instance.Builtin(name)
	require.NoError(t, err)
	p, err := spec.Problem()
	require.NoError(t, err)
	return p
}

func TestInitialEstimates(t *testing.T) {
	p := loadBuiltin(t, "air_cargo_p1")

	tests := []struct {
		h    heuristic.Heuristic
		want int
	}{
		{heuristic.Constant{}, 1},
		{heuristic.IgnorePreconditions{}, 2},
		{heuristic.LevelSum{}, 6},
		{heuristic.MaxLevel{}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.h.Name(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.h.Estimate(p, p.Initial()))
		})
	}
}

func TestEstimatesAtGoal(t *testing.T) {
	p := loadBuiltin(t, "air_cargo_p1")
	res, err := search.NewBreadthFirst(search.Options{}).Search(context.Background(), p)
	require.NoError(t, err)

	s := p.Initial()
	for _, a := range res.Plan {
		s = p.Result(s, a)
	}
	require.True(t, p.GoalTest(s))

	assert.Equal(t, 0, heuristic.IgnorePreconditions{}.Estimate(p, s))
	assert.Equal(t, 0, heuristic.LevelSum{}.Estimate(p, s))
	assert.Equal(t, 0, heuristic.MaxLevel{}.Estimate(p, s))
	assert.Equal(t, 1, heuristic.Constant{}.Estimate(p, s))
}

// Along an optimal plan the remaining cost is known exactly, so admissible
// estimates can be checked state by state.
func TestAdmissibleAlongOptimalPlan(t *testing.T) {
	for _, name := range []string{"air_cargo_p1", "air_cargo_p2"} {
		t.Run(name, func(t *testing.T) {
			p := loadBuiltin(t, name)
			res, err := search.NewBreadthFirst(search.Options{}).Search(context.Background(), p)
			require.NoError(t, err)

			s := p.Initial()
			for i := 0; i <= len(res.Plan); i++ {
				remaining := len(res.Plan) - i
				assert.LessOrEqual(t, heuristic.IgnorePreconditions{}.Estimate(p, s), remaining, "step %d", i)
				assert.LessOrEqual(t, heuristic.MaxLevel{}.Estimate(p, s), remaining, "step %d", i)
				if i < len(res.Plan) {
					s = p.Result(s, res.Plan[i])
				}
			}
		})
	}
}

func TestUnreachableGoal(t *testing.T) {
	r := core.Roster{Cargos: []string{"C1"}, Airports: []string{"JFK", "SFO"}}
	p, err := core.NewProblem(r,
		core.FluentState{
			Pos: []core.Fluent{core.At("C1", "JFK")},
			Neg: []core.Fluent{core.At("C1", "SFO")},
		},
		[]core.Fluent{core.At("C1", "SFO")})
	require.NoError(t, err)

	assert.Equal(t, heuristic.Infinite, heuristic.LevelSum{}.Estimate(p, p.Initial()))
	assert.Equal(t, heuristic.Infinite, heuristic.MaxLevel{}.Estimate(p, p.Initial()))
	assert.Equal(t, 1, heuristic.IgnorePreconditions{}.Estimate(p, p.Initial()))
}

func TestByName(t *testing.T) {
	for _, name := range heuristic.Names() {
		h, err := heuristic.ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, h.Name())
	}

	_, err := heuristic.ByName("h_magic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "h_ignore_preconditions")
}

func TestFunc(t *testing.T) {
	p := loadBuiltin(t, "air_cargo_p1")
	count := func(p *core.Problem, s core.State) int {
		return len(p.TrueFluents(s))
	}
	h := heuristic.Func{Label: "h_fluents", Fn: count}
	assert.Equal(t, "h_fluents", h.Name())
	assert.Equal(t, 4, h.Estimate(p, p.Initial()))
}
