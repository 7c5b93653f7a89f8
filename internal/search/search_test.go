package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/elektrokombinacija/aircargo/internal/core"
	"github.com/elektrokombinacija/aircargo/internal/heuristic"
	"github.com/elektrokombinacija/aircargo/internal/instance"
)

func createTestProblem(t *testing.T, name string) *core.Problem {
	t.Helper()
	spec, err := instance.Builtin(name)
	require.NoError(t, err)
	p, err := spec.Problem()
	require.NoError(t, err)
	return p
}

// unreachableProblem has a cargo but no plane to move it.
func unreachableProblem(t *testing.T) *core.Problem {
	t.Helper()
	r := core.Roster{Cargos: []string{"C1"}, Airports: []string{"JFK", "SFO"}}
	p, err := core.NewProblem(r,
		core.FluentState{
			Pos: []core.Fluent{core.At("C1", "JFK")},
			Neg: []core.Fluent{core.At("C1", "SFO")},
		},
		[]core.Fluent{core.At("C1", "SFO")})
	require.NoError(t, err)
	return p
}

func allSearchers() []Searcher {
	opts := Options{}
	return []Searcher{
		NewBreadthFirst(opts),
		NewDepthFirst(opts),
		NewUniformCost(opts),
		NewGreedy(heuristic.IgnorePreconditions{}, opts),
		NewGreedy(heuristic.LevelSum{}, opts),
		NewAStar(heuristic.Constant{}, opts),
		NewAStar(heuristic.IgnorePreconditions{}, opts),
		NewAStar(heuristic.LevelSum{}, opts),
		NewAStar(heuristic.MaxLevel{}, opts),
	}
}

func TestSearchersFindValidPlans(t *testing.T) {
	p := createTestProblem(t, "air_cargo_p1")
	for _, s := range allSearchers() {
		t.Run(s.Name(), func(t *testing.T) {
			res, err := s.Search(context.Background(), p)
			require.NoError(t, err)
			require.NoError(t, p.ValidatePlan(res.Plan))
			assert.Equal(t, len(res.Plan), res.Cost)
			assert.Positive(t, res.Expansions)
			assert.Positive(t, res.GoalTests)
			assert.Positive(t, res.NewNodes)
		})
	}
}

func TestOptimalSearchers(t *testing.T) {
	p := createTestProblem(t, "air_cargo_p1")
	optimal := []Searcher{
		NewBreadthFirst(Options{}),
		NewUniformCost(Options{}),
		NewAStar(heuristic.IgnorePreconditions{}, Options{}),
		NewAStar(heuristic.MaxLevel{}, Options{}),
	}
	for _, s := range optimal {
		t.Run(s.Name(), func(t *testing.T) {
			res, err := s.Search(context.Background(), p)
			require.NoError(t, err)
			assert.Len(t, res.Plan, 6)
		})
	}
}

func TestBreadthFirstMetrics(t *testing.T) {
	p := createTestProblem(t, "air_cargo_p1")
	res, err := NewBreadthFirst(Options{}).Search(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 43, res.Expansions)
	assert.Equal(t, 56, res.GoalTests)
	assert.Equal(t, 180, res.NewNodes)
	assert.Len(t, res.Plan, 6)
}

// Every applicable action of every expanded state yields a counted node,
// including successors already seen.
func TestNewNodesCountsDuplicates(t *testing.T) {
	p := createTestProblem(t, "air_cargo_p1")
	for _, s := range allSearchers() {
		t.Run(s.Name(), func(t *testing.T) {
			res, err := s.Search(context.Background(), p)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.NewNodes, res.Expansions, "every expanded p1 state has a successor")
			assert.GreaterOrEqual(t, res.NewNodes, res.GoalTests-1)
		})
	}
}

func TestGoalAlreadyReached(t *testing.T) {
	r := core.Roster{Cargos: []string{"C1"}, Planes: []string{"P1"}, Airports: []string{"JFK"}}
	p, err := core.NewProblem(r,
		core.FluentState{
			Pos: []core.Fluent{core.At("C1", "JFK"), core.At("P1", "JFK")},
			Neg: []core.Fluent{core.In("C1", "P1")},
		},
		[]core.Fluent{core.At("C1", "JFK")})
	require.NoError(t, err)

	for _, s := range allSearchers() {
		res, err := s.Search(context.Background(), p)
		require.NoError(t, err, s.Name())
		assert.Empty(t, res.Plan, s.Name())
		assert.Equal(t, 0, res.Cost, s.Name())
	}
}

func TestNoSolution(t *testing.T) {
	p := unreachableProblem(t)
	for _, s := range allSearchers() {
		_, err := s.Search(context.Background(), p)
		assert.ErrorIs(t, err, ErrNoSolution, s.Name())
	}
}

func TestExpansionLimit(t *testing.T) {
	p := createTestProblem(t, "air_cargo_p1")
	opts := Options{MaxExpansions: 1}
	limited := []Searcher{
		NewBreadthFirst(opts),
		NewDepthFirst(opts),
		NewUniformCost(opts),
		NewAStar(heuristic.IgnorePreconditions{}, opts),
	}
	for _, s := range limited {
		_, err := s.Search(context.Background(), p)
		assert.ErrorIs(t, err, ErrExpansionLimit, s.Name())
	}
}

func TestCancelled(t *testing.T) {
	p := createTestProblem(t, "air_cargo_p1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range allSearchers() {
		_, err := s.Search(ctx, p)
		assert.True(t, errors.Is(err, context.Canceled), "%s: %v", s.Name(), err)
	}
}

func TestSearchLogs(t *testing.T) {
	obs, logs := observer.New(zap.DebugLevel)
	p := createTestProblem(t, "air_cargo_p1")

	_, err := NewBreadthFirst(Options{Logger: zap.New(obs)}).Search(context.Background(), p)
	require.NoError(t, err)

	entries := logs.FilterMessage("search finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, NameBreadthFirst, fields["searcher"])
	assert.EqualValues(t, 6, fields["plan_length"])
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		heuristic string
		want      string
		wantErr   bool
	}{
		{NameBreadthFirst, "", "breadth_first_search", false},
		{NameDepthFirst, "h_ignored", "depth_first_graph_search", false},
		{NameUniformCost, "", "uniform_cost_search", false},
		{NameGreedy, "h_pg_levelsum", "greedy_best_first_graph_search/h_pg_levelsum", false},
		{NameAStar, "h_ignore_preconditions", "astar_search/h_ignore_preconditions", false},
		{NameAStar, "", "", true},
		{"hill_climbing", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.heuristic, func(t *testing.T) {
			s, err := New(tt.name, tt.heuristic, Options{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Name())
		})
	}

	for _, name := range Names() {
		assert.Equal(t, name == NameGreedy || name == NameAStar, NeedsHeuristic(name))
	}
}
