package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/elektrokombinacija/aircargo/internal/config"
	"github.com/elektrokombinacija/aircargo/internal/core"
	"github.com/elektrokombinacija/aircargo/internal/instance"
	"github.com/elektrokombinacija/aircargo/internal/search"
)

func createTestConfig(searchers ...config.SearcherConfig) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Instances = []string{"air_cargo_p1"}
	cfg.Searchers = searchers
	cfg.Parallelism = 3
	return cfg
}

func TestRunSharedProblem(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := createTestConfig(
		config.SearcherConfig{Name: search.NameBreadthFirst},
		config.SearcherConfig{Name: search.NameUniformCost},
		config.SearcherConfig{Name: search.NameAStar, Heuristic: "h_ignore_preconditions"},
		config.SearcherConfig{Name: search.NameAStar, Heuristic: "h_pg_levelsum"},
		config.SearcherConfig{Name: search.NameGreedy, Heuristic: "h_1"},
	)
	r, err := New(cfg, nil)
	require.NoError(t, err)

	runs, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 5)

	ids := make(map[string]bool)
	for _, run := range runs {
		assert.True(t, run.Solved(), "%s: %v", run.Searcher, run.Err)
		assert.Equal(t, "air_cargo_p1", run.Instance)
		assert.Equal(t, 12, run.Fluents)
		assert.Equal(t, 20, run.Actions)
		assert.Equal(t, 4, run.Facts)
		assert.NotEmpty(t, run.ID)
		ids[run.ID] = true
	}
	assert.Len(t, ids, 5)

	assert.Equal(t, search.NameBreadthFirst, runs[0].Searcher)
	assert.Equal(t, "astar_search/h_pg_levelsum", runs[3].Searcher)
	assert.Len(t, runs[0].Result.Plan, 6)
	assert.Len(t, runs[2].Result.Plan, 6)
}

func TestRunRecordsSearchFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := createTestConfig(
		config.SearcherConfig{Name: search.NameBreadthFirst},
		config.SearcherConfig{Name: search.NameDepthFirst},
	)
	cfg.MaxExpansions = 1
	r, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	runs, err := r.Run(context.Background())
	require.NoError(t, err)
	for _, run := range runs {
		assert.False(t, run.Solved())
		assert.ErrorIs(t, run.Err, search.ErrExpansionLimit)
	}
}

func TestRunCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, err := New(createTestConfig(config.SearcherConfig{Name: search.NameBreadthFirst}), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBadInstances(t *testing.T) {
	cfg := createTestConfig(config.SearcherConfig{Name: search.NameBreadthFirst})
	cfg.Instances = []string{"air_cargo_p1", "missing_one.yaml", "missing_two.yaml"}
	r, err := New(cfg, nil)
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_one.yaml")
	assert.Contains(t, err.Error(), "missing_two.yaml")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(createTestConfig(), nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunLogsRunID(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	r, err := New(createTestConfig(config.SearcherConfig{Name: search.NameBreadthFirst}), zap.New(obs))
	require.NoError(t, err)

	runs, err := r.Run(context.Background())
	require.NoError(t, err)

	entries := logs.FilterMessage("run finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, runs[0].ID, fields["run_id"])
	assert.Equal(t, true, fields["goal_entailed"])
	assert.EqualValues(t, 4, fields["kb_facts"])
}

func TestEntailGoal(t *testing.T) {
	spec, err := instance.Builtin("air_cargo_p1")
	require.NoError(t, err)
	p, err := spec.Problem()
	require.NoError(t, err)

	res, err := search.NewBreadthFirst(search.Options{}).Search(context.Background(), p)
	require.NoError(t, err)

	facts, err := entailGoal(p, res.Plan)
	require.NoError(t, err)
	assert.Equal(t, 4, facts)

	facts, err = entailGoal(p, res.Plan[:3])
	assert.ErrorIs(t, err, core.ErrGoalNotReached)
	assert.Equal(t, 4, facts)

	_, err = entailGoal(p, nil)
	require.ErrorIs(t, err, core.ErrGoalNotReached)
	assert.Contains(t, err.Error(), "At(C2, SFO)")
}

func TestSummarize(t *testing.T) {
	runs := []Run{
		{Searcher: "b", Result: &search.Result{Plan: make([]core.Action, 6), Expansions: 10, GoalTests: 11, NewNodes: 12}},
		{Searcher: "a", Err: search.ErrNoSolution},
		{Searcher: "b", Result: &search.Result{Plan: make([]core.Action, 8), Expansions: 20, GoalTests: 21, NewNodes: 22}},
	}
	got := Summarize(runs)
	require.Len(t, got, 2)

	assert.Equal(t, Summary{Searcher: "a", Runs: 1}, got[0])
	assert.Equal(t, 0.0, got[0].AvgPlanLength())

	b := got[1]
	assert.Equal(t, 2, b.Solved)
	assert.Equal(t, 30, b.Expansions)
	assert.Equal(t, 32, b.GoalTests)
	assert.Equal(t, 34, b.NewNodes)
	assert.Equal(t, 7.0, b.AvgPlanLength())
}
