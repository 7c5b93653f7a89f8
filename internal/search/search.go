// Package search implements state-space search over air cargo problems.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/elektrokombinacija/aircargo/internal/core"
	"github.com/elektrokombinacija/aircargo/internal/heuristic"
)

var (
	// ErrNoSolution indicates the reachable state space contains no goal.
	ErrNoSolution = errors.New("no solution")

	// ErrExpansionLimit indicates the search gave up after MaxExpansions.
	ErrExpansionLimit = errors.New("expansion limit reached")
)

// Searcher is the interface for search algorithms.
type Searcher interface {
	// Search looks for a plan from p's initial state to its goal. The
	// problem is only queried, never modified.
	Search(ctx context.Context, p *core.Problem) (*Result, error)

	// Name returns the algorithm name.
	Name() string
}

// Result is a found plan with the search effort spent on it.
type Result struct {
	Plan       []core.Action
	Cost       int
	Expansions int // nodes whose successors were generated
	GoalTests  int
	NewNodes   int // successors generated, duplicates included
	Elapsed    time.Duration
}

// Options are shared by all searchers.
type Options struct {
	MaxExpansions int // 0 means unlimited
	Logger        *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// node is a search tree node.
type node struct {
	state  core.State
	action core.Action
	parent *node
	g      int // path cost
	f      int // priority
	seq    int // insertion order, breaks priority ties
	index  int // heap index
}

func reconstructPlan(n *node) []core.Action {
	var plan []core.Action
	for ; n != nil && n.parent != nil; n = n.parent {
		plan = append(plan, n.action)
	}
	for i, j := 0, len(plan)-1; i < j; i, j = i+1, j-1 {
		plan[i], plan[j] = plan[j], plan[i]
	}
	return plan
}

// counters tracks effort and enforces limits between expansions.
type counters struct {
	opts       Options
	expansions int
	goalTests  int
	newNodes   int
	start      time.Time
}

func newCounters(opts Options) *counters {
	return &counters{opts: opts, start: time.Now()}
}

func (c *counters) expand(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.opts.MaxExpansions > 0 && c.expansions >= c.opts.MaxExpansions {
		return fmt.Errorf("%w: %d", ErrExpansionLimit, c.opts.MaxExpansions)
	}
	c.expansions++
	return nil
}

// successors generates every child of n, one per applicable action, and
// counts each as a new node whether or not the caller keeps it.
func (c *counters) successors(p *core.Problem, n *node) []*node {
	actions := p.Actions(n.state)
	children := make([]*node, len(actions))
	for i, a := range actions {
		children[i] = &node{
			state:  p.Result(n.state, a),
			action: a,
			parent: n,
			g:      n.g + 1,
		}
	}
	c.newNodes += len(children)
	return children
}

func (c *counters) result(goal *node) *Result {
	return &Result{
		Plan:       reconstructPlan(goal),
		Cost:       goal.g,
		Expansions: c.expansions,
		GoalTests:  c.goalTests,
		NewNodes:   c.newNodes,
		Elapsed:    time.Since(c.start),
	}
}

func (c *counters) finish(name string, res *Result, err error) (*Result, error) {
	log := c.opts.logger()
	if err != nil {
		log.Debug("search failed",
			zap.String("searcher", name),
			zap.Int("expansions", c.expansions),
			zap.Error(err))
		return nil, err
	}
	log.Debug("search finished",
		zap.String("searcher", name),
		zap.Int("plan_length", len(res.Plan)),
		zap.Int("expansions", res.Expansions),
		zap.Int("goal_tests", res.GoalTests),
		zap.Int("new_nodes", res.NewNodes),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// New builds a searcher by name. Heuristic searchers need a heuristic
// name as well; uninformed ones ignore it.
func New(name, heuristicName string, opts Options) (Searcher, error) {
	switch name {
	case NameBreadthFirst:
		return NewBreadthFirst(opts), nil
	case NameDepthFirst:
		return NewDepthFirst(opts), nil
	case NameUniformCost:
		return NewUniformCost(opts), nil
	case NameGreedy, NameAStar:
		h, err := heuristic.ByName(heuristicName)
		if err != nil {
			return nil, err
		}
		if name == NameGreedy {
			return NewGreedy(h, opts), nil
		}
		return NewAStar(h, opts), nil
	default:
		return nil, fmt.Errorf("unknown searcher %q", name)
	}
}

// Searcher names accepted by New.
const (
	NameBreadthFirst = "breadth_first_search"
	NameDepthFirst   = "depth_first_graph_search"
	NameUniformCost  = "uniform_cost_search"
	NameGreedy       = "greedy_best_first_graph_search"
	NameAStar        = "astar_search"
)

// Names lists every searcher name accepted by New.
func Names() []string {
	return []string{NameBreadthFirst, NameDepthFirst, NameUniformCost, NameGreedy, NameAStar}
}

// NeedsHeuristic reports whether the named searcher uses a heuristic.
func NeedsHeuristic(name string) bool {
	return name == NameGreedy || name == NameAStar
}
