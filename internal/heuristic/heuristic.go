// Package heuristic provides cost-to-goal estimates for air cargo search.
package heuristic

import (
	"fmt"
	"sort"

	"github.com/elektrokombinacija/aircargo/internal/core"
	"github.com/elektrokombinacija/aircargo/internal/pgraph"
)

// Infinite marks a state from which the goal cannot be reached. Search
// may prune such states.
const Infinite = pgraph.Unreachable

// Heuristic estimates the number of actions needed to reach the goal of p
// from s. Implementations never modify p or s.
type Heuristic interface {
	Estimate(p *core.Problem, s core.State) int

	// Name returns the heuristic name used in configuration.
	Name() string
}

// Func adapts a function to Heuristic.
type Func struct {
	Label string
	Fn    func(p *core.Problem, s core.State) int
}

// Estimate calls f.Fn.
func (f Func) Estimate(p *core.Problem, s core.State) int { return f.Fn(p, s) }

// Name returns f.Label.
func (f Func) Name() string { return f.Label }

// Constant always returns 1. It is a baseline that makes best-first search
// behave like uniform cost search, not a distance estimate.
type Constant struct{}

// Estimate returns 1.
func (Constant) Estimate(*core.Problem, core.State) int { return 1 }

// Name returns "h_1".
func (Constant) Name() string { return "h_1" }

// IgnorePreconditions counts goal fluents that do not hold in s. With
// preconditions dropped every action adds at most one goal fluent, so the
// count never exceeds the true remaining cost.
type IgnorePreconditions struct{}

// Estimate returns the number of unsatisfied goal fluents.
func (IgnorePreconditions) Estimate(p *core.Problem, s core.State) int {
	missing := 0
	for _, f := range p.Goal() {
		if !p.Holds(s, f) {
			missing++
		}
	}
	return missing
}

// Name returns "h_ignore_preconditions".
func (IgnorePreconditions) Name() string { return "h_ignore_preconditions" }

// LevelSum builds a planning graph from s and sums the level at which each
// goal fluent first appears. It returns Infinite when some goal never
// appears.
type LevelSum struct{}

// Estimate returns the level sum of the goal in a graph rooted at s.
func (LevelSum) Estimate(p *core.Problem, s core.State) int {
	return pgraph.New(p, s).LevelSum(p.Goal())
}

// Name returns "h_pg_levelsum".
func (LevelSum) Name() string { return "h_pg_levelsum" }

// MaxLevel is LevelSum with the maximum in place of the sum.
type MaxLevel struct{}

// Estimate returns the highest goal level in a graph rooted at s.
func (MaxLevel) Estimate(p *core.Problem, s core.State) int {
	return pgraph.New(p, s).MaxLevel(p.Goal())
}

// Name returns "h_pg_maxlevel".
func (MaxLevel) Name() string { return "h_pg_maxlevel" }

var registry = map[string]Heuristic{
	Constant{}.Name():            Constant{},
	IgnorePreconditions{}.Name(): IgnorePreconditions{},
	LevelSum{}.Name():            LevelSum{},
	MaxLevel{}.Name():            MaxLevel{},
}

// ByName returns the heuristic registered under name.
func ByName(name string) (Heuristic, error) {
	h, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q (known: %v)", name, Names())
	}
	return h, nil
}

// Names lists the registered heuristic names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
