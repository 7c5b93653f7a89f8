package search

import (
	"context"

	"github.com/elektrokombinacija/aircargo/internal/core"
)

// BreadthFirst is breadth-first graph search. Goals are tested when a node
// is generated, so the first plan found has the fewest actions.
type BreadthFirst struct {
	Options
}

// NewBreadthFirst creates a breadth-first searcher.
func NewBreadthFirst(opts Options) *BreadthFirst {
	return &BreadthFirst{Options: opts}
}

func (b *BreadthFirst) Name() string { return NameBreadthFirst }

// Search implements Searcher.
func (b *BreadthFirst) Search(ctx context.Context, p *core.Problem) (*Result, error) {
	c := newCounters(b.Options)
	res, err := b.search(ctx, p, c)
	return c.finish(b.Name(), res, err)
}

func (b *BreadthFirst) search(ctx context.Context, p *core.Problem, c *counters) (*Result, error) {
	root := &node{state: p.Initial()}
	c.goalTests++
	if p.GoalTest(root.state) {
		return c.result(root), nil
	}

	frontier := []*node{root}
	seen := map[core.State]bool{root.state: true}
	for len(frontier) > 0 {
		current := frontier[0]
		frontier[0] = nil
		frontier = frontier[1:]

		if err := c.expand(ctx); err != nil {
			return nil, err
		}
		for _, child := range c.successors(p, current) {
			if seen[child.state] {
				continue
			}
			seen[child.state] = true

			c.goalTests++
			if p.GoalTest(child.state) {
				return c.result(child), nil
			}
			frontier = append(frontier, child)
		}
	}
	return nil, ErrNoSolution
}

// DepthFirst is depth-first graph search. Plans are found quickly but are
// rarely short.
type DepthFirst struct {
	Options
}

// NewDepthFirst creates a depth-first searcher.
func NewDepthFirst(opts Options) *DepthFirst {
	return &DepthFirst{Options: opts}
}

func (d *DepthFirst) Name() string { return NameDepthFirst }

// Search implements Searcher.
func (d *DepthFirst) Search(ctx context.Context, p *core.Problem) (*Result, error) {
	c := newCounters(d.Options)
	res, err := d.search(ctx, p, c)
	return c.finish(d.Name(), res, err)
}

func (d *DepthFirst) search(ctx context.Context, p *core.Problem, c *counters) (*Result, error) {
	root := &node{state: p.Initial()}
	stack := []*node{root}
	onStack := map[core.State]bool{root.state: true}
	explored := make(map[core.State]bool)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack[len(stack)-1] = nil
		stack = stack[:len(stack)-1]
		delete(onStack, current.state)

		c.goalTests++
		if p.GoalTest(current.state) {
			return c.result(current), nil
		}
		explored[current.state] = true

		if err := c.expand(ctx); err != nil {
			return nil, err
		}
		for _, child := range c.successors(p, current) {
			if explored[child.state] || onStack[child.state] {
				continue
			}
			onStack[child.state] = true
			stack = append(stack, child)
		}
	}
	return nil, ErrNoSolution
}
