package search

import (
	"container/heap"
	"context"

	"github.com/elektrokombinacija/aircargo/internal/core"
	"github.com/elektrokombinacija/aircargo/internal/heuristic"
)

// nodeHeap implements heap.Interface ordered by f, then insertion order.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// BestFirst is best-first graph search ordered by a priority computed from
// a node's path cost g and heuristic estimate h. Goals are tested when a
// node is expanded.
type BestFirst struct {
	Options
	name     string
	h        heuristic.Heuristic
	priority func(g, h int) int
	informed bool
}

// NewUniformCost orders nodes by path cost alone.
func NewUniformCost(opts Options) *BestFirst {
	return &BestFirst{
		Options:  opts,
		name:     NameUniformCost,
		h:        heuristic.Constant{},
		priority: func(g, _ int) int { return g },
	}
}

// NewGreedy orders nodes by the heuristic estimate alone.
func NewGreedy(h heuristic.Heuristic, opts Options) *BestFirst {
	return &BestFirst{
		Options:  opts,
		name:     NameGreedy,
		h:        h,
		priority: func(_, h int) int { return h },
		informed: true,
	}
}

// NewAStar orders nodes by g + h. With an admissible heuristic the first
// plan found is optimal.
func NewAStar(h heuristic.Heuristic, opts Options) *BestFirst {
	return &BestFirst{
		Options:  opts,
		name:     NameAStar,
		h:        h,
		priority: func(g, h int) int { return g + h },
		informed: true,
	}
}

// Name returns the algorithm name, qualified by the heuristic if one is used.
func (b *BestFirst) Name() string {
	if b.informed {
		return b.name + "/" + b.h.Name()
	}
	return b.name
}

// Search implements Searcher.
func (b *BestFirst) Search(ctx context.Context, p *core.Problem) (*Result, error) {
	c := newCounters(b.Options)
	res, err := b.search(ctx, p, c)
	return c.finish(b.Name(), res, err)
}

func (b *BestFirst) search(ctx context.Context, p *core.Problem, c *counters) (*Result, error) {
	seq := 0
	push := func(open *nodeHeap, n *node) {
		n.seq = seq
		seq++
		heap.Push(open, n)
	}

	open := &nodeHeap{}
	heap.Init(open)

	root := &node{state: p.Initial()}
	if b.informed {
		h := b.h.Estimate(p, root.state)
		if h >= heuristic.Infinite {
			return nil, ErrNoSolution
		}
		root.f = b.priority(0, h)
	}
	push(open, root)

	bestG := map[core.State]int{root.state: 0}
	explored := make(map[core.State]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		if explored[current.state] {
			continue
		}

		c.goalTests++
		if p.GoalTest(current.state) {
			return c.result(current), nil
		}
		explored[current.state] = true

		if err := c.expand(ctx); err != nil {
			return nil, err
		}
		for _, child := range c.successors(p, current) {
			if explored[child.state] {
				continue
			}
			if old, ok := bestG[child.state]; ok && old <= child.g {
				continue
			}

			h := 0
			if b.informed {
				h = b.h.Estimate(p, child.state)
				if h >= heuristic.Infinite {
					continue
				}
			}
			bestG[child.state] = child.g
			child.f = b.priority(child.g, h)
			push(open, child)
		}
	}
	return nil, ErrNoSolution
}
