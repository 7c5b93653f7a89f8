// Package pgraph builds Graphplan-style planning graphs for air cargo
// problems: alternating literal and action levels with mutex relations,
// expanded from a single state until the queried literals appear or the
// graph levels off.
package pgraph

import (
	"math"

	"github.com/elektrokombinacija/aircargo/internal/core"
)

// Unreachable is the level reported for literals the graph never reaches.
const Unreachable = math.MaxInt32

// Literal is a fluent or its negation.
type Literal struct {
	Fluent  core.Fluent
	Negated bool
}

// Pos returns the positive literal of f.
func Pos(f core.Fluent) Literal { return Literal{Fluent: f} }

// Neg returns the negative literal of f.
func Neg(f core.Fluent) Literal { return Literal{Fluent: f, Negated: true} }

// lit indexes literals as 2*fluent+polarity so that l^1 is the negation.
type lit int

func posLit(i int) lit    { return lit(2 * i) }
func negLit(i int) lit    { return lit(2*i + 1) }
func (l lit) negate() lit { return l ^ 1 }

// node is an action-level node: a grounded action or a persistence no-op.
type node struct {
	name string
	pre  []lit
	eff  []lit
	noop bool
}

// pairSet holds unordered pairs of small non-negative ints.
type pairSet map[uint64]struct{}

func pairKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

func (s pairSet) add(a, b int) { s[pairKey(a, b)] = struct{}{} }

func (s pairSet) has(a, b int) bool {
	_, ok := s[pairKey(a, b)]
	return ok
}

type litLevel struct {
	present []bool
	mutex   pairSet
}

type actLevel struct {
	nodes []int
	mutex pairSet
}

// Graph is a planning graph rooted at one state. It expands lazily as
// queries need deeper levels, so a Graph must not be shared between
// goroutines; build one per (problem, state) pair.
type Graph struct {
	fluents *core.FluentMap
	nodes   []node
	lits    []litLevel
	acts    []actLevel
	first   []int
	leveled bool
}

// New builds the graph for s and expands it until every goal of p appears
// or the graph levels off.
func New(p *core.Problem, s core.State) *Graph {
	m := p.FluentMap()
	nlits := 2 * m.Len()
	g := &Graph{
		fluents: m,
		first:   make([]int, nlits),
	}
	for i := range g.first {
		g.first[i] = -1
	}

	resolve := func(fs []core.Fluent, negated bool) []lit {
		out := make([]lit, 0, len(fs))
		for _, f := range fs {
			if i, ok := m.Index(f); ok {
				if negated {
					out = append(out, negLit(i))
				} else {
					out = append(out, posLit(i))
				}
			}
		}
		return out
	}
	for _, a := range p.AllActions() {
		g.nodes = append(g.nodes, node{
			name: a.Name,
			pre:  append(resolve(a.PrecondPos, false), resolve(a.PrecondNeg, true)...),
			eff:  append(resolve(a.EffectAdd, false), resolve(a.EffectRem, true)...),
		})
	}
	for l := 0; l < nlits; l++ {
		g.nodes = append(g.nodes, node{pre: []lit{lit(l)}, eff: []lit{lit(l)}, noop: true})
	}

	s0 := litLevel{present: make([]bool, nlits), mutex: pairSet{}}
	for i := 0; i < m.Len() && i < s.Len(); i++ {
		if s.Holds(i) {
			s0.present[posLit(i)] = true
		} else {
			s0.present[negLit(i)] = true
		}
	}
	g.pushLiterals(s0)

	var goals []lit
	for _, f := range p.Goal() {
		if i, ok := m.Index(f); ok {
			goals = append(goals, posLit(i))
		}
	}
	g.ensure(goals...)
	return g
}

func (g *Graph) pushLiterals(level litLevel) {
	k := len(g.lits)
	for l, ok := range level.present {
		if ok && g.first[l] < 0 {
			g.first[l] = k
		}
	}
	g.lits = append(g.lits, level)
}

// ensure expands until every literal in ls is present or the graph has
// leveled off.
func (g *Graph) ensure(ls ...lit) {
	for !g.leveled {
		missing := false
		for _, l := range ls {
			if g.first[l] < 0 {
				missing = true
				break
			}
		}
		if !missing {
			return
		}
		g.expand()
	}
}

// expand adds one action level and the literal level it produces.
func (g *Graph) expand() {
	cur := g.lits[len(g.lits)-1]

	var al actLevel
	for i, n := range g.nodes {
		if g.enabled(n, cur) {
			al.nodes = append(al.nodes, i)
		}
	}
	al.mutex = pairSet{}
	for x := 0; x < len(al.nodes); x++ {
		for y := x + 1; y < len(al.nodes); y++ {
			a, b := al.nodes[x], al.nodes[y]
			if g.actionsMutex(g.nodes[a], g.nodes[b], cur) {
				al.mutex.add(a, b)
			}
		}
	}
	g.acts = append(g.acts, al)

	next := litLevel{present: make([]bool, len(cur.present)), mutex: pairSet{}}
	achievers := make([][]int, len(cur.present))
	for _, a := range al.nodes {
		for _, e := range g.nodes[a].eff {
			next.present[e] = true
			achievers[e] = append(achievers[e], a)
		}
	}
	for l1 := range next.present {
		if !next.present[l1] {
			continue
		}
		for l2 := l1 + 1; l2 < len(next.present); l2++ {
			if !next.present[l2] {
				continue
			}
			if lit(l2) == lit(l1).negate() || inconsistentSupport(achievers[l1], achievers[l2], al.mutex) {
				next.mutex.add(l1, l2)
			}
		}
	}

	g.leveled = samePresence(cur.present, next.present) && len(cur.mutex) == len(next.mutex)
	g.pushLiterals(next)
}

// enabled reports whether n's preconditions are present and pairwise
// non-mutex in level.
func (g *Graph) enabled(n node, level litLevel) bool {
	for i, p := range n.pre {
		if !level.present[p] {
			return false
		}
		for _, q := range n.pre[i+1:] {
			if level.mutex.has(int(p), int(q)) {
				return false
			}
		}
	}
	return true
}

// actionsMutex applies the inconsistent effects, interference and
// competing needs tests.
func (g *Graph) actionsMutex(a, b node, level litLevel) bool {
	for _, ea := range a.eff {
		for _, eb := range b.eff {
			if ea == eb.negate() {
				return true
			}
		}
		for _, pb := range b.pre {
			if ea == pb.negate() {
				return true
			}
		}
	}
	for _, eb := range b.eff {
		for _, pa := range a.pre {
			if eb == pa.negate() {
				return true
			}
		}
	}
	for _, pa := range a.pre {
		for _, pb := range b.pre {
			if pa != pb && level.mutex.has(int(pa), int(pb)) {
				return true
			}
		}
	}
	return false
}

// inconsistentSupport reports whether every way of achieving both
// literals uses a mutex pair of actions.
func inconsistentSupport(xs, ys []int, mutex pairSet) bool {
	for _, x := range xs {
		for _, y := range ys {
			if x == y || !mutex.has(x, y) {
				return false
			}
		}
	}
	return true
}

func samePresence(a, b []bool) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (g *Graph) literal(l Literal) (lit, bool) {
	i, ok := g.fluents.Index(l.Fluent)
	if !ok {
		return 0, false
	}
	if l.Negated {
		return negLit(i), true
	}
	return posLit(i), true
}

// LiteralLevel returns the first literal level containing l, expanding
// the graph as needed. ok is false if l never appears.
func (g *Graph) LiteralLevel(l Literal) (level int, ok bool) {
	x, known := g.literal(l)
	if !known {
		return Unreachable, false
	}
	g.ensure(x)
	if g.first[x] < 0 {
		return Unreachable, false
	}
	return g.first[x], true
}

// Level is LiteralLevel for the positive literal of f.
func (g *Graph) Level(f core.Fluent) (int, bool) {
	return g.LiteralLevel(Pos(f))
}

// LevelSum sums the first level of every goal. If any goal never appears
// the result is Unreachable.
func (g *Graph) LevelSum(goals []core.Fluent) int {
	sum := 0
	for _, f := range goals {
		lvl, ok := g.Level(f)
		if !ok {
			return Unreachable
		}
		sum += lvl
	}
	return sum
}

// MaxLevel returns the largest first level among goals, or Unreachable.
func (g *Graph) MaxLevel(goals []core.Fluent) int {
	highest := 0
	for _, f := range goals {
		lvl, ok := g.Level(f)
		if !ok {
			return Unreachable
		}
		if lvl > highest {
			highest = lvl
		}
	}
	return highest
}

// Levels returns the number of literal levels built so far.
func (g *Graph) Levels() int { return len(g.lits) }

// LeveledOff reports whether further expansion would change nothing.
func (g *Graph) LeveledOff() bool { return g.leveled }

// Present reports whether l is in literal level k.
func (g *Graph) Present(k int, l Literal) bool {
	x, ok := g.literal(l)
	if !ok || k < 0 || k >= len(g.lits) {
		return false
	}
	return g.lits[k].present[x]
}

// Mutex reports whether a and b are mutually exclusive in literal level k.
func (g *Graph) Mutex(k int, a, b Literal) bool {
	x, ok1 := g.literal(a)
	y, ok2 := g.literal(b)
	if !ok1 || !ok2 || k < 0 || k >= len(g.lits) {
		return false
	}
	return g.lits[k].mutex.has(int(x), int(y))
}

// Actions returns the names of the grounded actions in action level k,
// excluding no-ops.
func (g *Graph) Actions(k int) []string {
	if k < 0 || k >= len(g.acts) {
		return nil
	}
	var out []string
	for _, i := range g.acts[k].nodes {
		if !g.nodes[i].noop {
			out = append(out, g.nodes[i].name)
		}
	}
	return out
}
