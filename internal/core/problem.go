package core

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// compiledAction holds an action's fluents as ordering positions.
type compiledAction struct {
	pos, neg, add, rem []int
}

// Problem is a grounded air cargo planning problem. It is read-only after
// NewProblem returns and may be shared by concurrent searches; every
// state a caller holds is its own value.
type Problem struct {
	roster   Roster
	fluents  *FluentMap
	actions  []Action
	compiled []compiledAction
	byName   map[string]int
	initial  State
	goal     []Fluent
	goalIdx  []int
	logger   *zap.Logger
}

// Option configures a Problem.
type Option func(*Problem)

// WithLogger sets the logger used during construction.
func WithLogger(l *zap.Logger) Option {
	return func(p *Problem) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProblem builds and grounds a problem. The fluent ordering is
// initial.Pos followed by initial.Neg. Every goal fluent and every fluent
// mentioned by a grounded action must appear in it; otherwise an error
// wrapping ErrConfig is returned and no problem is built.
func NewProblem(r Roster, initial FluentState, goal []Fluent, opts ...Option) (*Problem, error) {
	p := &Problem{
		roster: r,
		goal:   append([]Fluent(nil), goal...),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	ordering := make([]Fluent, 0, len(initial.Pos)+len(initial.Neg))
	ordering = append(ordering, initial.Pos...)
	ordering = append(ordering, initial.Neg...)
	m, err := NewFluentMap(ordering)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	p.fluents = m

	var errs error
	p.goalIdx = make([]int, len(p.goal))
	for i, f := range p.goal {
		idx, ok := m.Index(f)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: goal %s", ErrUnknownFluent, f))
			continue
		}
		p.goalIdx[i] = idx
	}

	p.actions = GroundActions(r)
	p.compiled = make([]compiledAction, len(p.actions))
	p.byName = make(map[string]int, len(p.actions))
	for i, a := range p.actions {
		ca, err := p.compile(a)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		p.compiled[i] = ca
		p.byName[a.Name] = i
	}
	if errs != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, errs)
	}

	p.initial = Encode(initial, m)
	p.logger.Debug("grounded problem",
		zap.Int("cargos", len(r.Cargos)),
		zap.Int("planes", len(r.Planes)),
		zap.Int("airports", len(r.Airports)),
		zap.Int("fluents", m.Len()),
		zap.Int("actions", len(p.actions)),
		zap.Int("goals", len(p.goal)))
	return p, nil
}

// compile resolves a's fluents against the ordering.
func (p *Problem) compile(a Action) (compiledAction, error) {
	var ca compiledAction
	var err error
	resolve := func(fs []Fluent) []int {
		out := make([]int, 0, len(fs))
		for _, f := range fs {
			idx, ok := p.fluents.Index(f)
			if !ok {
				err = multierr.Append(err, fmt.Errorf("%w: %s in %s", ErrUnknownFluent, f, a.Name))
				continue
			}
			out = append(out, idx)
		}
		return out
	}
	ca.pos = resolve(a.PrecondPos)
	ca.neg = resolve(a.PrecondNeg)
	ca.add = resolve(a.EffectAdd)
	ca.rem = resolve(a.EffectRem)
	return ca, err
}

// lookup returns the compiled form of a, compiling actions this problem
// did not ground itself.
func (p *Problem) lookup(a Action) (compiledAction, error) {
	if i, ok := p.byName[a.Name]; ok {
		return p.compiled[i], nil
	}
	return p.compile(a)
}

func applicable(s State, ca compiledAction) bool {
	for _, i := range ca.pos {
		if s[i] != symTrue {
			return false
		}
	}
	for _, i := range ca.neg {
		if s[i] == symTrue {
			return false
		}
	}
	return true
}

// Roster returns the entity roster.
func (p *Problem) Roster() Roster { return p.roster }

// FluentMap returns the fluent ordering.
func (p *Problem) FluentMap() *FluentMap { return p.fluents }

// Initial returns the encoded initial state.
func (p *Problem) Initial() State { return p.initial }

// Goal returns a copy of the goal fluents.
func (p *Problem) Goal() []Fluent { return append([]Fluent(nil), p.goal...) }

// AllActions returns clones of the grounded actions in grounding order.
func (p *Problem) AllActions() []Action {
	out := make([]Action, len(p.actions))
	for i, a := range p.actions {
		out[i] = a.Clone()
	}
	return out
}

// ActionByName finds a grounded action such as "Fly(P1, SFO, JFK)".
func (p *Problem) ActionByName(name string) (Action, bool) {
	i, ok := p.byName[name]
	if !ok {
		return Action{}, false
	}
	return p.actions[i].Clone(), true
}

// Actions returns the actions applicable in s, in grounding order: all
// positive preconditions hold and no negative precondition holds. A state
// of the wrong width has no applicable actions.
func (p *Problem) Actions(s State) []Action {
	if len(s) != p.fluents.Len() {
		return nil
	}
	var out []Action
	for i, ca := range p.compiled {
		if applicable(s, ca) {
			out = append(out, p.actions[i].Clone())
		}
	}
	return out
}

// ActionsUnder is Actions with truth decided by an entailment oracle
// instead of a state vector.
func (p *Problem) ActionsUnder(e Entailer) []Action {
	var out []Action
	for _, a := range p.actions {
		if possible(e, a) {
			out = append(out, a.Clone())
		}
	}
	return out
}

func possible(e Entailer, a Action) bool {
	for _, f := range a.PrecondPos {
		if !e.Entails(f) {
			return false
		}
	}
	for _, f := range a.PrecondNeg {
		if e.Entails(f) {
			return false
		}
	}
	return true
}

// Result returns the state reached by executing a in s: fluents in
// a.EffectRem are cleared, then fluents in a.EffectAdd are set, giving
// (true(s) - rem) ∪ add. The caller must pass an action obtained from
// Actions(s); applicability is not checked here.
func (p *Problem) Result(s State, a Action) State {
	ca, _ := p.lookup(a)
	b := []byte(s)
	for _, i := range ca.rem {
		b[i] = symFalse
	}
	for _, i := range ca.add {
		b[i] = symTrue
	}
	return State(b)
}

// Apply is Result with the caller contract checked: s must be a state of
// this problem and a must be applicable in it.
func (p *Problem) Apply(s State, a Action) (State, error) {
	if len(s) != p.fluents.Len() {
		return "", fmt.Errorf("%w: state has %d positions, ordering has %d",
			ErrStateLength, len(s), p.fluents.Len())
	}
	ca, err := p.lookup(a)
	if err != nil {
		return "", err
	}
	if !applicable(s, ca) {
		return "", fmt.Errorf("%w: %s", ErrNotApplicable, a.Name)
	}
	return p.Result(s, a), nil
}

// GoalTest reports whether every goal fluent holds in s.
func (p *Problem) GoalTest(s State) bool {
	if len(s) != p.fluents.Len() {
		return false
	}
	for _, i := range p.goalIdx {
		if s[i] != symTrue {
			return false
		}
	}
	return true
}

// GoalEntailed reports whether e entails every goal fluent.
func (p *Problem) GoalEntailed(e Entailer) bool {
	for _, f := range p.goal {
		if !e.Entails(f) {
			return false
		}
	}
	return true
}

// Holds reports whether f is true in s. Fluents outside the ordering
// never hold.
func (p *Problem) Holds(s State, f Fluent) bool {
	i, ok := p.fluents.Index(f)
	return ok && i < len(s) && s[i] == symTrue
}

// TrueFluents lists the fluents that hold in s, in ordering order.
func (p *Problem) TrueFluents(s State) []Fluent {
	var out []Fluent
	for i := 0; i < len(s) && i < p.fluents.Len(); i++ {
		if s[i] == symTrue {
			out = append(out, p.fluents.At(i))
		}
	}
	return out
}

// TrueSet is TrueFluents as a set.
func (p *Problem) TrueSet(s State) FluentSet {
	return NewFluentSet(p.TrueFluents(s)...)
}

// ValidatePlan replays plan from the initial state with Apply and checks
// that it ends in a goal state.
func (p *Problem) ValidatePlan(plan []Action) error {
	s := p.initial
	for step, a := range plan {
		next, err := p.Apply(s, a)
		if err != nil {
			return fmt.Errorf("step %d: %w", step+1, err)
		}
		s = next
	}
	if !p.GoalTest(s) {
		return fmt.Errorf("%w after %d steps", ErrGoalNotReached, len(plan))
	}
	return nil
}
