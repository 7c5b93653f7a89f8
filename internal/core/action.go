package core

import "strings"

// Action schema names.
const (
	SchemaLoad   = "Load"
	SchemaUnload = "Unload"
	SchemaFly    = "Fly"
)

// Action is a grounded STRIPS operator. A Problem never hands out its own
// grounded actions, only clones, so they are never modified after grounding.
type Action struct {
	Name   string // e.g. "Load(C1, P1, SFO)"
	Schema string
	Args   []string

	PrecondPos []Fluent // must all hold
	PrecondNeg []Fluent // must all not hold
	EffectAdd  []Fluent // become true
	EffectRem  []Fluent // become false
}

func newAction(schema string, args []string, pos, neg, add, rem []Fluent) Action {
	return Action{
		Name:       schema + "(" + strings.Join(args, ", ") + ")",
		Schema:     schema,
		Args:       args,
		PrecondPos: pos,
		PrecondNeg: neg,
		EffectAdd:  add,
		EffectRem:  rem,
	}
}

func (a Action) String() string { return a.Name }

// Clone returns a copy of a that shares no slices with it.
func (a Action) Clone() Action {
	if a.Args != nil {
		a.Args = append(make([]string, 0, len(a.Args)), a.Args...)
	}
	a.PrecondPos = cloneFluents(a.PrecondPos)
	a.PrecondNeg = cloneFluents(a.PrecondNeg)
	a.EffectAdd = cloneFluents(a.EffectAdd)
	a.EffectRem = cloneFluents(a.EffectRem)
	return a
}

func cloneFluents(fs []Fluent) []Fluent {
	if fs == nil {
		return nil
	}
	return append(make([]Fluent, 0, len(fs)), fs...)
}

// LoadAction puts cargo c into plane p at airport a.
func LoadAction(c, p, a string) Action {
	return newAction(SchemaLoad, []string{c, p, a},
		[]Fluent{At(c, a), At(p, a)},
		nil,
		[]Fluent{In(c, p)},
		[]Fluent{At(c, a)},
	)
}

// UnloadAction takes cargo c out of plane p at airport a.
func UnloadAction(c, p, a string) Action {
	return newAction(SchemaUnload, []string{c, p, a},
		[]Fluent{In(c, p), At(p, a)},
		nil,
		[]Fluent{At(c, a)},
		[]Fluent{In(c, p)},
	)
}

// FlyAction moves plane p from airport from to airport to.
func FlyAction(p, from, to string) Action {
	return newAction(SchemaFly, []string{p, from, to},
		[]Fluent{At(p, from)},
		nil,
		[]Fluent{At(p, to)},
		[]Fluent{At(p, from)},
	)
}
