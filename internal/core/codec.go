package core

import "fmt"

// State is a fixed-width truth vector over a FluentMap: byte i is 'T' when
// the fluent at position i holds and 'F' otherwise. States are values and
// are never modified in place.
type State string

const (
	symTrue  = 'T'
	symFalse = 'F'
)

// NewState builds a state from a boolean vector.
func NewState(bits []bool) State {
	b := make([]byte, len(bits))
	for i, v := range bits {
		if v {
			b[i] = symTrue
		} else {
			b[i] = symFalse
		}
	}
	return State(b)
}

// Len returns the state width.
func (s State) Len() int { return len(s) }

// Holds reports whether position i is true.
func (s State) Holds(i int) bool { return s[i] == symTrue }

// Bits returns the state as a boolean vector.
func (s State) Bits() []bool {
	bits := make([]bool, len(s))
	for i := range bits {
		bits[i] = s[i] == symTrue
	}
	return bits
}

// FluentMap is the fixed fluent ordering of a problem. Position i of every
// state of the problem refers to At(i).
type FluentMap struct {
	fluents []Fluent
	index   map[Fluent]int
}

// NewFluentMap builds an ordering. A fluent listed twice is an error.
func NewFluentMap(fluents []Fluent) (*FluentMap, error) {
	m := &FluentMap{
		fluents: make([]Fluent, len(fluents)),
		index:   make(map[Fluent]int, len(fluents)),
	}
	copy(m.fluents, fluents)
	for i, f := range fluents {
		if _, dup := m.index[f]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFluent, f)
		}
		m.index[f] = i
	}
	return m, nil
}

// Len returns the number of fluents.
func (m *FluentMap) Len() int { return len(m.fluents) }

// At returns the fluent at position i.
func (m *FluentMap) At(i int) Fluent { return m.fluents[i] }

// Index returns the position of f.
func (m *FluentMap) Index(f Fluent) (int, bool) {
	i, ok := m.index[f]
	return i, ok
}

// Fluents returns a copy of the ordering.
func (m *FluentMap) Fluents() []Fluent {
	out := make([]Fluent, len(m.fluents))
	copy(out, m.fluents)
	return out
}

// Encode maps fs onto m: position i is true iff m.At(i) is in fs.Pos.
// Fluents outside the ordering cannot be represented and are dropped.
func Encode(fs FluentState, m *FluentMap) State {
	b := make([]byte, m.Len())
	for i := range b {
		b[i] = symFalse
	}
	for _, f := range fs.Pos {
		if i, ok := m.Index(f); ok {
			b[i] = symTrue
		}
	}
	return State(b)
}

// Decode partitions the ordering by s. Both lists follow ordering order.
func Decode(s State, m *FluentMap) (FluentState, error) {
	if len(s) != m.Len() {
		return FluentState{}, fmt.Errorf("%w: state has %d positions, ordering has %d",
			ErrStateLength, len(s), m.Len())
	}

	var fs FluentState
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case symTrue:
			fs.Pos = append(fs.Pos, m.fluents[i])
		case symFalse:
			fs.Neg = append(fs.Neg, m.fluents[i])
		default:
			return FluentState{}, fmt.Errorf("%w: %q at position %d", ErrStateSymbol, s[i], i)
		}
	}
	return fs, nil
}
