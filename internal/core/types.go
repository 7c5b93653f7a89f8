// Package core defines the air cargo planning problem: fluents, the state
// codec, action grounding and STRIPS transition semantics.
package core

import (
	"fmt"
	"strings"
)

// Fluent is a ground atomic predicate in canonical form, e.g. "At(C1, SFO)".
// Two fluents are equal iff their predicate and ordered arguments are equal.
type Fluent string

// Predicate names used by the air cargo domain.
const (
	PredAt = "At"
	PredIn = "In"
)

// NewFluent builds the canonical fluent pred(args...).
func NewFluent(pred string, args ...string) Fluent {
	return Fluent(pred + "(" + strings.Join(args, ", ") + ")")
}

// At returns At(x, airport).
func At(x, airport string) Fluent { return NewFluent(PredAt, x, airport) }

// In returns In(cargo, plane).
func In(cargo, plane string) Fluent { return NewFluent(PredIn, cargo, plane) }

// ParseFluent parses text such as "At(C1,SFO)" into its canonical fluent.
func ParseFluent(s string) (Fluent, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", fmt.Errorf("%w: %q", ErrFluentSyntax, s)
	}

	pred := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]
	if !validToken(pred) || strings.ContainsAny(inner, "()") {
		return "", fmt.Errorf("%w: %q", ErrFluentSyntax, s)
	}

	var args []string
	if strings.TrimSpace(inner) != "" {
		for _, a := range strings.Split(inner, ",") {
			a = strings.TrimSpace(a)
			if !validToken(a) {
				return "", fmt.Errorf("%w: %q", ErrFluentSyntax, s)
			}
			args = append(args, a)
		}
	}
	return NewFluent(pred, args...), nil
}

// MustParseFluent is ParseFluent for literals known to be well formed.
func MustParseFluent(s string) Fluent {
	f, err := ParseFluent(s)
	if err != nil {
		panic(err)
	}
	return f
}

func validToken(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\n(),")
}

// Pred returns the predicate name.
func (f Fluent) Pred() string {
	s := string(f)
	if i := strings.IndexByte(s, '('); i >= 0 {
		return s[:i]
	}
	return s
}

// Args returns the ordered argument list.
func (f Fluent) Args() []string {
	s := string(f)
	open := strings.IndexByte(s, '(')
	if open < 0 || len(s) < open+2 {
		return nil
	}
	inner := s[open+1 : len(s)-1]
	if inner == "" {
		return nil
	}
	return strings.Split(inner, ", ")
}

func (f Fluent) String() string { return string(f) }

// FluentState is the readable form of a state: fluents that hold and
// fluents that do not.
type FluentState struct {
	Pos []Fluent
	Neg []Fluent
}

// Entailer answers whether a fluent is implied by what it has been told.
type Entailer interface {
	Entails(f Fluent) bool
}

// FluentSet is a set of fluents. It is the plain Entailer: a fluent is
// entailed iff it is a member.
type FluentSet map[Fluent]struct{}

// NewFluentSet builds a set from fs.
func NewFluentSet(fs ...Fluent) FluentSet {
	set := make(FluentSet, len(fs))
	for _, f := range fs {
		set[f] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s FluentSet) Has(f Fluent) bool {
	_, ok := s[f]
	return ok
}

// Entails implements Entailer.
func (s FluentSet) Entails(f Fluent) bool { return s.Has(f) }

// Add inserts fs.
func (s FluentSet) Add(fs ...Fluent) {
	for _, f := range fs {
		s[f] = struct{}{}
	}
}

// Remove deletes fs.
func (s FluentSet) Remove(fs ...Fluent) {
	for _, f := range fs {
		delete(s, f)
	}
}

// Equal reports whether both sets hold the same fluents.
func (s FluentSet) Equal(other FluentSet) bool {
	if len(s) != len(other) {
		return false
	}
	for f := range s {
		if !other.Has(f) {
			return false
		}
	}
	return true
}
