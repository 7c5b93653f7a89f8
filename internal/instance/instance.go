// Package instance loads air cargo problem definitions from YAML and
// generates random ones.
package instance

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/aircargo/internal/core"
)

//go:embed data/*.yaml
var builtinFS embed.FS

// ErrInvalid indicates an instance file that cannot describe a problem.
var ErrInvalid = errors.New("invalid instance")

// Literals lists the fluents that hold and those that do not.
type Literals struct {
	Pos []string `yaml:"pos"`
	Neg []string `yaml:"neg,omitempty"`
}

// Spec is an instance definition as written on disk.
type Spec struct {
	Name     string   `yaml:"name"`
	Cargos   []string `yaml:"cargos"`
	Planes   []string `yaml:"planes"`
	Airports []string `yaml:"airports"`
	Init     Literals `yaml:"init"`
	Goal     []string `yaml:"goal"`
	// Complete adds every At/In fluent not listed in Init.Pos to the
	// false fluents, so files may list the true fluents only.
	Complete bool `yaml:"complete,omitempty"`
}

// Parse decodes a YAML instance. Unknown keys are rejected.
func Parse(data []byte) (*Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalid)
	}
	return &spec, nil
}

// Load reads and parses the instance file at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance: %w", err)
	}
	return Parse(data)
}

// Marshal encodes spec as YAML.
func (s *Spec) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Save writes spec to path.
func (s *Spec) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode instance: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write instance: %w", err)
	}
	return nil
}

// Roster returns the entity roster.
func (s *Spec) Roster() core.Roster {
	return core.Roster{Cargos: s.Cargos, Planes: s.Planes, Airports: s.Airports}
}

// Problem parses the fluents of s and builds the grounded problem.
func (s *Spec) Problem(opts ...core.Option) (*core.Problem, error) {
	var errs error
	parse := func(section string, texts []string) []core.Fluent {
		out := make([]core.Fluent, 0, len(texts))
		for _, text := range texts {
			f, err := core.ParseFluent(text)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", section, err))
				continue
			}
			out = append(out, f)
		}
		return out
	}

	initial := core.FluentState{
		Pos: parse("init.pos", s.Init.Pos),
		Neg: parse("init.neg", s.Init.Neg),
	}
	goal := parse("goal", s.Goal)
	if errs != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalid, s.Name, errs)
	}

	if s.Complete {
		initial = Complete(s.Roster(), initial)
	}
	p, err := core.NewProblem(s.Roster(), initial, goal, opts...)
	if err != nil {
		return nil, fmt.Errorf("instance %s: %w", s.Name, err)
	}
	return p, nil
}

// Complete returns fs with every At(cargo, airport), In(cargo, plane) and
// At(plane, airport) fluent of r that is in neither list appended to Neg.
func Complete(r core.Roster, fs core.FluentState) core.FluentState {
	listed := core.NewFluentSet(fs.Pos...)
	listed.Add(fs.Neg...)

	out := core.FluentState{
		Pos: append([]core.Fluent(nil), fs.Pos...),
		Neg: append([]core.Fluent(nil), fs.Neg...),
	}
	add := func(f core.Fluent) {
		if !listed.Has(f) {
			out.Neg = append(out.Neg, f)
			listed.Add(f)
		}
	}
	for _, p := range r.Planes {
		for _, a := range r.Airports {
			add(core.At(p, a))
		}
	}
	for _, c := range r.Cargos {
		for _, a := range r.Airports {
			add(core.At(c, a))
		}
		for _, p := range r.Planes {
			add(core.In(c, p))
		}
	}
	return out
}

// BuiltinNames lists the embedded instances.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("data")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Builtin returns the embedded instance called name, e.g. "air_cargo_p1".
func Builtin(name string) (*Spec, error) {
	data, err := builtinFS.ReadFile(path.Join("data", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: no built-in instance %q", ErrInvalid, name)
	}
	return Parse(data)
}

// Resolve returns the built-in instance called ref, or loads ref as a file
// path when no built-in has that name.
func Resolve(ref string) (*Spec, error) {
	for _, name := range BuiltinNames() {
		if name == ref {
			return Builtin(name)
		}
	}
	return Load(ref)
}
