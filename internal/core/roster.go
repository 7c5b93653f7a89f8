package core

import (
	"fmt"

	"go.uber.org/multierr"
)

// Roster lists the entities of a problem. Order matters: it fixes the
// order in which actions are grounded.
type Roster struct {
	Cargos   []string
	Planes   []string
	Airports []string
}

// Validate reports every empty, malformed or repeated entity name. A name
// may appear in only one list.
func (r Roster) Validate() error {
	var err error
	seen := make(map[string]string)
	check := func(kind string, names []string) {
		for _, name := range names {
			if !validToken(name) {
				err = multierr.Append(err, fmt.Errorf("%w: %s name %q", ErrRoster, kind, name))
				continue
			}
			if prev, ok := seen[name]; ok {
				err = multierr.Append(err, fmt.Errorf("%w: %s %q already listed as %s", ErrRoster, kind, name, prev))
				continue
			}
			seen[name] = kind
		}
	}
	check("cargo", r.Cargos)
	check("plane", r.Planes)
	check("airport", r.Airports)
	return err
}
