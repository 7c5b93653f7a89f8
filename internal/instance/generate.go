package instance

import (
	"fmt"
	"math/rand"

	"github.com/elektrokombinacija/aircargo/internal/core"
)

// GenParams defines parameters for instance generation.
type GenParams struct {
	Seed     int64
	Cargos   int
	Planes   int
	Airports int
}

// Generate builds a deterministic random instance: every cargo and plane
// starts at a random airport and every cargo must end at a different one.
// The result is written with Complete set, listing only true fluents.
func Generate(params GenParams) (*Spec, error) {
	if params.Cargos < 0 || params.Planes < 1 || params.Airports < 2 {
		return nil, fmt.Errorf("%w: need at least 1 plane and 2 airports, got %+v", ErrInvalid, params)
	}
	rng := rand.New(rand.NewSource(params.Seed))

	spec := &Spec{
		Name: fmt.Sprintf("air_cargo_%dc_%dp_%da_%d",
			params.Cargos, params.Planes, params.Airports, params.Seed),
		Complete: true,
	}
	for i := 1; i <= params.Cargos; i++ {
		spec.Cargos = append(spec.Cargos, fmt.Sprintf("C%d", i))
	}
	for i := 1; i <= params.Planes; i++ {
		spec.Planes = append(spec.Planes, fmt.Sprintf("P%d", i))
	}
	for i := 1; i <= params.Airports; i++ {
		spec.Airports = append(spec.Airports, fmt.Sprintf("A%d", i))
	}

	for _, p := range spec.Planes {
		at := spec.Airports[rng.Intn(params.Airports)]
		spec.Init.Pos = append(spec.Init.Pos, core.At(p, at).String())
	}
	for _, c := range spec.Cargos {
		from := rng.Intn(params.Airports)
		// Any airport but the start.
		to := (from + 1 + rng.Intn(params.Airports-1)) % params.Airports
		spec.Init.Pos = append(spec.Init.Pos, core.At(c, spec.Airports[from]).String())
		spec.Goal = append(spec.Goal, core.At(c, spec.Airports[to]).String())
	}
	return spec, nil
}
