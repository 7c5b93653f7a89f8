// Command geninstances writes seeded random air cargo instances as YAML.
//
// Parameters come from the environment, with defaults:
//
//	AIRCARGO_GEN_SEED      42
//	AIRCARGO_GEN_CARGOS    3
//	AIRCARGO_GEN_PLANES    2
//	AIRCARGO_GEN_AIRPORTS  3
//	AIRCARGO_GEN_COUNT     1    instances, seeds SEED..SEED+COUNT-1
//	AIRCARGO_GEN_OUTPUT    testdata
//
// The files can be listed under instances in an AIRCARGO_CONFIG file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"go.uber.org/multierr"

	"github.com/elektrokombinacija/aircargo/internal/instance"
)

// genConfig is the resolved environment.
type genConfig struct {
	params instance.GenParams
	count  int
	output string
}

func loadGenConfig(getenv func(string) string) (genConfig, error) {
	var errs error
	intVar := func(name string, def int) int {
		v := getenv(name)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			return def
		}
		return n
	}

	cfg := genConfig{
		params: instance.GenParams{
			Seed:     int64(intVar("AIRCARGO_GEN_SEED", 42)),
			Cargos:   intVar("AIRCARGO_GEN_CARGOS", 3),
			Planes:   intVar("AIRCARGO_GEN_PLANES", 2),
			Airports: intVar("AIRCARGO_GEN_AIRPORTS", 3),
		},
		count:  intVar("AIRCARGO_GEN_COUNT", 1),
		output: getenv("AIRCARGO_GEN_OUTPUT"),
	}
	if cfg.output == "" {
		cfg.output = "testdata"
	}
	if cfg.count < 1 {
		errs = multierr.Append(errs, fmt.Errorf("AIRCARGO_GEN_COUNT: %d is not positive", cfg.count))
	}
	return cfg, errs
}

// generate writes cfg.count instances and returns their paths.
func generate(cfg genConfig) ([]string, error) {
	if err := os.MkdirAll(cfg.output, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for i := 0; i < cfg.count; i++ {
		params := cfg.params
		params.Seed += int64(i)

		spec, err := instance.Generate(params)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(cfg.output, spec.Name+".yaml")
		if err := spec.Save(path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func main() {
	cfg, err := loadGenConfig(os.Getenv)
	if err == nil {
		var paths []string
		paths, err = generate(cfg)
		for _, path := range paths {
			_, _ = color.New(color.FgGreen).Printf("wrote %s\n", path)
		}
	}
	if err != nil {
		_, _ = color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
