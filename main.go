// Command enhancesim runs probabilistic enhancement trials from the
// command line: pick an environment by name, bind its arguments, and run
// a fixed batch or a grid sweep. Results land as CSV under the output
// directory.
package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"enhancesim/config"
	"enhancesim/env"
	"enhancesim/framework"
	"enhancesim/results"
	"enhancesim/sim"
)

// bindings collects repeatable -arg flags of the form "Name=v" (static)
// or "Name=v1 v2 v3" (grid candidates).
type bindings []string

func (b *bindings) String() string { return strings.Join(*b, "; ") }

func (b *bindings) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("binding %q is not of the form name=value", value)
	}
	*b = append(*b, value)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var args bindings
	envName := flag.String("env", "", "environment name (empty lists the available environments)")
	describe := flag.Bool("describe", false, "print the selected environment's argument contract and exit")
	trials := flag.Int("trials", cfg.Trials, "number of trials per parameter combination")
	seed := flag.Uint64("seed", cfg.Seed, "randomness seed (0 for time-seeded)")
	outDir := flag.String("out", cfg.OutputDir, "output directory for result records")
	flag.Var(&args, "arg", "argument binding name=value; repeat per argument, space-separate candidates to sweep")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	registry := env.Default()
	if *envName == "" {
		listEnvironments(registry)
		return
	}

	entry, ok := registry.Lookup(*envName)
	if !ok {
		log.Fatal().Msgf("unknown environment %q (available: %s)", *envName, strings.Join(registry.Names(), ", "))
	}
	fw := entry.New(*seed)

	if *describe {
		fmt.Println(fw.Spec().Describe())
		return
	}

	static, grid, err := parseBindings(fw.Spec(), args)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse argument bindings")
	}

	s := sim.New()
	s.SetFramework(fw)

	writer, err := results.NewWriter(*outDir, entry.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create results writer")
	}

	if len(grid) == 0 {
		runFixed(s, writer, *trials, static)
	} else {
		runGrid(s, writer, *trials, grid, static)
	}
}

func listEnvironments(registry *env.Registry) {
	fmt.Println("The following environments are currently available:")
	for _, name := range registry.Names() {
		entry, _ := registry.Lookup(name)
		fmt.Printf("%15s\t\t%s\n", entry.Name, entry.Desc)
	}
}

func runFixed(s *sim.Simulator, writer *results.Writer, trials int, static framework.Args) {
	log.Info().Msgf("running %d fixed-parameter trial(s)...", trials)
	batch, err := s.Run(trials, static)
	if err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
	if err := writer.WriteBatch(batch); err != nil {
		log.Fatal().Err(err).Msg("failed to store trial records")
	}
	log.Info().Msgf("run %s complete: %d record(s) in %s", writer.RunID()[:8], len(batch), writer.Dir())
}

func runGrid(s *sim.Simulator, writer *results.Writer, trials int, grid map[string][]any, static framework.Args) {
	gr, err := s.GridSearch(trials, grid, static)
	if err != nil {
		log.Fatal().Err(err).Msg("grid search failed")
	}
	if err := writer.WriteGrid(gr); err != nil {
		log.Fatal().Err(err).Msg("failed to store grid records")
	}
	log.Info().Msgf("run %s complete: %d point(s) in %s", writer.RunID()[:8], len(gr.Points), writer.Dir())
}

// parseBindings converts raw name=value bindings into typed static
// arguments and grid candidate lists. A binding with a single value is
// static; space-separated values become a sweep over that argument.
func parseBindings(spec *framework.Spec, args bindings) (framework.Args, map[string][]any, error) {
	types := spec.Types()
	static := make(framework.Args)
	grid := make(map[string][]any)

	for _, binding := range args {
		name, raw, _ := strings.Cut(binding, "=")
		name = strings.TrimSpace(name)
		kinds, ok := types[name]
		if !ok {
			return nil, nil, fmt.Errorf("environment does not declare argument %q", name)
		}

		fields := strings.Fields(raw)
		if len(fields) == 0 {
			// An empty binding is only meaningful for string arguments
			// (e.g. "no policy path").
			if kinds[0] == framework.String {
				static[name] = ""
				continue
			}
			return nil, nil, fmt.Errorf("argument %q has no value", name)
		}

		values := make([]any, 0, len(fields))
		for _, field := range fields {
			// Convert against the least restrictive declared kind first.
			value, err := convert(field, kinds[0])
			if err != nil {
				return nil, nil, fmt.Errorf("argument %q: %w", name, err)
			}
			values = append(values, value)
		}

		if len(values) == 1 {
			static[name] = values[0]
		} else {
			grid[name] = values
		}
	}

	return static, grid, nil
}

func convert(raw string, kind framework.Kind) (any, error) {
	switch kind {
	case framework.Int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not an int", raw)
		}
		return v, nil
	case framework.Float:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a float", raw)
		}
		return v, nil
	case framework.Bool:
		switch raw {
		case "y":
			return true, nil
		case "n":
			return false, nil
		default:
			return nil, fmt.Errorf("boolean values only take y/n (was %q)", raw)
		}
	case framework.String:
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported kind %v", kind)
	}
}
