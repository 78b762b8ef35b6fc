// Package env maps environment names to trial framework factories. The
// registry is populated explicitly at startup; there is no reflective
// discovery.
package env

import (
	"fmt"
	"sort"

	"enhancesim/env/hexastat"
	"enhancesim/env/spelltrace"
	"enhancesim/framework"
)

// Factory builds a fresh environment instance. A seed of 0 leaves the
// instance time-seeded.
type Factory func(seed uint64) framework.Framework

// Entry pairs a factory with its one-line description.
type Entry struct {
	Name string
	Desc string
	New  Factory
}

// Registry is a name-to-factory lookup. Each name maps to exactly one
// factory.
type Registry struct {
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a factory under name. Registering a name twice is a
// programmer error.
func (r *Registry) Register(name, desc string, factory Factory) {
	if _, ok := r.entries[name]; ok {
		panic(fmt.Sprintf("environment %q registered twice", name))
	}
	r.entries[name] = Entry{Name: name, Desc: desc, New: factory}
}

// Lookup finds the entry for name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	entry, ok := r.entries[name]
	return entry, ok
}

// Names lists the registered environment names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry holding every built-in environment.
func Default() *Registry {
	r := NewRegistry()
	r.Register("hexastat",
		"Three-stat node leveling with resets, costs and a reset policy",
		func(seed uint64) framework.Framework {
			if seed == 0 {
				return hexastat.New()
			}
			return hexastat.New(hexastat.WithSeed(seed))
		})
	r.Register("spelltrace",
		"Multi-slot scrolling with innocence, clean slate and hammer escalation",
		func(seed uint64) framework.Framework {
			if seed == 0 {
				return spelltrace.New()
			}
			return spelltrace.New(spelltrace.WithSeed(seed))
		})
	return r
}
