package sim

import (
	"fmt"
	"sort"
	"strings"

	"enhancesim/framework"
)

// GridPoint is one coordinate of a sweep: one value per grid argument, in
// the sweep's declared name order.
type GridPoint struct {
	Names  []string
	Values []any
}

// Key renders the coordinate as a stable "name=value" tuple.
func (p GridPoint) Key() string {
	parts := make([]string, len(p.Names))
	for i, name := range p.Names {
		parts[i] = fmt.Sprintf("%s=%v", name, p.Values[i])
	}
	return strings.Join(parts, ",")
}

// GridResult maps every visited grid coordinate to its trial batch.
// Points preserves enumeration order.
type GridResult struct {
	Names   []string
	Points  []GridPoint
	Batches map[string][]framework.Result
}

func newGridResult(names []string) *GridResult {
	return &GridResult{
		Names:   names,
		Batches: make(map[string][]framework.Result),
	}
}

func (gr *GridResult) add(point map[string]any, batch []framework.Result) {
	values := make([]any, len(gr.Names))
	for i, name := range gr.Names {
		values[i] = point[name]
	}
	p := GridPoint{Names: gr.Names, Values: values}
	gr.Points = append(gr.Points, p)
	gr.Batches[p.Key()] = batch
}

// Batch returns the trial batch recorded at a coordinate.
func (gr *GridResult) Batch(p GridPoint) []framework.Result {
	return gr.Batches[p.Key()]
}

// gridNames fixes the enumeration order for a sweep: sorted argument
// names. Any total, non-repeating order would do; sorting keeps it
// deterministic across runs.
func gridNames(grid map[string][]any) []string {
	names := make([]string, 0, len(grid))
	for name := range grid {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pointKey(names []string, point map[string]any) string {
	values := make([]any, len(names))
	for i, name := range names {
		values[i] = point[name]
	}
	return GridPoint{Names: names, Values: values}.Key()
}

// cartesian lazily enumerates the cartesian product of the candidate
// lists, one fully-specified single-value map per combination. The last
// name varies fastest. It is a pure function of its inputs; an empty
// grid yields exactly one empty combination.
func cartesian(names []string, candidates map[string][]any) func() (map[string]any, bool) {
	for _, name := range names {
		if len(candidates[name]) == 0 {
			// A name with no candidates empties the whole product.
			return func() (map[string]any, bool) { return nil, false }
		}
	}

	indexes := make([]int, len(names))
	done := false

	return func() (map[string]any, bool) {
		if done {
			return nil, false
		}

		point := make(map[string]any, len(names))
		for i, name := range names {
			point[name] = candidates[name][indexes[i]]
		}

		// Advance the odometer, last name fastest.
		for i := len(names) - 1; ; i-- {
			if i < 0 {
				done = true
				break
			}
			indexes[i]++
			if indexes[i] < len(candidates[names[i]]) {
				break
			}
			indexes[i] = 0
		}

		return point, true
	}
}
