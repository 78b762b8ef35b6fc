// Package policy holds the reset-decision tables consumed by the leveling
// environment. A table maps a (node level, primary stat level) state to a
// boolean reset decision; states without an entry default to enhancing.
package policy

// State is the discrete decision state of a leveling trial.
type State struct {
	NodeLevel    int
	PrimaryLevel int
}

// Table is a reset-decision table. The zero-valueless default decision
// (enhance) is baked into Lookup rather than depending on map semantics
// at call sites.
type Table struct {
	resets map[State]bool
}

func NewTable() *Table {
	return &Table{resets: make(map[State]bool)}
}

// Set records the decision for a state.
func (t *Table) Set(s State, reset bool) {
	t.resets[s] = reset
}

// Lookup returns the decision for a state; unmapped states enhance. A nil
// table always enhances.
func (t *Table) Lookup(s State) bool {
	if t == nil {
		return false
	}
	return t.resets[s]
}

// Len returns the number of explicit entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.resets)
}

// Entries returns a copy of the explicit decisions.
func (t *Table) Entries() map[State]bool {
	out := make(map[State]bool, len(t.resets))
	for s, reset := range t.resets {
		out[s] = reset
	}
	return out
}

// TargetDefault synthesizes the fallback table for a target primary
// level: reset whenever the node caps out at the maximum level with the
// primary stat still below target, i.e. retry from scratch rather than
// stop short.
func TargetDefault(maxNodeLevel, target int) *Table {
	t := NewTable()
	for level := 1; level < target; level++ {
		t.Set(State{NodeLevel: maxNodeLevel, PrimaryLevel: level}, true)
	}
	return t
}
