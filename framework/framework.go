// Package framework defines the argument contract shared by every trial
// environment: which arguments an environment accepts, what scalar kinds
// each one allows, and how user-facing argument names map onto internal
// parameter names. The simulator only ever talks to environments through
// the Framework interface plus the validation entry points on Spec.
package framework

import (
	"fmt"
	"strings"
)

// Kind identifies the scalar kinds accepted for an argument value.
type Kind int

const (
	Int Kind = iota
	Float
	Bool
	String
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Args maps argument names to scalar values (int, float64, bool or string).
type Args map[string]any

// Result maps metric names to numeric values. The key set is fixed per
// environment.
type Result map[string]float64

// TrialFunc performs a single trial with already-validated, already-
// translated arguments.
type TrialFunc func(Args) (Result, error)

// Framework is the contract every trial environment implements. Trial
// expects internal parameter names; callers holding user-facing names go
// through Spec().RunValidated instead.
type Framework interface {
	Spec() *Spec
	Trial(args Args) (Result, error)
}

// Arg declares a single argument: its user-facing name, a one-line
// description, the internal parameter name Trial expects (empty means the
// user-facing name is used as-is), and the accepted kinds.
type Arg struct {
	Name  string
	Desc  string
	Param string
	Kinds []Kind
}

// Spec is an environment's immutable argument declaration. Each
// environment instance owns its own Spec so that concurrently running
// instances never share mutable defaults.
type Spec struct {
	prologue string
	args     []Arg
	index    map[string]int
}

const descWidth = 16

// NewSpec builds a Spec from an ordered argument declaration. Duplicate
// or kind-less declarations are programmer errors.
func NewSpec(prologue string, args ...Arg) *Spec {
	index := make(map[string]int, len(args))
	for i, a := range args {
		if a.Name == "" {
			panic("argument name cannot be empty")
		}
		if len(a.Kinds) == 0 {
			panic(fmt.Sprintf("argument %q declares no accepted kinds", a.Name))
		}
		if _, ok := index[a.Name]; ok {
			panic(fmt.Sprintf("argument %q declared twice", a.Name))
		}
		index[a.Name] = i
	}
	return &Spec{prologue: prologue, args: args, index: index}
}

// Names returns the declared argument names in declaration order.
func (s *Spec) Names() []string {
	names := make([]string, len(s.args))
	for i, a := range s.args {
		names[i] = a.Name
	}
	return names
}

// Types returns the accepted kinds per argument name.
func (s *Spec) Types() map[string][]Kind {
	types := make(map[string][]Kind, len(s.args))
	for _, a := range s.args {
		kinds := make([]Kind, len(a.Kinds))
		copy(kinds, a.Kinds)
		types[a.Name] = kinds
	}
	return types
}

// Describe renders the prologue followed by each argument name and its
// description, column aligned.
func (s *Spec) Describe() string {
	var b strings.Builder
	b.WriteString(s.prologue)
	b.WriteString("\n\nArguments:\n")
	for _, a := range s.args {
		fmt.Fprintf(&b, "%*s\t%s\n", descWidth, a.Name, a.Desc)
	}
	return b.String()
}

// Validate checks args against the declaration. A wrong key set (missing
// or extra names) fails with a *CountError. Otherwise the returned slice
// holds the names, in declaration order, whose values fail the kind
// check; an empty slice means fully valid.
func (s *Spec) Validate(args Args) ([]string, error) {
	var missing, extra []string
	for _, a := range s.args {
		if _, ok := args[a.Name]; !ok {
			missing = append(missing, a.Name)
		}
	}
	for name := range args {
		if _, ok := s.index[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		return nil, &CountError{Missing: missing, Extra: extra}
	}

	var invalid []string
	for _, a := range s.args {
		if !kindMatches(args[a.Name], a.Kinds) {
			invalid = append(invalid, a.Name)
		}
	}
	return invalid, nil
}

// Translate renames user-facing keys to internal parameter names.
// Arguments without a declared internal name pass through unchanged.
func (s *Spec) Translate(args Args) Args {
	out := make(Args, len(args))
	for name, value := range args {
		if i, ok := s.index[name]; ok && s.args[i].Param != "" {
			out[s.args[i].Param] = value
		} else {
			out[name] = value
		}
	}
	return out
}

// RunValidated validates and translates args, then invokes trial. Kind
// failures surface as a *ValidationError carrying the offending names so
// a caller can re-prompt selectively.
func (s *Spec) RunValidated(args Args, trial TrialFunc) (Result, error) {
	invalid, err := s.Validate(args)
	if err != nil {
		return nil, err
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Names: invalid}
	}
	return trial(s.Translate(args))
}

func kindMatches(value any, kinds []Kind) bool {
	for _, k := range kinds {
		switch k {
		case Int:
			if _, ok := value.(int); ok {
				return true
			}
		case Float:
			if _, ok := value.(float64); ok {
				return true
			}
		case Bool:
			if _, ok := value.(bool); ok {
				return true
			}
		case String:
			if _, ok := value.(string); ok {
				return true
			}
		}
	}
	return false
}
