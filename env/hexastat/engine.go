package hexastat

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"enhancesim/framework"
	"enhancesim/policy"
)

var (
	// ErrLevelCap reports a level-up attempt on a capped node.
	ErrLevelCap = errors.New("node is already at the maximum level")
	// ErrResetTooEarly reports a reset below the minimum reset level.
	ErrResetTooEarly = errors.New("node cannot be reset yet")
)

const prologue = "Hexa stat enhancement environment. Simulates leveling a three-stat node " +
	"with stones and fragments until the node caps out and the primary stat reaches the " +
	"target, consulting a reset policy along the way. A fragment limit of 0 means unlimited."

// Framework is the hexa stat trial environment. One instance owns one
// randomness stream and one reset policy; trials on the same instance
// draw from a continuous stream.
type Framework struct {
	spec *framework.Spec
	rng  *rand.Rand

	pol        *policy.Table
	policySet  bool
	policyPath string
}

type Option func(*Framework)

// WithSeed makes every trial sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(f *Framework) {
		f.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand injects a randomness source directly.
func WithRand(r *rand.Rand) Option {
	return func(f *Framework) {
		if r != nil {
			f.rng = r
		}
	}
}

// WithPolicy installs a programmatically built table, bypassing any load
// from disk.
func WithPolicy(t *policy.Table) Option {
	return func(f *Framework) {
		f.InjectPolicy(t)
	}
}

func New(options ...Option) *Framework {
	f := &Framework{
		spec: framework.NewSpec(prologue,
			framework.Arg{
				Name:  "Target Primary Level",
				Desc:  "Sets the desired primary stat level",
				Param: "target",
				Kinds: []framework.Kind{framework.Int},
			},
			framework.Arg{
				Name:  "Custom Policy Name",
				Desc:  "Declares the location of a persisted reset policy (empty for default)",
				Param: "policyPath",
				Kinds: []framework.Kind{framework.String},
			},
			framework.Arg{
				Name:  "Frag Limit",
				Desc:  "Limits the amount of fragments spent (0 if unlimited)",
				Param: "fragLimit",
				Kinds: []framework.Kind{framework.Int},
			},
		),
		rng: rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, option := range options {
		option(f)
	}
	return f
}

func (f *Framework) Spec() *framework.Spec {
	return f.spec
}

// InjectPolicy replaces the reset policy wholesale.
func (f *Framework) InjectPolicy(t *policy.Table) {
	f.pol = t
	f.policySet = true
	f.policyPath = ""
}

// Trial runs one full leveling session: enhance or reset per policy until
// the node caps out with the primary stat at target, or the fragment
// budget would be exceeded.
func (f *Framework) Trial(args framework.Args) (framework.Result, error) {
	target, ok := args["target"].(int)
	if !ok {
		return nil, fmt.Errorf("target must be an int")
	}
	path, ok := args["policyPath"].(string)
	if !ok {
		return nil, fmt.Errorf("policyPath must be a string")
	}
	fragLimit, ok := args["fragLimit"].(int)
	if !ok {
		return nil, fmt.Errorf("fragLimit must be an int")
	}

	if target < 1 || target > maxStatLevel {
		return nil, fmt.Errorf("target primary level %d outside [1,%d]", target, maxStatLevel)
	}
	if fragLimit < 0 {
		return nil, fmt.Errorf("fragment limit cannot be negative (was %d)", fragLimit)
	}

	f.ensurePolicy(path, target)

	core := NewCore(f.rng.Float64)
	var totalFrags, enhances, resets int
	for core.Level() != maxLevel || core.PrimaryLevel() < target {
		// Project the next enhancement's fragment cost against the budget
		// before consulting the policy.
		if fragLimit != 0 && totalFrags+core.FragCost() > fragLimit {
			break
		}

		state := policy.State{NodeLevel: core.Level(), PrimaryLevel: core.PrimaryLevel()}
		if f.pol.Lookup(state) {
			resets++
			if err := core.Reset(); err != nil {
				return nil, err
			}
		} else {
			_, frags, err := core.LevelUp()
			if err != nil {
				return nil, err
			}
			totalFrags += frags
			enhances++
		}
	}

	return framework.Result{
		"totalFragCost":  float64(totalFrags),
		"totalEnhances":  float64(enhances),
		"primaryLevel":   float64(core.PrimaryLevel()),
		"secondaryLevel": float64(core.SecondLevel()),
		"thirdLevel":     float64(core.ThirdLevel()),
		"numResets":      float64(resets),
	}, nil
}

// ensurePolicy loads the policy for path once per configuration change. A
// failed load is recoverable: the target default (retry from scratch
// below target) takes its place.
func (f *Framework) ensurePolicy(path string, target int) {
	if f.policySet && f.policyPath == path {
		return
	}
	f.policySet = true
	f.policyPath = path

	if path != "" {
		if loaded, err := policy.Load(path); err == nil {
			f.pol = loaded
			return
		}
	}
	f.pol = policy.TargetDefault(maxLevel, target)
}
