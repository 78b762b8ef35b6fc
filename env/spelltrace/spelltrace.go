// Package spelltrace simulates enhancing an item's upgrade slots with a
// base scroll, escalating to guaranteed innocence (full restart) and
// clean-slate (single-slot repair) procedures, with an optional two-use
// hammer extension and a chance to save a failed slot.
package spelltrace

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"enhancesim/framework"
)

const prologue = "Spell trace enhancement environment. Simulates scrolling every slot of an " +
	"item, with innocence scrolls forcing a restart past the failure tolerance, clean slate " +
	"scrolls repairing single failed slots, and up to two hammers extending the slot count. " +
	"All costs are in spell traces."

const maxHammers = 2

// Framework is the spell trace trial environment. One instance owns one
// randomness stream; greedyFinish raises the innocence tolerance by one
// per hammer used, de-prioritizing restarts once hammering begins.
type Framework struct {
	spec         *framework.Spec
	rng          *rand.Rand
	greedyFinish bool
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

// WithGreedyFinish controls the tolerance bump per hammer use. Disabling
// it can lengthen the trial horizon significantly.
func WithGreedyFinish(greedy bool) Option {
	return func(f *Framework) {
		f.greedyFinish = greedy
	}
}

func New(options ...Option) *Framework {
	f := &Framework{
		spec: framework.NewSpec(prologue,
			framework.Arg{Name: "Num Slots", Desc: "The number of slots available on the item (prior to hammering)",
				Param: "slots", Kinds: []framework.Kind{framework.Int}},
			framework.Arg{Name: "CSS Cost", Desc: "Sets the cost of the clean slate scroll",
				Param: "cssCost", Kinds: []framework.Kind{framework.Int}},
			framework.Arg{Name: "CSS %", Desc: "Sets the pass rate for the clean slate scroll (0.0 - 1.0)",
				Param: "cssRate", Kinds: []framework.Kind{framework.Float}},
			framework.Arg{Name: "Inno Cost", Desc: "Sets the cost of an innocence scroll",
				Param: "innoCost", Kinds: []framework.Kind{framework.Int, framework.Float}},
			framework.Arg{Name: "Inno %", Desc: "Sets the pass rate for the innocence scroll (0.0 - 1.0)",
				Param: "innoRate", Kinds: []framework.Kind{framework.Float}},
			framework.Arg{Name: "Inno Fail Count", Desc: "The number of lost slots to tolerate before forcing innocence use",
				Param: "innoTolerance", Kinds: []framework.Kind{framework.Int}},
			framework.Arg{Name: "Use Hammer", Desc: "Whether or not to use hammers on the item",
				Param: "useHammer", Kinds: []framework.Kind{framework.Bool}},
			framework.Arg{Name: "Hammer Cost", Desc: "Sets the cost of a hammer",
				Param: "hammerCost", Kinds: []framework.Kind{framework.Int}},
			framework.Arg{Name: "Hammer %", Desc: "Sets the pass rate for the hammer (0.0 - 1.0)",
				Param: "hammerRate", Kinds: []framework.Kind{framework.Float}},
			framework.Arg{Name: "Scroll Cost", Desc: "Sets the cost of the spell trace scroll being used",
				Param: "scrollCost", Kinds: []framework.Kind{framework.Int}},
			framework.Arg{Name: "Scroll %", Desc: "Sets the pass rate for the spell trace scroll (0.0 - 1.0)",
				Param: "scrollRate", Kinds: []framework.Kind{framework.Float}},
			framework.Arg{Name: "Guild Save %", Desc: "Sets the rate at which the guild slot saving skill activates (0.00 - 0.04)",
				Param: "guildSaveRate", Kinds: []framework.Kind{framework.Float}},
		),
		rng:          rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		greedyFinish: true,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

func (f *Framework) Spec() *framework.Spec {
	return f.spec
}

type params struct {
	slots         int
	cssCost       int
	cssRate       float64
	innoCost      int
	innoRate      float64
	innoTolerance int
	useHammer     bool
	hammerCost    int
	hammerRate    float64
	scrollCost    int
	scrollRate    float64
	guildSaveRate float64
}

func bindParams(args framework.Args) (params, error) {
	var p params
	var ok bool
	if p.slots, ok = args["slots"].(int); !ok {
		return p, fmt.Errorf("slots must be an int")
	}
	if p.cssCost, ok = args["cssCost"].(int); !ok {
		return p, fmt.Errorf("cssCost must be an int")
	}
	if p.cssRate, ok = args["cssRate"].(float64); !ok {
		return p, fmt.Errorf("cssRate must be a float")
	}
	switch v := args["innoCost"].(type) {
	case int:
		p.innoCost = v
	case float64:
		p.innoCost = int(v)
	default:
		return p, fmt.Errorf("innoCost must be numeric")
	}
	if p.innoRate, ok = args["innoRate"].(float64); !ok {
		return p, fmt.Errorf("innoRate must be a float")
	}
	if p.innoTolerance, ok = args["innoTolerance"].(int); !ok {
		return p, fmt.Errorf("innoTolerance must be an int")
	}
	if p.useHammer, ok = args["useHammer"].(bool); !ok {
		return p, fmt.Errorf("useHammer must be a bool")
	}
	if p.hammerCost, ok = args["hammerCost"].(int); !ok {
		return p, fmt.Errorf("hammerCost must be an int")
	}
	if p.hammerRate, ok = args["hammerRate"].(float64); !ok {
		return p, fmt.Errorf("hammerRate must be a float")
	}
	if p.scrollCost, ok = args["scrollCost"].(int); !ok {
		return p, fmt.Errorf("scrollCost must be an int")
	}
	if p.scrollRate, ok = args["scrollRate"].(float64); !ok {
		return p, fmt.Errorf("scrollRate must be a float")
	}
	if p.guildSaveRate, ok = args["guildSaveRate"].(float64); !ok {
		return p, fmt.Errorf("guildSaveRate must be a float")
	}
	if p.slots < 1 {
		return p, fmt.Errorf("item needs at least one slot (was %d)", p.slots)
	}
	return p, nil
}

// Trial scrolls a single item until every target slot has passed. The
// engine does not guard against unreachable termination (e.g. a zero
// scroll rate with no escalation path); callers own that precondition.
func (f *Framework) Trial(args framework.Args) (framework.Result, error) {
	p, err := bindParams(args)
	if err != nil {
		return nil, err
	}

	var innoCosts, scrollCosts, cssCosts, hammerCosts int
	var fScrolls, fInnos, fCSS, fHammers int
	var pScrolls, pInnos, pCSS, pHammers int
	var guildSaves int

	// Slot state. The two hammer slots only become available through
	// hammer passes, so available slots start at the raw slot count even
	// when hammering; passed + available converges on totalSlots.
	totalSlots := p.slots
	if p.useHammer {
		totalSlots += maxHammers
	}
	availSlots := p.slots
	hammersUsed := 0
	passed, failed := 0, 0
	tolerance := p.innoTolerance

	for passed < totalSlots {
		if availSlots > 0 {
			scrollCosts += p.scrollCost
			if f.rng.Float64() < p.scrollRate {
				availSlots--
				passed++
				pScrolls++
			} else {
				fScrolls++
				if f.rng.Float64() < p.guildSaveRate {
					guildSaves++
				} else {
					availSlots--
					failed++
				}
			}
		}

		switch {
		case failed > tolerance:
			// Innocence: forced restart from the initial configuration.
			cost, fails := f.forcePass(p.innoRate, p.innoCost)
			innoCosts += cost
			fInnos += fails
			pInnos++

			availSlots = p.slots
			hammersUsed = 0
			passed, failed = 0, 0
		case p.useHammer && availSlots == 0 && hammersUsed < maxHammers:
			hammersUsed++
			hammerCosts += p.hammerCost
			if f.rng.Float64() < p.hammerRate {
				pHammers++
				availSlots++
			} else {
				fHammers++
				failed++
			}
			// Once hammering starts, restarts lose priority.
			if f.greedyFinish {
				tolerance++
			}
		case availSlots == 0 && failed > 0:
			// Clean slate: repairs exactly one failed slot, no restart.
			cost, fails := f.forcePass(p.cssRate, p.cssCost)
			cssCosts += cost
			fCSS += fails
			pCSS++

			availSlots++
			failed--
		}
	}

	return framework.Result{
		"totalTraceCost":   float64(innoCosts + cssCosts + scrollCosts + hammerCosts),
		"innoTraceCost":    float64(innoCosts),
		"scrollTraceCost":  float64(scrollCosts),
		"cssTraceCost":     float64(cssCosts),
		"hammerTraceCost":  float64(hammerCosts),
		"numFailedScrolls": float64(fScrolls),
		"numFailedInnos":   float64(fInnos),
		"numFailedCSS":     float64(fCSS),
		"numFailedHammers": float64(fHammers),
		"numPassedScrolls": float64(pScrolls),
		"numPassedInnos":   float64(pInnos),
		"numPassedCSS":     float64(pCSS),
		"numPassedHammers": float64(pHammers),
		"numGuildSaves":    float64(guildSaves),
	}, nil
}

// forcePass retries a guaranteed scroll until it lands, charging the full
// cost per attempt. Returns the total cost including the final success
// and the number of failed attempts.
func (f *Framework) forcePass(rate float64, cost int) (totalCost, fails int) {
	for f.rng.Float64() >= rate {
		totalCost += cost
		fails++
	}
	return totalCost + cost, fails
}
