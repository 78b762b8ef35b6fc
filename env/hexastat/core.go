// Package hexastat simulates leveling a three-stat node: each level-up
// randomly improves one of the stats, with the primary stat's success
// chance and resource costs driven by its current level, and the node can
// be reset back to scratch once it is high enough.
package hexastat

import "fmt"

const (
	initLevel     = 1
	minResetLevel = 10
	maxLevel      = 20
	maxStatLevel  = 10
)

// Stat indexes into a core's stat levels.
const (
	primaryStat = iota
	secondStat
	thirdStat
)

// Tables indexed by the current primary stat level (1-based).
var (
	successProb = [maxStatLevel + 1]float64{0, 0.35, 0.35, 0.2, 0.2, 0.2, 0.2, 0.15, 0.1, 0.05, 0}
	stoneCost   = [maxStatLevel + 1]int{0, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	fragCost    = [maxStatLevel + 1]int{0, 10, 10, 20, 20, 20, 20, 30, 40, 50, 50}
)

// Core is the per-trial node state. Created at trial start, mutated by
// LevelUp and Reset, discarded at trial end. The stat levels always sum
// to nodeLevel+2: every level-up raises exactly one stat by one.
type Core struct {
	nodeLevel int
	stats     [3]int
	roll      func() float64
}

// NewCore creates a fresh node at level 1 drawing from roll, which must
// yield values in [0,1).
func NewCore(roll func() float64) *Core {
	return &Core{
		nodeLevel: initLevel,
		stats:     [3]int{initLevel, initLevel, initLevel},
		roll:      roll,
	}
}

// target picks the stat to raise for a draw u, evaluated in order:
// primary on success, then the sole remaining secondary if the other is
// capped, then an even split of the residual probability mass between
// the two secondaries. At u == successProb the residual is exactly zero
// and lands in the first half, which keeps the conditional split at
// 50/50 since the residual is uniform on the remaining mass.
func (c *Core) target(u float64) int {
	if u < 0 || u >= 1 {
		panic(fmt.Sprintf("draw %v outside [0,1)", u))
	}

	if c.PrimaryLevel() < maxStatLevel && u < successProb[c.PrimaryLevel()] {
		return primaryStat
	}

	switch {
	case c.SecondLevel() == maxStatLevel && c.ThirdLevel() == maxStatLevel:
		// No alternative target exists
		return primaryStat
	case c.SecondLevel() == maxStatLevel:
		return thirdStat
	case c.ThirdLevel() == maxStatLevel:
		return secondStat
	}

	residual := u - successProb[c.PrimaryLevel()]
	if residual >= 0 && residual < (1-successProb[c.PrimaryLevel()])/2 {
		return secondStat
	}
	return thirdStat
}

// LevelUp attempts one enhancement, raising exactly one stat, and returns
// the (stone, fragment) cost charged for it, read off the pre-increment
// primary level. Fails with ErrLevelCap at the node level cap.
func (c *Core) LevelUp() (stones, frags int, err error) {
	if c.nodeLevel == maxLevel {
		return 0, 0, ErrLevelCap
	}

	stones, frags = c.StoneCost(), c.FragCost()
	c.stats[c.target(c.roll())]++
	c.nodeLevel++
	return stones, frags, nil
}

// Reset returns the node and all stats to level 1. Fails with
// ErrResetTooEarly below the minimum reset level.
func (c *Core) Reset() error {
	if c.nodeLevel < minResetLevel {
		return fmt.Errorf("%w: node level %d below %d", ErrResetTooEarly, c.nodeLevel, minResetLevel)
	}

	c.nodeLevel = initLevel
	c.stats = [3]int{initLevel, initLevel, initLevel}
	return nil
}

func (c *Core) Level() int        { return c.nodeLevel }
func (c *Core) PrimaryLevel() int { return c.stats[primaryStat] }
func (c *Core) SecondLevel() int  { return c.stats[secondStat] }
func (c *Core) ThirdLevel() int   { return c.stats[thirdStat] }

// StoneCost is the primary-resource cost of the next enhancement.
func (c *Core) StoneCost() int { return stoneCost[c.PrimaryLevel()] }

// FragCost is the secondary-resource cost of the next enhancement.
func (c *Core) FragCost() int { return fragCost[c.PrimaryLevel()] }
