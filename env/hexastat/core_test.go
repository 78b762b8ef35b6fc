package hexastat

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/stretchr/testify/require"
)

// scripted returns a roll func that replays draws in order and then
// repeats the last one.
func scripted(draws ...float64) func() float64 {
	i := 0
	return func() float64 {
		if i < len(draws)-1 {
			i++
			return draws[i-1]
		}
		return draws[len(draws)-1]
	}
}

func TestLevelUpToCap(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42, 1234} {
		rng := rand.New(rand.NewSource(seed))
		core := NewCore(rng.Float64)

		for i := 0; i < maxLevel-1; i++ {
			stones, frags, err := core.LevelUp()
			require.NoError(t, err)
			require.Equal(t, 5, stones)
			require.Contains(t, []int{10, 20, 30, 40, 50}, frags)

			for _, level := range []int{core.PrimaryLevel(), core.SecondLevel(), core.ThirdLevel()} {
				require.GreaterOrEqual(t, level, 1)
				require.LessOrEqual(t, level, maxStatLevel)
			}
			sum := core.PrimaryLevel() + core.SecondLevel() + core.ThirdLevel()
			require.Equal(t, core.Level()+2, sum,
				"Each level-up should raise exactly one stat by one")
		}

		require.Equal(t, maxLevel, core.Level())
		require.Equal(t, 22, core.PrimaryLevel()+core.SecondLevel()+core.ThirdLevel())

		_, _, err := core.LevelUp()
		require.ErrorIs(t, err, ErrLevelCap)
	}
}

func TestResetThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	core := NewCore(rng.Float64)

	require.ErrorIs(t, core.Reset(), ErrResetTooEarly,
		"Fresh node should not be resettable")

	for core.Level() < minResetLevel {
		_, _, err := core.LevelUp()
		require.NoError(t, err)
		if core.Level() < minResetLevel {
			require.ErrorIs(t, core.Reset(), ErrResetTooEarly)
		}
	}

	require.NoError(t, core.Reset())
	require.Equal(t, 1, core.Level())
	require.Equal(t, 1, core.PrimaryLevel())
	require.Equal(t, 1, core.SecondLevel())
	require.Equal(t, 1, core.ThirdLevel())
}

func TestTargetSelection(t *testing.T) {
	t.Run("primary on success", func(t *testing.T) {
		core := NewCore(scripted(0.0))
		require.Equal(t, primaryStat, core.target(0.34),
			"Draw below success probability should level the primary")
	})

	t.Run("boundary draw goes to first secondary", func(t *testing.T) {
		// At u == successProb the residual is exactly 0: first half of the
		// remaining mass, so the second stat levels.
		core := NewCore(scripted(0.0))
		require.Equal(t, secondStat, core.target(0.35))
	})

	t.Run("even split of residual mass", func(t *testing.T) {
		core := NewCore(scripted(0.0))
		// Level 1 primary: p=0.35, remaining mass 0.65, midpoint at 0.675.
		require.Equal(t, secondStat, core.target(0.674))
		require.Equal(t, thirdStat, core.target(0.675),
			"Midpoint of residual mass belongs to the second secondary")
		require.Equal(t, thirdStat, core.target(0.999))
	})

	t.Run("capped secondary redirects", func(t *testing.T) {
		core := NewCore(scripted(0.0))
		core.stats = [3]int{4, maxStatLevel, 5}
		core.nodeLevel = 17
		require.Equal(t, thirdStat, core.target(0.9))

		core.stats = [3]int{4, 5, maxStatLevel}
		require.Equal(t, secondStat, core.target(0.9))
	})

	t.Run("both secondaries capped forces primary", func(t *testing.T) {
		core := NewCore(scripted(0.0))
		core.stats = [3]int{1, maxStatLevel, maxStatLevel}
		core.nodeLevel = 19
		require.Equal(t, primaryStat, core.target(0.99),
			"No alternative target should exist")
	})

	t.Run("capped primary never levels by chance", func(t *testing.T) {
		core := NewCore(scripted(0.0))
		core.stats = [3]int{maxStatLevel, 3, 4}
		core.nodeLevel = 15
		require.NotEqual(t, primaryStat, core.target(0.0),
			"Capped primary only levels when both secondaries are capped")
	})

	t.Run("panics outside the unit interval", func(t *testing.T) {
		core := NewCore(scripted(0.0))
		require.Panics(t, func() { core.target(1.0) })
		require.Panics(t, func() { core.target(-0.1) })
	})
}

func TestCostTables(t *testing.T) {
	core := NewCore(scripted(0.0)) // always level primary while below cap

	wantFrags := []int{10, 10, 20, 20, 20, 20, 30, 40, 50}
	for i, want := range wantFrags {
		require.Equal(t, want, core.FragCost(), "fragment cost at primary level %d", i+1)
		require.Equal(t, 5, core.StoneCost())
		_, frags, err := core.LevelUp()
		require.NoError(t, err)
		require.Equal(t, want, frags,
			"Cost should be read off the pre-increment primary level")
	}
	require.Equal(t, maxStatLevel, core.PrimaryLevel())
	require.Equal(t, 50, core.FragCost())
}
