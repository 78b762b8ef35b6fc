package spelltrace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"enhancesim/framework"
)

func baseArgs() framework.Args {
	return framework.Args{
		"Num Slots":       8,
		"CSS Cost":        200,
		"CSS %":           1.0,
		"Inno Cost":       300,
		"Inno %":          1.0,
		"Inno Fail Count": 3,
		"Use Hammer":      false,
		"Hammer Cost":     500,
		"Hammer %":        1.0,
		"Scroll Cost":     100,
		"Scroll %":        1.0,
		"Guild Save %":    0.0,
	}
}

func runTrial(t *testing.T, f *Framework, args framework.Args) framework.Result {
	t.Helper()
	res, err := f.Spec().RunValidated(args, f.Trial)
	require.NoError(t, err)
	return res
}

func TestTrialPerfectScrolls(t *testing.T) {
	f := New(WithSeed(1))
	res := runTrial(t, f, baseArgs())

	require.Equal(t, float64(8*100), res["totalTraceCost"],
		"Perfect scrolls should cost exactly one scroll per slot")
	require.Equal(t, float64(8), res["numPassedScrolls"])
	for _, key := range []string{
		"innoTraceCost", "cssTraceCost", "hammerTraceCost",
		"numFailedScrolls", "numFailedInnos", "numFailedCSS", "numFailedHammers",
		"numPassedInnos", "numPassedCSS", "numPassedHammers", "numGuildSaves",
	} {
		require.Zero(t, res[key], "expected %s to stay zero", key)
	}
}

func TestTrialPerfectScrollsWithHammers(t *testing.T) {
	f := New(WithSeed(1))
	args := baseArgs()
	args["Use Hammer"] = true
	res := runTrial(t, f, args)

	// Ten base passes (8 slots + 2 hammered), each charged, plus the two
	// hammers themselves.
	require.Equal(t, float64(10*100+2*500), res["totalTraceCost"])
	require.Equal(t, float64(10), res["numPassedScrolls"])
	require.Equal(t, float64(2), res["numPassedHammers"])
	require.Equal(t, float64(2*500), res["hammerTraceCost"])
	require.Zero(t, res["numFailedHammers"])
	require.Zero(t, res["numPassedInnos"])
	require.Zero(t, res["numPassedCSS"])
}

func TestTrialGuildSavesEveryFailure(t *testing.T) {
	// With a guaranteed save, failures never consume a slot, so no
	// escalation procedure ever runs and every failure is saved.
	f := New(WithSeed(77))
	args := baseArgs()
	args["Scroll %"] = 0.5
	args["Guild Save %"] = 1.0
	res := runTrial(t, f, args)

	require.Equal(t, res["numFailedScrolls"], res["numGuildSaves"],
		"Every base failure should be saved")
	require.Zero(t, res["innoTraceCost"])
	require.Zero(t, res["cssTraceCost"])
	require.Zero(t, res["hammerTraceCost"])
	require.Equal(t, float64(8), res["numPassedScrolls"])
	require.Equal(t, res["scrollTraceCost"], res["totalTraceCost"])
}

func TestTrialCostIdentity(t *testing.T) {
	f := New(WithSeed(1234))
	args := baseArgs()
	args["Scroll %"] = 0.6
	args["Inno %"] = 0.7
	args["CSS %"] = 0.8
	args["Use Hammer"] = true
	args["Hammer %"] = 0.9
	res := runTrial(t, f, args)

	require.Equal(t,
		res["innoTraceCost"]+res["scrollTraceCost"]+res["cssTraceCost"]+res["hammerTraceCost"],
		res["totalTraceCost"],
		"Total cost should decompose into the per-mechanism costs")

	// The final pass tally always lands on the target slot count, and
	// restarts only ever add to the scroll pass counter.
	total := 8.0 + 2
	require.GreaterOrEqual(t, res["numPassedScrolls"], total)
	if res["numPassedInnos"] == 0 {
		require.Equal(t, total, res["numPassedScrolls"])
	}
}

func TestTrialForcedRepairs(t *testing.T) {
	// High tolerance and no hammers: failed slots drain the item and the
	// clean slate path must repair them one at a time.
	f := New(WithSeed(9))
	args := baseArgs()
	args["Scroll %"] = 0.5
	args["Inno Fail Count"] = 100
	res := runTrial(t, f, args)

	require.Equal(t, float64(8), res["numPassedScrolls"])
	require.Zero(t, res["numPassedInnos"], "Tolerance should never trip")
	require.Equal(t, res["numFailedScrolls"], res["numPassedCSS"],
		"Each unsaved failure eventually needs exactly one repair")
	require.Equal(t, res["numPassedCSS"]*200, res["cssTraceCost"],
		"Perfect clean slates cost one scroll per repair")
}

func TestTrialInnoCostAcceptsFloat(t *testing.T) {
	f := New(WithSeed(2))
	args := baseArgs()
	args["Inno Cost"] = 300.0
	res := runTrial(t, f, args)
	require.Equal(t, float64(8*100), res["totalTraceCost"])
}

func TestTrialArgumentErrors(t *testing.T) {
	f := New(WithSeed(1))

	t.Run("missing key", func(t *testing.T) {
		args := baseArgs()
		delete(args, "Scroll %")
		_, err := f.Spec().RunValidated(args, f.Trial)
		var countErr *framework.CountError
		require.ErrorAs(t, err, &countErr)
		require.Equal(t, []string{"Scroll %"}, countErr.Missing)
	})

	t.Run("wrong kind", func(t *testing.T) {
		args := baseArgs()
		args["Use Hammer"] = "yes"
		_, err := f.Spec().RunValidated(args, f.Trial)
		var valErr *framework.ValidationError
		require.ErrorAs(t, err, &valErr)
		require.Equal(t, []string{"Use Hammer"}, valErr.Names)
	})

	t.Run("no slots", func(t *testing.T) {
		args := baseArgs()
		args["Num Slots"] = 0
		_, err := f.Spec().RunValidated(args, f.Trial)
		require.Error(t, err)
	})
}

func TestForcePass(t *testing.T) {
	t.Run("guaranteed pass", func(t *testing.T) {
		f := New(WithSeed(1))
		cost, fails := f.forcePass(1.0, 250)
		require.Equal(t, 250, cost, "Rate 1.0 should pass on the first attempt")
		require.Zero(t, fails)
	})

	t.Run("cost scales with failures", func(t *testing.T) {
		f := New(WithSeed(4))
		cost, fails := f.forcePass(0.3, 100)
		require.Equal(t, (fails+1)*100, cost,
			"Every attempt including the final success should be charged")
	})
}
