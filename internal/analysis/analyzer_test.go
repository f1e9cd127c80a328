package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/probelab/montecarlo/internal/analysis"
	"github.com/probelab/montecarlo/internal/dice"
	"github.com/probelab/montecarlo/internal/game"
	"github.com/probelab/montecarlo/internal/testutil"
)

func d6Faces() []dice.Label {
	return []dice.Label{
		dice.NumberLabel(1), dice.NumberLabel(2), dice.NumberLabel(3),
		dice.NumberLabel(4), dice.NumberLabel(5), dice.NumberLabel(6),
	}
}

// scenarioGame builds two uniform d6 dice sharing a scripted source that
// forces the rolls (2,2), (5,1), (3,3).
func scenarioGame(t *testing.T) *game.Game {
	t.Helper()
	src := testutil.NewScriptedSource(t,
		testutil.FaceValue(1, 6), testutil.FaceValue(1, 6), // roll 1: 2, 2
		testutil.FaceValue(4, 6), testutil.FaceValue(0, 6), // roll 2: 5, 1
		testutil.FaceValue(2, 6), testutil.FaceValue(2, 6), // roll 3: 3, 3
	)
	first, err := dice.NewDie(d6Faces(), src)
	require.NoError(t, err)
	second, err := dice.NewDie(d6Faces(), src)
	require.NoError(t, err)

	g, err := game.NewGame([]*dice.Die{first, second}, nil)
	require.NoError(t, err)
	require.NoError(t, g.Play(3))
	require.Equal(t, [][]dice.Label{
		{dice.NumberLabel(2), dice.NumberLabel(2)},
		{dice.NumberLabel(5), dice.NumberLabel(1)},
		{dice.NumberLabel(3), dice.NumberLabel(3)},
	}, g.Rolls(), "scripted source must force the expected rolls")
	return g
}

// TestNewAnalyzer_RejectsNilSource verifies the type-mismatch guard.
func TestNewAnalyzer_RejectsNilSource(t *testing.T) {
	_, err := analysis.NewAnalyzer(nil)
	assert.ErrorIs(t, err, analysis.ErrInvalidSource)
}

// TestJackpotCount_Scenario verifies the concrete scenario: rolls (2,2),
// (5,1), (3,3) contain exactly two jackpots.
func TestJackpotCount_Scenario(t *testing.T) {
	a, err := analysis.NewAnalyzer(scenarioGame(t))
	require.NoError(t, err)
	assert.Equal(t, 2, a.JackpotCount())
}

// TestCombo_Scenario verifies the multiset table for the concrete scenario:
// {(2,2):1, (1,5):1, (3,3):1}, with (5,1) canonicalized to (1,5).
func TestCombo_Scenario(t *testing.T) {
	a, err := analysis.NewAnalyzer(scenarioGame(t))
	require.NoError(t, err)

	combos, err := a.Combo()
	require.NoError(t, err)
	require.Len(t, combos, 3)

	got := make(map[string]int, len(combos))
	for _, c := range combos {
		key := ""
		for i, f := range c.Faces {
			if i > 0 {
				key += ","
			}
			key += f.String()
		}
		got[key] = c.Count
	}
	assert.Equal(t, map[string]int{"2,2": 1, "1,5": 1, "3,3": 1}, got)
}

// TestPermutation_Scenario verifies the ordered table for the concrete
// scenario: {(2,2):1, (5,1):1, (3,3):1}, draw order preserved.
func TestPermutation_Scenario(t *testing.T) {
	a, err := analysis.NewAnalyzer(scenarioGame(t))
	require.NoError(t, err)

	perms := a.Permutation()
	require.Len(t, perms, 3)

	got := make(map[string]int, len(perms))
	for _, p := range perms {
		key := ""
		for i, f := range p.Faces {
			if i > 0 {
				key += ","
			}
			key += f.String()
		}
		got[key] = p.Count
	}
	assert.Equal(t, map[string]int{"2,2": 1, "5,1": 1, "3,3": 1}, got)
}

// TestComboVsPermutation verifies order-independence: (A,B) and (B,A)
// collapse to one combination but stay distinct permutations.
func TestComboVsPermutation(t *testing.T) {
	src := testutil.NewScriptedSource(t,
		testutil.FaceValue(0, 2), testutil.FaceValue(1, 2), // roll 1: A, B
		testutil.FaceValue(1, 2), testutil.FaceValue(0, 2), // roll 2: B, A
	)
	faces := []dice.Label{dice.StringLabel("A"), dice.StringLabel("B")}
	first, err := dice.NewDie(faces, src)
	require.NoError(t, err)
	second, err := dice.NewDie(faces, src)
	require.NoError(t, err)
	g, err := game.NewGame([]*dice.Die{first, second}, nil)
	require.NoError(t, err)
	require.NoError(t, g.Play(2))

	a, err := analysis.NewAnalyzer(g)
	require.NoError(t, err)

	combos, err := a.Combo()
	require.NoError(t, err)
	require.Len(t, combos, 1, "{A,B} and {B,A} must share a combination bucket")
	assert.Equal(t, 2, combos[0].Count)
	assert.Equal(t, []dice.Label{dice.StringLabel("A"), dice.StringLabel("B")}, combos[0].Faces)

	perms := a.Permutation()
	assert.Len(t, perms, 2, "(A,B) and (B,A) must stay distinct permutations")
}

// TestFaceCountsPerRoll_Scenario verifies zero-padding over the combined
// vocabulary and per-roll counts.
func TestFaceCountsPerRoll_Scenario(t *testing.T) {
	a, err := analysis.NewAnalyzer(scenarioGame(t))
	require.NoError(t, err)

	counts := a.FaceCountsPerRoll()
	// Vocabulary is every label observed anywhere, in first-observed order.
	assert.Equal(t, []dice.Label{
		dice.NumberLabel(2), dice.NumberLabel(5), dice.NumberLabel(1), dice.NumberLabel(3),
	}, counts.Faces)
	require.Len(t, counts.Rows, 3)

	for _, row := range counts.Rows {
		assert.Len(t, row.Counts, len(counts.Faces), "every row must carry the full vocabulary")
	}
	assert.Equal(t, 2, counts.Rows[0].Counts[dice.NumberLabel(2)])
	assert.Equal(t, 0, counts.Rows[0].Counts[dice.NumberLabel(5)], "absent labels get explicit zeros")
	assert.Equal(t, 1, counts.Rows[1].Counts[dice.NumberLabel(5)])
	assert.Equal(t, 1, counts.Rows[1].Counts[dice.NumberLabel(1)])
	assert.Equal(t, 2, counts.Rows[2].Counts[dice.NumberLabel(3)])
}

// TestFaceCounts_RowSums verifies each roll contributes exactly one count
// per die: every row's counts sum to the die count.
func TestFaceCounts_RowSums(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dieCount := rapid.IntRange(1, 5).Draw(rt, "dice")
		nRolls := rapid.IntRange(1, 30).Draw(rt, "rolls")
		seed := rapid.Int64().Draw(rt, "seed")

		g := seededGame(rt, dieCount, seed, nRolls)
		a, err := analysis.NewAnalyzer(g)
		if err != nil {
			rt.Fatalf("NewAnalyzer: %v", err)
		}

		for _, row := range a.FaceCountsPerRoll().Rows {
			sum := 0
			for _, c := range row.Counts {
				sum += c
			}
			if sum != dieCount {
				rt.Fatalf("roll %d counts sum to %d, want %d", row.RollNumber, sum, dieCount)
			}
		}
	})
}

// TestSumLaw verifies Combo and Permutation counts each total the roll count.
func TestSumLaw(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dieCount := rapid.IntRange(1, 4).Draw(rt, "dice")
		nRolls := rapid.IntRange(1, 50).Draw(rt, "rolls")
		seed := rapid.Int64().Draw(rt, "seed")

		g := seededGame(rt, dieCount, seed, nRolls)
		a, err := analysis.NewAnalyzer(g)
		if err != nil {
			rt.Fatalf("NewAnalyzer: %v", err)
		}

		combos, err := a.Combo()
		if err != nil {
			rt.Fatalf("Combo: %v", err)
		}
		comboSum := 0
		for _, c := range combos {
			comboSum += c.Count
		}
		if comboSum != nRolls {
			rt.Fatalf("combo counts sum to %d, want %d", comboSum, nRolls)
		}

		permSum := 0
		for _, p := range a.Permutation() {
			permSum += p.Count
		}
		if permSum != nRolls {
			rt.Fatalf("permutation counts sum to %d, want %d", permSum, nRolls)
		}
	})
}

// TestJackpot_SingleDie verifies the boundary: every single-die roll is
// trivially a jackpot.
func TestJackpot_SingleDie(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		nRolls := rapid.IntRange(1, 50).Draw(rt, "rolls")
		seed := rapid.Int64().Draw(rt, "seed")

		g := seededGame(rt, 1, seed, nRolls)
		a, err := analysis.NewAnalyzer(g)
		if err != nil {
			rt.Fatalf("NewAnalyzer: %v", err)
		}
		if got := a.JackpotCount(); got != nRolls {
			rt.Fatalf("single-die JackpotCount = %d, want %d", got, nRolls)
		}
	})
}

// TestIdempotence verifies repeated queries without an intervening Play
// yield identical tables.
func TestIdempotence(t *testing.T) {
	g := seededGameT(t, 3, 17, 20)
	a, err := analysis.NewAnalyzer(g)
	require.NoError(t, err)

	combo1, err := a.Combo()
	require.NoError(t, err)
	combo2, err := a.Combo()
	require.NoError(t, err)
	assert.Equal(t, combo1, combo2)

	assert.Equal(t, a.Permutation(), a.Permutation())
	assert.Equal(t, a.FaceCountsPerRoll(), a.FaceCountsPerRoll())
	assert.Equal(t, a.JackpotCount(), a.JackpotCount())
}

// TestAnalyzerTracksLatestPlay verifies the analyzer holds a non-owning
// reference: queries reflect the simulator's current result, not the one at
// construction time.
func TestAnalyzerTracksLatestPlay(t *testing.T) {
	g := seededGameT(t, 2, 23, 4)
	a, err := analysis.NewAnalyzer(g)
	require.NoError(t, err)
	require.Len(t, a.FaceCountsPerRoll().Rows, 4)

	require.NoError(t, g.Play(9))
	assert.Len(t, a.FaceCountsPerRoll().Rows, 9, "queries must see the latest play")
}

// TestCombo_MixedLabelKinds verifies the defensive error: a roll spanning
// string and number labels has no canonical multiset order.
func TestCombo_MixedLabelKinds(t *testing.T) {
	letters, err := dice.NewDie([]dice.Label{dice.StringLabel("A")}, dice.NewSeededSource(1))
	require.NoError(t, err)
	numbers, err := dice.NewDie([]dice.Label{dice.NumberLabel(1)}, dice.NewSeededSource(2))
	require.NoError(t, err)
	g, err := game.NewGame([]*dice.Die{letters, numbers}, nil)
	require.NoError(t, err)
	require.NoError(t, g.Play(2))

	a, err := analysis.NewAnalyzer(g)
	require.NoError(t, err)

	_, err = a.Combo()
	assert.ErrorIs(t, err, analysis.ErrMixedLabelKinds)

	// Order-dependent queries never sort, so mixed kinds stay queryable.
	assert.Len(t, a.Permutation(), 1)
	assert.Equal(t, 0, a.JackpotCount(), "disjoint face sets can never jackpot")
	assert.Len(t, a.FaceCountsPerRoll().Faces, 2)
}

// stubSource feeds a fixed roll table to the Analyzer.
type stubSource struct {
	rolls [][]dice.Label
}

func (s *stubSource) Rolls() [][]dice.Label { return s.rolls }

// TestGroupingKeysAreInjective verifies labels whose text could recreate the
// grouping key's internal boundaries keep distinct tuples in distinct
// buckets.
func TestGroupingKeysAreInjective(t *testing.T) {
	cases := map[string]*stubSource{
		"embedded separator bytes": {rolls: [][]dice.Label{
			{dice.StringLabel("x\x1es:y"), dice.StringLabel("z")},
			{dice.StringLabel("x"), dice.StringLabel("y\x1es:z")},
		}},
		"shifted concatenation": {rolls: [][]dice.Label{
			{dice.StringLabel("ab"), dice.StringLabel("c")},
			{dice.StringLabel("a"), dice.StringLabel("bc")},
		}},
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			a, err := analysis.NewAnalyzer(src)
			require.NoError(t, err)

			perms := a.Permutation()
			require.Len(t, perms, 2, "distinct tuples must not share a bucket")
			for _, p := range perms {
				assert.Equal(t, 1, p.Count)
			}

			combos, err := a.Combo()
			require.NoError(t, err)
			assert.Len(t, combos, 2, "distinct multisets must not share a bucket")
		})
	}
}

// TestAnalyzer_ZeroWidthRolls verifies a degenerate source whose rolls carry
// no die positions is tolerated by every query.
func TestAnalyzer_ZeroWidthRolls(t *testing.T) {
	src := &stubSource{rolls: [][]dice.Label{
		{},
		{dice.NumberLabel(4), dice.NumberLabel(4)},
		nil,
	}}
	a, err := analysis.NewAnalyzer(src)
	require.NoError(t, err)

	assert.Equal(t, 1, a.JackpotCount(), "a roll showing no label never jackpots")

	combos, err := a.Combo()
	require.NoError(t, err)
	assert.Len(t, combos, 2)

	assert.Len(t, a.Permutation(), 2)

	counts := a.FaceCountsPerRoll()
	require.Len(t, counts.Rows, 3)
	assert.Equal(t, 0, counts.Rows[0].Counts[dice.NumberLabel(4)])
}

// seededGame builds a played game of uniform d6 dice for property tests.
func seededGame(rt *rapid.T, dieCount int, seed int64, nRolls int) *game.Game {
	src := dice.NewSeededSource(seed)
	built := make([]*dice.Die, dieCount)
	for i := range built {
		d, err := dice.NewDie(d6Faces(), src)
		if err != nil {
			rt.Fatalf("NewDie: %v", err)
		}
		built[i] = d
	}
	g, err := game.NewGame(built, nil)
	if err != nil {
		rt.Fatalf("NewGame: %v", err)
	}
	if err := g.Play(nRolls); err != nil {
		rt.Fatalf("Play: %v", err)
	}
	return g
}

// seededGameT is seededGame for plain tests.
func seededGameT(t *testing.T, dieCount int, seed int64, nRolls int) *game.Game {
	t.Helper()
	src := dice.NewSeededSource(seed)
	built := make([]*dice.Die, dieCount)
	for i := range built {
		d, err := dice.NewDie(d6Faces(), src)
		require.NoError(t, err)
		built[i] = d
	}
	g, err := game.NewGame(built, nil)
	require.NoError(t, err)
	require.NoError(t, g.Play(nRolls))
	return g
}
