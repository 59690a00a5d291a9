package coinbound

import (
	"errors"
	"math"
	"testing"
)

// TestMinWeighings_ReferenceScenarios verifies the reference table.
func TestMinWeighings_ReferenceScenarios(t *testing.T) {
	for _, s := range DefaultScenarios() {
		t.Run(s.Name, func(t *testing.T) {
			AssertScenario(t, s, DefaultBoundConfig())
		})
	}
}

// TestMinWeighings_TwelveCoins is the classic puzzle: one odd coin in twelve,
// direction unknown, one balance. 24 hypotheses against 27 outcomes.
func TestMinWeighings_TwelveCoins(t *testing.T) {
	w, err := MinWeighings(1, 12, 1, false)
	if err != nil {
		t.Fatalf("MinWeighings failed: %v", err)
	}
	if w != 3 {
		t.Errorf("Expected 3 rounds, got %d", w)
	}

	PrintBreakdown(t, Params{M: 1, N: 12, K: 1})
}

// TestMinWeighings_InvalidArguments verifies every precondition violation
// is rejected before any special function runs.
func TestMinWeighings_InvalidArguments(t *testing.T) {
	cases := []struct {
		name    string
		m, n, k int
	}{
		{"zero scales", 1, 12, 0},
		{"negative scales", 1, 12, -3},
		{"negative counterfeit", -1, 12, 1},
		{"negative coins", 0, -1, 1},
		{"more counterfeit than coins", 13, 12, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, known := range []bool{false, true} {
				w, err := MinWeighings(tc.m, tc.n, tc.k, known)
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("known=%t: expected ErrInvalidArgument, got w=%d err=%v", known, w, err)
				}
				if w != 0 {
					t.Errorf("known=%t: expected no partial result, got %d", known, w)
				}
			}
		})
	}
}

// TestMinWeighings_NoCounterfeit verifies m=0 needs zero rounds for any n, k.
func TestMinWeighings_NoCounterfeit(t *testing.T) {
	for _, n := range []int{0, 1, 2, 12, 1_000, 50_000_000, 1_000_000_000, math.MaxInt32} {
		for _, k := range []int{1, 2, 10, 1 << 30} {
			for _, known := range []bool{false, true} {
				w, err := MinWeighings(0, n, k, known)
				if err != nil {
					t.Fatalf("n=%d k=%d: %v", n, k, err)
				}
				if w != 0 {
					t.Errorf("n=%d k=%d known=%t: expected 0 rounds, got %d", n, k, known, w)
				}
			}
		}
	}
}

// TestMinWeighings_AllCounterfeit verifies m=n leaves only the directions
// to resolve: ceil(m·ln2 / (k·ln3)) when unknown, nothing when known.
func TestMinWeighings_AllCounterfeit(t *testing.T) {
	cases := []struct {
		m, k    int
		unknown int
	}{
		{1, 1, 1},  // 2 hypotheses, 3 outcomes
		{2, 1, 2},  // 4 hypotheses, 3 per round
		{3, 1, 2},  // 8 <= 9
		{5, 1, 4},  // 32 <= 81
		{5, 2, 2},  // 32 <= 81
		{10, 3, 3}, // 1024 <= 27^3
	}

	for _, tc := range cases {
		unknown, err := MinWeighings(tc.m, tc.m, tc.k, false)
		if err != nil {
			t.Fatalf("m=n=%d k=%d: %v", tc.m, tc.k, err)
		}
		if unknown != tc.unknown {
			t.Errorf("m=n=%d k=%d unknown: expected %d, got %d", tc.m, tc.k, tc.unknown, unknown)
		}

		known, err := MinWeighings(tc.m, tc.m, tc.k, true)
		if err != nil {
			t.Fatalf("m=n=%d k=%d: %v", tc.m, tc.k, err)
		}
		if known != 0 {
			t.Errorf("m=n=%d k=%d known: expected 0, got %d", tc.m, tc.k, known)
		}
	}
}

// TestMinWeighings_Properties walks the invariant grid.
func TestMinWeighings_Properties(t *testing.T) {
	AssertBoundProperties(t)
}

// TestCompute_Breakdown verifies the intermediate quantities add up.
func TestCompute_Breakdown(t *testing.T) {
	b, err := Compute(Params{M: 2, N: 20, K: 1}, DefaultBoundConfig())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// 2^2 · C(20, 2) = 760
	if math.Abs(b.LogHypotheses-math.Log(760)) > 1e-9 {
		t.Errorf("ln H: expected %.9f, got %.9f", math.Log(760), b.LogHypotheses)
	}
	if math.Abs(b.LogCombinations-math.Log(190)) > 1e-9 {
		t.Errorf("ln C: expected %.9f, got %.9f", math.Log(190), b.LogCombinations)
	}
	if math.Abs(b.LogDirections-2*math.Ln2) > 1e-12 {
		t.Errorf("m·ln2: expected %.9f, got %.9f", 2*math.Ln2, b.LogDirections)
	}
	if math.Abs(b.LogOutcomesPerRound-math.Log(3)) > 1e-12 {
		t.Errorf("k·ln3: expected %.9f, got %.9f", math.Log(3), b.LogOutcomesPerRound)
	}
	if b.Rounds != 7 {
		t.Errorf("Expected 7 rounds, got %d", b.Rounds)
	}
	if b.Exact {
		t.Errorf("Ratio %.6f is far from an integer, exact tie-break should not run", b.Ratio)
	}
}

// TestCompute_BoundaryTieBreak verifies a ratio landing on an integer is
// settled by exact counting: 3 hypotheses against 3 outcomes is one round.
func TestCompute_BoundaryTieBreak(t *testing.T) {
	b, err := Compute(Params{M: 1, N: 3, K: 1, KnownType: true}, DefaultBoundConfig())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if b.Rounds != 1 {
		t.Errorf("Expected 1 round, got %d (ratio %.17g)", b.Rounds, b.Ratio)
	}
	if !b.Exact {
		t.Errorf("Expected the exact tie-break to settle ratio %.17g", b.Ratio)
	}

	// Without the tie-break the band alone snaps to the integer.
	cfg := DefaultBoundConfig()
	cfg.ExactTieBreak = false
	w, err := MinWeighingsWithConfig(b.Params, cfg)
	if err != nil {
		t.Fatalf("MinWeighingsWithConfig failed: %v", err)
	}
	if w != 1 {
		t.Errorf("Expected 1 round without tie-break, got %d", w)
	}
}

// TestTolerantCeil verifies the rounding policy on synthetic ratios.
func TestTolerantCeil(t *testing.T) {
	cases := []struct {
		name       string
		ratio      float64
		tolerance  float64
		want       int
		onBoundary bool
	}{
		{"zero", 0, 1e-9, 0, false},
		{"negative noise", -1e-15, 1e-9, 0, false},
		{"noise above integer", 1.0000000000000007, 1e-9, 1, true},
		{"noise below integer", 0.9999999999999998, 1e-9, 1, true},
		{"exact integer", 3, 1e-9, 3, true},
		{"half", 0.5000000000000003, 1e-9, 1, false},
		{"just outside band", 2 + 1e-6, 1e-9, 3, false},
		{"band scales with ratio", 600 + 4e-12, 1e-14, 600, true},
		{"default band is narrow", 600 + 1e-10, 1e-14, 601, false},
		{"large ratio keeps genuine fraction", 630931741.000181, 1e-14, 630931742, false},
		{"raw ceiling", 1.0000000000000007, 0, 2, false},
		{"raw ceiling on integer", 4, 0, 4, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, onBoundary := tolerantCeil(tc.ratio, tc.tolerance)
			if got != tc.want {
				t.Errorf("tolerantCeil(%.17g, %g) = %d, want %d", tc.ratio, tc.tolerance, got, tc.want)
			}
			if onBoundary != tc.onBoundary {
				t.Errorf("tolerantCeil(%.17g, %g) onBoundary = %t, want %t", tc.ratio, tc.tolerance, onBoundary, tc.onBoundary)
			}
		})
	}
}

// TestLogCombinations_Small verifies log-gamma against exact binomials.
func TestLogCombinations_Small(t *testing.T) {
	binom := func(n, m int) float64 {
		c := 1.0
		for i := 1; i <= m; i++ {
			c = c * float64(n-m+i) / float64(i)
		}
		return c
	}

	for n := 0; n <= 60; n++ {
		for m := 0; m <= n; m++ {
			want := math.Log(binom(n, m))
			got := LogCombinations(n, m)
			if math.Abs(got-want) > 1e-9*math.Max(1, want) {
				t.Errorf("ln C(%d, %d): expected %.12f, got %.12f", n, m, want, got)
			}
		}
	}
}

// TestLogCombinations_Symmetry verifies ln C(n, m) = ln C(n, n-m).
func TestLogCombinations_Symmetry(t *testing.T) {
	for _, n := range []int{10, 1_000, 1_000_000, 1_000_000_000} {
		for _, m := range []int{1, 3, 7} {
			a, b := LogCombinations(n, m), LogCombinations(n, n-m)
			if math.Abs(a-b) > 1e-9*math.Max(1, a) {
				t.Errorf("n=%d m=%d: %.12f != %.12f", n, m, a, b)
			}
		}
	}
}

// TestMinWeighings_AllCounterfeitHuge checks m = n near 10^9 with an unknown
// direction, where ratio = m·ln2/ln3 sits 1e-4 above an integer and exact
// counting is out of budget.
func TestMinWeighings_AllCounterfeitHuge(t *testing.T) {
	cases := []struct {
		m    int
		want int
	}{
		{1_000_003_150, 630_931_742},
		{1_000_004_204, 630_932_407},
		{1_000_005_258, 630_933_072},
	}

	for _, tc := range cases {
		if _, err := ExactMinWeighings(tc.m, tc.m, 1, false); !errors.Is(err, ErrTooLarge) {
			t.Fatalf("m=n=%d: expected exact counting out of budget, got %v", tc.m, err)
		}

		b, err := Compute(Params{M: tc.m, N: tc.m, K: 1}, DefaultBoundConfig())
		if err != nil {
			t.Fatalf("m=n=%d: %v", tc.m, err)
		}
		if b.Rounds != tc.want {
			t.Errorf("m=n=%d: expected %d rounds, got %d (ratio %.9f)", tc.m, tc.want, b.Rounds, b.Ratio)
		}
		if b.Exact {
			t.Errorf("m=n=%d: unexpected exact tie-break", tc.m)
		}
		t.Logf("m=n=%d: ratio=%.9f rounds=%d", tc.m, b.Ratio, b.Rounds)
	}
}

// TestMinWeighings_HugeInputs verifies log-gamma stays finite far beyond 10^9.
func TestMinWeighings_HugeInputs(t *testing.T) {
	cases := []struct {
		m, n, k int
	}{
		{1, 1_000_000_000, 1},
		{1_000, 1_000_000_000, 7},
		{500_000_000, 1_000_000_000, 100},
		{1_000_000, 1 << 40, 25},
		{1 << 20, 1 << 50, 1 << 10},
	}

	for _, tc := range cases {
		for _, known := range []bool{false, true} {
			b, err := Compute(Params{M: tc.m, N: tc.n, K: tc.k, KnownType: known}, DefaultBoundConfig())
			if err != nil {
				t.Fatalf("m=%d n=%d k=%d: %v", tc.m, tc.n, tc.k, err)
			}
			if math.IsInf(b.LogHypotheses, 0) || math.IsNaN(b.LogHypotheses) {
				t.Errorf("m=%d n=%d: ln H not finite: %v", tc.m, tc.n, b.LogHypotheses)
			}
			if b.Rounds < 1 {
				t.Errorf("m=%d n=%d k=%d: expected at least 1 round, got %d", tc.m, tc.n, tc.k, b.Rounds)
			}
			t.Logf("m=%d n=%d k=%d known=%t: %d rounds (ratio %.4f)", tc.m, tc.n, tc.k, known, b.Rounds, b.Ratio)
		}
	}
}

// TestMinWeighings_SingleOddCoin checks ceil(log3(2n)) for one counterfeit of
// unknown direction on one scale, including n right at powers of three.
func TestMinWeighings_SingleOddCoin(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{2, 2},  // 4 hypotheses
		{4, 2},  // 8 <= 9
		{5, 3},  // 10 > 9
		{13, 3}, // 26 <= 27
		{14, 4}, // 28 > 27
		{40, 4}, // 80 <= 81
		{41, 5}, // 82 > 81
	}

	for _, tc := range cases {
		w, err := MinWeighings(1, tc.n, 1, false)
		if err != nil {
			t.Fatalf("n=%d: %v", tc.n, err)
		}
		if w != tc.want {
			t.Errorf("n=%d: expected %d rounds, got %d", tc.n, tc.want, w)
		}
	}

	// Known direction: exactly a power of three sits on the boundary.
	for j := 1; j <= 19; j++ {
		n := int(math.Pow(3, float64(j)))
		w, err := MinWeighings(1, n, 1, true)
		if err != nil {
			t.Fatalf("n=3^%d: %v", j, err)
		}
		if w != j {
			t.Errorf("n=3^%d known: expected %d rounds, got %d", j, j, w)
		}
		w, err = MinWeighings(1, n+1, 1, true)
		if err != nil {
			t.Fatalf("n=3^%d+1: %v", j, err)
		}
		if w != j+1 {
			t.Errorf("n=3^%d+1 known: expected %d rounds, got %d", j, j+1, w)
		}
	}
}

// BenchmarkMinWeighings verifies a call is constant time regardless of n.
func BenchmarkMinWeighings(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = MinWeighings(500, 50_000_000, 10, false)
	}
}
