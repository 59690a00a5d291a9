package coinbound

import (
	"errors"
	"fmt"
	"testing"
)

// AssertionConfig bounds the input grid the property assertions walk.
type AssertionConfig struct {
	// Bound policy under test
	Bound BoundConfig

	// Largest coin count n in the grid (every 0 <= m <= n is covered)
	MaxN int

	// Largest scale count k in the grid
	MaxK int

	// Scale count treated as "effectively infinite" for convergence checks
	LargeK int
}

// DefaultAssertionConfig returns a grid small enough for exact cross-checks.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		Bound:  DefaultBoundConfig(),
		MaxN:   40,
		MaxK:   6,
		LargeK: 1 << 20,
	}
}

// forEachInput calls fn for every (m, n, k, knownType) in the grid.
func (cfg AssertionConfig) forEachInput(fn func(p Params)) {
	for n := 0; n <= cfg.MaxN; n++ {
		for m := 0; m <= n; m++ {
			for k := 1; k <= cfg.MaxK; k++ {
				fn(Params{M: m, N: n, K: k})
				fn(Params{M: m, N: n, K: k, KnownType: true})
			}
		}
	}
}

func mustBound(t *testing.T, p Params, cfg BoundConfig) int {
	t.Helper()
	w, err := MinWeighingsWithConfig(p, cfg)
	if err != nil {
		t.Fatalf("MinWeighings(%s): %v", p, err)
	}
	return w
}

// AssertScenario verifies one scenario's expected bound or expected rejection.
func AssertScenario(t *testing.T, s Scenario, cfg BoundConfig) {
	t.Helper()

	got, err := MinWeighingsWithConfig(s.Params(), cfg)
	if s.ExpectError {
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s (%s): expected ErrInvalidArgument, got w=%d err=%v", s.Name, s.Params(), got, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("%s (%s): %v", s.Name, s.Params(), err)
	}
	if got != s.Expected {
		t.Errorf("%s (%s): expected %d rounds, got %d", s.Name, s.Params(), s.Expected, got)
	}
}

// AssertDirectionDominance verifies an unknown direction never needs fewer
// rounds than a known one.
//
//	w(m, n, k, unknown) >= w(m, n, k, known)
func AssertDirectionDominance(t *testing.T, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	cfg.forEachInput(func(p Params) {
		if p.KnownType {
			return
		}
		known := p
		known.KnownType = true
		wu, wk := mustBound(t, p, cfg.Bound), mustBound(t, known, cfg.Bound)
		if wu < wk {
			failures = append(failures, fmt.Sprintf("  m=%d n=%d k=%d: unknown=%d < known=%d", p.M, p.N, p.K, wu, wk))
		}
	})
	if len(failures) > 0 {
		t.Errorf("Unknown direction needs fewer rounds than known:\n%v", failures)
	}
}

// AssertMonotoneInScales verifies more scales never need more rounds, and
// that a very large k leaves at most one round.
func AssertMonotoneInScales(t *testing.T, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	cfg.forEachInput(func(p Params) {
		next := p
		next.K++
		w, wNext := mustBound(t, p, cfg.Bound), mustBound(t, next, cfg.Bound)
		if wNext > w {
			failures = append(failures, fmt.Sprintf("  %s: k→k+1 raised %d → %d", p, w, wNext))
		}
		if p.K != 1 {
			return
		}
		huge := p
		huge.K = cfg.LargeK
		if wHuge := mustBound(t, huge, cfg.Bound); wHuge > 1 {
			failures = append(failures, fmt.Sprintf("  m=%d n=%d k=%d: %d rounds, want <= 1", p.M, p.N, cfg.LargeK, wHuge))
		}
	})
	if len(failures) > 0 {
		t.Errorf("Bound not non-increasing in k:\n%v", failures)
	}
}

// AssertMonotoneInCoins verifies the bound never drops when n grows, and
// never drops when m grows while the hypothesis space still grows with m:
// m <= (n-1)/2 for a known direction, m <= (2n-1)/3 for an unknown one.
func AssertMonotoneInCoins(t *testing.T, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	cfg.forEachInput(func(p Params) {
		w := mustBound(t, p, cfg.Bound)

		moreCoins := p
		moreCoins.N++
		if wn := mustBound(t, moreCoins, cfg.Bound); wn < w {
			failures = append(failures, fmt.Sprintf("  %s: n→n+1 dropped %d → %d", p, w, wn))
		}

		growing := 3*p.M+1 <= 2*p.N
		if p.KnownType {
			growing = 2*p.M+1 <= p.N
		}
		if !growing {
			return
		}
		moreFake := p
		moreFake.M++
		if wm := mustBound(t, moreFake, cfg.Bound); wm < w {
			failures = append(failures, fmt.Sprintf("  %s: m→m+1 dropped %d → %d", p, w, wm))
		}
	})
	if len(failures) > 0 {
		t.Errorf("Bound not monotone in coin counts:\n%v", failures)
	}
}

// AssertCollapsesToZero verifies the bound is zero exactly when a single
// hypothesis remains: no counterfeit, or every coin counterfeit in a known
// direction.
func AssertCollapsesToZero(t *testing.T, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	cfg.forEachInput(func(p Params) {
		w := mustBound(t, p, cfg.Bound)
		single := p.M == 0 || (p.KnownType && p.M == p.N)
		if (w == 0) != single {
			failures = append(failures, fmt.Sprintf("  %s: %d rounds, single hypothesis=%t", p, w, single))
		}
	})
	if len(failures) > 0 {
		t.Errorf("Zero rounds does not match a single hypothesis:\n%v", failures)
	}
}

// AssertMatchesExact verifies the log-space bound equals exact integer
// counting across the grid.
func AssertMatchesExact(t *testing.T, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	cfg.forEachInput(func(p Params) {
		w := mustBound(t, p, cfg.Bound)
		exact, err := ExactMinWeighings(p.M, p.N, p.K, p.KnownType)
		if err != nil {
			t.Fatalf("ExactMinWeighings(%s): %v", p, err)
		}
		if w != exact {
			failures = append(failures, fmt.Sprintf("  %s: log-space=%d exact=%d", p, w, exact))
		}
	})
	if len(failures) > 0 {
		t.Errorf("Log-space bound disagrees with exact counting:\n%v", failures)
	}
	t.Logf("✓ Log-space bound matches exact counting for n ≤ %d, k ≤ %d", cfg.MaxN, cfg.MaxK)
}

// AssertBoundProperties runs every property assertion with default config.
func AssertBoundProperties(t *testing.T) {
	t.Helper()

	cfg := DefaultAssertionConfig()

	t.Run("DirectionDominance", func(t *testing.T) {
		AssertDirectionDominance(t, cfg)
	})

	t.Run("MonotoneInScales", func(t *testing.T) {
		AssertMonotoneInScales(t, cfg)
	})

	t.Run("MonotoneInCoins", func(t *testing.T) {
		AssertMonotoneInCoins(t, cfg)
	})

	t.Run("CollapsesToZero", func(t *testing.T) {
		AssertCollapsesToZero(t, cfg)
	})

	t.Run("MatchesExact", func(t *testing.T) {
		AssertMatchesExact(t, cfg)
	})
}

// PrintBreakdown logs every intermediate quantity of one evaluation.
func PrintBreakdown(t *testing.T, p Params) {
	t.Helper()

	b, err := Compute(p, DefaultBoundConfig())
	if err != nil {
		t.Fatalf("Compute(%s): %v", p, err)
	}

	t.Logf("\n=== Weighing Bound: %s ===", p)
	t.Logf("  ln C(n, m)        = %.6f", b.LogCombinations)
	t.Logf("  m·ln 2            = %.6f", b.LogDirections)
	t.Logf("  ln H              = %.6f", b.LogHypotheses)
	t.Logf("  k·ln 3            = %.6f", b.LogOutcomesPerRound)
	t.Logf("  ln H / (k·ln 3)   = %.12f", b.Ratio)
	t.Logf("  rounds            = %d (exact tie-break: %t)", b.Rounds, b.Exact)
}
