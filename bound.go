package coinbound

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument reports a precondition violation on m, n or k.
var ErrInvalidArgument = errors.New("invalid argument")

// Natural logs of the per-coin direction choices and the per-scale outcomes.
var (
	ln2 = math.Log(2)
	ln3 = math.Log(3)
)

// Params are the four inputs of one bound evaluation.
type Params struct {
	M         int  `json:"m"`        // Counterfeit coins
	N         int  `json:"n"`        // Total coins
	K         int  `json:"k"`        // Scales used in parallel per round
	KnownType bool `json:"known_type"` // Deviation direction known in advance
}

// Validate checks the preconditions 0 <= M <= N and K >= 1.
func (p Params) Validate() error {
	switch {
	case p.K <= 0:
		return fmt.Errorf("scales k=%d must be at least 1: %w", p.K, ErrInvalidArgument)
	case p.N < 0:
		return fmt.Errorf("coins n=%d must not be negative: %w", p.N, ErrInvalidArgument)
	case p.M < 0:
		return fmt.Errorf("counterfeit m=%d must not be negative: %w", p.M, ErrInvalidArgument)
	case p.M > p.N:
		return fmt.Errorf("counterfeit m=%d exceeds coins n=%d: %w", p.M, p.N, ErrInvalidArgument)
	}
	return nil
}

func (p Params) String() string {
	mode := "unknown"
	if p.KnownType {
		mode = "known"
	}
	return fmt.Sprintf("m=%d n=%d k=%d direction=%s", p.M, p.N, p.K, mode)
}

// BoundConfig controls how the log-space ratio is turned into a round count.
type BoundConfig struct {
	// Tolerance is the relative width of the band around each integer inside
	// which the ratio is treated as lying on the integer. The band is
	// Tolerance·max(1, ratio) and must not exceed the relative error of the
	// log-space evaluation (a few 1e-15): anything wider snaps genuine
	// fractions down when exact counting is out of budget. Zero gives a raw
	// IEEE-754 ceiling.
	Tolerance float64

	// ExactTieBreak resolves ratios inside the band by exact big-integer
	// counting when the inputs fit the exact counter's budget. Otherwise the
	// ratio snaps to the nearest integer.
	ExactTieBreak bool
}

// DefaultBoundConfig returns the tolerant policy used by MinWeighings.
func DefaultBoundConfig() BoundConfig {
	return BoundConfig{
		Tolerance:     1e-14,
		ExactTieBreak: true,
	}
}

// Bound is the full breakdown of one evaluation. Log quantities are natural logs.
type Bound struct {
	Params

	LogCombinations     float64 // ln C(n, m)
	LogDirections       float64 // m·ln 2 when the direction is unknown, else 0
	LogHypotheses       float64 // LogCombinations + LogDirections
	LogOutcomesPerRound float64 // k·ln 3
	Ratio               float64 // LogHypotheses / LogOutcomesPerRound
	Rounds              int     // The bound
	Exact               bool    // Rounds was settled by exact counting
}

// LogCombinations returns ln C(n, m) = lnΓ(n+1) − lnΓ(m+1) − lnΓ(n−m+1).
// It runs in constant time for any n and stays accurate for n far beyond
// 10^9. See logBeta for why the three log-gammas are not subtracted directly.
//
// Callers must pass 0 <= m <= n.
func LogCombinations(n, m int) float64 {
	r := min(m, n-m)
	if r <= 0 {
		return 0
	}
	// C(n, r) = 1 / ((n+1) · B(r+1, n−r+1))
	v := -math.Log(float64(n)+1) - logBeta(float64(r)+1, float64(n-r)+1)
	if v < 0 {
		// C(n, m) >= 1; anything below zero is rounding noise.
		return 0
	}
	return v
}

// lnSqrt2Pi is ln √(2π).
var lnSqrt2Pi = 0.5 * math.Log(2*math.Pi)

// logBeta returns ln B(p, q) for p, q > 0.
//
// lnΓ(n+1) − lnΓ(n−m+1) loses every digit below the ulp of lnΓ(n+1), which
// is already ~1e-6 at n = 10^9. Splitting off the Stirling series and
// keeping only the small correction terms avoids that cancellation.
func logBeta(p, q float64) float64 {
	if p > q {
		p, q = q, p
	}
	switch {
	case p >= 10:
		corr := stirlingCorrection(p) + stirlingCorrection(q) - stirlingCorrection(p+q)
		return -0.5*math.Log(q) + lnSqrt2Pi + corr +
			(p-0.5)*math.Log(p/(p+q)) + q*math.Log1p(-p/(p+q))
	case q >= 10:
		lp, _ := math.Lgamma(p)
		corr := stirlingCorrection(q) - stirlingCorrection(p+q)
		return lp + corr + p - p*math.Log(p+q) + (q-0.5)*math.Log1p(-p/(p+q))
	default:
		lp, _ := math.Lgamma(p)
		lq, _ := math.Lgamma(q)
		lpq, _ := math.Lgamma(p + q)
		return lp + lq - lpq
	}
}

// stirlingCorrection returns lnΓ(x) − ((x−½)·ln x − x + ln √(2π)) for x >= 10.
func stirlingCorrection(x float64) float64 {
	x2 := 1 / (x * x)
	return (1.0/12 - x2*(1.0/360-x2*(1.0/1260-x2*(1.0/1680-x2/1188)))) / x
}

// Compute evaluates the bound for p and reports every intermediate quantity.
//
// The hypothesis space holds C(n, m) coin choices, times 2^m direction
// choices when the direction is unknown. A round of k scales has 3^k
// outcomes, so w rounds suffice only when
//
//	ln H <= w · k · ln 3
//
// and the bound is the least such w.
func Compute(p Params, cfg BoundConfig) (Bound, error) {
	if err := p.Validate(); err != nil {
		return Bound{}, err
	}

	b := Bound{
		Params:              p,
		LogOutcomesPerRound: float64(p.K) * ln3,
	}
	if p.M == 0 {
		return b, nil
	}

	b.LogCombinations = LogCombinations(p.N, p.M)
	if !p.KnownType {
		b.LogDirections = float64(p.M) * ln2
	}
	b.LogHypotheses = b.LogCombinations + b.LogDirections
	b.Ratio = b.LogHypotheses / b.LogOutcomesPerRound

	rounds, onBoundary := tolerantCeil(b.Ratio, cfg.Tolerance)
	if rounds == 0 && b.LogHypotheses > 0 {
		// More than one hypothesis always needs a round.
		rounds = 1
	}
	b.Rounds = rounds
	if onBoundary && cfg.ExactTieBreak {
		if exact, err := ExactMinWeighings(p.M, p.N, p.K, p.KnownType); err == nil {
			b.Rounds = exact
			b.Exact = true
		}
	}
	return b, nil
}

// tolerantCeil returns ceil(ratio) except inside the band around an integer,
// where it returns that integer and reports onBoundary.
func tolerantCeil(ratio, tolerance float64) (int, bool) {
	if ratio <= 0 {
		return 0, false
	}
	band := tolerance * math.Max(1, ratio)
	nearest := math.Round(ratio)
	if math.Abs(ratio-nearest) <= band {
		return int(nearest), true
	}
	return int(math.Ceil(ratio)), false
}

// MinWeighingsWithConfig returns the bound for p under cfg.
func MinWeighingsWithConfig(p Params, cfg BoundConfig) (int, error) {
	b, err := Compute(p, cfg)
	if err != nil {
		return 0, err
	}
	return b.Rounds, nil
}

// MinWeighings returns the minimum number of weighing rounds needed to
// identify m counterfeit coins among n using k scales per round.
// knownType reports whether the counterfeits' deviation direction is known.
//
// It fails with ErrInvalidArgument when k < 1, m < 0, n < 0 or m > n.
//
//	w, err := coinbound.MinWeighings(1, 12, 1, false) // 3
func MinWeighings(m, n, k int, knownType bool) (int, error) {
	return MinWeighingsWithConfig(Params{M: m, N: n, K: k, KnownType: knownType}, DefaultBoundConfig())
}
