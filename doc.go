// Package coinbound computes the information-theoretic lower bound on the
// number of weighing rounds needed to find counterfeit coins.
//
// # Overview
//
// Among n coins, m are counterfeit. Each round places coins on k balance
// scales at once, and every scale tips left, tips right or stays level.
// coinbound answers: how many rounds must any strategy use, at minimum, to
// tell every possible set of counterfeits apart?
//
// The answer is a counting argument, not a strategy. It is exact as a lower
// bound and constant time for any n, including n far beyond 10^9.
//
// # Quick Start
//
//	w, err := coinbound.MinWeighings(1, 12, 1, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(w) // 3
//
// For the intermediate quantities:
//
//	b, err := coinbound.Compute(coinbound.Params{M: 2, N: 20, K: 3}, coinbound.DefaultBoundConfig())
//	fmt.Printf("ln H = %.4f, ratio = %.4f, rounds = %d\n", b.LogHypotheses, b.Ratio, b.Rounds)
//
// # The Bound
//
// With the deviation direction unknown, each counterfeit may be heavy or
// light, so the hypothesis space is
//
//	H = C(n, m) · 2^m
//
// and H = C(n, m) when the direction is known. w rounds of k scales produce
// at most 3^(k·w) distinct outcome sequences, so
//
//	w >= ln H / (k · ln 3)
//
// and the bound is the least integer w satisfying it. Everything is computed
// in log space; ln C(n, m) uses a Stirling-corrected log-beta so that large n
// does not cancel away the digits that matter.
//
// # Rounding
//
// A ratio that lands on an integer in exact arithmetic can come out a few
// ulps above it in floating point. BoundConfig.Tolerance defines a band
// around each integer inside which the ratio counts as lying on it, and
// BoundConfig.ExactTieBreak settles those cases by exact big-integer
// counting (see ExactMinWeighings) when the inputs are small enough.
//
//	coinbound.BoundConfig{Tolerance: 0} // raw IEEE-754 ceiling
//
// # Sweeps
//
// SweepScales tabulates the bound over a range of k. MinScales inverts it:
// the fewest scales that finish within a given number of rounds.
//
// # Testing
//
// The reference table ships as DefaultScenarios and runs concurrently
// through RunScenarios. Property helpers check the bound's invariants:
//
//	func TestBound(t *testing.T) {
//	    coinbound.AssertBoundProperties(t)
//	}
//
// The coinbound CLI (cmd/coinbound) exposes the same operations as the
// bound, selftest, sweep and scales commands.
//
// # See Also
//
//   - examples/twelve-coins - the classic puzzle and its generalisations
//   - testdata/scenarios.yaml - scenario file format
package coinbound
