package coinbound

import (
	"fmt"
	"math"
)

// MaxSweepRows caps the number of rows SweepScales produces.
const MaxSweepRows = 1 << 16

// SweepRow is the bound at one scale count.
type SweepRow struct {
	K      int     `json:"k" yaml:"k"`
	Rounds int     `json:"rounds" yaml:"rounds"`
	Ratio  float64 `json:"ratio" yaml:"ratio"`
}

// SweepScales tabulates the bound for every k in [kFrom, kTo].
// Rounds never increase down the table.
func SweepScales(m, n int, knownType bool, kFrom, kTo int, cfg BoundConfig) ([]SweepRow, error) {
	if kFrom < 1 || kTo < kFrom {
		return nil, fmt.Errorf("scale range [%d, %d] must satisfy 1 <= from <= to: %w", kFrom, kTo, ErrInvalidArgument)
	}
	if kTo-kFrom >= MaxSweepRows {
		return nil, fmt.Errorf("scale range [%d, %d] exceeds %d rows: %w", kFrom, kTo, MaxSweepRows, ErrInvalidArgument)
	}

	rows := make([]SweepRow, 0, kTo-kFrom+1)
	for k := kFrom; k <= kTo; k++ {
		b, err := Compute(Params{M: m, N: n, K: k, KnownType: knownType}, cfg)
		if err != nil {
			return nil, err
		}
		rows = append(rows, SweepRow{K: k, Rounds: b.Rounds, Ratio: b.Ratio})
	}
	return rows, nil
}

// MinScales returns the fewest scales k for which the bound is at most rounds.
//
// With a single hypothesis (m = 0, or m = n with a known direction) one scale
// already needs zero rounds. Otherwise rounds must be at least 1, since no
// number of scales identifies anything without weighing.
func MinScales(m, n, rounds int, knownType bool, cfg BoundConfig) (int, error) {
	base, err := Compute(Params{M: m, N: n, K: 1, KnownType: knownType}, cfg)
	if err != nil {
		return 0, err
	}
	if rounds < 0 {
		return 0, fmt.Errorf("rounds=%d must not be negative: %w", rounds, ErrInvalidArgument)
	}
	if base.Rounds <= rounds {
		return 1, nil
	}
	if rounds == 0 {
		return 0, fmt.Errorf("%s: zero rounds cannot separate more than one hypothesis: %w", base.Params, ErrInvalidArgument)
	}

	// ln H <= w·k·ln 3 solved for k, then settled against the same ceiling
	// Compute uses.
	k, _ := tolerantCeil(base.LogHypotheses/(float64(rounds)*ln3), cfg.Tolerance)
	k = max(k, 1)
	if k > math.MaxInt32 {
		return 0, fmt.Errorf("%s: needs more than %d scales: %w", base.Params, math.MaxInt32, ErrInvalidArgument)
	}

	fits := func(k int) bool {
		w, _ := MinWeighingsWithConfig(Params{M: m, N: n, K: k, KnownType: knownType}, cfg)
		return w <= rounds
	}
	for !fits(k) {
		k++
	}
	for k > 1 && fits(k-1) {
		k--
	}
	return k, nil
}
