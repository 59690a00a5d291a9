package coinbound

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// ErrTooLarge reports inputs beyond the exact counter's budget.
var ErrTooLarge = errors.New("too large for exact counting")

// Budget of the exact counter.
const (
	MaxExactTerms = 4096    // min(m, n-m) factors in C(n, m)
	MaxExactBits  = 1 << 18 // bits in the hypothesis count
)

var bigThree = big.NewInt(3)

// Hypotheses returns the exact number of hypotheses: C(n, m), times 2^m when
// the direction is unknown. It fails with ErrTooLarge past the exact budget.
func Hypotheses(m, n int, knownType bool) (*big.Int, error) {
	p := Params{M: m, N: n, K: 1, KnownType: knownType}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r := min(m, n-m)
	if r > MaxExactTerms {
		return nil, fmt.Errorf("%s: %d binomial terms exceed %d: %w", p, r, MaxExactTerms, ErrTooLarge)
	}
	logH := LogCombinations(n, m)
	if !knownType {
		logH += float64(m) * ln2
	}
	if bits := logH / ln2; bits > MaxExactBits {
		return nil, fmt.Errorf("%s: ~%.0f bits exceed %d: %w", p, math.Ceil(bits), MaxExactBits, ErrTooLarge)
	}

	// c = C(n-r+i, i) after step i; every division is exact.
	c := big.NewInt(1)
	var num, den big.Int
	for i := 1; i <= r; i++ {
		num.SetInt64(int64(n - r + i))
		den.SetInt64(int64(i))
		c.Mul(c, &num)
		c.Quo(c, &den)
	}
	if !knownType {
		c.Lsh(c, uint(m))
	}
	return c, nil
}

// ExactMinWeighings is MinWeighings computed with integers: the least w with
// 3^(k·w) >= Hypotheses(m, n, knownType). It fails with ErrTooLarge past the
// exact budget and with ErrInvalidArgument on bad input.
func ExactMinWeighings(m, n, k int, knownType bool) (int, error) {
	if err := (Params{M: m, N: n, K: k, KnownType: knownType}).Validate(); err != nil {
		return 0, err
	}
	h, err := Hypotheses(m, n, knownType)
	if err != nil {
		return 0, err
	}
	if h.Cmp(big.NewInt(1)) <= 0 {
		return 0, nil
	}
	// 3^k > 2^k >= 2^BitLen > h, so a single round separates everything.
	if k >= h.BitLen() {
		return 1, nil
	}

	step := new(big.Int).Exp(bigThree, big.NewInt(int64(k)), nil)

	// Start just below the float estimate and walk up.
	w := int(float64(h.BitLen()-1)*ln2/(float64(k)*ln3)) - 1
	w = max(w, 0)
	capacity := new(big.Int).Exp(step, big.NewInt(int64(w)), nil)
	for capacity.Cmp(h) >= 0 && w > 0 {
		w--
		capacity.Quo(capacity, step)
	}
	for capacity.Cmp(h) < 0 {
		w++
		capacity.Mul(capacity, step)
	}
	return w, nil
}
