package model

import (
	"fmt"
	"math/big"
)

// Interval is a half-open range [low, high) inside [0,1).
// Bounds are exact rationals and are never exposed by reference.
type Interval struct {
	low  *big.Rat
	high *big.Rat
}

// Unit returns [0,1).
func Unit() Interval {
	return Interval{low: new(big.Rat), high: big.NewRat(1, 1)}
}

// NewInterval validates 0 <= low < high <= 1 and returns a copy of the bounds.
func NewInterval(low, high *big.Rat) (Interval, error) {
	if low == nil || high == nil {
		return Interval{}, fmt.Errorf("interval bounds must not be nil")
	}
	if low.Sign() < 0 || high.Cmp(big.NewRat(1, 1)) > 0 {
		return Interval{}, fmt.Errorf("interval [%s, %s) is outside [0,1)", low.RatString(), high.RatString())
	}
	if low.Cmp(high) >= 0 {
		return Interval{}, fmt.Errorf("interval [%s, %s) is empty", low.RatString(), high.RatString())
	}
	return Interval{low: new(big.Rat).Set(low), high: new(big.Rat).Set(high)}, nil
}

// IsZero reports whether the interval was never assigned.
func (iv Interval) IsZero() bool {
	return iv.low == nil || iv.high == nil
}

// Low returns a copy of the lower bound.
func (iv Interval) Low() *big.Rat {
	return new(big.Rat).Set(iv.low)
}

// High returns a copy of the upper bound.
func (iv Interval) High() *big.Rat {
	return new(big.Rat).Set(iv.high)
}

// Width returns high - low.
func (iv Interval) Width() *big.Rat {
	return new(big.Rat).Sub(iv.high, iv.low)
}

// Midpoint returns (low + high) / 2, the representative point of the interval.
func (iv Interval) Midpoint() *big.Rat {
	mid := new(big.Rat).Add(iv.low, iv.high)
	return mid.Quo(mid, big.NewRat(2, 1))
}

// Contains reports whether low <= p < high.
func (iv Interval) Contains(p *big.Rat) bool {
	return iv.low.Cmp(p) <= 0 && p.Cmp(iv.high) < 0
}

// Overlaps reports whether the two intervals share any point.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.low.Cmp(o.high) < 0 && o.low.Cmp(iv.high) < 0
}

// Compare orders intervals by their lower bound.
func (iv Interval) Compare(o Interval) int {
	return iv.low.Cmp(o.low)
}

// Equal reports whether both bounds are identical.
func (iv Interval) Equal(o Interval) bool {
	return iv.low.Cmp(o.low) == 0 && iv.high.Cmp(o.high) == 0
}

// Float64 returns the nearest float64 values of the bounds, for display only.
func (iv Interval) Float64() (low, high float64) {
	low, _ = iv.low.Float64()
	high, _ = iv.high.Float64()
	return low, high
}

func (iv Interval) String() string {
	if iv.IsZero() {
		return "[unassigned)"
	}
	low, high := iv.Float64()
	return fmt.Sprintf("[%g, %g)", low, high)
}
