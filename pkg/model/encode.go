package model

import (
	"fmt"
	"math/big"
)

// Encode narrows [0,1) once per byte of word and once more for the terminator.
// Each step maps the current range onto the symbol's sub-interval:
//
//	low'  = low + width*cLow
//	high' = low + width*cHigh
func (m *Model) Encode(word string) (Interval, error) {
	if word == "" {
		return Interval{}, ErrEmptyWord
	}

	low := new(big.Rat)
	width := big.NewRat(1, 1)
	step := new(big.Rat)

	narrow := func(c byte, offset int) error {
		sym := &m.symbols[c]
		if !sym.Assigned {
			return fmt.Errorf("byte 0x%02x at offset %d of %q: %w", c, offset, word, ErrUnknownCharacter)
		}
		step.Mul(width, sym.interval.low)
		low.Add(low, step)
		width.Mul(width, sym.prob)
		return nil
	}

	for i := 0; i < len(word); i++ {
		c := word[i]
		if c == Terminator {
			return Interval{}, fmt.Errorf("reserved byte 0x00 at offset %d of %q: %w", i, word, ErrUnknownCharacter)
		}
		if err := narrow(c, i); err != nil {
			return Interval{}, err
		}
	}
	if err := narrow(Terminator, len(word)); err != nil {
		return Interval{}, err
	}

	return Interval{low: low, high: new(big.Rat).Add(low, width)}, nil
}
