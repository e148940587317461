/*
Package model implements the per-character frequency model and the word encoder.

A Model is trained once from a vocabulary. Every byte value observed in the
vocabulary receives a probability equal to its share of all characters, and a
sub-interval of [0,1) of that width. Sub-intervals are assigned in ascending
byte order so the same vocabulary always yields the same model.

Byte 0 is reserved as the end-of-word terminator and is counted once per word.
It keeps the code prefix-free: "ca" and "cat" narrow to disjoint intervals.

All arithmetic uses math/big.Rat, so a word encoded at build time and the same
word encoded at query time produce identical intervals regardless of length.

A Model is immutable after Build and safe for concurrent use.
*/
package model

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// AlphabetSize is the number of byte-indexed symbol slots.
	AlphabetSize = 256
	// Terminator is the reserved end-of-word symbol.
	Terminator byte = 0
)

var (
	// ErrEmptyAlphabet is returned when the vocabulary contains no characters.
	ErrEmptyAlphabet = errors.New("empty alphabet")
	// ErrEmptyWord is returned for zero-length words.
	ErrEmptyWord = errors.New("empty word")
	// ErrUnknownCharacter is returned for characters without an assigned interval.
	ErrUnknownCharacter = errors.New("unknown character")
)

// Symbol is the statistic kept for one byte value.
type Symbol struct {
	Count    uint64
	Assigned bool // false means the byte was never seen in training
	prob     *big.Rat
	interval Interval
}

// Probability returns a copy of the symbol probability, or nil if unassigned.
func (s Symbol) Probability() *big.Rat {
	if !s.Assigned {
		return nil
	}
	return new(big.Rat).Set(s.prob)
}

// Interval returns the sub-interval assigned to the symbol.
func (s Symbol) Interval() Interval {
	return s.interval
}

// Model is the trained frequency model.
type Model struct {
	symbols [AlphabetSize]Symbol
	total   uint64
	unique  int
}

// Stats summarises a model for diagnostics.
type Stats struct {
	Symbols        int     // distinct assigned symbols, terminator included
	Characters     uint64  // characters counted, terminators excluded
	Words          uint64  // terminator count
	ProbabilitySum float64 // float64 sum of probabilities, 1 within rounding
	Entropy        float64 // Shannon entropy in bits per symbol
}

// Build trains a model from the vocabulary.
func Build(words []string) (*Model, error) {
	var counts [AlphabetSize]uint64
	for i, word := range words {
		if word == "" {
			return nil, fmt.Errorf("word %d: %w", i, ErrEmptyWord)
		}
		for j := 0; j < len(word); j++ {
			c := word[j]
			if c == Terminator {
				return nil, fmt.Errorf("word %d %q offset %d: reserved byte 0x00: %w", i, word, j, ErrUnknownCharacter)
			}
			counts[c]++
		}
		counts[Terminator]++
	}
	return FromCounts(counts)
}

// FromCounts builds a model from raw per-byte counts.
// The terminator slot must hold the number of words.
func FromCounts(counts [AlphabetSize]uint64) (*Model, error) {
	m := &Model{}
	var characters uint64
	for c, n := range counts {
		m.symbols[c].Count = n
		m.total += n
		if byte(c) != Terminator {
			characters += n
		}
	}
	if characters == 0 {
		return nil, ErrEmptyAlphabet
	}
	if counts[Terminator] == 0 {
		return nil, fmt.Errorf("no word terminators counted: %w", ErrEmptyAlphabet)
	}

	total := new(big.Int).SetUint64(m.total)
	running := new(big.Rat)
	for c := 0; c < AlphabetSize; c++ {
		sym := &m.symbols[c]
		if sym.Count == 0 {
			continue
		}
		sym.prob = new(big.Rat).SetFrac(new(big.Int).SetUint64(sym.Count), total)
		high := new(big.Rat).Add(running, sym.prob)
		sym.interval = Interval{low: new(big.Rat).Set(running), high: high}
		sym.Assigned = true
		running = new(big.Rat).Set(high)
		m.unique++
	}
	return m, nil
}

// Symbol returns the statistic for byte c.
func (m *Model) Symbol(c byte) Symbol {
	return m.symbols[c]
}

// Range returns the sub-interval of byte c and whether one is assigned.
func (m *Model) Range(c byte) (Interval, bool) {
	sym := m.symbols[c]
	return sym.interval, sym.Assigned
}

// Probability returns the probability of byte c, or nil if unassigned.
func (m *Model) Probability(c byte) *big.Rat {
	return m.symbols[c].Probability()
}

// Counts returns the raw per-byte counts.
func (m *Model) Counts() [AlphabetSize]uint64 {
	var counts [AlphabetSize]uint64
	for c := range m.symbols {
		counts[c] = m.symbols[c].Count
	}
	return counts
}

// Total returns the number of counted symbols, terminators included.
func (m *Model) Total() uint64 {
	return m.total
}

// Unique returns the number of assigned symbols.
func (m *Model) Unique() int {
	return m.unique
}

// Stats computes diagnostics over the assigned symbols.
func (m *Model) Stats() Stats {
	probs := make([]float64, 0, m.unique)
	for _, sym := range m.symbols {
		if !sym.Assigned {
			continue
		}
		p, _ := sym.prob.Float64()
		probs = append(probs, p)
	}
	words := m.symbols[Terminator].Count
	return Stats{
		Symbols:        m.unique,
		Characters:     m.total - words,
		Words:          words,
		ProbabilitySum: floats.Sum(probs),
		Entropy:        stat.Entropy(probs) / math.Ln2,
	}
}
