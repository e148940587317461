// Package table holds vocabulary entries ordered by their encoded position and
// resolves a point in [0,1) back to the entry whose interval contains it.
package table

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/bastiangx/wordswap/pkg/model"
)

var (
	// ErrPermutationSizeMismatch is returned when the permutation and vocabulary lengths differ.
	ErrPermutationSizeMismatch = errors.New("permutation size mismatch")
	// ErrPermutationIndex is returned when a permutation value is outside [0, N).
	ErrPermutationIndex = errors.New("permutation index out of range")
	// ErrDuplicateInterval is returned when two entries' intervals overlap.
	ErrDuplicateInterval = errors.New("duplicate interval")
	// ErrNotFound is returned when no interval contains the searched point.
	ErrNotFound = errors.New("not found")
)

// Encoder maps a word to its interval.
type Encoder interface {
	Encode(word string) (model.Interval, error)
}

// Entry is one vocabulary word with its paired output and encoded interval.
type Entry struct {
	Word     string
	Output   string
	Index    int // position in the input vocabulary
	Interval model.Interval
}

// Table is an immutable, position-ordered sequence of entries.
type Table struct {
	entries []Entry
}

// Build encodes every word and orders the entries by position.
// The output word of words[i] is words[perm[i]].
func Build(words []string, perm []int, enc Encoder) (*Table, error) {
	if len(perm) != len(words) {
		return nil, fmt.Errorf("%d words, %d permutation values: %w", len(words), len(perm), ErrPermutationSizeMismatch)
	}

	entries := make([]Entry, len(words))
	for i, word := range words {
		target := perm[i]
		if target < 0 || target >= len(words) {
			return nil, fmt.Errorf("permutation[%d] = %d, want [0, %d): %w", i, target, len(words), ErrPermutationIndex)
		}
		iv, err := enc.Encode(word)
		if err != nil {
			return nil, fmt.Errorf("encode word %d: %w", i, err)
		}
		entries[i] = Entry{
			Word:     word,
			Output:   words[target],
			Index:    i,
			Interval: iv,
		}
	}
	return FromEntries(entries)
}

// FromEntries orders and verifies a set of already encoded entries.
// The slice is taken over by the table.
func FromEntries(entries []Entry) (*Table, error) {
	for i := range entries {
		if entries[i].Interval.IsZero() {
			return nil, fmt.Errorf("entry %q has no interval", entries[i].Word)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].Interval.Compare(entries[j].Interval); c != 0 {
			return c < 0
		}
		return entries[i].Index < entries[j].Index
	})
	t := &Table{entries: entries}
	if err := t.Verify(); err != nil {
		return nil, err
	}
	return t, nil
}

// Verify checks that neighbouring intervals do not overlap.
// Since entries are ordered by low bound, neighbour checks cover every pair.
func (t *Table) Verify() error {
	for i := 1; i < len(t.entries); i++ {
		prev, cur := t.entries[i-1], t.entries[i]
		if prev.Interval.Overlaps(cur.Interval) {
			return fmt.Errorf("%q %s and %q %s: %w",
				prev.Word, prev.Interval, cur.Word, cur.Interval, ErrDuplicateInterval)
		}
	}
	return nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// At returns the entry at sorted position i.
func (t *Table) At(i int) Entry {
	return t.entries[i]
}

// Entries returns a copy of the ordered entries.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Search returns the entry whose interval contains point.
func (t *Table) Search(point *big.Rat) (Entry, error) {
	minIndex, maxIndex := 0, len(t.entries)-1
	for minIndex <= maxIndex {
		mid := minIndex + (maxIndex-minIndex)/2
		iv := t.entries[mid].Interval
		switch {
		case point.Cmp(iv.Low()) < 0:
			maxIndex = mid - 1
		case iv.Contains(point):
			return t.entries[mid], nil
		default:
			minIndex = mid + 1
		}
	}
	return Entry{}, ErrNotFound
}
