/*
Package wordmap pairs every word of a fixed vocabulary with an output word and
resolves lookups through arithmetic-coding positions.

Build trains a frequency model over the vocabulary, encodes every word to an
interval of [0,1) and orders the entries by position:

	m, err := wordmap.Build([]string{"cat", "dog"}, []int{1, 0})
	out, err := m.Lookup("cat") // "dog"

Lookup re-encodes the input, takes the midpoint of its interval and binary
searches the ordered entries for the interval containing it. A Map is
immutable; lookups are safe for concurrent use. To change the vocabulary,
build a new Map.

Maps can be written with WriteTo and read back with Load without rerunning the
build.
*/
package wordmap

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/bastiangx/wordswap/pkg/model"
	"github.com/bastiangx/wordswap/pkg/table"
	"github.com/bastiangx/wordswap/pkg/vocab"
	"github.com/charmbracelet/log"
)

// Errors returned by Build, Lookup and Load.
var (
	ErrEmptyAlphabet           = model.ErrEmptyAlphabet
	ErrEmptyWord               = model.ErrEmptyWord
	ErrUnknownCharacter        = model.ErrUnknownCharacter
	ErrPermutationSizeMismatch = table.ErrPermutationSizeMismatch
	ErrPermutationIndex        = table.ErrPermutationIndex
	ErrDuplicateInterval       = table.ErrDuplicateInterval
	ErrNotFound                = table.ErrNotFound

	// ErrWordTooLong is returned for words above the configured maximum length.
	ErrWordTooLong = errors.New("word too long")
	// ErrCorruptSnapshot is returned when a snapshot does not describe a valid map.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// Config holds build and lookup options.
type Config struct {
	MaxWordLength int // 0 = unlimited
}

// Option is a functional option for Build and Load.
type Option func(*Config)

// WithMaxWordLength rejects vocabulary words and queries longer than n bytes.
func WithMaxWordLength(n int) Option {
	return func(c *Config) {
		if n < 0 {
			n = 0
		}
		c.MaxWordLength = n
	}
}

// Map is a built, immutable word-to-word mapping.
type Map struct {
	config Config
	model  *model.Model
	table  *table.Table
	index  *vocab.Index
}

// Stats describes a built map.
type Stats struct {
	Entries int
	model.Stats
}

// Build trains the model, encodes the vocabulary and orders the table.
// words[i] is paired with words[perm[i]].
func Build(words []string, perm []int, opts ...Option) (*Map, error) {
	cfg := newConfig(opts)

	if len(perm) != len(words) {
		return nil, fmt.Errorf("%d words, %d permutation values: %w", len(words), len(perm), ErrPermutationSizeMismatch)
	}

	index := vocab.NewIndex()
	for i, w := range words {
		if w == "" {
			return nil, fmt.Errorf("word %d: %w", i, ErrEmptyWord)
		}
		if err := cfg.checkLength(w); err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
		if first, ok := index.Insert(w, i); !ok {
			return nil, fmt.Errorf("duplicate word %q at %d and %d: %w", w, first, i, ErrDuplicateInterval)
		}
	}

	m, err := model.Build(words)
	if err != nil {
		return nil, err
	}
	t, err := table.Build(words, perm, m)
	if err != nil {
		return nil, err
	}

	log.Debugf("Built word map: %d words, %d symbols", t.Len(), m.Unique())
	return &Map{config: cfg, model: m, table: t, index: index}, nil
}

func newConfig(opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c Config) checkLength(word string) error {
	if c.MaxWordLength > 0 && len(word) > c.MaxWordLength {
		return fmt.Errorf("%d bytes, max %d: %w", len(word), c.MaxWordLength, ErrWordTooLong)
	}
	return nil
}

// Lookup returns the output word paired with word.
func (m *Map) Lookup(word string) (string, error) {
	point, err := m.point(word)
	if err != nil {
		return "", err
	}
	e, err := m.table.Search(point)
	if err != nil {
		return "", fmt.Errorf("%q: %w", word, err)
	}
	return e.Output, nil
}

// Position returns the representative point of word as a float64.
// The word does not have to be in the vocabulary, only its characters.
func (m *Map) Position(word string) (float64, error) {
	point, err := m.point(word)
	if err != nil {
		return 0, err
	}
	f, _ := point.Float64()
	return f, nil
}

func (m *Map) point(word string) (*big.Rat, error) {
	if err := m.config.checkLength(word); err != nil {
		return nil, err
	}
	iv, err := m.model.Encode(word)
	if err != nil {
		return nil, err
	}
	return iv.Midpoint(), nil
}

// Len returns the number of vocabulary words.
func (m *Map) Len() int {
	return m.table.Len()
}

// Words lists up to limit vocabulary words starting with prefix.
func (m *Map) Words(prefix string, limit int) []string {
	return m.index.Prefix(prefix, limit)
}

// Stats returns model and table statistics.
func (m *Map) Stats() Stats {
	return Stats{Entries: m.table.Len(), Stats: m.model.Stats()}
}

// Permutation reconstructs the pairing: words[i] maps to words[perm[i]] in
// vocabulary order.
func (m *Map) Permutation() (words []string, perm []int) {
	entries := m.table.Entries()
	words = make([]string, len(entries))
	perm = make([]int, len(entries))
	for _, e := range entries {
		words[e.Index] = e.Word
		out, _ := m.index.Position(e.Output)
		perm[e.Index] = out
	}
	return words, perm
}
