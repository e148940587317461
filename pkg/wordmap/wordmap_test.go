package wordmap

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fruitWords = []string{
	"apple", "banana", "orange", "pear", "grape", "strawberry",
	"blueberry", "raspberry", "there", "their", "they're", "car",
	"cat", "dog", "the", "university", "international", "word2vec",
	"utf8", "3dprinting", "user-name", "under_score", "ca", "cats",
}

// rotate pairs every word with the word k positions later.
func rotate(n, k int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = (i + k) % n
	}
	return perm
}

func TestLookup_Swap(t *testing.T) {
	m, err := Build([]string{"cat", "dog"}, []int{1, 0})
	require.NoError(t, err)

	out, err := m.Lookup("cat")
	require.NoError(t, err)
	assert.Equal(t, "dog", out)

	out, err = m.Lookup("dog")
	require.NoError(t, err)
	assert.Equal(t, "cat", out)
}

func TestLookup_Identity(t *testing.T) {
	m, err := Build([]string{"a", "b", "c"}, []int{0, 1, 2})
	require.NoError(t, err)

	for _, w := range []string{"a", "b", "c"} {
		out, err := m.Lookup(w)
		require.NoError(t, err)
		assert.Equal(t, w, out)
	}
}

func TestLookup_SingleWord(t *testing.T) {
	m, err := Build([]string{"solo"}, []int{0})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	out, err := m.Lookup("solo")
	require.NoError(t, err)
	assert.Equal(t, "solo", out)
}

func TestLookup_RoundTripEveryWord(t *testing.T) {
	for _, k := range []int{0, 1, 5, len(fruitWords) - 1} {
		t.Run(fmt.Sprintf("rotate_%d", k), func(t *testing.T) {
			perm := rotate(len(fruitWords), k)
			m, err := Build(fruitWords, perm)
			require.NoError(t, err)

			for i, w := range fruitWords {
				out, err := m.Lookup(w)
				require.NoError(t, err, w)
				assert.Equal(t, fruitWords[perm[i]], out, w)
			}
		})
	}
}

func TestLookup_Idempotent(t *testing.T) {
	m, err := Build(fruitWords, rotate(len(fruitWords), 3))
	require.NoError(t, err)

	first, err := m.Lookup("banana")
	require.NoError(t, err)
	second, err := m.Lookup("banana")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLookup_Errors(t *testing.T) {
	m, err := Build(fruitWords, rotate(len(fruitWords), 1), WithMaxWordLength(16))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown character", "zebra!", ErrUnknownCharacter},
		{"uppercase", "Apple", ErrUnknownCharacter},
		{"empty", "", ErrEmptyWord},
		{"too long", strings.Repeat("a", 17), ErrWordTooLong},
		{"known characters, not a word", "tac", ErrNotFound},
		{"prefix of a word", "ban", ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := m.Lookup(tc.input)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, out)
		})
	}

	// failures leave the map usable
	out, err := m.Lookup("apple")
	require.NoError(t, err)
	assert.Equal(t, "banana", out)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		perm  []int
		opts  []Option
		want  error
	}{
		{"empty vocabulary", nil, nil, nil, ErrEmptyAlphabet},
		{"size mismatch", []string{"a", "b"}, []int{0}, nil, ErrPermutationSizeMismatch},
		{"index out of range", []string{"a", "b"}, []int{0, 5}, nil, ErrPermutationIndex},
		{"duplicate word", []string{"a", "b", "a"}, []int{0, 1, 2}, nil, ErrDuplicateInterval},
		{"empty word", []string{"a", ""}, []int{0, 1}, nil, ErrEmptyWord},
		{"reserved byte", []string{"a", "b\x00"}, []int{0, 1}, nil, ErrUnknownCharacter},
		{"word too long", []string{"short", "muchlonger"}, []int{1, 0}, []Option{WithMaxWordLength(6)}, ErrWordTooLong},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Build(tc.words, tc.perm, tc.opts...)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, m)
		})
	}
}

func TestBuild_NonBijectivePermutation(t *testing.T) {
	words := []string{"red", "green", "blue"}
	m, err := Build(words, []int{2, 2, 0})
	require.NoError(t, err)

	for i, want := range []string{"blue", "blue", "red"} {
		out, err := m.Lookup(words[i])
		require.NoError(t, err)
		assert.Equal(t, want, out)
	}
}

func TestPosition(t *testing.T) {
	m, err := Build([]string{"cat", "dog"}, []int{1, 0})
	require.NoError(t, err)

	cat, err := m.Position("cat")
	require.NoError(t, err)
	dog, err := m.Position("dog")
	require.NoError(t, err)
	assert.NotEqual(t, cat, dog)
	assert.True(t, cat > 0 && cat < 1)
	assert.True(t, dog > 0 && dog < 1)

	// characters are known, the word is not
	_, err = m.Position("god")
	assert.NoError(t, err)

	_, err = m.Position("cow!")
	assert.ErrorIs(t, err, ErrUnknownCharacter)
}

func TestWordsAndStats(t *testing.T) {
	m, err := Build(fruitWords, rotate(len(fruitWords), 2))
	require.NoError(t, err)

	assert.Equal(t, []string{"ca", "car", "cat", "cats"}, m.Words("ca", 0))
	assert.Equal(t, []string{"the", "their"}, m.Words("the", 2))

	stats := m.Stats()
	assert.Equal(t, len(fruitWords), stats.Entries)
	assert.Equal(t, uint64(len(fruitWords)), stats.Words)
	assert.InDelta(t, 1.0, stats.ProbabilitySum, 1e-9)
}

func TestLookup_Concurrent(t *testing.T) {
	perm := rotate(len(fruitWords), 7)
	m, err := Build(fruitWords, perm)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < 50; iter++ {
				for i, w := range fruitWords {
					out, err := m.Lookup(w)
					if err != nil {
						errs <- err
						return
					}
					if out != fruitWords[perm[i]] {
						errs <- fmt.Errorf("%s -> %s, want %s", w, out, fruitWords[perm[i]])
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestPermutation(t *testing.T) {
	perm := rotate(len(fruitWords), 5)
	m, err := Build(fruitWords, perm)
	require.NoError(t, err)

	words, got := m.Permutation()
	assert.Equal(t, fruitWords, words)
	assert.Equal(t, perm, got)
}
