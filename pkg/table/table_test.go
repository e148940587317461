package table

import (
	"errors"
	"math/big"
	"testing"

	"github.com/bastiangx/wordswap/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedEncoder returns hand-picked intervals so gaps and overlaps can be tested.
type fixedEncoder map[string][2]*big.Rat

func (f fixedEncoder) Encode(word string) (model.Interval, error) {
	b, ok := f[word]
	if !ok {
		return model.Interval{}, model.ErrUnknownCharacter
	}
	return model.NewInterval(b[0], b[1])
}

func r(a, b int64) *big.Rat { return big.NewRat(a, b) }

func buildModelTable(t *testing.T, words []string, perm []int) *Table {
	t.Helper()
	m, err := model.Build(words)
	require.NoError(t, err)
	tbl, err := Build(words, perm, m)
	require.NoError(t, err)
	return tbl
}

func TestBuild_OrderedByPosition(t *testing.T) {
	words := []string{"pear", "apple", "zebra", "mango", "kiwi", "fig"}
	tbl := buildModelTable(t, words, []int{5, 4, 3, 2, 1, 0})

	require.Equal(t, len(words), tbl.Len())
	for i := 1; i < tbl.Len(); i++ {
		assert.Equal(t, -1, tbl.At(i-1).Interval.Compare(tbl.At(i).Interval))
	}
	for _, e := range tbl.Entries() {
		assert.Equal(t, words[len(words)-1-e.Index], e.Output)
		assert.Equal(t, words[e.Index], e.Word)
	}
}

func TestBuild_PermutationErrors(t *testing.T) {
	m, err := model.Build([]string{"a", "b"})
	require.NoError(t, err)

	_, err = Build([]string{"a", "b"}, []int{0}, m)
	assert.ErrorIs(t, err, ErrPermutationSizeMismatch)

	_, err = Build([]string{"a", "b"}, []int{0, 2}, m)
	assert.ErrorIs(t, err, ErrPermutationIndex)

	_, err = Build([]string{"a", "b"}, []int{-1, 0}, m)
	assert.ErrorIs(t, err, ErrPermutationIndex)
}

func TestBuild_PropagatesEncodeError(t *testing.T) {
	enc := fixedEncoder{"a": {r(0, 1), r(1, 2)}}
	_, err := Build([]string{"a", "b"}, []int{0, 1}, enc)
	assert.ErrorIs(t, err, model.ErrUnknownCharacter)
}

func TestBuild_DuplicateInterval(t *testing.T) {
	enc := fixedEncoder{
		"a": {r(0, 1), r(1, 2)},
		"b": {r(1, 4), r(3, 4)},
	}
	_, err := Build([]string{"a", "b"}, []int{1, 0}, enc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateInterval))
	assert.Contains(t, err.Error(), `"a"`)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestBuild_DuplicateWordsOverlap(t *testing.T) {
	m, err := model.Build([]string{"same", "same"})
	require.NoError(t, err)
	_, err = Build([]string{"same", "same"}, []int{0, 1}, m)
	assert.ErrorIs(t, err, ErrDuplicateInterval)
}

func TestSearch(t *testing.T) {
	enc := fixedEncoder{
		"a": {r(0, 1), r(1, 4)},
		"b": {r(1, 4), r(1, 2)},
		"c": {r(5, 8), r(3, 4)}, // gap [1/2, 5/8)
		"d": {r(3, 4), r(1, 1)},
	}
	tbl, err := Build([]string{"c", "a", "d", "b"}, []int{0, 1, 2, 3}, enc)
	require.NoError(t, err)

	tests := []struct {
		point *big.Rat
		want  string
	}{
		{r(0, 1), "a"},
		{r(1, 8), "a"},
		{r(1, 4), "b"},
		{r(3, 8), "b"},
		{r(5, 8), "c"},
		{r(7, 10), "c"},
		{r(3, 4), "d"},
		{r(99, 100), "d"},
	}
	for _, tc := range tests {
		e, err := tbl.Search(tc.point)
		require.NoError(t, err, tc.point.RatString())
		assert.Equal(t, tc.want, e.Word, tc.point.RatString())
	}

	_, err = tbl.Search(r(9, 16))
	assert.ErrorIs(t, err, ErrNotFound, "point in gap")

	_, err = tbl.Search(r(1, 1))
	assert.ErrorIs(t, err, ErrNotFound, "point past the last interval")
}

func TestSearch_Empty(t *testing.T) {
	tbl, err := FromEntries(nil)
	require.NoError(t, err)
	_, err = tbl.Search(r(1, 2))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_EveryMidpoint(t *testing.T) {
	words := []string{"the", "their", "there", "then", "they", "them", "theme", "thematic", "a", "an", "and"}
	perm := make([]int, len(words))
	for i := range perm {
		perm[i] = (i + 3) % len(words)
	}
	tbl := buildModelTable(t, words, perm)

	for i := 0; i < tbl.Len(); i++ {
		e := tbl.At(i)
		found, err := tbl.Search(e.Interval.Midpoint())
		require.NoError(t, err)
		assert.Equal(t, e.Word, found.Word)
		assert.Equal(t, words[perm[e.Index]], found.Output)
	}
}

func TestFromEntries_RejectsUnassigned(t *testing.T) {
	_, err := FromEntries([]Entry{{Word: "x"}})
	assert.Error(t, err)
}
