package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_InsertAndPosition(t *testing.T) {
	ix := NewIndex()
	words := []string{"there", "the", "their", "cat", "car"}
	for i, w := range words {
		pos, ok := ix.Insert(w, i)
		require.True(t, ok, w)
		assert.Equal(t, i, pos)
	}
	assert.Equal(t, len(words), ix.Len())

	for i, w := range words {
		pos, ok := ix.Position(w)
		require.True(t, ok, w)
		assert.Equal(t, i, pos, w)
		assert.True(t, ix.Has(w))
	}

	assert.False(t, ix.Has("th"))
	_, ok := ix.Position("dog")
	assert.False(t, ok)
}

func TestIndex_DuplicateInsert(t *testing.T) {
	ix := NewIndex()
	_, ok := ix.Insert("word", 0)
	require.True(t, ok)

	pos, ok := ix.Insert("word", 7)
	assert.False(t, ok)
	assert.Equal(t, 0, pos, "first position is kept")
	assert.Equal(t, 1, ix.Len())
}

func TestIndex_Prefix(t *testing.T) {
	ix := NewIndex()
	for i, w := range []string{"there", "the", "their", "cat", "theme", "car"} {
		ix.Insert(w, i)
	}

	assert.Equal(t, []string{"the", "their", "theme", "there"}, ix.Prefix("the", 0))
	assert.Equal(t, []string{"the", "their"}, ix.Prefix("the", 2))
	assert.Equal(t, []string{"car", "cat"}, ix.Prefix("ca", 10))
	assert.Empty(t, ix.Prefix("zz", 10))
	assert.Len(t, ix.Prefix("", 0), 6)
	assert.Equal(t, []string{"car"}, ix.Prefix("", 1))
}

func TestIndex_Empty(t *testing.T) {
	ix := NewIndex()
	assert.Empty(t, ix.Prefix("", 0))
	assert.False(t, ix.Has("a"))
	assert.Equal(t, 0, ix.Len())
}
