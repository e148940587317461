package dictionary

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordswap/pkg/wordmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWords(t *testing.T) {
	input := "cat\r\ndog\n\n  bird  \r\n\ncow"
	words, err := ReadWords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "bird", "cow"}, words)
}

func TestReadWords_Invalid(t *testing.T) {
	tests := map[string]string{
		"control character": "cat\ndo\x07g\n",
		"nul byte":          "cat\nd\x00og\n",
		"inner space":       "cat\nhot dog\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadWords(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrInvalidWord)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestReadPermutation(t *testing.T) {
	perm, err := ReadPermutation(strings.NewReader("2 0\n1\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, perm)

	_, err = ReadPermutation(strings.NewReader("1 two 3"))
	assert.Error(t, err)
}

func TestPermutationFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shuffle.perm")
	perm := []int{3, 0, 2, 1}
	require.NoError(t, SavePermutation(path, perm))

	loaded, err := LoadPermutation(path)
	require.NoError(t, err)
	assert.Equal(t, perm, loaded)

	var buf bytes.Buffer
	require.NoError(t, WritePermutation(&buf, perm))
	assert.Equal(t, "3\n0\n2\n1\n", buf.String())
}

func TestShuffle(t *testing.T) {
	for _, n := range []int{2, 3, 10, 500} {
		perm := Shuffle(n, 42)
		report, err := CheckPermutation(perm, n)
		require.NoError(t, err)
		assert.True(t, report.Bijective, "n=%d", n)
		assert.Zero(t, report.Fixed, "n=%d", n)
	}

	assert.Equal(t, Shuffle(100, 7), Shuffle(100, 7))
	assert.NotEqual(t, Shuffle(100, 7), Shuffle(100, 8))
	assert.Equal(t, []int{0}, Shuffle(1, 1))
	assert.Empty(t, Shuffle(0, 1))
}

func TestCheckPermutation(t *testing.T) {
	report, err := CheckPermutation([]int{1, 0, 2}, 3)
	require.NoError(t, err)
	assert.Equal(t, PermutationReport{Size: 3, Fixed: 1, Bijective: true}, report)

	report, err = CheckPermutation([]int{2, 2, 0}, 3)
	require.NoError(t, err)
	assert.False(t, report.Bijective)
	assert.Equal(t, 1, report.Repeated)
	assert.Equal(t, 1, report.Unused)
	assert.Contains(t, report.String(), "1 unused")

	_, err = CheckPermutation([]int{0, 1}, 3)
	assert.ErrorIs(t, err, wordmap.ErrPermutationSizeMismatch)

	_, err = CheckPermutation([]int{0, 3, 1}, 3)
	assert.ErrorIs(t, err, wordmap.ErrPermutationIndex)

	_, err = CheckPermutation([]int{0, -1, 1}, 3)
	assert.ErrorIs(t, err, wordmap.ErrPermutationIndex)
}
