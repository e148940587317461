package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWithCommas(t *testing.T) {
	tests := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		65536:    "65,536",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, want := range tests {
		assert.Equal(t, want, FormatWithCommas(n))
	}
}

func TestIsValidWord(t *testing.T) {
	assert.True(t, IsValidWord("cat"))
	assert.True(t, IsValidWord("they're"))
	assert.True(t, IsValidWord("naïve"))
	assert.False(t, IsValidWord(""))
	assert.False(t, IsValidWord("two words"))
	assert.False(t, IsValidWord("tab\tbed"))
	assert.False(t, IsValidWord("nul\x00"))
	assert.False(t, IsValidWord("\xff\xfe"))
}

func TestIsNewer(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "words.txt")
	dst := filepath.Join(dir, "wordswap.bin")

	assert.False(t, IsNewer(dst, src), "missing target")

	require.NoError(t, os.WriteFile(src, []byte("cat\n"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte{0}, 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(src, old, old))
	assert.True(t, IsNewer(dst, src))
	assert.True(t, IsNewer(dst, src, filepath.Join(dir, "missing.perm")))

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(src, future, future))
	assert.False(t, IsNewer(dst, src))
}

func TestExtractHelpers(t *testing.T) {
	data := map[string]any{"n": int64(5), "b": true, "s": "words.txt", "sec": map[string]any{}}

	n, ok := ExtractInt64(data, "n")
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	b, ok := ExtractBool(data, "b")
	assert.True(t, ok)
	assert.True(t, b)

	s, ok := ExtractString(data, "s")
	assert.True(t, ok)
	assert.Equal(t, "words.txt", s)

	_, ok = ExtractString(data, "n")
	assert.False(t, ok)

	_, ok = ExtractSection(data, "sec")
	assert.True(t, ok)
	_, ok = ExtractSection(data, "s")
	assert.False(t, ok)
}
