// Package vocab keeps a patricia trie over the vocabulary for exact membership
// and prefix listing.
package vocab

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Index maps each vocabulary word to its position in the vocabulary.
// It is built once and only read afterwards.
type Index struct {
	trie  *patricia.Trie
	count int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{trie: patricia.NewTrie()}
}

// Insert adds word at position pos. It returns the position already stored
// and false when the word is present.
func (ix *Index) Insert(word string, pos int) (int, bool) {
	if ix.trie.Insert(patricia.Prefix(word), pos) {
		ix.count++
		return pos, true
	}
	existing, _ := ix.Position(word)
	return existing, false
}

// Position returns the vocabulary position of word.
func (ix *Index) Position(word string) (int, bool) {
	item := ix.trie.Get(patricia.Prefix(word))
	if item == nil {
		return 0, false
	}
	switch v := item.(type) {
	case int:
		return v, true
	default:
		log.Errorf("Unknown item type: %T for word %s", item, word)
		return 0, false
	}
}

// Has reports whether word is in the vocabulary.
func (ix *Index) Has(word string) bool {
	return ix.trie.Match(patricia.Prefix(word))
}

// Len returns the number of distinct words.
func (ix *Index) Len() int {
	return ix.count
}

// Prefix returns up to limit vocabulary words starting with prefix, in
// lexical byte order. A limit <= 0 returns every match.
func (ix *Index) Prefix(prefix string, limit int) []string {
	var words []string
	collect := func(p patricia.Prefix, item patricia.Item) error {
		words = append(words, string(p))
		return nil
	}
	var err error
	if prefix == "" {
		err = ix.trie.Visit(collect)
	} else {
		err = ix.trie.VisitSubtree(patricia.Prefix(prefix), collect)
	}
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}
	// trie children are not kept in byte order
	sort.Strings(words)
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}
