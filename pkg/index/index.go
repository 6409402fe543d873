// Package index implements the positional inverted index used by pattern queries.
//
// For every word length L the index keeps one flat slab of L*26 posting lists,
// addressed by position*26 + letter. A posting list holds the ids of every word
// of length L carrying that letter at that position. Lists are filled in id
// order and are therefore strictly ascending without an explicit sort.
//
// The index is built once and never mutated afterwards, so any number of
// goroutines may read it without locking.
package index

import (
	"github.com/bastiangx/wordmatch/internal/utils"
	"github.com/bastiangx/wordmatch/pkg/dictionary"
)

// Alphabet is the number of letters a posting slot can hold.
const Alphabet = 26

// lengthSlice holds every posting list for one word length.
type lengthSlice struct {
	postings [][]int // len = length*Alphabet
	ids      []int   // all words of this length, ascending
}

// Index maps (length, position, letter) to ascending word ids.
type Index struct {
	lengths   []*lengthSlice // indexed by word length, nil when no word has it
	words     int
	postings  int
	maxLength int
}

// Stats summarises index shape.
type Stats struct {
	Words     int
	Lengths   int
	Postings  int
	MaxLength int
}

// Build indexes every word of store. Runs in time linear in the total
// character count.
func Build(store *dictionary.Store) *Index {
	idx := &Index{
		lengths:   make([]*lengthSlice, store.MaxLength()+1),
		maxLength: store.MaxLength(),
	}
	for id, word := range store.All() {
		l := len(word)
		ls := idx.lengths[l]
		if ls == nil {
			ls = &lengthSlice{postings: make([][]int, l*Alphabet)}
			idx.lengths[l] = ls
		}
		ls.ids = append(ls.ids, id)
		for p := 0; p < l; p++ {
			slot := p*Alphabet + int(word[p]-'a')
			ls.postings[slot] = append(ls.postings[slot], id)
			idx.postings++
		}
		idx.words++
	}
	return idx
}

// Postings returns the posting list for (length, pos, letter).
// Out of range keys yield nil. The returned slice is shared and must not be modified.
func (idx *Index) Postings(length, pos int, letter byte) []int {
	ls := idx.slice(length)
	if ls == nil || pos < 0 || pos >= length || !utils.IsLower(letter) {
		return nil
	}
	return ls.postings[pos*Alphabet+int(letter-'a')]
}

// WordsOfLength returns the ascending ids of every word of the given length.
// The returned slice is shared and must not be modified.
func (idx *Index) WordsOfLength(length int) []int {
	ls := idx.slice(length)
	if ls == nil {
		return nil
	}
	return ls.ids
}

// MaxLength is the longest indexed word length.
func (idx *Index) MaxLength() int {
	return idx.maxLength
}

// Stats reports counts over the whole index.
func (idx *Index) Stats() Stats {
	lengths := 0
	for _, ls := range idx.lengths {
		if ls != nil {
			lengths++
		}
	}
	return Stats{
		Words:     idx.words,
		Lengths:   lengths,
		Postings:  idx.postings,
		MaxLength: idx.maxLength,
	}
}

func (idx *Index) slice(length int) *lengthSlice {
	if length < 0 || length >= len(idx.lengths) {
		return nil
	}
	return idx.lengths[length]
}
