// Package dictionary holds the ordered word list that every query resolves against,
// and the loaders that fill it from text, compressed text or chunked binary files.
//
// A word's id is its position in the list. Ids are dense, start at 0 and follow
// file order; they never change once a Store is built.
package dictionary

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/bastiangx/wordmatch/internal/utils"
	"github.com/tchap/go-patricia/v2/patricia"
)

var (
	// ErrInvalidWord is returned for words that are empty or contain bytes outside 'a'..'z'.
	ErrInvalidWord = errors.New("invalid word")
	// ErrUnknownFormat is returned when a path matches no supported word list format.
	ErrUnknownFormat = errors.New("unknown word list format")
	// ErrNoChunks is returned for a directory without dict_NNNN.bin files.
	ErrNoChunks = errors.New("no chunk files found")
)

// Store is an immutable, ordered list of lowercase words.
// Safe for concurrent readers.
type Store struct {
	words     []string
	trie      *patricia.Trie
	maxLength int
}

// NewStore validates words and builds a Store over a private copy of them.
func NewStore(words []string) (*Store, error) {
	for id, w := range words {
		if ok, pos := utils.IsLowerWord(w); !ok {
			return nil, fmt.Errorf("word %d %q at offset %d: %w", id, w, pos, ErrInvalidWord)
		}
	}
	return newStore(slices.Clone(words)), nil
}

// newStore takes ownership of already validated words.
func newStore(words []string) *Store {
	s := &Store{
		words: words,
		trie:  patricia.NewTrie(),
	}
	for id, w := range words {
		if len(w) > s.maxLength {
			s.maxLength = len(w)
		}
		key := patricia.Prefix(w)
		if item := s.trie.Get(key); item != nil {
			s.trie.Set(key, append(item.([]int), id))
			continue
		}
		s.trie.Insert(key, []int{id})
	}
	return s
}

// Len returns the number of words.
func (s *Store) Len() int {
	return len(s.words)
}

// Word resolves an id back to its word.
func (s *Store) Word(id int) (string, bool) {
	if id < 0 || id >= len(s.words) {
		return "", false
	}
	return s.words[id], true
}

// Words returns a copy of the full list in id order.
func (s *Store) Words() []string {
	return slices.Clone(s.words)
}

// All iterates (id, word) pairs in id order.
func (s *Store) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for id, w := range s.words {
			if !yield(id, w) {
				return
			}
		}
	}
}

// Lookup returns the ascending ids of every occurrence of word.
// A word listed twice in the source file has two ids.
func (s *Store) Lookup(word string) []int {
	item := s.trie.Get(patricia.Prefix(word))
	if item == nil {
		return nil
	}
	return slices.Clone(item.([]int))
}

// MaxLength is the length of the longest word, 0 for an empty Store.
func (s *Store) MaxLength() int {
	return s.maxLength
}
