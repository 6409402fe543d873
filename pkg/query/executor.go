package query

import (
	"slices"

	"github.com/bastiangx/wordmatch/pkg/dictionary"
	"github.com/bastiangx/wordmatch/pkg/index"
	"github.com/bastiangx/wordmatch/pkg/pattern"
)

// Executor evaluates single templates against an index.
// It never modifies the index and may be shared between goroutines.
type Executor struct {
	store *dictionary.Store
	index *index.Index
}

// NewExecutor binds an executor to a store and the index built from it.
func NewExecutor(store *dictionary.Store, idx *index.Index) *Executor {
	return &Executor{store: store, index: idx}
}

// Evaluate returns the ascending ids of every word matching t.
// The result is owned by the caller.
func (e *Executor) Evaluate(t pattern.Template) []int {
	l := t.Len()
	if l == 0 || l > e.index.MaxLength() {
		return nil
	}
	if !t.HasLiteral() {
		return slices.Clone(e.index.WordsOfLength(l))
	}
	if t.IsExact() {
		return e.store.Lookup(string(t))
	}
	return e.intersect(t)
}

func (e *Executor) intersect(t pattern.Template) []int {
	l := t.Len()
	var result []int
	seeded := false
	for pos := 0; pos < l; pos++ {
		ch := t[pos]
		if ch == pattern.Wildcard {
			continue
		}
		list := e.index.Postings(l, pos, ch)
		if !seeded {
			if len(list) == 0 {
				return nil
			}
			// postings are shared, intersect into a private copy
			result = slices.Clone(list)
			seeded = true
			continue
		}
		result = intersectInPlace(result, list)
		if len(result) == 0 {
			return nil
		}
	}
	return result
}

// intersectInPlace keeps the elements of dst also present in src.
// Both inputs must be strictly ascending; dst is overwritten and truncated.
func intersectInPlace(dst, src []int) []int {
	n, i, j := 0, 0, 0
	for i < len(dst) && j < len(src) {
		switch {
		case dst[i] < src[j]:
			i++
		case dst[i] > src[j]:
			j++
		default:
			dst[n] = dst[i]
			n++
			i++
			j++
		}
	}
	return dst[:n]
}
