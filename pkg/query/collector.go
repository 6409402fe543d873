package query

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Collect merges per-template id sets into one ascending slice.
//
// Without dedupe every id is kept as often as it was produced, so a word
// reached through two templates appears twice. With dedupe the sets are
// unioned and each id appears once.
func Collect(sets [][]int, dedupe bool) []int {
	if dedupe {
		return union(sets)
	}
	total := 0
	for _, s := range sets {
		total += len(s)
	}
	if total == 0 {
		return nil
	}
	out := make([]int, 0, total)
	for _, s := range sets {
		out = append(out, s...)
	}
	slices.Sort(out)
	return out
}

func union(sets [][]int) []int {
	rb := roaring.New()
	for _, s := range sets {
		for _, id := range s {
			rb.Add(uint32(id))
		}
	}
	if rb.IsEmpty() {
		return nil
	}
	out := make([]int, 0, rb.GetCardinality())
	it := rb.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}
