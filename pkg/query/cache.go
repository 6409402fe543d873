package query

import (
	"math"
	"sync"

	"github.com/bastiangx/wordmatch/pkg/pattern"
	"github.com/charmbracelet/log"
)

// TemplateCache keeps the compiled templates of recently seen patterns.
// Eviction drops the least recently accessed entry.
type TemplateCache struct {
	entries     map[string][]pattern.Template
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

// NewTemplateCache returns a cache holding at most maxEntries patterns.
func NewTemplateCache(maxEntries int) *TemplateCache {
	return &TemplateCache{
		entries:    make(map[string][]pattern.Template, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns the cached templates for p. The slice is shared, do not modify it.
func (tc *TemplateCache) Get(p string) ([]pattern.Template, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	templates, ok := tc.entries[p]
	if !ok {
		tc.misses++
		return nil, false
	}
	tc.hits++
	tc.accessTime[p] = tc.nextAccessTime()
	return templates, true
}

// Put stores templates for p, evicting the oldest entry when full.
func (tc *TemplateCache) Put(p string, templates []pattern.Template) {
	if tc.maxEntries <= 0 {
		return
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if _, ok := tc.entries[p]; !ok && len(tc.entries) >= tc.maxEntries {
		tc.evictLRU()
	}
	tc.entries[p] = templates
	tc.accessTime[p] = tc.nextAccessTime()
}

// Stats reports size and hit counters.
func (tc *TemplateCache) Stats() map[string]int {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	return map[string]int{
		"entries":    len(tc.entries),
		"maxEntries": tc.maxEntries,
		"hits":       int(tc.hits),
		"misses":     int(tc.misses),
	}
}

func (tc *TemplateCache) nextAccessTime() int64 {
	tc.accessCount++
	return tc.accessCount
}

func (tc *TemplateCache) evictLRU() {
	var oldest string
	var oldestTime int64 = math.MaxInt64

	for p, t := range tc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = p
		}
	}
	if oldestTime != math.MaxInt64 {
		delete(tc.entries, oldest)
		delete(tc.accessTime, oldest)
		log.Debugf("Evicted pattern '%s' from template cache", oldest)
	}
}
