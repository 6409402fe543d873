// Package query runs patterns against an indexed word list: compile, evaluate
// each template, collect the ids.
package query

import (
	"time"

	"github.com/bastiangx/wordmatch/pkg/dictionary"
	"github.com/bastiangx/wordmatch/pkg/index"
	"github.com/bastiangx/wordmatch/pkg/pattern"
	"github.com/charmbracelet/log"
)

// DefaultCacheSize is the number of compiled patterns an Engine remembers.
const DefaultCacheSize = 256

// Searcher is what front ends (CLI, IPC server) need from an engine.
type Searcher interface {
	// Search compiles and evaluates a pattern.
	Search(p string) (*Result, error)

	// Words resolves at most limit ids of r to words, 0 means all.
	Words(r *Result, limit int) []string

	// Stats describes the loaded index.
	Stats() index.Stats
}

// Result is the outcome of one Search.
type Result struct {
	Pattern   string
	IDs       []int // ascending, duplicates kept unless the engine dedupes
	Templates int
	Elapsed   time.Duration
}

// Count is the number of ids in the result.
func (r *Result) Count() int {
	return len(r.IDs)
}

// Engine bundles a store, its index and the query options.
// Safe for concurrent use once built.
type Engine struct {
	store       *dictionary.Store
	index       *index.Index
	exec        *Executor
	dedupe      bool
	compileOpts []pattern.Option
	cacheSize   int
	cache       *TemplateCache
	metrics     *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithDedupe makes Search return every matching id once.
func WithDedupe(dedupe bool) Option {
	return func(e *Engine) {
		e.dedupe = dedupe
	}
}

// WithMaxTemplates caps the templates one pattern may compile to.
func WithMaxTemplates(n int) Option {
	return func(e *Engine) {
		e.compileOpts = append(e.compileOpts, pattern.WithMaxTemplates(n))
	}
}

// WithMaxPatternLength caps the raw pattern length.
func WithMaxPatternLength(n int) Option {
	return func(e *Engine) {
		e.compileOpts = append(e.compileOpts, pattern.WithMaxPatternLength(n))
	}
}

// WithCacheSize sets how many compiled patterns are kept, 0 disables the cache.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// WithMetrics records every query into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine indexes store and returns an engine over it.
func NewEngine(store *dictionary.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	start := time.Now()
	e.index = index.Build(store)
	e.exec = NewExecutor(store, e.index)
	if e.cacheSize > 0 {
		e.cache = NewTemplateCache(e.cacheSize)
	}
	e.metrics.setIndexed(store.Len())

	st := e.index.Stats()
	log.Debugf("Indexed %d words over %d lengths (%d postings) in %v",
		st.Words, st.Lengths, st.Postings, time.Since(start))
	return e
}

// Search compiles p and returns the ids of every word any template matches.
// A pattern that denotes no template yields an empty result, not an error.
func (e *Engine) Search(p string) (*Result, error) {
	start := time.Now()

	templates, err := e.compile(p)
	if err != nil {
		e.metrics.observeError()
		return nil, err
	}

	sets := make([][]int, 0, len(templates))
	for _, t := range templates {
		if ids := e.exec.Evaluate(t); len(ids) > 0 {
			sets = append(sets, ids)
		}
	}

	r := &Result{
		Pattern:   p,
		IDs:       Collect(sets, e.dedupe),
		Templates: len(templates),
		Elapsed:   time.Since(start),
	}
	e.metrics.observe(r.Templates, r.Count(), r.Elapsed)
	log.Debugf("Pattern '%s': %d templates, %d matches in %v", p, r.Templates, r.Count(), r.Elapsed)
	return r, nil
}

func (e *Engine) compile(p string) ([]pattern.Template, error) {
	if e.cache != nil {
		if templates, ok := e.cache.Get(p); ok {
			return templates, nil
		}
	}
	templates, err := pattern.Compile(p, e.compileOpts...)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Put(p, templates)
	}
	return templates, nil
}

// Words resolves ids of r in order. limit <= 0 resolves all of them.
func (e *Engine) Words(r *Result, limit int) []string {
	if r == nil {
		return nil
	}
	ids := r.IDs
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	words := make([]string, 0, len(ids))
	for _, id := range ids {
		if w, ok := e.store.Word(id); ok {
			words = append(words, w)
		}
	}
	return words
}

// Stats describes the index.
func (e *Engine) Stats() index.Stats {
	return e.index.Stats()
}

// CacheStats reports the template cache counters, nil when caching is off.
func (e *Engine) CacheStats() map[string]int {
	if e.cache == nil {
		return nil
	}
	return e.cache.Stats()
}

// Store returns the word list the engine searches.
func (e *Engine) Store() *dictionary.Store {
	return e.store
}

var _ Searcher = (*Engine)(nil)
