//go:build test

package query

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bastiangx/wordmatch/pkg/dictionary"
	"github.com/stretchr/testify/require"
)

var leakPatterns = []string{
	"c*t", "ca{tn}", "***", "3", "1:4", "a2:5e",
	"{abc}{def}*", "b**k", "{ae}{io}{ou}", "12", "z1:3",
}

func leakEngine(t *testing.T) *Engine {
	t.Helper()
	r := rand.New(rand.NewSource(5))
	words := make([]string, 50000)
	for i := range words {
		b := make([]byte, 2+r.Intn(10))
		for j := range b {
			b[j] = byte('a' + r.Intn(26))
		}
		words[i] = string(b)
	}
	s, err := dictionary.NewStore(words)
	require.NoError(t, err)
	return NewEngine(s)
}

func TestMemoryLeakBasic(t *testing.T) {
	for _, iterCount := range []int{100, 500, 1000} {
		t.Run(fmt.Sprintf("iterations_%d", iterCount), func(t *testing.T) {
			runBasicMemoryTest(t, iterCount)
		})
	}
}

func TestMemoryLeakConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 400},
		{workers: 4, iterationsPerWorker: 100},
		{workers: 8, iterationsPerWorker: 50},
	}
	for _, config := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", config.workers, config.iterationsPerWorker), func(t *testing.T) {
			runConcurrentMemoryTest(t, config.workers, config.iterationsPerWorker)
		})
	}
}

func runBasicMemoryTest(t *testing.T, iterations int) {
	engine := leakEngine(t)

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	for i := 0; i < iterations; i++ {
		for _, p := range leakPatterns {
			_, err := engine.Search(p)
			require.NoError(t, err)
		}
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)

	memDelta := int64(final.Alloc) - int64(baseline.Alloc)
	goroutineDelta := runtime.NumGoroutine() - baselineGoroutines
	totalOps := iterations * len(leakPatterns)
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		iterations, totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 1000 {
		t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

func runConcurrentMemoryTest(t *testing.T, workers, iterationsPerWorker int) {
	profile, err := os.CreateTemp(t.TempDir(), "concurrent_memory_*.prof")
	require.NoError(t, err)
	defer profile.Close()

	engine := leakEngine(t)

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var wg sync.WaitGroup
	var totalOps atomic.Int64
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < iterationsPerWorker; iter++ {
				for _, p := range leakPatterns {
					if _, err := engine.Search(p); err != nil {
						t.Errorf("search %q: %v", p, err)
						return
					}
					totalOps.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)

	memDelta := int64(final.Alloc) - int64(baseline.Alloc)
	goroutineDelta := runtime.NumGoroutine() - baselineGoroutines
	memPerOp := float64(memDelta) / float64(totalOps.Load())

	t.Logf("workers=%d iter_per_worker=%d total_ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		workers, iterationsPerWorker, totalOps.Load(), memDelta, memPerOp, goroutineDelta)

	if err := pprof.WriteHeapProfile(profile); err != nil {
		t.Errorf("heap profile write failed: %v", err)
	}
	if memPerOp > 1000 {
		t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 3 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}
