package parallel

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// Creation and configuration
// =============================================================================

func TestEngine_New(t *testing.T) {
	eng := New(4)
	defer eng.Close()

	if eng.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", eng.Workers())
	}
	if eng.WorkersStarted() != 0 {
		t.Errorf("WorkersStarted() = %d before first For, want 0", eng.WorkersStarted())
	}
}

func TestEngine_NewDefaultCount(t *testing.T) {
	tests := []struct {
		name    string
		workers int
	}{
		{"zero", 0},
		{"negative", -5},
	}

	expected := runtime.GOMAXPROCS(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := New(tt.workers)
			defer eng.Close()

			if eng.Workers() != expected {
				t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", eng.Workers(), expected)
			}
		})
	}
}

func TestEngine_LazySpawn(t *testing.T) {
	eng := New(3)
	defer eng.Close()

	eng.For(0, 10, func(int) {})

	if got := eng.WorkersStarted(); got != 3 {
		t.Errorf("WorkersStarted() = %d after first For, want 3", got)
	}

	// A second wave reuses the pool.
	eng.For(0, 10, func(int) {})
	if got := eng.WorkersStarted(); got != 3 {
		t.Errorf("WorkersStarted() = %d after second For, want 3 (pool reused)", got)
	}
}

// =============================================================================
// For correctness
// =============================================================================

func TestEngine_For_AllIndicesOnce(t *testing.T) {
	// Every index in [0, M) must be executed exactly once regardless of the
	// worker count.
	const m = 1000

	for _, workers := range []int{1, 2, 4, 8} {
		t.Run(fmt.Sprintf("%d_workers", workers), func(t *testing.T) {
			eng := New(workers)
			defer eng.Close()

			var invocations atomic.Int64
			slots := make([]int, m)
			eng.For(0, m, func(i int) {
				invocations.Add(1)
				slots[i] = i // slot i is written only by index i
			})

			if invocations.Load() != m {
				t.Fatalf("body invoked %d times, want %d", invocations.Load(), m)
			}
			for i, v := range slots {
				if v != i {
					t.Fatalf("slots[%d] = %d, want %d", i, v, i)
				}
			}
		})
	}
}

func TestEngine_For_NonZeroStart(t *testing.T) {
	eng := New(4)
	defer eng.Close()

	var count atomic.Int64
	var sum atomic.Int64
	eng.For(100, 200, func(i int) {
		count.Add(1)
		sum.Add(int64(i))
	})

	if count.Load() != 100 {
		t.Errorf("body invoked %d times, want 100", count.Load())
	}
	// Sum of 100..199.
	if want := int64((100 + 199) * 100 / 2); sum.Load() != want {
		t.Errorf("sum of indices = %d, want %d", sum.Load(), want)
	}
}

func TestEngine_For_EmptyRange(t *testing.T) {
	eng := New(2)
	defer eng.Close()

	tests := []struct {
		name        string
		start, stop int
	}{
		{"equal", 5, 5},
		{"inverted", 10, 3},
		{"negative empty", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var count atomic.Int64
			eng.For(tt.start, tt.stop, func(int) {
				count.Add(1)
			})
			if count.Load() != 0 {
				t.Errorf("body invoked %d times, want 0", count.Load())
			}
		})
	}
}

func TestEngine_For_NilBody(t *testing.T) {
	eng := New(2)
	defer eng.Close()

	eng.For(0, 10, nil) // must not panic or spawn
	if eng.WorkersStarted() != 0 {
		t.Errorf("WorkersStarted() = %d after nil-body For, want 0", eng.WorkersStarted())
	}
}

func TestEngine_For_UnevenWork(t *testing.T) {
	// Dynamic metering: one slow iteration must not prevent other workers
	// from finishing the rest of the range.
	eng := New(4)
	defer eng.Close()

	var done atomic.Int64
	block := make(chan struct{})
	go func() {
		eng.For(0, 100, func(i int) {
			if i == 0 {
				<-block
			}
			done.Add(1)
		})
	}()

	// All indices except the blocked one complete without index 0.
	waitFor(t, func() bool { return done.Load() == 99 })
	close(block)
	waitFor(t, func() bool { return done.Load() == 100 })
}

// =============================================================================
// Reconfiguration and teardown
// =============================================================================

func TestEngine_Configure_TeardownComplete(t *testing.T) {
	eng := New(4)
	defer eng.Close()

	eng.For(0, 100, func(int) {})
	if eng.WorkersStarted() != 4 {
		t.Fatalf("WorkersStarted() = %d, want 4", eng.WorkersStarted())
	}

	// Changing the count must join every worker of the old pool before
	// Configure returns.
	eng.Configure(2)
	if got := eng.WorkersStopped(); got != 4 {
		t.Errorf("WorkersStopped() = %d after Configure, want 4", got)
	}

	eng.For(0, 100, func(int) {})
	if got := eng.WorkersStarted(); got != 6 {
		t.Errorf("WorkersStarted() = %d, want 6 (4 old + 2 new)", got)
	}
	if eng.Workers() != 2 {
		t.Errorf("Workers() = %d, want 2", eng.Workers())
	}
}

func TestEngine_Configure_SameCountKeepsPool(t *testing.T) {
	eng := New(3)
	defer eng.Close()

	eng.For(0, 10, func(int) {})
	eng.Configure(3)

	if got := eng.WorkersStopped(); got != 0 {
		t.Errorf("WorkersStopped() = %d after same-count Configure, want 0", got)
	}
}

func TestEngine_Close(t *testing.T) {
	eng := New(2)
	eng.For(0, 10, func(int) {})

	eng.Close()
	if got := eng.WorkersStopped(); got != 2 {
		t.Errorf("WorkersStopped() = %d after Close, want 2", got)
	}

	// The engine stays usable: the next For respawns the pool.
	var count atomic.Int64
	eng.For(0, 10, func(int) { count.Add(1) })
	if count.Load() != 10 {
		t.Errorf("body invoked %d times after Close+For, want 10", count.Load())
	}
	eng.Close()
}

func TestEngine_Close_Idempotent(t *testing.T) {
	eng := New(2)
	eng.For(0, 1, func(int) {})
	eng.Close()
	eng.Close()
	eng.Close()

	if got := eng.WorkersStopped(); got != 2 {
		t.Errorf("WorkersStopped() = %d, want 2", got)
	}
}

// =============================================================================
// Concurrency
// =============================================================================

func TestEngine_ConcurrentFor_Serializes(t *testing.T) {
	// Two goroutines racing to call For must serialize: at no point may
	// bodies from two waves run interleaved.
	eng := New(4)
	defer eng.Close()

	var active atomic.Int64
	var maxWaves atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng.For(0, 50, func(int) {
				n := active.Add(1)
				if n > maxWaves.Load() {
					maxWaves.Store(n)
				}
				active.Add(-1)
			})
		}()
	}
	wg.Wait()

	// Within one wave up to 4 bodies run at once; two interleaved waves
	// would allow more than the worker count.
	if maxWaves.Load() > 4 {
		t.Errorf("observed %d concurrent bodies, want <= 4 (waves interleaved)", maxWaves.Load())
	}
}

// =============================================================================
// Panic policy
// =============================================================================

func TestEngine_For_BodyPanicRethrown(t *testing.T) {
	eng := New(4)
	defer eng.Close()

	defer func() {
		r := recover()
		if r != "boom" {
			t.Errorf("recovered %v, want \"boom\"", r)
		}

		// The pool must survive a panicking wave.
		var count atomic.Int64
		eng.For(0, 10, func(int) { count.Add(1) })
		if count.Load() != 10 {
			t.Errorf("body invoked %d times after panic wave, want 10", count.Load())
		}
	}()

	eng.For(0, 100, func(i int) {
		if i == 10 {
			panic("boom")
		}
	})
	t.Error("For returned normally, want panic")
}

// =============================================================================
// Package-level default engine
// =============================================================================

func TestDefaultEngine(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() = nil")
	}

	var count atomic.Int64
	For(0, 25, func(int) { count.Add(1) })
	if count.Load() != 25 {
		t.Errorf("body invoked %d times, want 25", count.Load())
	}

	if Workers() != Default().Workers() {
		t.Errorf("Workers() = %d, want %d", Workers(), Default().Workers())
	}
}

func BenchmarkFor(b *testing.B) {
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("%d_workers", workers), func(b *testing.B) {
			eng := New(workers)
			defer eng.Close()

			var sink atomic.Int64
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				eng.For(0, 256, func(i int) {
					sink.Add(int64(i))
				})
			}
		})
	}
}

// waitFor polls cond until it holds, failing the test after ~5s.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 5000; i++ {
		if cond() {
			return
		}
		runtime.Gosched()
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
