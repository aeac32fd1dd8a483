package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// wave describes one For call being distributed across the pool.
//
// The cursor starts at the first index of the range; every worker claims the
// next index by atomic post-increment and executes the body on it until it
// observes an index at or past stop.
type wave struct {
	cursor atomic.Int64
	stop   int64
	body   func(int)

	// done counts one per participating worker; the dispatcher waits on it
	// to detect wave completion.
	done sync.WaitGroup

	// failed records the first body panic of the wave; panicVal is written
	// exactly once, guarded by the CompareAndSwap on failed, and read by the
	// dispatcher only after done.Wait().
	failed   atomic.Bool
	panicVal any
}

// abort records a body panic and drives the cursor past stop so the other
// workers stop claiming indices.
func (w *wave) abort(r any) {
	if w.failed.CompareAndSwap(false, true) {
		w.panicVal = r
	}
	w.cursor.Store(w.stop)
}

// Engine is a pool of long-lived worker goroutines that cooperatively execute
// one index range at a time.
//
// Workers are spawned lazily on the first For call and reused across calls.
// Exactly one wave is active at a time: a mutex held across configuration,
// teardown and dispatch serializes concurrent For callers rather than
// interleaving their waves. For must not be called from inside a body passed
// to For on the same Engine; doing so deadlocks.
//
// Thread safety: Engine is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	size    int // desired worker count for the next pool
	running int // workers currently alive, 0 when no pool exists
	jobs    chan *wave
	joined  sync.WaitGroup

	// Monotonic lifecycle counters, observable for teardown verification.
	started atomic.Int64
	stopped atomic.Int64
}

// New creates an Engine with the given worker count.
// If workers is 0 or negative, GOMAXPROCS is used.
// No goroutines are spawned until the first For call.
func New(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{size: workers}
}

// Configure sets the worker count for subsequent For calls.
// If workers is 0 or negative, GOMAXPROCS is used.
//
// If a pool of a different size is already running it is torn down
// completely: every worker is signaled to exit and joined before Configure
// returns. The new pool is created lazily by the next For call. Configuring
// the current size is a no-op and keeps the running pool.
func (e *Engine) Configure(workers int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if workers == e.size {
		return
	}
	e.size = workers
	if e.running > 0 {
		e.teardownLocked()
	}
}

// For executes body(i) once for every i in [start, stop) using up to
// Workers() goroutines, and returns only after every index has been
// processed. If stop <= start or body is nil, For is a no-op.
//
// Indices are claimed dynamically, one at a time, from a shared cursor: a
// slow iteration never stalls the rest of the range. There is no guaranteed
// call ordering across indices, and body runs concurrently with itself;
// bodies must write only state that is disjoint per index.
//
// If a body panics, the wave stops handing out new indices, every worker is
// allowed to finish its current iteration, and the first panic value is
// rethrown on the calling goroutine. Remaining indices may be skipped. The
// pool itself stays valid.
//
// There is no cancellation primitive: a caller needing early exit must make
// body check an external flag and return immediately, which simply completes
// the remaining claims faster.
func (e *Engine) For(start, stop int, body func(i int)) {
	if body == nil || stop <= start {
		return
	}

	w := e.dispatch(start, stop, body)
	if w.failed.Load() {
		panic(w.panicVal)
	}
}

// dispatch runs one wave under the engine lock and returns it.
func (e *Engine) dispatch(start, stop int, body func(i int)) *wave {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running == 0 {
		e.spawnLocked()
	}

	w := &wave{stop: int64(stop), body: body}
	w.cursor.Store(int64(start))
	w.done.Add(e.running)

	// The jobs channel is buffered to the pool size, so handing the wave to
	// every worker never blocks the dispatcher.
	for i := 0; i < e.running; i++ {
		e.jobs <- w
	}
	w.done.Wait()
	return w
}

// spawnLocked creates the worker pool. Caller must hold e.mu.
func (e *Engine) spawnLocked() {
	e.jobs = make(chan *wave, e.size)
	e.joined.Add(e.size)
	for i := 0; i < e.size; i++ {
		e.started.Add(1)
		go e.worker()
	}
	e.running = e.size

	slogger().Debug("parallel: workers started", "count", e.size)
}

// teardownLocked signals every worker to exit and joins them all.
// Caller must hold e.mu.
func (e *Engine) teardownLocked() {
	close(e.jobs)
	e.joined.Wait()
	e.jobs = nil
	count := e.running
	e.running = 0

	slogger().Debug("parallel: workers stopped", "count", count)
}

// worker is the main loop of one pool goroutine. It blocks on the jobs
// channel between waves and exits when the channel is closed.
func (e *Engine) worker() {
	defer e.joined.Done()
	defer e.stopped.Add(1)

	for w := range e.jobs {
		e.runWave(w)
	}
}

// runWave claims indices for one wave until the range is exhausted.
// A body panic is captured into the wave and never crosses the worker
// boundary; the worker stays alive for subsequent waves.
func (e *Engine) runWave(w *wave) {
	defer w.done.Done()
	defer func() {
		if r := recover(); r != nil {
			w.abort(r)
		}
	}()

	for {
		i := w.cursor.Add(1) - 1
		if i >= w.stop {
			return
		}
		w.body(int(i))
	}
}

// Close tears down the worker pool, joining every worker.
// The Engine remains usable: a subsequent For call respawns the pool at the
// configured size. Close is safe to call multiple times.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running > 0 {
		e.teardownLocked()
	}
}

// Workers returns the configured worker count.
func (e *Engine) Workers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.size
}

// WorkersStarted returns the total number of workers ever spawned by this
// Engine. Together with WorkersStopped it makes pool teardown observable.
func (e *Engine) WorkersStarted() int64 {
	return e.started.Load()
}

// WorkersStopped returns the total number of workers that have exited.
func (e *Engine) WorkersStopped() int64 {
	return e.stopped.Load()
}

// defaultEngine backs the package-level Configure/For convenience API.
var defaultEngine = New(0)

// Default returns the shared package-level Engine.
// Transforms that accept an Engine can be handed this to share one pool
// application-wide.
func Default() *Engine {
	return defaultEngine
}

// Configure sets the worker count of the shared default Engine.
func Configure(workers int) {
	defaultEngine.Configure(workers)
}

// For executes body over [start, stop) on the shared default Engine.
func For(start, stop int, body func(i int)) {
	defaultEngine.For(start, stop, body)
}

// Workers returns the worker count of the shared default Engine.
func Workers() int {
	return defaultEngine.Workers()
}
