// Package parallel provides a persistent, reusable worker pool for splitting
// an index range across goroutines.
//
// An Engine spawns its workers once, on the first For call, and reuses them
// across every subsequent call; reconfiguring the worker count tears the old
// pool down completely before a new one is created. Work is metered
// dynamically: a single shared atomic cursor hands out one index at a time,
// so slow iterations never stall the rest of the range. The cost is one
// atomic operation per iteration, which is the right trade when each
// iteration does non-trivial work such as one full image row.
//
// Usage:
//
//	eng := parallel.New(0) // 0 = GOMAXPROCS
//	defer eng.Close()
//
//	eng.For(0, height, func(y int) {
//	    processRow(y)
//	})
//
// Applications that want one shared pool can use the package-level Configure
// and For, which operate on a lazily created default Engine.
package parallel
