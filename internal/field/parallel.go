package field

import "golang.org/x/sync/errgroup"

// minChunk keeps tiny inputs on the calling goroutine.
const minChunk = 64

// forEachChunk splits [0, n) into contiguous ranges and runs fn(lo, hi) on
// each, over at most workers goroutines. Per-chunk scratch space belongs in
// fn. fn must only write to slots in its own range.
func forEachChunk(n, workers int, fn func(lo, hi int)) {
	if workers <= 1 || n <= minChunk {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}

// forEach runs fn(i) for every i in [0, n) through forEachChunk.
func forEach(n, workers int, fn func(i int)) {
	forEachChunk(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			fn(i)
		}
	})
}
