package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

// Pool runs submitted jobs on a fixed set of goroutines. A pool of one
// worker runs every job inline on the caller's goroutine.
type Pool struct {
	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Workers resolves a requested worker count, where anything below one
// means one worker per available CPU.
func Workers(n int) int {
	if n < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

func Start(numWorkers int) *Pool {
	numWorkers = Workers(numWorkers)

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			workChan <- f
		}

		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

// Rows calls fn once for every row index in [0, n) using up to numWorkers
// goroutines and returns the error of the lowest failing row. Rows after a
// failure may be skipped.
func Rows(n, numWorkers int, fn func(y int) error) error {
	if n <= 0 {
		return nil
	}

	numWorkers = min(Workers(numWorkers), n)
	if numWorkers == 1 {
		for y := range n {
			if err := fn(y); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		mu       sync.Mutex
		firstErr error
		errRow   = n
	)
	failed := func(y int) bool {
		mu.Lock()
		defer mu.Unlock()
		return errRow < y
	}

	pool := Start(numWorkers)
	for y := range n {
		pool.Do(func() {
			if failed(y) {
				return
			}
			if err := fn(y); err != nil {
				mu.Lock()
				if y < errRow {
					firstErr, errRow = err, y
				}
				mu.Unlock()
			}
		})
	}
	pool.Wait(true)

	return firstErr
}
