// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent worker pool used to fan the
// column updates of one systolic cycle out across goroutines.
//
// A cycle touches every active PE column once, then every column must be
// finished before the skew register shifts. ParallelRange gives exactly that
// shape: it splits a column range into chunks, hands them to long-lived
// workers and returns only when all chunks are done, so the return is the
// barrier. Workers are spawned once and reused for every cycle of every
// compute.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for cycle := range cycles {
//	    pool.ParallelRange(lo, hi, 16, func(start, end int) {
//	        updateColumns(cycle, start, end)
//	    })
//	    shift()
//	}
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Executor runs a range of independent work items and returns once all of
// them are done.
type Executor interface {
	NumWorkers() int
	ParallelRange(lo, hi, align int, fn func(start, end int))
}

// Pool is a persistent worker pool. Concurrent ParallelRange calls share
// its workers.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

var _ Executor = (*Pool)(nil)

// workItem is one chunk of a ParallelRange call.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a pool with numWorkers persistent goroutines.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts the workers down. Calling Close more than once is safe; a
// closed pool runs subsequent work on the calling goroutine.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ParallelFor runs fn over [0, n) in contiguous chunks and blocks until all
// chunks complete.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	p.ParallelRange(0, n, 1, fn)
}

// ParallelRange runs fn over [lo, hi) and blocks until every chunk has
// returned. Chunk boundaries other than lo and hi fall on multiples of
// align, so chunks never share an aligned block of indices.
func (p *Pool) ParallelRange(lo, hi, align int, fn func(start, end int)) {
	if hi <= lo {
		return
	}
	if align <= 0 {
		align = 1
	}
	if p.closed.Load() {
		fn(lo, hi)
		return
	}

	firstBlock := lo / align
	lastBlock := (hi - 1) / align
	blocks := lastBlock - firstBlock + 1

	workers := min(p.numWorkers, blocks)
	if workers == 1 {
		fn(lo, hi)
		return
	}
	blocksPerWorker := (blocks + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		start := max(lo, (firstBlock+w*blocksPerWorker)*align)
		end := min(hi, (firstBlock+(w+1)*blocksPerWorker)*align)
		if start >= end {
			wg.Done()
			continue
		}
		p.workC <- workItem{
			fn: func() {
				fn(start, end)
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}
