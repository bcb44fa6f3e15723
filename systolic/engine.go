// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package systolic

import (
	"fmt"
	"log/slog"

	"github.com/ajroetker/go-systolic/systolic/contrib/workerpool"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	schedule   Schedule
	exec       workerpool.Executor
	workers    int
	sequential bool
	logger     *slog.Logger
}

// WithSchedule selects the activation feed schedule. The default is
// ScheduleWavefront.
func WithSchedule(s Schedule) Option {
	return func(o *options) { o.schedule = s }
}

// WithExecutor runs the per-cycle column fan-out on exec. The engine does
// not close it.
func WithExecutor(exec workerpool.Executor) Option {
	return func(o *options) { o.exec = exec }
}

// WithWorkers makes the engine own a pool of n workers. n < 2 selects the
// sequential path.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithSequential forces the single-goroutine reference path.
func WithSequential() Option {
	return func(o *options) { o.sequential = true }
}

// WithLogger sets the logger for per-row debug records and the end-of-compute
// summary. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Engine drives a K × N grid of weight-stationary PEs.
//
// The weight and activation stores are long-lived; the skew register, the
// (K+1) × N partial-sum array and the output staging rows are scratch that
// belongs to the compute in flight. An Engine is not safe for concurrent
// use.
type Engine struct {
	cfg     Config
	opts    options
	weights *WeightStore
	acts    *ActivationStore

	mode      Mode
	exec      workerpool.Executor
	ownedPool *workerpool.Pool
	logger    *slog.Logger

	// psum[i][j] is the partial sum entering PE (i, j); psum[K][j] leaves
	// the bottom of column j.
	psum [][]PartialSum
	// skew holds N+1 activation slots; slot j feeds column j.
	skew []Activation
	// staging collects finished columns of rows still draining from the
	// wavefront pipe, indexed by row modulo len(staging).
	staging [][]PartialSum

	// cycle and step are read by the column kernels below.
	cycle int
	step  int

	wavefrontKernel func(start, end int)
	rowSweepKernel  func(start, end int)

	stats Stats
}

// New builds an engine with its own weight and activation stores sized from
// cfg.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewWithStores(cfg, NewWeightStore(cfg.K, cfg.N), NewActivationStore(cfg.M, cfg.K), opts...)
}

// NewWithStores builds an engine around existing stores, so one loaded
// WeightStore can serve several engines. Store shapes must match cfg.
func NewWithStores(cfg Config, weights *WeightStore, acts *ActivationStore, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkShapes("New", cfg, weights, acts); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.schedule != ScheduleWavefront && o.schedule != ScheduleRowSweep {
		return nil, newError("New", ErrInvalidConfig, fmt.Sprintf("unknown schedule %d", o.schedule))
	}

	e := &Engine{
		cfg:     cfg,
		opts:    o,
		weights: weights,
		acts:    acts,
		logger:  o.logger,
		psum:    make([][]PartialSum, cfg.K+1),
		skew:    make([]Activation, cfg.N+1),
		staging: make([][]PartialSum, stagingDepth(cfg)),
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	for i := range e.psum {
		e.psum[i] = make([]PartialSum, cfg.N)
	}
	for r := range e.staging {
		e.staging[r] = make([]PartialSum, cfg.N)
	}
	e.wavefrontKernel = e.wavefrontColumns
	e.rowSweepKernel = e.rowSweepColumns

	switch {
	case o.sequential:
		e.mode = ModeSequential
	case o.exec != nil:
		e.mode, e.exec = ModeParallel, o.exec
	case o.workers >= 2:
		e.ownedPool = workerpool.New(o.workers)
		e.mode, e.exec = ModeParallel, e.ownedPool
	case o.workers == 0 && CurrentMode() == ModeParallel && cfg.N >= MinParallelColumns:
		e.ownedPool = workerpool.New(CurrentWorkers())
		e.mode, e.exec = ModeParallel, e.ownedPool
	default:
		e.mode = ModeSequential
	}

	if cfg.K > MaxSafeDepth {
		e.logger.Warn("contraction depth can overflow the accumulator",
			"k", cfg.K, "max_safe_depth", MaxSafeDepth)
	}
	return e, nil
}

// stagingDepth is the number of rows that can be draining at once: row k's
// last column finishes N-1 cycles after its first, and a new row starts
// finishing every K cycles.
func stagingDepth(cfg Config) int {
	return (cfg.N-1)/cfg.K + 2
}

func checkShapes(op string, cfg Config, weights *WeightStore, acts *ActivationStore) error {
	if weights == nil || acts == nil {
		return newError(op, ErrInvalidConfig, "nil store")
	}
	if weights.Rows() != cfg.K || weights.Cols() != cfg.N {
		return newError(op, ErrDimensionMismatch,
			fmt.Sprintf("weight store is %d×%d, want K×N = %d×%d", weights.Rows(), weights.Cols(), cfg.K, cfg.N))
	}
	if acts.Rows() != cfg.M || acts.Cols() != cfg.K {
		return newError(op, ErrDimensionMismatch,
			fmt.Sprintf("activation store is %d×%d, want M×K = %d×%d", acts.Rows(), acts.Cols(), cfg.M, cfg.K))
	}
	return nil
}

// Config returns the engine geometry.
func (e *Engine) Config() Config { return e.cfg }

// Mode returns the execution path this engine uses.
func (e *Engine) Mode() Mode { return e.mode }

// Schedule returns the activation feed schedule.
func (e *Engine) Schedule() Schedule { return e.opts.schedule }

// Weights returns the weight store.
func (e *Engine) Weights() *WeightStore { return e.weights }

// Activations returns the activation store.
func (e *Engine) Activations() *ActivationStore { return e.acts }

// LoadWeights copies a K × N matrix into the weight store.
func (e *Engine) LoadWeights(w [][]Weight) error { return e.weights.Load(w) }

// LoadWeightsFlat copies a row-major K*N slice into the weight store.
func (e *Engine) LoadWeightsFlat(w []Weight) error { return e.weights.LoadFlat(w) }

// LoadActivations copies an M × K matrix into the activation store.
func (e *Engine) LoadActivations(a [][]Activation) error { return e.acts.Load(a) }

// LoadActivationsFlat copies a row-major M*K slice into the activation store.
func (e *Engine) LoadActivationsFlat(a []Activation) error { return e.acts.LoadFlat(a) }

// Reset clears both stores and the statistics of the last compute.
func (e *Engine) Reset() {
	e.weights.Reset()
	e.acts.Reset()
	e.stats = Stats{}
}

// Stats returns the counters of the last successful compute.
func (e *Engine) Stats() Stats { return e.stats }

// Close releases the worker pool the engine created, if any.
func (e *Engine) Close() {
	if e.ownedPool != nil {
		e.ownedPool.Close()
		e.ownedPool = nil
	}
}

// Compute emits Output[k] = Activation[k] × Weight to sink for k = 0..M-1,
// in increasing k. Shape and load errors are reported before any row is
// emitted. A sink error stops the compute and is returned wrapped.
func (e *Engine) Compute(sink Sink) error {
	if sink == nil {
		return newError("Compute", ErrNilSink, "")
	}
	if err := checkShapes("Compute", e.cfg, e.weights, e.acts); err != nil {
		return err
	}
	switch {
	case !e.weights.Loaded() && !e.acts.Loaded():
		return newError("Compute", ErrUninitialized, "weights and activations not loaded")
	case !e.weights.Loaded():
		return newError("Compute", ErrUninitialized, "weights not loaded")
	case !e.acts.Loaded():
		return newError("Compute", ErrUninitialized, "activations not loaded")
	}

	e.stats = Stats{Schedule: e.opts.schedule, Mode: e.mode, Columns: e.cfg.N}
	var err error
	if e.opts.schedule == ScheduleRowSweep {
		err = e.runRowSweep(sink)
	} else {
		err = e.runWavefront(sink)
	}
	if err != nil {
		return err
	}

	e.logger.Info("compute finished",
		"schedule", e.stats.Schedule.String(),
		"mode", e.stats.Mode.String(),
		"rows", e.stats.Rows,
		"cycles", e.stats.Cycles,
		"macs", e.stats.MACs,
		"utilization", e.stats.Utilization())
	return nil
}

// forColumns runs kernel over columns [lo, hi) and returns once every
// column is done.
func (e *Engine) forColumns(lo, hi int, kernel func(start, end int)) {
	if e.exec == nil {
		kernel(lo, hi)
		return
	}
	e.exec.ParallelRange(lo, hi, ColumnChunk, kernel)
}

// shift moves every skew slot one column to the right.
func (e *Engine) shift() {
	for j := len(e.skew) - 1; j > 0; j-- {
		e.skew[j] = e.skew[j-1]
	}
	e.stats.Shifts++
}

// emit hands a copy of row k to the sink.
func (e *Engine) emit(sink Sink, k int, row []PartialSum) error {
	out := make([]PartialSum, len(row))
	copy(out, row)
	if err := sink.Receive(k, out); err != nil {
		return &Error{Op: "Compute", Message: fmt.Sprintf("sink rejected row %d", k), Err: err}
	}
	e.stats.Rows++
	switch k {
	case 0:
		e.stats.FirstRowCycle = e.stats.Cycles
	case 1:
		e.stats.RowInterval = e.stats.Cycles - e.stats.FirstRowCycle
	}
	e.logger.Debug("row emitted", "row", k, "cycle", e.stats.Cycles)
	return nil
}

// MatMul loads activations (M × K) and weights (K × N) into a fresh engine
// and returns the M × N product.
func MatMul(cfg Config, activations [][]Activation, weights [][]Weight, opts ...Option) ([][]PartialSum, error) {
	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	defer e.Close()

	if err := e.LoadWeights(weights); err != nil {
		return nil, err
	}
	if err := e.LoadActivations(activations); err != nil {
		return nil, err
	}
	var out MatrixSink
	if err := e.Compute(&out); err != nil {
		return nil, err
	}
	return out.Rows(), nil
}
