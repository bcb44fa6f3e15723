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
	"os"
	"runtime"
	"strconv"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Mode is the execution strategy for the per-cycle column update.
type Mode int

const (
	// ModeSequential evaluates columns one after another on the calling
	// goroutine. This is the reference path.
	ModeSequential Mode = iota

	// ModeParallel fans the active columns of each cycle out over a worker
	// pool and waits for all of them before shifting the skew register.
	ModeParallel
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeSequential:
		return "sequential"
	case ModeParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// MinParallelColumns is the narrowest grid for which New picks the
// parallel path on its own. Below it the per-cycle barrier costs more than
// the column work it splits.
const MinParallelColumns = 512

// ColumnChunk is the number of PartialSums that share one cache line.
// Parallel column ranges are split on multiples of it so two workers never
// write the same line of a psum row.
var ColumnChunk = max(1, int(unsafe.Sizeof(cpu.CacheLinePad{}))/int(unsafe.Sizeof(PartialSum(0))))

// currentMode and currentWorkers are set by init.
var (
	currentMode    Mode
	currentWorkers int
)

func init() {
	detectMode()
}

func detectMode() {
	currentWorkers = runtime.GOMAXPROCS(0)
	if n := WorkersEnv(); n > 0 {
		currentWorkers = n
	}
	currentMode = ModeParallel
	if NoParallelEnv() || currentWorkers < 2 {
		currentMode = ModeSequential
		currentWorkers = 1
	}
}

// CurrentMode returns the execution mode detected for this process.
func CurrentMode() Mode {
	return currentMode
}

// CurrentWorkers returns the worker count used when an engine builds its
// own pool.
func CurrentWorkers() int {
	return currentWorkers
}

// NoParallelEnv checks the SYSTOLIC_NO_PARALLEL environment variable. When
// set, engines default to the sequential path. Any non-empty value other
// than a false boolean counts as set.
func NoParallelEnv() bool {
	val := os.Getenv("SYSTOLIC_NO_PARALLEL")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// WorkersEnv returns the SYSTOLIC_WORKERS override, or 0 when unset or not
// a positive integer.
func WorkersEnv() int {
	n, err := strconv.Atoi(os.Getenv("SYSTOLIC_WORKERS"))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// Feature is one CPU capability reported by Features.
type Feature struct {
	Name    string
	Present bool
	Note    string
}
