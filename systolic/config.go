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

import "fmt"

// Default grid geometry, matching a 128-deep buffer bank feeding a
// 128-column PE array.
const (
	DefaultK = 128
	DefaultM = 128
	DefaultN = 128
)

// Config holds the structural parameters of an engine. They are fixed for
// the lifetime of an Engine.
//
//   - K: contraction depth (PE rows, weight rows, activation columns)
//   - M: output rows (activation rows)
//   - N: output columns (PE columns, weight columns)
type Config struct {
	K int
	M int
	N int
}

// DefaultConfig returns the 128 × 128 × 128 geometry.
func DefaultConfig() Config {
	return Config{K: DefaultK, M: DefaultM, N: DefaultN}
}

// Validate reports ErrInvalidConfig when any dimension is not positive.
//
// K above MaxSafeDepth is accepted: bounding the accumulated magnitude is
// the caller's contract.
func (c Config) Validate() error {
	if c.K <= 0 || c.M <= 0 || c.N <= 0 {
		return newError("Validate", ErrInvalidConfig,
			fmt.Sprintf("dimensions must be positive, got %s", c))
	}
	return nil
}

// String formats the config as KxMxN.
func (c Config) String() string {
	return fmt.Sprintf("K=%d M=%d N=%d", c.K, c.M, c.N)
}

// MACs returns the number of multiply-accumulates in one full compute.
func (c Config) MACs() int64 {
	return int64(c.K) * int64(c.M) * int64(c.N)
}

// Schedule selects how activations are fed through the skew register.
type Schedule int

const (
	// ScheduleWavefront streams all M rows through one persistent skew
	// register. Column j runs j cycles behind column 0, so every PE sees the
	// activation that matches its contraction step and the output equals
	// Activation × Weight.
	ScheduleWavefront Schedule = iota

	// ScheduleRowSweep sweeps one row at a time with every column at the
	// same contraction step. Skew slots 1..N carry over from the previous
	// row, so column j reads Activation[k][i-j] (or a value left over from
	// row k-1). Kept for bit-exact comparison with the row-sweep kernel.
	ScheduleRowSweep
)

// String returns the schedule's flag name.
func (s Schedule) String() string {
	switch s {
	case ScheduleWavefront:
		return "wavefront"
	case ScheduleRowSweep:
		return "rowsweep"
	default:
		return "unknown"
	}
}

// ParseSchedule maps a flag name back to a Schedule.
func ParseSchedule(name string) (Schedule, error) {
	switch name {
	case "wavefront", "":
		return ScheduleWavefront, nil
	case "rowsweep":
		return ScheduleRowSweep, nil
	default:
		return 0, newError("ParseSchedule", ErrInvalidConfig,
			fmt.Sprintf("unknown schedule %q (want wavefront|rowsweep)", name))
	}
}
