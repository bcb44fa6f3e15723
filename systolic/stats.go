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

// Stats counts the work of one compute in array cycles. One cycle is one
// pass of steps a, b and c: a column update, a skew shift and at most one
// injection.
type Stats struct {
	Schedule Schedule
	Mode     Mode
	Columns  int

	Rows       int   // rows emitted
	Cycles     int64 // array cycles
	MACs       int64 // PE multiply-accumulates
	Shifts     int64 // skew register shifts
	Injections int64 // activations injected at slot 0

	// FirstRowCycle is the cycle count at which row 0 left the array.
	FirstRowCycle int64
	// RowInterval is the number of cycles between rows 0 and 1; zero when
	// M is 1.
	RowInterval int64
}

// Utilization is the fraction of column-cycles that performed a MAC.
func (s Stats) Utilization() float64 {
	if s.Cycles == 0 || s.Columns == 0 {
		return 0
	}
	return float64(s.MACs) / (float64(s.Cycles) * float64(s.Columns))
}

// EstimateCycles returns the counters a compute with cfg and schedule will
// produce. It does not depend on operand values.
//
// The wavefront schedule fills the pipe once: K+N-1 cycles until row 0 is
// out, then one row every K cycles, M*K+N-1 cycles in total. The row sweep
// takes K cycles per row with no fill or drain, at the cost of the skewed
// operand pairing described on ScheduleRowSweep.
func EstimateCycles(cfg Config, schedule Schedule) Stats {
	K, M, N := int64(cfg.K), int64(cfg.M), int64(cfg.N)
	s := Stats{
		Schedule:   schedule,
		Columns:    cfg.N,
		Rows:       cfg.M,
		MACs:       K * M * N,
		Injections: M * K,
	}
	if M > 1 {
		s.RowInterval = K
	}
	switch schedule {
	case ScheduleRowSweep:
		s.Cycles = M * K
		s.FirstRowCycle = K
	default:
		s.Cycles = M*K + N - 1
		s.FirstRowCycle = K + N - 1
	}
	s.Shifts = s.Cycles
	return s
}
