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

// Sink receives finished output rows.
//
// Receive is called exactly once per output row, with k strictly increasing
// from 0 to M-1. row has length N and is owned by the sink: the engine
// allocates a new slice per call and never touches it again.
type Sink interface {
	Receive(k int, row []PartialSum) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(k int, row []PartialSum) error

// Receive calls f(k, row).
func (f SinkFunc) Receive(k int, row []PartialSum) error {
	return f(k, row)
}

// MatrixSink collects every row into an M × N matrix. The zero value is
// ready to use. It rejects rows that arrive out of order or twice.
type MatrixSink struct {
	rows [][]PartialSum
}

// Receive appends row k.
func (s *MatrixSink) Receive(k int, row []PartialSum) error {
	if k != len(s.rows) {
		return newError("Receive", ErrRowOrder,
			fmt.Sprintf("got row %d, want row %d", k, len(s.rows)))
	}
	s.rows = append(s.rows, row)
	return nil
}

// Rows returns the rows received so far.
func (s *MatrixSink) Rows() [][]PartialSum {
	return s.rows
}

// Reset drops all collected rows.
func (s *MatrixSink) Reset() {
	s.rows = nil
}
