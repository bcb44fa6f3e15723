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

package matrix

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ajroetker/go-systolic/systolic"
)

// WriterSink is a systolic.Sink that writes each row to an io.Writer as
// soon as it leaves the array. Call Flush once Compute returns.
type WriterSink struct {
	w    *bufio.Writer
	next int
}

// NewWriterSink returns a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

// Receive writes row k. Rows must arrive in order.
func (s *WriterSink) Receive(k int, row []systolic.PartialSum) error {
	if k != s.next {
		return fmt.Errorf("matrix: got row %d, want row %d: %w", k, s.next, systolic.ErrRowOrder)
	}
	if _, err := s.w.WriteString(FormatRow(row) + "\n"); err != nil {
		return err
	}
	s.next++
	return nil
}

// Rows returns the number of rows written so far.
func (s *WriterSink) Rows() int { return s.next }

// Flush writes any buffered rows to the underlying writer.
func (s *WriterSink) Flush() error {
	return s.w.Flush()
}
