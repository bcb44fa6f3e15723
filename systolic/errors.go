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
	"errors"
	"fmt"
)

// Error categories. Match them with errors.Is.
var (
	// ErrDimensionMismatch means a matrix shape disagrees with the Config.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUninitialized means Compute ran before both stores were loaded.
	ErrUninitialized = errors.New("store not loaded")

	// ErrInvalidConfig means a Config or option value is unusable.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNilSink means Compute was handed a nil Sink.
	ErrNilSink = errors.New("nil sink")

	// ErrRowOrder means a sink saw a row index out of sequence.
	ErrRowOrder = errors.New("row out of order")
)

// Error carries the failing operation alongside one of the error categories
// above, or an error returned by a Sink.
type Error struct {
	Op      string // Operation that failed, e.g. "LoadWeights"
	Message string // Human-readable detail
	Err     error  // Category or underlying cause
}

func newError(op string, err error, message string) *Error {
	return &Error{Op: op, Message: message, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("systolic: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("systolic: %s: %v: %s", e.Op, e.Err, e.Message)
}

// Unwrap exposes the category for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsDimensionMismatch reports whether err is a dimension-mismatch error.
func IsDimensionMismatch(err error) bool {
	return errors.Is(err, ErrDimensionMismatch)
}

// IsUninitialized reports whether err is an uninitialized-store error.
func IsUninitialized(err error) bool {
	return errors.Is(err, ErrUninitialized)
}
