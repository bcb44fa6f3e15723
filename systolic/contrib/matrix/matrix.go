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

// Package matrix reads and writes the plain-text matrices consumed and
// produced by the systolic engine.
//
// The format is one matrix row per line. Values are decimal integers (or
// 0x/0o/0b prefixed) separated by whitespace, commas or both. Everything
// after a '#' is a comment, and blank lines are skipped:
//
//	# 2 × 3 weights
//	1, 0, -2
//	0  1  127
package matrix

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/ajroetker/go-systolic/systolic"
)

var (
	// ErrOutOfRange means a value does not fit the element type.
	ErrOutOfRange = errors.New("value out of range")

	// ErrRagged means the rows of a matrix have different lengths.
	ErrRagged = errors.New("ragged rows")

	// ErrEmpty means the input holds no rows.
	ErrEmpty = errors.New("empty matrix")
)

// Element is an operand type the engine loads.
type Element interface {
	systolic.Activation | systolic.Weight
}

// Value is any element the engine loads or emits.
type Value interface {
	Element | systolic.PartialSum
}

// ReadWeights parses a K × N weight matrix. name labels error messages.
func ReadWeights(r io.Reader, name string) ([][]systolic.Weight, error) {
	return Read[systolic.Weight](r, name)
}

// ReadActivations parses an M × K activation matrix. name labels error
// messages.
func ReadActivations(r io.Reader, name string) ([][]systolic.Activation, error) {
	return Read[systolic.Activation](r, name)
}

// Read parses a rectangular matrix of 8-bit operands. Every value must lie
// in [systolic.MinOperand, systolic.MaxOperand].
func Read[T Element](r io.Reader, name string) ([][]T, error) {
	var rows [][]T
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := splitFields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]T, len(fields))
		for c, f := range fields {
			v, err := strconv.ParseInt(f, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: column %d: %w", name, line, c+1, err)
			}
			if v < systolic.MinOperand || v > systolic.MaxOperand {
				return nil, fmt.Errorf("%s:%d: column %d: %d: %w", name, line, c+1, v, ErrOutOfRange)
			}
			row[c] = T(v)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmpty)
	}

	cols := len(rows[0])
	if _, idx, found := lo.FindIndexOf(rows, func(row []T) bool { return len(row) != cols }); found {
		return nil, fmt.Errorf("%s: row %d has %d values, row 1 has %d: %w", name, idx+1, len(rows[idx]), cols, ErrRagged)
	}
	return rows, nil
}

func splitFields(text string) []string {
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// Shape returns the row and column counts of a matrix read by Read.
func Shape[T Value](m [][]T) (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Flatten returns m in row-major order.
func Flatten[T Value](m [][]T) []T {
	return lo.Flatten(m)
}

// FormatRow renders one row as space-separated decimal values.
func FormatRow[T Value](row []T) string {
	return strings.Join(lo.Map(row, func(v T, _ int) string {
		return strconv.FormatInt(int64(v), 10)
	}), " ")
}

// Write renders m one row per line in the format Read accepts.
func Write[T Value](w io.Writer, m [][]T) error {
	bw := bufio.NewWriter(w)
	for _, row := range m {
		if _, err := bw.WriteString(FormatRow(row) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
