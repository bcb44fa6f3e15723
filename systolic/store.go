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

// buffer is a fixed-shape, row-major on-chip buffer.
type buffer[T Activation | Weight] struct {
	rows   int
	cols   int
	data   []T
	loaded bool
}

func newBuffer[T Activation | Weight](rows, cols int) buffer[T] {
	return buffer[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}
}

// load copies src element for element. On a shape mismatch the buffer is
// left untouched.
func (b *buffer[T]) load(op string, src [][]T) error {
	if len(src) != b.rows {
		return newError(op, ErrDimensionMismatch,
			fmt.Sprintf("want %d rows, got %d", b.rows, len(src)))
	}
	for r, row := range src {
		if len(row) != b.cols {
			return newError(op, ErrDimensionMismatch,
				fmt.Sprintf("row %d: want %d columns, got %d", r, b.cols, len(row)))
		}
	}
	for r, row := range src {
		copy(b.data[r*b.cols:(r+1)*b.cols], row)
	}
	b.loaded = true
	return nil
}

func (b *buffer[T]) loadFlat(op string, src []T) error {
	if len(src) != b.rows*b.cols {
		return newError(op, ErrDimensionMismatch,
			fmt.Sprintf("want %d×%d = %d elements, got %d", b.rows, b.cols, b.rows*b.cols, len(src)))
	}
	copy(b.data, src)
	b.loaded = true
	return nil
}

func (b *buffer[T]) at(r, c int) T {
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
		panic(fmt.Sprintf("systolic: index (%d, %d) out of range [%d, %d)", r, c, b.rows, b.cols))
	}
	return b.data[r*b.cols+c]
}

func (b *buffer[T]) reset() {
	clear(b.data)
	b.loaded = false
}

// WeightStore holds the stationary K × N weight matrix. Row i is the set of
// weights owned by PE row i.
type WeightStore struct {
	buf buffer[Weight]
}

// NewWeightStore allocates a K × N weight store.
func NewWeightStore(k, n int) *WeightStore {
	return &WeightStore{buf: newBuffer[Weight](k, n)}
}

// Load copies a K × N matrix into the store.
func (s *WeightStore) Load(w [][]Weight) error {
	return s.buf.load("LoadWeights", w)
}

// LoadFlat copies a row-major K*N slice into the store.
func (s *WeightStore) LoadFlat(w []Weight) error {
	return s.buf.loadFlat("LoadWeights", w)
}

// At returns Weight[i][j]. It panics when (i, j) is outside the grid.
func (s *WeightStore) At(i, j int) Weight {
	return s.buf.at(i, j)
}

// row returns PE row i without copying.
func (s *WeightStore) row(i int) []Weight {
	return s.buf.data[i*s.buf.cols : (i+1)*s.buf.cols]
}

// Rows returns K.
func (s *WeightStore) Rows() int { return s.buf.rows }

// Cols returns N.
func (s *WeightStore) Cols() int { return s.buf.cols }

// Loaded reports whether Load or LoadFlat has succeeded since the last Reset.
func (s *WeightStore) Loaded() bool { return s.buf.loaded }

// Reset zeroes the store and marks it unloaded.
func (s *WeightStore) Reset() { s.buf.reset() }

// ActivationStore holds the streamed M × K activation matrix. Row k feeds
// output row k.
type ActivationStore struct {
	buf buffer[Activation]
}

// NewActivationStore allocates an M × K activation store.
func NewActivationStore(m, k int) *ActivationStore {
	return &ActivationStore{buf: newBuffer[Activation](m, k)}
}

// Load copies an M × K matrix into the store.
func (s *ActivationStore) Load(a [][]Activation) error {
	return s.buf.load("LoadActivations", a)
}

// LoadFlat copies a row-major M*K slice into the store.
func (s *ActivationStore) LoadFlat(a []Activation) error {
	return s.buf.loadFlat("LoadActivations", a)
}

// At returns Activation[k][i] for output row k and contraction index i.
func (s *ActivationStore) At(k, i int) Activation {
	return s.buf.at(k, i)
}

// stream returns the activation injected at stream position p, where the
// stream is rows 0..M-1 laid end to end.
func (s *ActivationStore) stream(p int) Activation {
	return s.buf.data[p]
}

// Rows returns M.
func (s *ActivationStore) Rows() int { return s.buf.rows }

// Cols returns K.
func (s *ActivationStore) Cols() int { return s.buf.cols }

// Loaded reports whether Load or LoadFlat has succeeded since the last Reset.
func (s *ActivationStore) Loaded() bool { return s.buf.loaded }

// Reset zeroes the store and marks it unloaded.
func (s *ActivationStore) Reset() { s.buf.reset() }
