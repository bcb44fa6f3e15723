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

// Package systolic implements a fixed-point, weight-stationary systolic
// matrix multiplication engine.
//
// A K × N grid of processing elements (PEs) each hold one stationary weight.
// Activations stream through a skew register, partial sums accumulate along
// the contraction dimension K, and each finished 1 × N output row is handed
// to a Sink.
//
// Basic usage:
//
//	eng, err := systolic.New(systolic.Config{K: 2, M: 1, N: 2})
//	if err != nil {
//	    return err
//	}
//	_ = eng.LoadWeights([][]systolic.Weight{{1, 0}, {0, 1}})
//	_ = eng.LoadActivations([][]systolic.Activation{{3, 4}})
//
//	var out systolic.MatrixSink
//	if err := eng.Compute(&out); err != nil {
//	    return err
//	}
//	// out.Rows() == [][]systolic.PartialSum{{3, 4}}
//
// Arithmetic is two's-complement: products are formed at PartialSum width
// and accumulated with wraparound. Keeping the worst-case sum inside the
// accumulator range is the caller's responsibility, see MaxSafeDepth.
package systolic

// Activation is one element of the streamed M × K activation matrix.
type Activation int8

// Weight is one element of the stationary K × N weight matrix.
type Weight int8

// PartialSum is the wide accumulator carried down a PE column.
type PartialSum int32

// Operand and accumulator widths in bits.
const (
	ActivationBits = 8
	WeightBits     = 8
	PartialSumBits = 32
)

// Operand ranges.
const (
	MinOperand = -1 << (ActivationBits - 1)
	MaxOperand = 1<<(ActivationBits-1) - 1
)

// MaxSafeDepth is the largest contraction depth K for which K products of
// two full-range operands cannot overflow a PartialSum.
//
// The largest product magnitude is (-128)*(-128) = 16384, so the bound is
// floor((2^31-1) / 16384).
const MaxSafeDepth = (1<<(PartialSumBits-1) - 1) / (-MinOperand * -MinOperand)

// mac returns psum + a*w at accumulator width.
func mac(psum PartialSum, a Activation, w Weight) PartialSum {
	return psum + PartialSum(a)*PartialSum(w)
}
