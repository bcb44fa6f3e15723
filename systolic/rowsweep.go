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

// runRowSweep computes one output row at a time with all columns at the same
// contraction step:
//
//	for each row k:
//	  psum[0][*] = 0
//	  skew[0] = Activation[k][0]        (slots 1..N keep the previous row's tail)
//	  for i in 0..K-1:
//	    psum[i+1][j] = psum[i][j] + skew[j]*W[i][j]   for every j
//	    skew[j] = skew[j-1]                            for j = N..1
//	    skew[0] = Activation[k][i+1]                   if i+1 < K
//	  emit psum[K][*]
//
// Column j therefore multiplies W[i][j] by Activation[k][i-j], reaching back
// into row k-1's tail when i < j. The skew register starts each compute at
// zero, so results depend only on the loaded stores.
func (e *Engine) runRowSweep(sink Sink) error {
	K, M, N := e.cfg.K, e.cfg.M, e.cfg.N

	clear(e.skew)
	for k := range M {
		clear(e.psum[0])
		e.skew[0] = e.acts.At(k, 0)
		e.stats.Injections++

		for i := range K {
			e.step = i
			e.forColumns(0, N, e.rowSweepKernel)
			e.stats.MACs += int64(N)
			e.stats.Cycles++

			e.shift()
			if i+1 < K {
				e.skew[0] = e.acts.At(k, i+1)
				e.stats.Injections++
			}
		}

		if err := e.emit(sink, k, e.psum[K]); err != nil {
			return err
		}
	}
	return nil
}

// rowSweepColumns performs the PE update of step e.step for columns
// [start, end).
func (e *Engine) rowSweepColumns(start, end int) {
	i := e.step
	w := e.weights.row(i)
	in, out := e.psum[i], e.psum[i+1]
	for j := start; j < end; j++ {
		out[j] = mac(in[j], e.skew[j], w[j])
	}
}
