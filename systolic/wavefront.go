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

// runWavefront streams the activation matrix through one persistent skew
// register.
//
// The stream is Activation[0][0..K-1], Activation[1][0..K-1], ... and one
// value enters slot 0 per cycle. A value injected at cycle s sits in slot j
// at cycle s+j, so column j runs the partial-sum recurrence j cycles behind
// column 0: at cycle t it performs contraction step i = (t-j) mod K of row
// k = (t-j) div K against exactly Activation[k][i].
//
// Each cycle is
//
//	a. every active column j: psum[i+1][j] = psum[i][j] + skew[j]*W[i][j]
//	b. skew[j] = skew[j-1] for j = N..1
//	c. skew[0] = next activation of the stream, if any
//
// Rows enter back to back while earlier rows are still draining through the
// right-hand columns; the pipe drains once, N-1 cycles after the last
// injection. Column N-1 is always the last to finish a row, so rows leave in
// increasing order.
func (e *Engine) runWavefront(sink Sink) error {
	K, N := e.cfg.K, e.cfg.N
	stream := e.cfg.M * K
	cycles := stream + N - 1
	depth := len(e.staging)

	clear(e.skew)
	e.skew[0] = e.acts.stream(0)
	e.stats.Injections++

	for t := range cycles {
		// Column j is busy while its stream position t-j is in [0, stream).
		lo := max(0, t-stream+1)
		hi := min(N, t+1)

		e.cycle = t
		e.forColumns(lo, hi, e.wavefrontKernel)
		e.stats.MACs += int64(hi - lo)
		e.stats.Cycles = int64(t + 1)

		if s := t - (N - 1); s >= 0 && s%K == K-1 {
			k := s / K
			if err := e.emit(sink, k, e.staging[k%depth]); err != nil {
				return err
			}
		}

		e.shift()
		if t+1 < stream {
			e.skew[0] = e.acts.stream(t + 1)
			e.stats.Injections++
		}
	}
	return nil
}

// wavefrontColumns performs step a of cycle e.cycle for columns
// [start, end). Columns are independent within a cycle.
func (e *Engine) wavefrontColumns(start, end int) {
	K := e.cfg.K
	last := e.psum[K]
	staging := e.staging
	for j := start; j < end; j++ {
		s := e.cycle - j
		k, i := s/K, s%K
		if i == 0 {
			e.psum[0][j] = 0
		}
		e.psum[i+1][j] = mac(e.psum[i][j], e.skew[j], e.weights.row(i)[j])
		if i == K-1 {
			staging[k%len(staging)][j] = last[j]
		}
	}
}
