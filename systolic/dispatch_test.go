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

import "testing"

func TestModeString(t *testing.T) {
	if ModeSequential.String() != "sequential" || ModeParallel.String() != "parallel" {
		t.Errorf("mode names = %q, %q", ModeSequential, ModeParallel)
	}
	if Mode(9).String() != "unknown" {
		t.Errorf("Mode(9) = %q", Mode(9))
	}
}

func TestNoParallelEnv(t *testing.T) {
	testCases := []struct {
		val  string
		want bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"1", true},
		{"true", true},
		{"yes", true},
	}
	for _, tc := range testCases {
		t.Setenv("SYSTOLIC_NO_PARALLEL", tc.val)
		if got := NoParallelEnv(); got != tc.want {
			t.Errorf("SYSTOLIC_NO_PARALLEL=%q: NoParallelEnv() = %v, want %v", tc.val, got, tc.want)
		}
	}
}

func TestDetectMode(t *testing.T) {
	t.Cleanup(detectMode)

	t.Setenv("SYSTOLIC_NO_PARALLEL", "1")
	detectMode()
	if CurrentMode() != ModeSequential || CurrentWorkers() != 1 {
		t.Errorf("with SYSTOLIC_NO_PARALLEL: mode %v, workers %d", CurrentMode(), CurrentWorkers())
	}

	t.Setenv("SYSTOLIC_NO_PARALLEL", "")
	t.Setenv("SYSTOLIC_WORKERS", "3")
	detectMode()
	if CurrentMode() != ModeParallel || CurrentWorkers() != 3 {
		t.Errorf("with SYSTOLIC_WORKERS=3: mode %v, workers %d", CurrentMode(), CurrentWorkers())
	}

	t.Setenv("SYSTOLIC_WORKERS", "-2")
	if WorkersEnv() != 0 {
		t.Errorf("WorkersEnv() = %d for a negative value", WorkersEnv())
	}
}

func TestColumnChunk(t *testing.T) {
	if ColumnChunk < 1 {
		t.Fatalf("ColumnChunk = %d", ColumnChunk)
	}
}

func TestAutoModeNarrowGrid(t *testing.T) {
	eng, err := New(Config{K: 4, M: 4, N: MinParallelColumns - 1})
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()
	if eng.Mode() != ModeSequential {
		t.Errorf("Mode() = %v for a grid narrower than MinParallelColumns", eng.Mode())
	}

	eng, err = New(Config{K: 4, M: 4, N: 8}, WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()
	if eng.Mode() != ModeParallel {
		t.Errorf("Mode() = %v with WithWorkers(2)", eng.Mode())
	}
}

func TestFeatures(t *testing.T) {
	for _, f := range Features() {
		if f.Name == "" {
			t.Errorf("feature with empty name: %+v", f)
		}
	}
}
