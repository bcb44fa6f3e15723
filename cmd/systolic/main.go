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

// Command systolic runs int8 matrix multiplications on the weight-stationary
// systolic engine and reports its cycle model.
//
// Usage:
//
//	systolic run --weights w.txt --activations a.txt --out c.txt
//	systolic run --weights w.txt --activations a.txt --schedule rowsweep --workers 4
//	systolic estimate -k 128 -m 128 -n 128
//	systolic info
//
// Matrices use the text format of package matrix: one row per line,
// whitespace or comma separated, '#' starts a comment.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
