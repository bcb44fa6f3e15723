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

// Command systolicgen writes a package that pins one systolic grid geometry
// at build time.
//
// Usage:
//
//	systolicgen -name shape128 -k 128 -m 128 -n 128 -output .
//
// Or via go:generate:
//
//	//go:generate go run ../../cmd/systolicgen -name shape128 -k 128 -m 128 -n 128 -output .
//
// The generated package holds K, M and N as constants, fixed-size array
// types for the weight, activation and output matrices, and a MatMul that
// runs the engine on them.
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	name      = flag.String("name", "", "Shape name, also the package name after lower-casing (required)")
	outputDir = flag.String("output", ".", "Output directory")
	k         = flag.Int("k", 128, "Contraction depth K")
	m         = flag.Int("m", 128, "Output rows M")
	n         = flag.Int("n", 128, "Output columns N")
)

func main() {
	flag.Parse()

	if *name == "" {
		fmt.Fprintf(os.Stderr, "Error: -name flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	gen := &Generator{
		Name:      *name,
		OutputDir: *outputDir,
		K:         *k,
		M:         *m,
		N:         *n,
	}
	path, err := gen.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully generated %s (K=%d M=%d N=%d)\n", path, *k, *m, *n)
}
