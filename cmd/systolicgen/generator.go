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

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/imports"

	"github.com/ajroetker/go-systolic/systolic"
)

// OutputFile is the name of the file Run writes inside OutputDir.
const OutputFile = "shape.gen.go"

// Generator emits a shape package.
type Generator struct {
	Name      string // e.g. "shape128" or "tile-small"
	OutputDir string
	K, M, N   int
}

// nameParts splits a shape name on anything that is not a letter or digit.
func nameParts(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// PackageName returns the lower-cased, separator-free package name.
// E.g., "Tile-Small" -> "tilesmall"
func (g *Generator) PackageName() string {
	return strings.ToLower(strings.Join(nameParts(g.Name), ""))
}

// Identifier returns the exported Go identifier for the shape.
// E.g., "tile-small" -> "TileSmall", "wide_tile" -> "WideTile"
func (g *Generator) Identifier() string {
	title := cases.Title(language.English)
	var b strings.Builder
	for _, p := range nameParts(g.Name) {
		b.WriteString(title.String(p))
	}
	return b.String()
}

func (g *Generator) validate() error {
	pkg := g.PackageName()
	if pkg == "" {
		return fmt.Errorf("shape name %q has no letters or digits", g.Name)
	}
	if !unicode.IsLetter(rune(pkg[0])) {
		return fmt.Errorf("shape name %q must start with a letter", g.Name)
	}
	cfg := systolic.Config{K: g.K, M: g.M, N: g.N}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return nil
}

// Source returns the formatted package source.
func (g *Generator) Source() ([]byte, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	pkg, ident := g.PackageName(), g.Identifier()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by systolicgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "// Package %s pins the systolic grid to K=%d M=%d N=%d at build time.\n", pkg, g.K, g.M, g.N)
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	fmt.Fprintf(&buf, "import \"github.com/ajroetker/go-systolic/systolic\"\n\n")

	fmt.Fprintf(&buf, "// Grid geometry.\n")
	fmt.Fprintf(&buf, "const (\n")
	fmt.Fprintf(&buf, "\tK = %d\n\tM = %d\n\tN = %d\n", g.K, g.M, g.N)
	fmt.Fprintf(&buf, ")\n\n")

	fmt.Fprintf(&buf, "// Element widths in bits.\n")
	fmt.Fprintf(&buf, "const (\n")
	fmt.Fprintf(&buf, "\tActivationBits = systolic.ActivationBits\n")
	fmt.Fprintf(&buf, "\tWeightBits = systolic.WeightBits\n")
	fmt.Fprintf(&buf, "\tPartialSumBits = systolic.PartialSumBits\n")
	fmt.Fprintf(&buf, ")\n\n")

	if g.K > systolic.MaxSafeDepth {
		fmt.Fprintf(&buf, "// K exceeds systolic.MaxSafeDepth; full-range operands can wrap the\n// accumulator.\n")
	}
	fmt.Fprintf(&buf, "// %s is the engine configuration for this shape.\n", ident)
	fmt.Fprintf(&buf, "var %s = systolic.Config{K: K, M: M, N: N}\n\n", ident)

	fmt.Fprintf(&buf, "type (\n")
	fmt.Fprintf(&buf, "\t// Weights is the stationary K × N matrix.\n\tWeights [K][N]systolic.Weight\n")
	fmt.Fprintf(&buf, "\t// Activations is the streamed M × K matrix.\n\tActivations [M][K]systolic.Activation\n")
	fmt.Fprintf(&buf, "\t// Output is the M × N product.\n\tOutput [M][N]systolic.PartialSum\n")
	fmt.Fprintf(&buf, ")\n\n")

	for _, t := range []struct{ typ, elem, rows string }{
		{"Weights", "systolic.Weight", "K"},
		{"Activations", "systolic.Activation", "M"},
		{"Output", "systolic.PartialSum", "M"},
	} {
		fmt.Fprintf(&buf, "// Rows returns the matrix as row slices aliasing the array.\n")
		fmt.Fprintf(&buf, "func (x *%s) Rows() [][]%s {\n", t.typ, t.elem)
		fmt.Fprintf(&buf, "\trows := make([][]%s, %s)\n", t.elem, t.rows)
		fmt.Fprintf(&buf, "\tfor i := range x {\n\t\trows[i] = x[i][:]\n\t}\n")
		fmt.Fprintf(&buf, "\treturn rows\n}\n\n")
	}

	fmt.Fprintf(&buf, "// NewEngine returns an engine sized for %s.\n", ident)
	fmt.Fprintf(&buf, "func NewEngine(opts ...systolic.Option) (*systolic.Engine, error) {\n")
	fmt.Fprintf(&buf, "\treturn systolic.New(%s, opts...)\n}\n\n", ident)

	fmt.Fprintf(&buf, "// MatMul computes a × w on a fresh engine.\n")
	fmt.Fprintf(&buf, "func MatMul(a *Activations, w *Weights, opts ...systolic.Option) (*Output, error) {\n")
	fmt.Fprintf(&buf, "\te, err := NewEngine(opts...)\n")
	fmt.Fprintf(&buf, "\tif err != nil {\n\t\treturn nil, err\n\t}\n")
	fmt.Fprintf(&buf, "\tdefer e.Close()\n\n")
	fmt.Fprintf(&buf, "\tif err := e.LoadWeights(w.Rows()); err != nil {\n\t\treturn nil, err\n\t}\n")
	fmt.Fprintf(&buf, "\tif err := e.LoadActivations(a.Rows()); err != nil {\n\t\treturn nil, err\n\t}\n\n")
	fmt.Fprintf(&buf, "\tout := new(Output)\n")
	fmt.Fprintf(&buf, "\terr = e.Compute(systolic.SinkFunc(func(k int, row []systolic.PartialSum) error {\n")
	fmt.Fprintf(&buf, "\t\tcopy(out[k][:], row)\n\t\treturn nil\n\t}))\n")
	fmt.Fprintf(&buf, "\tif err != nil {\n\t\treturn nil, err\n\t}\n")
	fmt.Fprintf(&buf, "\treturn out, nil\n}\n")

	formatted, err := imports.Process(OutputFile, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", pkg, err)
	}
	return formatted, nil
}

// Run writes the package source to OutputDir and returns the file path.
func (g *Generator) Run() (string, error) {
	src, err := g.Source()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(g.OutputDir, OutputFile)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
