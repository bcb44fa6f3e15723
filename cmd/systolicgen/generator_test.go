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
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNames(t *testing.T) {
	tests := []struct {
		name      string
		wantPkg   string
		wantIdent string
	}{
		{"shape128", "shape128", "Shape128"},
		{"tile-small", "tilesmall", "TileSmall"},
		{"wide_tile", "widetile", "WideTile"},
		{"Deep Narrow", "deepnarrow", "DeepNarrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Generator{Name: tt.name}
			if got := g.PackageName(); got != tt.wantPkg {
				t.Errorf("PackageName() = %q, want %q", got, tt.wantPkg)
			}
			if got := g.Identifier(); got != tt.wantIdent {
				t.Errorf("Identifier() = %q, want %q", got, tt.wantIdent)
			}
		})
	}
}

func TestSource(t *testing.T) {
	g := &Generator{Name: "tile-small", K: 4, M: 3, N: 2}
	src, err := g.Source()
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, OutputFile, src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}
	if file.Name.Name != "tilesmall" {
		t.Errorf("package = %q, want tilesmall", file.Name.Name)
	}

	consts := map[string]string{}
	funcs := map[string]bool{}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.CONST {
				continue
			}
			for _, spec := range d.Specs {
				vs := spec.(*ast.ValueSpec)
				if lit, ok := vs.Values[0].(*ast.BasicLit); ok {
					consts[vs.Names[0].Name] = lit.Value
				}
			}
		case *ast.FuncDecl:
			funcs[d.Name.Name] = true
		}
	}
	for name, want := range map[string]string{"K": "4", "M": "3", "N": "2"} {
		if consts[name] != want {
			t.Errorf("const %s = %q, want %q", name, consts[name], want)
		}
	}
	for _, fn := range []string{"NewEngine", "MatMul", "Rows"} {
		if !funcs[fn] {
			t.Errorf("generated source lacks func %s", fn)
		}
	}

	text := string(src)
	if !strings.HasPrefix(text, "// Code generated by systolicgen. DO NOT EDIT.") {
		t.Errorf("missing generated-code header:\n%s", text)
	}
	if !strings.Contains(text, "var TileSmall = systolic.Config{K: K, M: M, N: N}") {
		t.Errorf("missing config variable:\n%s", text)
	}
	if strings.Contains(text, "MaxSafeDepth") {
		t.Errorf("unexpected overflow note for K=4:\n%s", text)
	}
}

func TestSourceDeepShapeNote(t *testing.T) {
	g := &Generator{Name: "deep", K: 1 << 20, M: 1, N: 1}
	src, err := g.Source()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(src), "K exceeds systolic.MaxSafeDepth") {
		t.Errorf("missing overflow note:\n%s", src)
	}
}

func TestSourceErrors(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{"EmptyName", Generator{Name: "--", K: 1, M: 1, N: 1}},
		{"LeadingDigit", Generator{Name: "128shape", K: 1, M: 1, N: 1}},
		{"ZeroK", Generator{Name: "ok", K: 0, M: 1, N: 1}},
		{"NegativeN", Generator{Name: "ok", K: 1, M: 1, N: -4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.gen.Source(); err == nil {
				t.Errorf("Source() for %+v succeeded, want error", tt.gen)
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shape8")
	g := &Generator{Name: "shape8", OutputDir: dir, K: 8, M: 8, N: 8}
	path, err := g.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if path != filepath.Join(dir, OutputFile) {
		t.Errorf("Run() path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "package shape8") {
		t.Errorf("written file is not package shape8:\n%s", data)
	}
}
