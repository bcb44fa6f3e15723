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

//go:build amd64

package systolic

import "golang.org/x/sys/cpu"

// Features lists the x86 capabilities relevant to int8 multiply-accumulate.
func Features() []Feature {
	return []Feature{
		{Name: "SSE2", Present: cpu.X86.HasSSE2, Note: "x86-64 baseline"},
		{Name: "SSE4.1", Present: cpu.X86.HasSSE41},
		{Name: "AVX2", Present: cpu.X86.HasAVX2, Note: "256-bit integer lanes"},
		{Name: "AVX512F", Present: cpu.X86.HasAVX512F},
		{Name: "AVX512BW", Present: cpu.X86.HasAVX512BW, Note: "byte/word lanes"},
		{Name: "AVX512VNNI", Present: cpu.X86.HasAVX512VNNI, Note: "int8 dot product"},
	}
}
