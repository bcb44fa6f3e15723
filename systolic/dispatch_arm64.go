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

//go:build arm64

package systolic

import "golang.org/x/sys/cpu"

// Features lists the ARM capabilities relevant to int8 multiply-accumulate.
func Features() []Feature {
	return []Feature{
		{Name: "ASIMD", Present: cpu.ARM64.HasASIMD, Note: "NEON baseline"},
		{Name: "ASIMDDP", Present: cpu.ARM64.HasASIMDDP, Note: "int8 dot product"},
		{Name: "SVE", Present: cpu.ARM64.HasSVE},
		{Name: "SVE2", Present: cpu.ARM64.HasSVE2},
		{Name: "ATOMICS", Present: cpu.ARM64.HasATOMICS, Note: "LSE"},
	}
}
