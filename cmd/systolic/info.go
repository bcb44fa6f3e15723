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
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajroetker/go-systolic/systolic"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the detected dispatch mode and CPU features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			title := cases.Title(language.English)
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Mode:         %s\n", title.String(systolic.CurrentMode().String()))
			fmt.Fprintf(w, "Workers:      %d\n", systolic.CurrentWorkers())
			fmt.Fprintf(w, "Column chunk: %d\n", systolic.ColumnChunk)
			fmt.Fprintf(w, "Min parallel: %d columns\n", systolic.MinParallelColumns)
			if systolic.NoParallelEnv() {
				fmt.Fprintln(w, "SYSTOLIC_NO_PARALLEL is set")
			}

			features := systolic.Features()
			if len(features) == 0 {
				fmt.Fprintln(w, "Features:     none reported for this architecture")
				return nil
			}
			fmt.Fprintln(w, "Features:")
			for _, f := range features {
				mark := "no"
				if f.Present {
					mark = "yes"
				}
				fmt.Fprintf(w, "  %-12s %-3s  %s\n", f.Name, mark, f.Note)
			}
			return nil
		},
	}
}
