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

	"github.com/ajroetker/go-systolic/systolic"
)

func newEstimateCmd() *cobra.Command {
	cfg := systolic.DefaultConfig()
	var schedule string
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print the cycle model for a grid geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			var schedules []systolic.Schedule
			if schedule == "all" {
				schedules = []systolic.Schedule{systolic.ScheduleWavefront, systolic.ScheduleRowSweep}
			} else {
				s, err := systolic.ParseSchedule(schedule)
				if err != nil {
					return err
				}
				schedules = []systolic.Schedule{s}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", cfg)
			for _, s := range schedules {
				st := systolic.EstimateCycles(cfg, s)
				fmt.Fprintf(w, "%s:\n", s)
				fmt.Fprintf(w, "  cycles:          %d\n", st.Cycles)
				fmt.Fprintf(w, "  first row cycle: %d\n", st.FirstRowCycle)
				fmt.Fprintf(w, "  row interval:    %d\n", st.RowInterval)
				fmt.Fprintf(w, "  MACs:            %d\n", st.MACs)
				fmt.Fprintf(w, "  utilization:     %.4f\n", st.Utilization())
			}
			if cfg.K > systolic.MaxSafeDepth {
				fmt.Fprintf(w, "warning: K=%d exceeds MaxSafeDepth=%d, sums may wrap\n", cfg.K, systolic.MaxSafeDepth)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addShapeFlags(flags, &cfg.K, &cfg.M, &cfg.N, "")
	flags.StringVar(&schedule, "schedule", "all", "Schedule to model (wavefront, rowsweep, all)")
	return cmd
}
