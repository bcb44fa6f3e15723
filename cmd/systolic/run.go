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
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-systolic/systolic"
	"github.com/ajroetker/go-systolic/systolic/contrib/matrix"
)

type runOptions struct {
	weights     string
	activations string
	out         string
	k, m, n     int
	schedule    string
	workers     int
}

func newRunCmd(a *app) *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Multiply an activation matrix by a weight matrix",
		Long: `Run loads a K × N weight matrix and an M × K activation matrix, streams
the activations through the array and writes the M × N product one row per
line. Dimensions default to the shapes of the input files; -k, -m and -n
pin them, and a file that disagrees is rejected before any row is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, o)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.weights, "weights", "", "Weight matrix file, K × N (required)")
	flags.StringVar(&o.activations, "activations", "", "Activation matrix file, M × K (required)")
	flags.StringVarP(&o.out, "out", "o", "-", "Output file, - for stdout")
	addShapeFlags(flags, &o.k, &o.m, &o.n, " (default: from the input files)")
	flags.StringVar(&o.schedule, "schedule", systolic.ScheduleWavefront.String(), "Activation feed schedule (wavefront, rowsweep)")
	flags.IntVar(&o.workers, "workers", 0, "Column workers: 0 picks automatically, 1 forces the sequential path")
	_ = cmd.MarkFlagRequired("weights")
	_ = cmd.MarkFlagRequired("activations")
	return cmd
}

func (a *app) run(cmd *cobra.Command, o runOptions) error {
	schedule, err := systolic.ParseSchedule(o.schedule)
	if err != nil {
		return err
	}

	var (
		w   [][]systolic.Weight
		act [][]systolic.Activation
		g   errgroup.Group
	)
	g.Go(func() (err error) {
		w, err = readMatrix(o.weights, matrix.ReadWeights)
		return err
	})
	g.Go(func() (err error) {
		act, err = readMatrix(o.activations, matrix.ReadActivations)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	cfg := inferConfig(o, w, act)
	a.logger.Debug("inputs loaded", "weights", o.weights, "activations", o.activations, "config", cfg.String())

	opts := []systolic.Option{systolic.WithSchedule(schedule), systolic.WithLogger(a.logger)}
	switch {
	case o.workers == 1:
		opts = append(opts, systolic.WithSequential())
	case o.workers > 1:
		opts = append(opts, systolic.WithWorkers(o.workers))
	}
	eng, err := systolic.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.LoadWeights(w); err != nil {
		return err
	}
	if err := eng.LoadActivations(act); err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd.OutOrStdout(), o.out)
	if err != nil {
		return err
	}
	sink := matrix.NewWriterSink(out)
	if err := eng.Compute(sink); err != nil {
		closeOut()
		return err
	}
	if err := sink.Flush(); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

// addShapeFlags registers -k, -m and -n.
func addShapeFlags(flags *pflag.FlagSet, k, m, n *int, note string) {
	flags.IntVarP(k, "k", "k", *k, "Contraction depth K"+note)
	flags.IntVarP(m, "m", "m", *m, "Output rows M"+note)
	flags.IntVarP(n, "n", "n", *n, "Output columns N"+note)
}

// inferConfig takes K and N from the weight file and M from the activation
// file unless a flag pins them.
func inferConfig(o runOptions, w [][]systolic.Weight, act [][]systolic.Activation) systolic.Config {
	k, n := matrix.Shape(w)
	m, _ := matrix.Shape(act)
	if o.k > 0 {
		k = o.k
	}
	if o.m > 0 {
		m = o.m
	}
	if o.n > 0 {
		n = o.n
	}
	return systolic.Config{K: k, M: m, N: n}
}

func readMatrix[T matrix.Element](path string, read func(io.Reader, string) ([][]T, error)) ([][]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f, path)
}

func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "-" || path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("--out: %w", err)
	}
	return f, f.Close, nil
}
