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
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// app holds state shared by every subcommand.
type app struct {
	logLevel  string
	logFormat string
	logFile   string

	logger  *slog.Logger
	logSink io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "systolic",
		Short:         "Weight-stationary systolic int8 matrix multiplication",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogging(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.closeLogging()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")
	flags.StringVar(&a.logFile, "log-file", "", "Write logs to this file instead of stderr")

	cmd.AddCommand(newRunCmd(a), newEstimateCmd(), newInfoCmd())
	return cmd
}

func (a *app) setupLogging(stderr io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	w := stderr
	if a.logFile != "" {
		f, err := os.Create(a.logFile)
		if err != nil {
			return fmt.Errorf("--log-file: %w", err)
		}
		w, a.logSink = f, f
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(a.logFormat) {
	case "text":
		a.logger = slog.New(slog.NewTextHandler(w, opts))
	case "json":
		a.logger = slog.New(slog.NewJSONHandler(w, opts))
	default:
		a.closeLogging()
		return fmt.Errorf("--log-format: unknown format %q (want text|json)", a.logFormat)
	}
	return nil
}

func (a *app) closeLogging() error {
	if a.logSink == nil {
		return nil
	}
	err := a.logSink.Close()
	a.logSink = nil
	return err
}
