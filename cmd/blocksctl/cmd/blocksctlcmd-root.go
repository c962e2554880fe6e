// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wavetermdev/waveblocks/pkg/blocksbase"
)

var (
	rootCmd = &cobra.Command{
		Use:               "blocksctl",
		Short:             "Declare component trees and inspect their serialized configs",
		Long:              `blocksctl declares component trees from YAML layout files and prints the configs, update payloads and schemas a renderer consumes.`,
		SilenceUsage:      true,
		PersistentPreRunE: preRunLoadEnv,
	}
)

var WrappedStdin io.Reader = os.Stdin
var WrappedStdout io.Writer = os.Stdout
var WrappedStderr io.Writer = os.Stderr

func WriteStderr(fmtStr string, args ...any) {
	WrappedStderr.Write([]byte(fmt.Sprintf(fmtStr, args...)))
}

func WriteStdout(fmtStr string, args ...any) {
	WrappedStdout.Write([]byte(fmt.Sprintf(fmtStr, args...)))
}

func preRunLoadEnv(cmd *cobra.Command, args []string) error {
	if err := blocksbase.LoadEnv(); err != nil {
		return fmt.Errorf("loading env: %w", err)
	}
	return nil
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		WriteStderr("[error] %v\n", err)
		os.Exit(1)
	}
}
