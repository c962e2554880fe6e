// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/wavetermdev/waveblocks/pkg/blocksbase"
)

var versionVerbose bool

var versionCmd = &cobra.Command{
	Use:   "version [-v]",
	Short: "Print the version number of blocksctl",
	RunE:  runVersionCmd,
}

func init() {
	versionCmd.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "Display full version information")
	rootCmd.AddCommand(versionCmd)
}

func runVersionCmd(cmd *cobra.Command, args []string) error {
	if !versionVerbose {
		WriteStdout("blocksctl v%s\n", blocksbase.BlocksVersion)
		return nil
	}
	WriteStdout("v%s (%s)\n", blocksbase.BlocksVersion, blocksbase.BuildTime)
	WriteStdout("config-version: %s\n", blocksbase.GetConfigVersion())
	WriteStdout("dev-mode:       %v\n", blocksbase.IsDevMode())
	return nil
}
