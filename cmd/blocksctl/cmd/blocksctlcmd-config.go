// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wavetermdev/waveblocks/pkg/layoutfile"
	"github.com/wavetermdev/waveblocks/pkg/util/utilfn"
)

var configNoLoad bool
var configCompact bool

var configCmd = &cobra.Command{
	Use:   "config [--noload] [--compact] layout.yaml",
	Short: "Declare the layout file and print its serialized config",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigCmd,
}

func init() {
	configCmd.Flags().BoolVar(&configNoLoad, "noload", false, "do not resolve deferred values (value_file) before printing")
	configCmd.Flags().BoolVar(&configCompact, "compact", false, "print compact JSON")
	rootCmd.AddCommand(configCmd)
}

func runConfigCmd(cmd *cobra.Command, args []string) error {
	lf, err := layoutfile.ReadFile(args[0])
	if err != nil {
		return err
	}
	root, err := lf.Declare()
	if err != nil {
		return fmt.Errorf("declaring %s: %w", args[0], err)
	}
	if !configNoLoad {
		if err := root.Load(); err != nil {
			return err
		}
	}
	configFile := root.GetConfigFile()
	if configCompact {
		barr, err := json.Marshal(configFile)
		if err != nil {
			return err
		}
		WriteStdout("%s\n", barr)
		return nil
	}
	out, err := utilfn.MarshalIndentNoHTMLString(configFile, "", "  ")
	if err != nil {
		return err
	}
	WriteStdout("%s\n", out)
	return nil
}
