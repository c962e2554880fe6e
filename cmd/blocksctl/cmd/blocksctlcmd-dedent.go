// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wavetermdev/waveblocks/pkg/blocks"
	"github.com/wavetermdev/waveblocks/pkg/components"
)

var dedentCmd = &cobra.Command{
	Use:   "dedent [file]",
	Short: "Print markdown (file or stdin) the way a Markdown component postprocesses it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDedentCmd,
}

func init() {
	rootCmd.AddCommand(dedentCmd)
}

func runDedentCmd(cmd *cobra.Command, args []string) error {
	var barr []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		barr, err = io.ReadAll(WrappedStdin)
	} else {
		barr, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}
	md := components.NewMarkdown(components.MarkdownOpts{BaseOpts: blocks.BaseOpts{NoRender: true}})
	WriteStdout("%s", md.AsExample(blocks.Ptr(string(barr))))
	return nil
}
