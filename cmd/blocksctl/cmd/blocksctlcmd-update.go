// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wavetermdev/waveblocks/pkg/blocks"
	"github.com/wavetermdev/waveblocks/pkg/components"
	"github.com/wavetermdev/waveblocks/pkg/util/utilfn"
)

var updateValue string
var updateClearValue bool
var updateVisible bool
var updateRTL bool
var updateDelims string

var updateCmd = &cobra.Command{
	Use:   "update [--value str | --clear-value] [--visible] [--rtl] [--latex json]",
	Short: "Print a markdown update payload; flags not given stay unchanged",
	Args:  cobra.NoArgs,
	RunE:  runUpdateCmd,
}

func init() {
	updateCmd.Flags().StringVar(&updateValue, "value", "", "new value")
	updateCmd.Flags().BoolVar(&updateClearValue, "clear-value", false, "set the value to null")
	updateCmd.Flags().BoolVar(&updateVisible, "visible", true, "visibility")
	updateCmd.Flags().BoolVar(&updateRTL, "rtl", false, "right-to-left text")
	updateCmd.Flags().StringVar(&updateDelims, "latex", "", `latex delimiters as json, e.g. '[{"left":"$$","right":"$$","display":true}]'`)
	rootCmd.AddCommand(updateCmd)
}

func runUpdateCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	var opts components.MarkdownUpdateOpts
	if flags.Changed("value") && updateClearValue {
		return fmt.Errorf("--value and --clear-value are exclusive")
	}
	if flags.Changed("value") {
		opts.Value = blocks.Set(blocks.Ptr(updateValue))
	}
	if updateClearValue {
		opts.Value = blocks.Set[*string](nil)
	}
	if flags.Changed("visible") {
		opts.Visible = blocks.Set(updateVisible)
	}
	if flags.Changed("rtl") {
		opts.RTL = blocks.Set(updateRTL)
	}
	if flags.Changed("latex") {
		var delims []components.LatexDelimiter
		if err := json.Unmarshal([]byte(updateDelims), &delims); err != nil {
			return fmt.Errorf("parsing --latex: %w", err)
		}
		opts.LatexDelimiters = blocks.Set(delims)
	}
	out, err := utilfn.MarshalIndentNoHTMLString(components.MarkdownUpdate(opts), "", "  ")
	if err != nil {
		return err
	}
	WriteStdout("%s\n", out)
	return nil
}
