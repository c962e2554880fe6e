// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/wavetermdev/waveblocks/pkg/apischema"
	"github.com/wavetermdev/waveblocks/pkg/blocks"
	"github.com/wavetermdev/waveblocks/pkg/components"
	"github.com/wavetermdev/waveblocks/pkg/util/utilfn"
)

var schemaOutFile string

var schemaCmd = &cobra.Command{
	Use:   "schema [-o file]",
	Short: "Print JSON schemas of the config file and component value types",
	Args:  cobra.NoArgs,
	RunE:  runSchemaCmd,
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaOutFile, "output", "o", "", "write schemas to file (only if changed)")
	rootCmd.AddCommand(schemaCmd)
}

func runSchemaCmd(cmd *cobra.Command, args []string) error {
	barr, err := apischema.MarshalSchemas(apischema.SchemaSet{
		"configfile":     &blocks.ConfigFile{},
		"latexdelimiter": &components.LatexDelimiter{},
		"dataframedata":  &components.DataframeData{},
	})
	if err != nil {
		return err
	}
	if schemaOutFile == "" {
		WriteStdout("%s\n", barr)
		return nil
	}
	written, err := utilfn.WriteFileIfDifferent(schemaOutFile, barr)
	if err != nil {
		return err
	}
	if !written {
		WriteStderr("no changes to %s\n", schemaOutFile)
	}
	return nil
}
