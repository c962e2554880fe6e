// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package layoutfile declares a component tree from a YAML description:
//
//	title: Demo
//	blocks:
//	  - markdown:
//	      value: "# Hello"
//	  - row:
//	      children:
//	        - markdown: {value_file: notes.md}
//	        - dataframe: {headers: [a, b], value: [[1, 2]]}
//
// Every entry of a block list is a single-key map from block type to its props.
package layoutfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wavetermdev/waveblocks/pkg/blocks"
	"github.com/wavetermdev/waveblocks/pkg/components"
	"github.com/wavetermdev/waveblocks/pkg/util/logutil"
	"github.com/wavetermdev/waveblocks/pkg/util/utilfn"
	"github.com/wavetermdev/waveblocks/pkg/utilds"
	"gopkg.in/yaml.v3"
)

type BlockEntry map[string]map[string]any

type LayoutFile struct {
	Title  string       `yaml:"title"`
	Css    string       `yaml:"css"`
	Blocks []BlockEntry `yaml:"blocks"`

	// relative value_file paths resolve against this dir
	BaseDir string `yaml:"-"`
}

type markdownProps struct {
	blocks.BaseOpts
	Value           *string                      `json:"value"`
	ValueFile       string                       `json:"value_file"`
	RTL             bool                         `json:"rtl"`
	LatexDelimiters *[]components.LatexDelimiter `json:"latex_delimiters"`
}

type dataframeProps struct {
	blocks.BaseOpts
	Value           any                          `json:"value"`
	Headers         []string                     `json:"headers"`
	RowCount        *int                         `json:"row_count"`
	FixedRows       bool                         `json:"fixed_rows"`
	ColCount        *int                         `json:"col_count"`
	FixedCols       bool                         `json:"fixed_cols"`
	Datatype        []string                     `json:"datatype"`
	LatexDelimiters *[]components.LatexDelimiter `json:"latex_delimiters"`
	Label           string                       `json:"label"`
	Height          int                          `json:"height"`
	Wrap            bool                         `json:"wrap"`
	NoLineBreaks    bool                         `json:"no_line_breaks"`
	ColumnWidths    []any                        `json:"column_widths"`
	Interactive     *bool                        `json:"interactive"`
}

type layoutProps struct {
	blocks.BaseOpts
	Variant  string       `json:"variant"`
	Children []BlockEntry `json:"children"`
}

func Parse(data []byte) (*LayoutFile, error) {
	var lf LayoutFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, utilds.MakeCodedError(utilds.ErrCode_Layout, fmt.Errorf("parsing layout: %w", err))
	}
	return &lf, nil
}

func ReadFile(path string) (*LayoutFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utilds.MakeCodedError(utilds.ErrCode_Layout, err)
	}
	lf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	lf.BaseDir = filepath.Dir(path)
	return lf, nil
}

type declarer struct {
	lf  *LayoutFile
	err error
}

func (d *declarer) setErr(err error) {
	if d.err == nil {
		d.err = err
	}
}

func decodeProps(blockType string, props map[string]any, out any) error {
	unused, err := utilfn.DoWeakMapStructure(out, props)
	if err != nil {
		return utilds.MakeSubCodedError(utilds.ErrCode_Layout, blockType, fmt.Errorf("%s: %w", blockType, err))
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return utilds.SubErrorf(utilds.ErrCode_Layout, blockType, "%s: unknown props %s", blockType, strings.Join(unused, ", "))
	}
	return nil
}

func (d *declarer) declareList(entries []BlockEntry) {
	for _, entry := range entries {
		if d.err != nil {
			return
		}
		if len(entry) != 1 {
			d.setErr(utilds.Errorf(utilds.ErrCode_Layout, "block entry must have exactly one type key, got %d", len(entry)))
			return
		}
		for blockType, props := range entry {
			d.declareBlock(blockType, props)
		}
	}
}

func (d *declarer) declareBlock(blockType string, props map[string]any) {
	logutil.DevPrintf("[layoutfile] declare %s\n", blockType)
	switch blockType {
	case components.BlockName_Markdown:
		d.declareMarkdown(props)
	case components.BlockName_Dataframe:
		d.declareDataframe(props)
	case blocks.BlockName_Row, blocks.BlockName_Column, blocks.BlockName_Group:
		d.declareLayout(blockType, props)
	default:
		d.setErr(utilds.SubErrorf(utilds.ErrCode_Layout, blockType, "unknown block type %q", blockType))
	}
}

func (d *declarer) resolvePath(path string) string {
	if filepath.IsAbs(path) || d.lf.BaseDir == "" {
		return path
	}
	return filepath.Join(d.lf.BaseDir, path)
}

func (d *declarer) declareMarkdown(props map[string]any) {
	var p markdownProps
	if err := decodeProps(components.BlockName_Markdown, props, &p); err != nil {
		d.setErr(err)
		return
	}
	opts := components.MarkdownOpts{BaseOpts: p.BaseOpts, RTL: p.RTL}
	if p.LatexDelimiters != nil {
		opts.LatexDelimiters = *p.LatexDelimiters
		if opts.LatexDelimiters == nil {
			opts.LatexDelimiters = []components.LatexDelimiter{}
		}
	}
	if p.Value != nil && p.ValueFile != "" {
		d.setErr(utilds.SubErrorf(utilds.ErrCode_Layout, components.BlockName_Markdown, "markdown: value and value_file are exclusive"))
		return
	}
	if p.Value != nil {
		opts.Value = blocks.Literal(*p.Value)
	}
	if p.ValueFile != "" {
		path := d.resolvePath(p.ValueFile)
		opts.Value = blocks.DeferredErr(func() (string, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return "", err
			}
			return string(data), nil
		})
	}
	components.NewMarkdown(opts)
}

func (d *declarer) declareDataframe(props map[string]any) {
	var p dataframeProps
	if err := decodeProps(components.BlockName_Dataframe, props, &p); err != nil {
		d.setErr(err)
		return
	}
	opts := components.DataframeOpts{
		BaseOpts:     p.BaseOpts,
		Headers:      p.Headers,
		Datatype:     p.Datatype,
		Label:        p.Label,
		Height:       p.Height,
		Wrap:         p.Wrap,
		NoLineBreaks: p.NoLineBreaks,
		ColumnWidths: p.ColumnWidths,
		Interactive:  p.Interactive,
	}
	if p.RowCount != nil {
		opts.RowCount = &components.Count{N: *p.RowCount, Mode: countMode(p.FixedRows)}
	}
	if p.ColCount != nil {
		opts.ColCount = &components.Count{N: *p.ColCount, Mode: countMode(p.FixedCols)}
	}
	if p.LatexDelimiters != nil {
		opts.LatexDelimiters = *p.LatexDelimiters
		if opts.LatexDelimiters == nil {
			opts.LatexDelimiters = []components.LatexDelimiter{}
		}
	}
	value := p.Value
	if path, ok := value.(string); ok {
		value = d.resolvePath(path)
	}
	opts.Value = blocks.Literal(value)
	if _, err := components.NewDataframe(opts); err != nil {
		d.setErr(err)
	}
}

func countMode(fixed bool) string {
	if fixed {
		return components.CountMode_Fixed
	}
	return components.CountMode_Dynamic
}

func (d *declarer) declareLayout(blockType string, props map[string]any) {
	var p layoutProps
	if err := decodeProps(blockType, props, &p); err != nil {
		d.setErr(err)
		return
	}
	fn := func() { d.declareList(p.Children) }
	switch blockType {
	case blocks.BlockName_Row:
		blocks.RowWithOpts(p.Variant, p.BaseOpts, fn)
	case blocks.BlockName_Column:
		blocks.ColumnWithOpts(p.Variant, p.BaseOpts, fn)
	default:
		blocks.GroupWithOpts(p.BaseOpts, fn)
	}
}

// Declare builds the component tree described by lf in a new session.
func (lf *LayoutFile) Declare() (*blocks.Blocks, error) {
	d := &declarer{lf: lf}
	root := blocks.DeclareWithOpts(blocks.BlocksOpts{Title: lf.Title, Css: lf.Css}, func() {
		d.declareList(lf.Blocks)
	})
	if d.err != nil {
		return nil, d.err
	}
	return root, nil
}
