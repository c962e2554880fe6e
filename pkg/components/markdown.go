// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package components

import (
	"github.com/wavetermdev/waveblocks/pkg/blocks"
	"github.com/wavetermdev/waveblocks/pkg/util/utilfn"
	"github.com/wavetermdev/waveblocks/pkg/utilds"
)

const BlockName_Markdown = "markdown"

const Event_Change = "change"

const MarkdownExampleInput = "# Hello!"

// LatexDelimiter tells the renderer which delimiters enclose LaTeX expressions.
// Display renders the expression on its own line.
type LatexDelimiter struct {
	Left    string `json:"left"`
	Right   string `json:"right"`
	Display bool   `json:"display"`
}

// DefaultMarkdownDelimiters renders $...$ inline.
func DefaultMarkdownDelimiters() []LatexDelimiter {
	return []LatexDelimiter{{Left: "$", Right: "$", Display: false}}
}

type MarkdownOpts struct {
	blocks.BaseOpts
	Value blocks.Initial[string] `json:"-"`
	RTL   bool                   `json:"rtl,omitempty"`
	// nil means DefaultMarkdownDelimiters, an empty slice disables LaTeX
	LatexDelimiters []LatexDelimiter `json:"latex_delimiters,omitempty"`
}

// Markdown displays text rendered as Markdown (and LaTeX within the delimiters).
// It never accepts user input.
type Markdown struct {
	blocks.BlockBase
	Value           *string
	RTL             bool
	LatexDelimiters []LatexDelimiter

	initial blocks.Initial[string]
}

func NewMarkdown(opts MarkdownOpts) *Markdown {
	m := &Markdown{
		RTL:             opts.RTL,
		LatexDelimiters: opts.LatexDelimiters,
		initial:         opts.Value,
	}
	if m.LatexDelimiters == nil {
		m.LatexDelimiters = DefaultMarkdownDelimiters()
	}
	if !opts.Value.IsDeferred() {
		m.Value = blocks.Ptr(opts.Value.LiteralValue())
	}
	blocks.InitBase(m, BlockName_Markdown, opts.BaseOpts)
	return m
}

// LoadInitial evaluates a deferred initial value. Literal values are left alone.
func (m *Markdown) LoadInitial() error {
	if !m.initial.IsDeferred() {
		return nil
	}
	val, err := m.initial.Resolve()
	if err != nil {
		return err
	}
	m.Value = &val
	return nil
}

// Preprocess is the identity: Markdown has no user input to convert.
func (m *Markdown) Preprocess(x any) any {
	return x
}

// Postprocess removes the indentation common to all non-blank lines.
// Leading and trailing blank lines are kept: "\n    # Title\n" becomes "\n# Title\n".
func (m *Markdown) Postprocess(y *string) *string {
	if y == nil {
		return nil
	}
	rtn := utilfn.Dedent(*y)
	return &rtn
}

func (m *Markdown) AsExample(input *string) string {
	rtn := m.Postprocess(input)
	if rtn == nil {
		return ""
	}
	return *rtn
}

func (m *Markdown) ExampleInputs() any {
	return MarkdownExampleInput
}

func (m *Markdown) ApiInfo() map[string]any {
	return map[string]any{"type": "string"}
}

func (m *Markdown) Events() []string {
	return []string{Event_Change}
}

func (m *Markdown) GetConfig() map[string]any {
	rtn := m.BaseConfig()
	var value any
	if m.Value != nil {
		value = *m.Value
	}
	rtn["value"] = value
	rtn["rtl"] = m.RTL
	rtn["latex_delimiters"] = m.LatexDelimiters
	rtn["events"] = m.Events()
	return rtn
}

type MarkdownUpdateOpts struct {
	Visible blocks.Opt[bool]
	// Set(nil) clears the value
	Value           blocks.Opt[*string]
	RTL             blocks.Opt[bool]
	LatexDelimiters blocks.Opt[[]LatexDelimiter]
}

// MarkdownUpdate builds an update payload. Fields not set in opts carry blocks.Unchanged.
func MarkdownUpdate(opts MarkdownUpdateOpts) blocks.Update {
	u := blocks.MakeUpdate()
	u["visible"] = opts.Visible.PayloadVal()
	u["value"] = blocks.Unchanged
	if val, ok := opts.Value.Get(); ok {
		if val == nil {
			u["value"] = nil
		} else {
			u["value"] = *val
		}
	}
	u["rtl"] = opts.RTL.PayloadVal()
	u["latex_delimiters"] = opts.LatexDelimiters.PayloadVal()
	return u
}

// ApplyUpdate replaces the fields set in u.
// Fields are decoded before any is applied, so a bad payload changes nothing.
func (m *Markdown) ApplyUpdate(u blocks.Update) error {
	if !u.IsUpdate() {
		return utilds.Errorf(utilds.ErrCode_Update, "%s: payload is not an update", m)
	}
	var visible, rtl bool
	var value *string
	var delims []LatexDelimiter
	hasVisible, err := blocks.GetUpdateField(u, "visible", &visible)
	if err != nil {
		return err
	}
	hasValue, err := blocks.GetUpdateField(u, "value", &value)
	if err != nil {
		return err
	}
	hasRTL, err := blocks.GetUpdateField(u, "rtl", &rtl)
	if err != nil {
		return err
	}
	hasDelims, err := blocks.GetUpdateField(u, "latex_delimiters", &delims)
	if err != nil {
		return err
	}
	if hasVisible {
		m.Visible = visible
	}
	if hasValue {
		m.Value = value
	}
	if hasRTL {
		m.RTL = rtl
	}
	if hasDelims {
		if delims == nil {
			delims = DefaultMarkdownDelimiters()
		}
		m.LatexDelimiters = delims
	}
	return nil
}
