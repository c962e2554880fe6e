// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package components

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavetermdev/waveblocks/pkg/blocks"
	"github.com/wavetermdev/waveblocks/pkg/utilds"
)

func makeDetachedMarkdown(opts MarkdownOpts) *Markdown {
	opts.NoRender = true
	return NewMarkdown(opts)
}

func TestMarkdownPostprocess(t *testing.T) {
	md := makeDetachedMarkdown(MarkdownOpts{})
	assert.Nil(t, md.Postprocess(nil))

	out := md.Postprocess(blocks.Ptr("    # Title\n      sub\n    end"))
	require.NotNil(t, out)
	assert.Equal(t, "# Title\n  sub\nend", *out)

	out = md.Postprocess(blocks.Ptr("# Title\n  indented"))
	assert.Equal(t, "# Title\n  indented", *out)

	out = md.Postprocess(blocks.Ptr("\n    a\n      b\n    "))
	assert.Equal(t, "\na\n  b\n", *out, "blank edge lines are kept")
}

func TestMarkdownAsExample(t *testing.T) {
	md := makeDetachedMarkdown(MarkdownOpts{})
	assert.Equal(t, "", md.AsExample(nil))
	assert.Equal(t, "", md.AsExample(blocks.Ptr("")))
	assert.Equal(t, "hi", md.AsExample(blocks.Ptr("  hi")))
}

func TestMarkdownPreprocess(t *testing.T) {
	md := makeDetachedMarkdown(MarkdownOpts{})
	structured := map[string]any{"a": []int{1, 2}}
	for _, x := range []any{nil, "  text", 42, 3.5, structured} {
		assert.Equal(t, x, md.Preprocess(x))
	}
}

func TestMarkdownFixedInfo(t *testing.T) {
	md := makeDetachedMarkdown(MarkdownOpts{})
	assert.Equal(t, "# Hello!", md.ExampleInputs())
	assert.Equal(t, map[string]any{"type": "string"}, md.ApiInfo())
}

func TestMarkdownDefaults(t *testing.T) {
	md := makeDetachedMarkdown(MarkdownOpts{})
	assert.Equal(t, []LatexDelimiter{{Left: "$", Right: "$", Display: false}}, md.LatexDelimiters)
	assert.False(t, md.RTL)
	assert.True(t, md.Visible)
	require.NotNil(t, md.Value)
	assert.Equal(t, "", *md.Value)

	disabled := makeDetachedMarkdown(MarkdownOpts{LatexDelimiters: []LatexDelimiter{}})
	assert.Empty(t, disabled.LatexDelimiters)
	assert.NotNil(t, disabled.LatexDelimiters)
}

func TestMarkdownConfigStoresVerbatim(t *testing.T) {
	var md *Markdown
	blocks.Declare(func() {
		md = NewMarkdown(MarkdownOpts{
			Value:    blocks.Literal("# Title\n  indented"),
			RTL:      true,
			BaseOpts: blocks.BaseOpts{ElemId: "intro", ElemClasses: []string{"prose"}},
		})
	})
	assert.Equal(t, 1, md.Id)
	cfg := md.GetConfig()
	assert.Equal(t, "# Title\n  indented", cfg["value"])
	assert.Equal(t, true, cfg["rtl"])
	assert.Equal(t, DefaultMarkdownDelimiters(), cfg["latex_delimiters"])
	assert.Equal(t, true, cfg["visible"])
	assert.Equal(t, "intro", cfg["elem_id"])
	assert.Equal(t, []string{"prose"}, cfg["elem_classes"])
	assert.Equal(t, BlockName_Markdown, cfg["name"])

	barr, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(barr), `"latex_delimiters":[{"left":"$","right":"$","display":false}]`)
}

func TestMarkdownDeferredValue(t *testing.T) {
	calls := 0
	var md *Markdown
	root := blocks.Declare(func() {
		md = NewMarkdown(MarkdownOpts{Value: blocks.Deferred(func() string {
			calls++
			return "# Loaded"
		})})
	})
	assert.Nil(t, md.GetConfig()["value"])
	require.NoError(t, root.Load())
	require.NoError(t, root.Load())
	assert.Equal(t, 1, calls)
	assert.Equal(t, "# Loaded", md.GetConfig()["value"])
}

func TestMarkdownUpdatePayload(t *testing.T) {
	u := MarkdownUpdate(MarkdownUpdateOpts{
		Value: blocks.Set(blocks.Ptr("x")),
		RTL:   blocks.Set(true),
	})
	assert.Equal(t, "update", u["__type__"])
	assert.Equal(t, "x", u["value"])
	assert.Equal(t, true, u["rtl"])
	assert.Equal(t, blocks.Unchanged, u["latex_delimiters"])
	assert.Equal(t, blocks.Unchanged, u["visible"])
	assert.True(t, u.IsUnchanged("visible"))

	cleared := MarkdownUpdate(MarkdownUpdateOpts{Value: blocks.Set[*string](nil), Visible: blocks.Set(false)})
	v, ok := cleared["value"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.False(t, cleared.IsUnchanged("value"))
	assert.Equal(t, false, cleared["visible"])
}

func TestMarkdownApplyUpdate(t *testing.T) {
	md := makeDetachedMarkdown(MarkdownOpts{Value: blocks.Literal("old")})
	err := md.ApplyUpdate(MarkdownUpdate(MarkdownUpdateOpts{
		Value: blocks.Set(blocks.Ptr("new")),
		RTL:   blocks.Set(true),
	}))
	require.NoError(t, err)
	assert.Equal(t, "new", *md.Value)
	assert.True(t, md.RTL)
	assert.True(t, md.Visible)
	assert.Equal(t, DefaultMarkdownDelimiters(), md.LatexDelimiters)
}

func TestMarkdownApplyUpdateFromJSON(t *testing.T) {
	md := makeDetachedMarkdown(MarkdownOpts{Value: blocks.Literal("old")})
	payload := MarkdownUpdate(MarkdownUpdateOpts{
		Visible:         blocks.Set(false),
		LatexDelimiters: blocks.Set([]LatexDelimiter{{Left: "\\(", Right: "\\)", Display: false}}),
	})
	barr, err := json.Marshal(payload)
	require.NoError(t, err)
	decoded, err := blocks.DecodeUpdate(barr)
	require.NoError(t, err)
	require.NoError(t, md.ApplyUpdate(decoded))
	assert.False(t, md.Visible)
	assert.Equal(t, "old", *md.Value)
	assert.Equal(t, []LatexDelimiter{{Left: "\\(", Right: "\\)", Display: false}}, md.LatexDelimiters)

	require.NoError(t, md.ApplyUpdate(MarkdownUpdate(MarkdownUpdateOpts{Value: blocks.Set[*string](nil)})))
	assert.Nil(t, md.Value)
	assert.Nil(t, md.GetConfig()["value"])
}

func TestMarkdownApplyUpdateRejects(t *testing.T) {
	md := makeDetachedMarkdown(MarkdownOpts{Value: blocks.Literal("old")})
	err := md.ApplyUpdate(blocks.Update{"value": "x"})
	require.Error(t, err)
	assert.Equal(t, utilds.ErrCode_Update, utilds.GetErrorCode(err))

	bad := blocks.MakeUpdate()
	bad["value"] = "new"
	bad["rtl"] = "not-a-bool"
	require.Error(t, md.ApplyUpdate(bad))
	assert.Equal(t, "old", *md.Value, "failed update must not apply any field")
}
