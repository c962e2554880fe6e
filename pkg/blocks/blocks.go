// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package blocks

import (
	"log"

	"github.com/wavetermdev/waveblocks/pkg/blocksbase"
)

const BlockName_Blocks = "blocks"
const BlockName_Row = "row"
const BlockName_Column = "column"
const BlockName_Group = "group"

const ConfigMode_Blocks = "blocks"

type BlocksOpts struct {
	Title string `json:"title,omitempty"`
	Css   string `json:"css,omitempty"`
}

// Blocks is the root container of a declaration session.
type Blocks struct {
	ContainerBase
	Title string
	Css   string
}

func (b *Blocks) GetConfig() map[string]any {
	return b.BaseConfig()
}

// Layout is a row, column or group container.
type Layout struct {
	ContainerBase
	Variant string
}

func (l *Layout) GetConfig() map[string]any {
	rtn := l.BaseConfig()
	if l.Variant != "" {
		rtn["variant"] = l.Variant
	}
	return rtn
}

// Declare begins a new session, makes a fresh Blocks its root and runs fn with
// the session active on the calling goroutine.
func Declare(fn func()) *Blocks {
	return DeclareWithOpts(BlocksOpts{}, fn)
}

func DeclareWithOpts(opts BlocksOpts, fn func()) *Blocks {
	sess := MakeSession()
	root := &Blocks{Title: opts.Title, Css: opts.Css}
	InitBase(root, BlockName_Blocks, BaseOpts{NoRender: true})
	sess.Enter(root)
	defer func() {
		if depth := sess.Depth(); depth != 1 {
			log.Printf("[blocks] session %s ended at depth %d (unbalanced Enter/Exit)\n", sess.SessionId, depth)
		}
		sess.Exit()
	}()
	WithSession(sess, fn)
	return root
}

// GetSession returns the session this root belongs to.
func (b *Blocks) GetSession() *Session {
	return b.Session
}

// Load resolves the deferred initial values of every block in the session.
func (b *Blocks) Load() error {
	return b.Session.Load()
}

func makeLayout(blockName string, variant string, opts BaseOpts, fn func()) *Layout {
	l := &Layout{Variant: variant}
	InitBase(l, blockName, opts)
	s := l.Session
	if s == nil {
		// not rendered, children declared in fn attach wherever they would have anyway
		fn()
		return l
	}
	if err := s.Enter(l); err != nil {
		log.Printf("[blocks] cannot enter %s: %v\n", l, err)
		fn()
		return l
	}
	defer s.Exit()
	fn()
	return l
}

// Row declares a horizontal layout container; blocks declared in fn become its children.
func Row(fn func()) *Layout {
	return makeLayout(BlockName_Row, "", BaseOpts{}, fn)
}

func RowWithOpts(variant string, opts BaseOpts, fn func()) *Layout {
	return makeLayout(BlockName_Row, variant, opts, fn)
}

func Column(fn func()) *Layout {
	return makeLayout(BlockName_Column, "", BaseOpts{}, fn)
}

func ColumnWithOpts(variant string, opts BaseOpts, fn func()) *Layout {
	return makeLayout(BlockName_Column, variant, opts, fn)
}

func Group(fn func()) *Layout {
	return makeLayout(BlockName_Group, "", BaseOpts{}, fn)
}

func GroupWithOpts(opts BaseOpts, fn func()) *Layout {
	return makeLayout(BlockName_Group, "", opts, fn)
}

type ComponentConfig struct {
	Id    int            `json:"id"`
	Type  string         `json:"type"`
	Props map[string]any `json:"props"`
}

type LayoutNode struct {
	Id       int          `json:"id"`
	Children []LayoutNode `json:"children,omitempty"`
}

// ConfigFile is the serialized form of a whole declared tree.
type ConfigFile struct {
	Version    string            `json:"version"`
	Mode       string            `json:"mode"`
	SessionId  string            `json:"session_id"`
	Title      string            `json:"title,omitempty"`
	Css        string            `json:"css,omitempty"`
	Components []ComponentConfig `json:"components"`
	Layout     LayoutNode        `json:"layout"`
}

func makeLayoutNode(b Block) LayoutNode {
	node := LayoutNode{Id: b.GetBlockBase().Id}
	if c, ok := b.(Container); ok {
		for _, child := range c.GetChildren() {
			node.Children = append(node.Children, makeLayoutNode(child))
		}
	}
	return node
}

// GetConfigFile serializes every block of the session (ordered by id) and the layout tree.
func (b *Blocks) GetConfigFile() *ConfigFile {
	rtn := &ConfigFile{
		Version:    blocksbase.GetConfigVersion(),
		Mode:       ConfigMode_Blocks,
		Title:      b.Title,
		Css:        b.Css,
		Components: make([]ComponentConfig, 0),
		Layout:     makeLayoutNode(b),
	}
	if b.Session == nil {
		return rtn
	}
	rtn.SessionId = b.Session.SessionId
	for _, block := range b.Session.GetBlocks() {
		if block == Block(b) {
			continue
		}
		base := block.GetBlockBase()
		rtn.Components = append(rtn.Components, ComponentConfig{
			Id:    base.Id,
			Type:  base.BlockName,
			Props: block.GetConfig(),
		})
	}
	return rtn
}
