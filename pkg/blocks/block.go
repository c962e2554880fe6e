// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package blocks

import (
	"errors"
	"fmt"
)

const NoId = -1

var ErrNoSession = errors.New("no active declaration session")
var ErrAlreadyRendered = errors.New("block is already rendered")

// Block is anything that can be declared into a component tree.
type Block interface {
	GetBlockBase() *BlockBase
	GetConfig() map[string]any
}

// Container is a Block that holds child blocks.
type Container interface {
	Block
	AddChild(b Block)
	GetChildren() []Block
}

// Loader is implemented by blocks whose initial value is resolved when the session loads.
type Loader interface {
	Block
	LoadInitial() error
}

// BaseOpts are the options shared by every component.
type BaseOpts struct {
	Visible     *bool    `json:"visible,omitempty"` // nil means visible
	ElemId      string   `json:"elem_id,omitempty"`
	ElemClasses []string `json:"elem_classes,omitempty"`
	NoRender    bool     `json:"norender,omitempty"` // declare without attaching to the active session
}

// BlockBase holds identity and the generic display fields of a block.
// Embedded by every component and container.
type BlockBase struct {
	Id          int    // unique within a session, NoId until rendered
	BlockName   string // component type ("markdown", "row", ...)
	Visible     bool
	ElemId      string
	ElemClasses []string
	Parent      Container
	Session     *Session
}

func (b *BlockBase) GetBlockBase() *BlockBase {
	return b
}

func (b *BlockBase) IsRendered() bool {
	return b.Session != nil
}

// BaseConfig returns the config keys contributed by the generic component contract.
func (b *BlockBase) BaseConfig() map[string]any {
	var elemId any
	if b.ElemId != "" {
		elemId = b.ElemId
	}
	var elemClasses any
	if len(b.ElemClasses) > 0 {
		elemClasses = b.ElemClasses
	}
	return map[string]any{
		"name":         b.BlockName,
		"visible":      b.Visible,
		"elem_id":      elemId,
		"elem_classes": elemClasses,
	}
}

func (b *BlockBase) String() string {
	return fmt.Sprintf("%s[%d]", b.BlockName, b.Id)
}

// InitBase fills the generic fields of self and, unless opts.NoRender is set,
// registers self into the goroutine's active session.
func InitBase(self Block, blockName string, opts BaseOpts) {
	base := self.GetBlockBase()
	base.Id = NoId
	base.BlockName = blockName
	base.Visible = opts.Visible == nil || *opts.Visible
	base.ElemId = opts.ElemId
	base.ElemClasses = opts.ElemClasses
	if opts.NoRender {
		return
	}
	if s := GetSession(); s != nil {
		s.Register(self)
	}
}

// Render attaches a block declared with NoRender to the active session's current container.
func Render(b Block) error {
	if b.GetBlockBase().IsRendered() {
		return ErrAlreadyRendered
	}
	s := GetSession()
	if s == nil {
		return ErrNoSession
	}
	s.Register(b)
	return nil
}

// ContainerBase is embedded by blocks that hold children.
type ContainerBase struct {
	BlockBase
	Children []Block
}

func (c *ContainerBase) AddChild(b Block) {
	c.Children = append(c.Children, b)
}

func (c *ContainerBase) GetChildren() []Block {
	return c.Children
}

func Ptr[T any](v T) *T {
	return &v
}
