// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package blocks

import (
	"github.com/wavetermdev/waveblocks/pkg/panichandler"
)

// Initial is a component's initial value: either a literal, or a zero-argument
// producer evaluated once when the session loads.
// The zero value is the literal zero value of T.
type Initial[T any] struct {
	lit T
	fn  func() (T, error)
}

func Literal[T any](v T) Initial[T] {
	return Initial[T]{lit: v}
}

func Deferred[T any](fn func() T) Initial[T] {
	return Initial[T]{fn: func() (T, error) { return fn(), nil }}
}

// DeferredErr is Deferred for producers that can fail (e.g. reading a file).
func DeferredErr[T any](fn func() (T, error)) Initial[T] {
	return Initial[T]{fn: fn}
}

func (i Initial[T]) IsDeferred() bool {
	return i.fn != nil
}

// LiteralValue returns the literal (the zero value of T for a deferred initial).
func (i Initial[T]) LiteralValue() T {
	return i.lit
}

// Resolve returns the literal, or calls the producer. A panicking producer is returned as an error.
func (i Initial[T]) Resolve() (rtn T, rtnErr error) {
	if i.fn == nil {
		return i.lit, nil
	}
	defer func() {
		if perr := panichandler.PanicHandler("initial value producer", recover()); perr != nil {
			rtnErr = perr
		}
	}()
	return i.fn()
}
