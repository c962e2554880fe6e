// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package blocks

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavetermdev/waveblocks/pkg/utilds"
)

type testBlock struct {
	BlockBase
}

func (b *testBlock) GetConfig() map[string]any {
	return b.BaseConfig()
}

func newTestBlock() *testBlock {
	b := &testBlock{}
	InitBase(b, "test", BaseOpts{})
	return b
}

type testContainer struct {
	ContainerBase
}

func (c *testContainer) GetConfig() map[string]any {
	return c.BaseConfig()
}

func newTestContainer() *testContainer {
	c := &testContainer{}
	InitBase(c, "testcontainer", BaseOpts{})
	return c
}

type testLoader struct {
	BlockBase
	initial Initial[string]
	value   string
}

func (l *testLoader) GetConfig() map[string]any {
	rtn := l.BaseConfig()
	rtn["value"] = l.value
	return rtn
}

func (l *testLoader) LoadInitial() error {
	val, err := l.initial.Resolve()
	if err != nil {
		return err
	}
	l.value = val
	return nil
}

func TestAllocateId(t *testing.T) {
	s := MakeSession()
	for want := 0; want < 5; want++ {
		assert.Equal(t, want, s.AllocateId())
	}
	oldSessionId := s.SessionId
	s.Begin()
	assert.Equal(t, 0, s.AllocateId())
	assert.NotEqual(t, oldSessionId, s.SessionId)
	assert.Nil(t, s.Root())
	assert.Nil(t, s.Current())
}

func TestAllocateIdConcurrent(t *testing.T) {
	s := MakeSession()
	var wg sync.WaitGroup
	var lock sync.Mutex
	seen := make(map[int]bool)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := s.AllocateId()
				lock.Lock()
				seen[id] = true
				lock.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 800)
}

func TestEnterExit(t *testing.T) {
	s := MakeSession()
	root := &testContainer{}
	InitBase(root, "root", BaseOpts{NoRender: true})
	require.NoError(t, s.Enter(root))
	assert.Equal(t, Container(root), s.Root())
	assert.Equal(t, Container(root), s.Current())
	assert.Equal(t, 0, root.Id)

	var child *testContainer
	WithSession(s, func() {
		child = newTestContainer()
	})
	assert.Equal(t, 1, child.Id)
	assert.Equal(t, Container(root), child.Parent)

	require.NoError(t, s.Enter(child))
	assert.Equal(t, Container(child), s.Current())
	assert.Equal(t, 2, s.Depth())

	exited, err := s.Exit()
	require.NoError(t, err)
	assert.Equal(t, Container(child), exited)
	assert.Equal(t, Container(root), s.Current())

	_, err = s.Exit()
	require.NoError(t, err)
	assert.Nil(t, s.Current())
	assert.Equal(t, Container(root), s.Root())

	_, err = s.Exit()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoContainer))
	assert.Equal(t, utilds.ErrCode_Session, utilds.GetErrorCode(err))
}

func TestEnterOutsideTree(t *testing.T) {
	s := MakeSession()
	root := &testContainer{}
	InitBase(root, "root", BaseOpts{NoRender: true})
	require.NoError(t, s.Enter(root))
	stray := &testContainer{}
	InitBase(stray, "stray", BaseOpts{NoRender: true})
	err := s.Enter(stray)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInTree))
	assert.Equal(t, Container(root), s.Current())
}

func TestRegisterOutsideContainer(t *testing.T) {
	s := MakeSession()
	var b *testBlock
	WithSession(s, func() {
		b = newTestBlock()
	})
	assert.Equal(t, 0, b.Id)
	assert.Nil(t, b.Parent)
	assert.Equal(t, Block(b), s.GetBlock(0))
}

func TestLoad(t *testing.T) {
	calls := 0
	var deferred, literal *testLoader
	root := Declare(func() {
		deferred = &testLoader{initial: Deferred(func() string {
			calls++
			return "loaded"
		})}
		InitBase(deferred, "loader", BaseOpts{})
		literal = &testLoader{initial: Literal("lit")}
		InitBase(literal, "loader", BaseOpts{})
	})
	assert.Equal(t, "", deferred.value)
	require.NoError(t, root.Load())
	require.NoError(t, root.Load())
	assert.Equal(t, 1, calls)
	assert.Equal(t, "loaded", deferred.value)
	assert.Equal(t, "lit", literal.value)
	assert.True(t, root.GetSession().IsLoaded())
}

func TestLoadPanic(t *testing.T) {
	var good *testLoader
	root := Declare(func() {
		bad := &testLoader{initial: Deferred(func() string { panic("boom") })}
		InitBase(bad, "loader", BaseOpts{})
		good = &testLoader{initial: Deferred(func() string { return "ok" })}
		InitBase(good, "loader", BaseOpts{})
	})
	err := root.Load()
	require.Error(t, err)
	assert.Equal(t, utilds.ErrCode_Load, utilds.GetErrorCode(err))
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, "ok", good.value)
}

func TestLoadError(t *testing.T) {
	root := Declare(func() {
		bad := &testLoader{initial: DeferredErr(func() (string, error) { return "", errors.New("no file") })}
		InitBase(bad, "loader", BaseOpts{})
	})
	err := root.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no file")
}

func TestRegisterAfterLoad(t *testing.T) {
	root := Declare(func() {})
	require.NoError(t, root.Load())
	var late *testLoader
	WithSession(root.GetSession(), func() {
		late = &testLoader{initial: Deferred(func() string { return "late" })}
		InitBase(late, "loader", BaseOpts{})
	})
	assert.Equal(t, "late", late.value)
}
