package blocks

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareTree(t *testing.T) {
	var first, inner, last *testBlock
	var row *Layout
	root := DeclareWithOpts(BlocksOpts{Title: "demo"}, func() {
		first = newTestBlock()
		row = Row(func() {
			inner = newTestBlock()
		})
		last = newTestBlock()
	})
	assert.Equal(t, 0, root.Id)
	assert.Equal(t, 1, first.Id)
	assert.Equal(t, 2, row.Id)
	assert.Equal(t, 3, inner.Id)
	assert.Equal(t, 4, last.Id)

	assert.Equal(t, []Block{first, row, last}, root.GetChildren())
	assert.Equal(t, []Block{inner}, row.GetChildren())
	assert.Equal(t, Container(row), inner.Parent)
	assert.Equal(t, Container(root), last.Parent)

	assert.Nil(t, GetSession(), "session must not leak out of Declare")
	assert.Nil(t, root.GetSession().Current())
}

func TestDeclareSessionsIndependent(t *testing.T) {
	var a, b *testBlock
	rootA := Declare(func() { a = newTestBlock() })
	rootB := Declare(func() { b = newTestBlock() })
	assert.Equal(t, a.Id, b.Id)
	assert.NotEqual(t, rootA.GetSession().SessionId, rootB.GetSession().SessionId)
}

func TestNestedDeclare(t *testing.T) {
	var outerAfter *testBlock
	var innerRoot *Blocks
	outer := Declare(func() {
		innerRoot = Declare(func() { newTestBlock() })
		outerAfter = newTestBlock()
	})
	assert.Len(t, innerRoot.GetChildren(), 1)
	assert.Equal(t, []Block{outerAfter}, outer.GetChildren())
	assert.Equal(t, 1, outerAfter.Id)
}

func TestSessionGoroutineScope(t *testing.T) {
	assert.Nil(t, GetSession())
	done := make(chan *Session)
	Declare(func() {
		require.NotNil(t, GetSession())
		go func() {
			done <- GetSession()
		}()
		assert.Nil(t, <-done)
	})
}

func TestWithSessionRestores(t *testing.T) {
	s1 := MakeSession()
	s2 := MakeSession()
	WithSession(s1, func() {
		assert.Equal(t, s1, GetSession())
		WithSession(s2, func() {
			assert.Equal(t, s2, GetSession())
		})
		assert.Equal(t, s1, GetSession())
	})
	assert.Nil(t, GetSession())
}

func TestContextSession(t *testing.T) {
	s := MakeSession()
	ctx := WithContext(context.Background(), s)
	assert.Equal(t, s, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
	other := MakeSession()
	WithSession(other, func() {
		assert.Equal(t, other, FromContext(context.Background()))
		assert.Equal(t, s, FromContext(ctx))
	})
}

func TestNoRenderAndRender(t *testing.T) {
	var late *testBlock
	root := Declare(func() {
		late = &testBlock{}
		InitBase(late, "test", BaseOpts{NoRender: true})
		assert.Equal(t, NoId, late.Id)
		newTestBlock()
		require.NoError(t, Render(late))
		assert.ErrorIs(t, Render(late), ErrAlreadyRendered)
	})
	assert.Equal(t, 2, late.Id)
	assert.Len(t, root.GetChildren(), 2)
	assert.ErrorIs(t, Render(&testBlock{}), ErrNoSession)
}

func TestBaseConfig(t *testing.T) {
	var b *testBlock
	Declare(func() {
		b = &testBlock{}
		InitBase(b, "test", BaseOpts{Visible: Ptr(false), ElemId: "intro", ElemClasses: []string{"big"}})
	})
	cfg := b.GetConfig()
	assert.Equal(t, false, cfg["visible"])
	assert.Equal(t, "intro", cfg["elem_id"])
	assert.Equal(t, []string{"big"}, cfg["elem_classes"])
	assert.Equal(t, "test", cfg["name"])

	plain := &testBlock{}
	InitBase(plain, "test", BaseOpts{})
	cfg = plain.GetConfig()
	assert.Equal(t, true, cfg["visible"])
	assert.Nil(t, cfg["elem_id"])
	assert.Nil(t, cfg["elem_classes"])
}

func TestGetConfigFile(t *testing.T) {
	root := DeclareWithOpts(BlocksOpts{Title: "demo"}, func() {
		newTestBlock()
		Column(func() {
			newTestBlock()
			Group(func() {
				newTestBlock()
			})
		})
	})
	cf := root.GetConfigFile()
	assert.Equal(t, ConfigMode_Blocks, cf.Mode)
	assert.Equal(t, "demo", cf.Title)
	assert.Equal(t, root.GetSession().SessionId, cf.SessionId)
	require.Len(t, cf.Components, 5)
	var types []string
	for idx, comp := range cf.Components {
		assert.Equal(t, idx+1, comp.Id)
		types = append(types, comp.Type)
	}
	assert.Equal(t, []string{"test", "column", "test", "group", "test"}, types)

	want := LayoutNode{Id: 0, Children: []LayoutNode{
		{Id: 1},
		{Id: 2, Children: []LayoutNode{
			{Id: 3},
			{Id: 4, Children: []LayoutNode{{Id: 5}}},
		}},
	}}
	assert.Equal(t, want, cf.Layout)

	barr, err := json.Marshal(cf)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(barr, &decoded))
	assert.Equal(t, "blocks", decoded["mode"])
}

func TestLayoutVariant(t *testing.T) {
	var row *Layout
	Declare(func() {
		row = RowWithOpts("panel", BaseOpts{ElemId: "r"}, func() {})
	})
	cfg := row.GetConfig()
	assert.Equal(t, "panel", cfg["variant"])
	assert.Equal(t, "row", cfg["name"])
	assert.Equal(t, "r", cfg["elem_id"])
}
