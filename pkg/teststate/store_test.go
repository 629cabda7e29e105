package teststate

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/patch"
)

func TestStorePutReadDelete(t *testing.T) {
	s := New()

	_, ok := s.Read("1")
	assert.False(t, ok)

	s.Put("1", "# a\n")
	md, ok := s.Read("1")
	require.True(t, ok)
	assert.Equal(t, "# a\n", md)

	s.Delete("1")
	_, ok = s.Read("1")
	assert.False(t, ok)
}

func TestStoreKeysSorted(t *testing.T) {
	s := New()
	s.Put("b", "# b\n")
	s.Put("a", "# a\n")
	assert.Equal(t, []graph.Key{"a", "b"}, s.Keys())
}

func TestStoreTodayUsesFixedDateWhenDeterministic(t *testing.T) {
	s := New()
	s.SetDeterministic("2026-07-31")
	assert.Equal(t, "2026-07-31", s.Today())
	assert.Equal(t, "2026-07-31", s.Today())
}

func TestStoreNextIDIsSequentialWhenDeterministic(t *testing.T) {
	s := New()
	s.SetDeterministic("2026-07-31")
	assert.Equal(t, "1", s.NextID())
	assert.Equal(t, "2", s.NextID())
	assert.Equal(t, "3", s.NextID())
}

func TestStoreNextIDIsRandomByDefault(t *testing.T) {
	s := New()
	a := s.NextID()
	b := s.NextID()
	assert.NotEqual(t, a, b)
}

func TestStoreGraphParsesStoredDocuments(t *testing.T) {
	s := New()
	s.Put("1", "# a\n\n[b](2)\n")
	s.Put("2", "# b\n\ntext\n")

	g, err := s.Graph(context.Background(), graph.Options{})
	require.NoError(t, err)

	keys := g.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	assert.Equal(t, []graph.Key{"1", "2"}, keys)
	assert.Equal(t, "a", g.RefText("1"))
	assert.Equal(t, "b", g.RefText("2"))
	assert.Len(t, g.RefIndex().BlockReferencesTo(g.Arena(), "2"), 1)
}

func TestStoreApplyChangesWritesCreatesUpdatesAndRemoves(t *testing.T) {
	s := New()
	s.Put("old", "# old\n")

	s.ApplyChanges([]patch.Change{
		{Kind: patch.Remove, Key: "old"},
		{Kind: patch.Create, Key: "new"},
		{Kind: patch.Update, Key: "new", Markdown: "# new\n"},
	})

	_, ok := s.Read("old")
	assert.False(t, ok)
	md, ok := s.Read("new")
	require.True(t, ok)
	assert.Equal(t, "# new\n", md)
}
