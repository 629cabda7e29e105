package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeKindPredicates(t *testing.T) {
	doc := NewDocument("docs/basics")
	assert.True(t, doc.IsDocument())
	assert.True(t, doc.IsContainer())

	sec := NewSection(NoLine)
	assert.True(t, sec.IsSection())
	assert.True(t, sec.HasLine())
	assert.True(t, sec.IsContainer())

	leaf := NewLeaf(NoLine)
	assert.True(t, leaf.IsLeaf())
	assert.False(t, leaf.IsContainer())

	bl := NewBulletList()
	assert.True(t, bl.IsList())
	assert.True(t, bl.IsContainer())

	ref := NewReference("docs/other", "Other", RefWikiLink)
	assert.True(t, ref.IsReference())
	assert.Equal(t, RefWikiLink, ref.RefType)

	tbl := NewTable(nil, []ColumnAlignment{AlignLeft, AlignRight}, nil)
	assert.False(t, tbl.IsContainer())
	assert.Len(t, tbl.Alignment, 2)
}

func TestEmptyNodeIsZeroKind(t *testing.T) {
	var n GraphNode
	assert.True(t, n.IsEmpty())
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "Section", KindSection.String())
	assert.Equal(t, "Empty", KindEmpty.String())
}
