package cleanse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func treeOf(parent *Node, n int) []*Node {
	children := make([]*Node, n)
	for i := 0; i < n; i++ {
		children[i] = &Node{Kind: KindText, Data: string(rune('a' + i)), Parent: parent, Index: i}
	}
	parent.Children = children
	return children
}

func TestRemoveChildAt_NoWrap(t *testing.T) {
	parent := &Node{Kind: KindElement}
	treeOf(parent, 3)

	removeChildAt(parent, 1, false)

	require.Len(t, parent.Children, 2)
	require.Equal(t, "a", parent.Children[0].Data)
	require.Equal(t, "c", parent.Children[1].Data)
	for i, c := range parent.Children {
		require.Equal(t, i, c.Index)
		require.Same(t, parent, c.Parent)
	}
}

func TestRemoveChildAt_Wrap(t *testing.T) {
	parent := &Node{Kind: KindElement}
	treeOf(parent, 3)

	removeChildAt(parent, 1, true)

	require.Len(t, parent.Children, 3)
	require.Equal(t, KindWhitespace, parent.Children[1].Kind)
	require.Equal(t, " ", parent.Children[1].Data)
	for i, c := range parent.Children {
		require.Equal(t, i, c.Index)
		require.Same(t, parent, c.Parent)
	}
}

func TestReparentChildrenAt_SplicesDonorChildren(t *testing.T) {
	parent := &Node{Kind: KindElement}
	treeOf(parent, 3) // a, b, c

	donor := &Node{Kind: KindElement}
	donorChildren := []*Node{
		{Kind: KindText, Data: "x"},
		{Kind: KindText, Data: "y"},
	}
	donor.Children = donorChildren

	reparentChildrenAt(parent, donor, 1, false)

	require.Len(t, parent.Children, 4)
	data := make([]string, len(parent.Children))
	for i, c := range parent.Children {
		data[i] = c.Data
	}
	require.Equal(t, []string{"a", "x", "y", "c"}, data)

	for i, c := range parent.Children {
		require.Equal(t, i, c.Index)
		require.Same(t, parent, c.Parent)
	}
	require.Empty(t, donor.Children)
}

func TestReparentChildrenAt_WrapBracketsWhitespace(t *testing.T) {
	parent := &Node{Kind: KindElement}
	treeOf(parent, 2) // a, b

	donor := &Node{Kind: KindElement}
	donor.Children = []*Node{{Kind: KindText, Data: "x"}}

	reparentChildrenAt(parent, donor, 1, true)

	require.Len(t, parent.Children, 4)
	require.Equal(t, KindWhitespace, parent.Children[1].Kind)
	require.Equal(t, "x", parent.Children[2].Data)
	require.Equal(t, KindWhitespace, parent.Children[3].Kind)
}

func TestReparentChildrenAt_NoDonorChildrenDegeneratesToRemove(t *testing.T) {
	parent := &Node{Kind: KindElement}
	treeOf(parent, 3)

	donor := &Node{Kind: KindElement}

	reparentChildrenAt(parent, donor, 1, false)

	require.Len(t, parent.Children, 2)
	require.Equal(t, "a", parent.Children[0].Data)
	require.Equal(t, "c", parent.Children[1].Data)
}
