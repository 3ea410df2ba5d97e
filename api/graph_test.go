package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewQueryGraph_HasStartAndEndWithNoEdge(t *testing.T) {
	g := NewQueryGraph()
	require.Equal(t, StartNode, g.Nodes[g.RootNode].Kind)
	require.Equal(t, EndNode, g.Nodes[g.EndNode].Kind)
	require.True(t, g.Successors(g.RootNode).IsEmpty())
}

func TestAddEdge_UpdatesBothDirections(t *testing.T) {
	g := NewQueryGraph()
	n := g.AddTermNode(QueryTerm{Kind: Word, Word: WordDerivations{Original: "x"}})
	require.NoError(t, g.AddEdge(g.RootNode, n))

	require.True(t, g.Successors(g.RootNode).Contains(n))
	require.True(t, g.Predecessors(n).Contains(g.RootNode))
}

func TestAddEdge_RejectsOutOfRangeNode(t *testing.T) {
	g := NewQueryGraph()
	err := g.AddEdge(g.RootNode, 999)
	require.Error(t, err)
}

func TestDeleteNode_MarksDeleted(t *testing.T) {
	g := NewQueryGraph()
	n := g.AddTermNode(QueryTerm{Kind: Word})
	g.DeleteNode(n)
	require.Equal(t, DeletedNode, g.Nodes[n].Kind)
}

func TestQueryTerm_DerivationsOrdersByTypoDistance(t *testing.T) {
	term := QueryTerm{Kind: Word, Word: WordDerivations{
		Original: "color",
		ZeroTypo: []string{"color"},
		OneTypo:  []string{"colour", "colr"},
		TwoTypos: []string{"kolor"},
	}}
	require.Equal(t, []string{"color", "colour", "colr", "kolor"}, term.Derivations())
}
