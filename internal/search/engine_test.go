package search

import (
	"context"
	"testing"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/store"
	"github.com/stretchr/testify/require"
)

func buildGraph(words ...string) (*api.QueryGraph, []api.QueryTerm) {
	g := api.NewQueryGraph()
	terms := make([]api.QueryTerm, 0, len(words))
	prev := g.RootNode
	for _, w := range words {
		term := api.QueryTerm{Kind: api.Word, Word: api.WordDerivations{Original: w, ZeroTypo: []string{w}}}
		n := g.AddTermNode(term)
		_ = g.AddEdge(prev, n)
		prev = n
		terms = append(terms, term)
	}
	_ = g.AddEdge(prev, g.EndNode)
	return g, terms
}

func TestEngine_SearchResolvesAndRanks(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.PutWordPostings("quick", 1, 2, 3, 4))
	require.NoError(t, s.PutWordPostings("fox", 2, 3, 5))
	for i := uint32(1); i <= 5; i++ {
		s.AddDocument(i)
	}

	engine := New(s, api.NoopLogger{})
	graph, terms := buildGraph("quick", "fox")

	universe, err := s.DocumentsIDs(context.Background())
	require.NoError(t, err)

	results, err := engine.Search(context.Background(), Request{
		QueryGraph: graph,
		Terms:      terms,
		RuleNames:  []string{"words", "sort"},
		Universe:   universe,
		From:       0,
		Length:     10,
	})
	require.NoError(t, err)
	require.Equal(t, []api.DocId{2, 3}, results)
}

func TestEngine_SearchHonorsDistinctFieldOverride(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.PutWordPostings("x", 1, 2, 3, 4))
	s.SetFieldValue("class", 1, "a")
	s.SetFieldValue("class", 2, "a")
	s.SetFieldValue("class", 3, "b")
	s.SetFieldValue("class", 4, "b")
	fid, _, err := s.FieldID(context.Background(), "class")
	require.NoError(t, err)

	engine := New(s, nil)
	graph, terms := buildGraph("x")
	universe, err := s.DocumentsIDs(context.Background())
	require.NoError(t, err)

	results, err := engine.Search(context.Background(), Request{
		QueryGraph:      graph,
		Terms:           terms,
		RuleNames:       nil,
		Universe:        universe,
		From:            0,
		Length:          10,
		DistinctFieldID: &fid,
	})
	require.NoError(t, err)
	require.Equal(t, []api.DocId{1, 3}, results)
}
