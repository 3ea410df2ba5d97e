package resolve

import (
	"context"
	"testing"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/cache"
	"github.com/agentic-research/rankcore/internal/store"
	"github.com/stretchr/testify/require"
)

func exactTerm(word string) api.QueryTerm {
	return api.QueryTerm{Kind: api.Word, Word: api.WordDerivations{Original: word, ZeroTypo: []string{word}}}
}

func newResolver(t *testing.T, s *store.MemoryStore) *Resolver {
	t.Helper()
	db := cache.NewDatabaseCache(s)
	return New(cache.NewNodeDocIdsCache(db))
}

// TestResolver_TwoTermIntersection builds a 14-document fixture and checks
// that resolving "quick brown" against the full universe returns exactly
// the documents that carry both words.
func TestResolver_TwoTermIntersection(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.PutWordPostings("quick", 0, 1, 2, 3, 8, 9, 11, 12))
	require.NoError(t, s.PutWordPostings("brown", 2, 3, 4, 8, 9, 10, 11, 13))
	for i := uint32(0); i < 14; i++ {
		s.AddDocument(i)
	}

	g := api.NewQueryGraph()
	n1 := g.AddTermNode(exactTerm("quick"))
	n2 := g.AddTermNode(exactTerm("brown"))
	require.NoError(t, g.AddEdge(g.RootNode, n1))
	require.NoError(t, g.AddEdge(n1, n2))
	require.NoError(t, g.AddEdge(n2, g.EndNode))

	universe, err := s.DocumentsIDs(context.Background())
	require.NoError(t, err)

	r := newResolver(t, s)
	got, err := r.Resolve(context.Background(), g, universe)
	require.NoError(t, err)

	want := []uint32{2, 3, 8, 9, 11}
	require.Equal(t, want, got.ToArray())
}

func TestResolver_BranchingDerivationsUnion(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.PutWordPostings("color", 1, 2))
	require.NoError(t, s.PutWordPostings("colour", 2, 3))
	for i := uint32(0); i < 4; i++ {
		s.AddDocument(i)
	}

	g := api.NewQueryGraph()
	term := api.QueryTerm{Kind: api.Word, Word: api.WordDerivations{
		Original: "color",
		ZeroTypo: []string{"color"},
		OneTypo:  []string{"colour"},
	}}
	n := g.AddTermNode(term)
	require.NoError(t, g.AddEdge(g.RootNode, n))
	require.NoError(t, g.AddEdge(n, g.EndNode))

	universe, err := s.DocumentsIDs(context.Background())
	require.NoError(t, err)

	r := newResolver(t, s)
	got, err := r.Resolve(context.Background(), g, universe)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 3}, got.ToArray())
}

func TestResolver_ResultIsSubsetOfUniverse(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.PutWordPostings("x", 0, 1, 2, 3, 4, 5))
	for i := uint32(0); i < 6; i++ {
		s.AddDocument(i)
	}

	g := api.NewQueryGraph()
	n := g.AddTermNode(exactTerm("x"))
	require.NoError(t, g.AddEdge(g.RootNode, n))
	require.NoError(t, g.AddEdge(n, g.EndNode))

	narrowUniverse := api.NewBitmap()
	narrowUniverse.AddMany([]uint32{1, 2, 3})

	r := newResolver(t, s)
	got, err := r.Resolve(context.Background(), g, narrowUniverse)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 3}, got.ToArray())
}

func TestResolver_DeletedNodeIsInvariantViolation(t *testing.T) {
	s := store.NewMemoryStore()
	g := api.NewQueryGraph()
	n := g.AddTermNode(exactTerm("x"))
	require.NoError(t, g.AddEdge(g.RootNode, n))
	require.NoError(t, g.AddEdge(n, g.EndNode))
	g.DeleteNode(n)

	r := newResolver(t, s)
	_, err := r.Resolve(context.Background(), g, api.NewBitmap())
	require.ErrorIs(t, err, api.ErrInvariantViolation)
}

func TestResolver_CancelledContext(t *testing.T) {
	s := store.NewMemoryStore()
	g := api.NewQueryGraph()
	n := g.AddTermNode(exactTerm("x"))
	require.NoError(t, g.AddEdge(g.RootNode, n))
	require.NoError(t, g.AddEdge(n, g.EndNode))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newResolver(t, s)
	_, err := r.Resolve(ctx, g, api.NewBitmap())
	require.ErrorIs(t, err, api.ErrCancelled)
}
