package distinct

import (
	"context"
	"testing"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/store"
	"github.com/stretchr/testify/require"
)

func TestFilter_DisabledIsIdentity(t *testing.T) {
	f := New(nil, 0, false)
	require.False(t, f.Enabled())

	candidates := api.NewBitmap()
	candidates.AddMany([]uint32{1, 2, 3})
	remaining, excluded, err := f.Apply(context.Background(), candidates)
	require.NoError(t, err)
	require.True(t, excluded.IsEmpty())
	require.Equal(t, candidates.ToArray(), remaining.ToArray())
}

func TestFilter_ApplyKeepsFirstOccurrencePerValue(t *testing.T) {
	s := store.NewMemoryStore()
	s.SetFieldValue("sku", 0, "A")
	s.SetFieldValue("sku", 1, "A")
	s.SetFieldValue("sku", 2, "B")
	fid := s.SetDistinctField("sku")

	f := New(s, fid, true)
	candidates := api.NewBitmap()
	candidates.AddMany([]uint32{0, 1, 2})

	remaining, excluded, err := f.Apply(context.Background(), candidates)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 2}, remaining.ToArray())
	require.Equal(t, []uint32{1}, excluded.ToArray())
}

func TestFilter_ApplyKeepsDocsWithNoValue(t *testing.T) {
	s := store.NewMemoryStore()
	s.SetFieldValue("sku", 0, "A")
	fid := s.SetDistinctField("sku")
	s.AddDocument(1) // no value set for field "sku"

	f := New(s, fid, true)
	candidates := api.NewBitmap()
	candidates.AddMany([]uint32{0, 1})

	remaining, _, err := f.Apply(context.Background(), candidates)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, remaining.ToArray())
}

func TestFilter_IsDuplicateMatchesAscendingScanOfApply(t *testing.T) {
	s := store.NewMemoryStore()
	s.SetFieldValue("sku", 0, "A")
	s.SetFieldValue("sku", 1, "A")
	s.SetFieldValue("sku", 2, "B")
	s.SetFieldValue("sku", 3, "A")
	fid := s.SetDistinctField("sku")

	f := New(s, fid, true)
	seen := make(SeenValues)
	var kept []uint32
	for _, doc := range []uint32{0, 1, 2, 3} {
		dup, err := f.IsDuplicate(context.Background(), doc, seen)
		require.NoError(t, err)
		if !dup {
			kept = append(kept, doc)
		}
	}
	require.Equal(t, []uint32{0, 2}, kept)
}
