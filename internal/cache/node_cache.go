package cache

import (
	"context"
	"fmt"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/store"
)

// NodeDocIdsCache memoizes the decoded, unioned posting list for each
// query-graph node. A node with many derivations otherwise dominates
// resolution cost; a node's posting lists are decoded and unioned at most
// once per search. Raw bytes are shared through DatabaseCache, but a word
// that appears under several nodes is decoded once per node.
type NodeDocIdsCache struct {
	db      *DatabaseCache
	entries map[api.NodeId]*api.Bitmap
}

// NewNodeDocIdsCache creates an empty cache that reads through db.
func NewNodeDocIdsCache(db *DatabaseCache) *NodeDocIdsCache {
	return &NodeDocIdsCache{db: db, entries: make(map[api.NodeId]*api.Bitmap)}
}

// GetNodePostings returns the unioned bitmap for node's term, computing
// and caching it on first access.
func (c *NodeDocIdsCache) GetNodePostings(ctx context.Context, node api.NodeId, term api.QueryTerm) (*api.Bitmap, error) {
	if bm, ok := c.entries[node]; ok {
		return bm, nil
	}
	result, err := UnionDerivations(ctx, c.db, term)
	if err != nil {
		return nil, err
	}
	c.entries[node] = result
	return result, nil
}

// UnionDerivations unions every derivation's posting list, plus the
// prefix-db lookup when requested, without node-id memoization. It backs
// NodeDocIdsCache.GetNodePostings and is also used directly by ranking
// rules (e.g. WordsRule) that reason about a query's terms outside of any
// particular graph node.
func UnionDerivations(ctx context.Context, db *DatabaseCache, term api.QueryTerm) (*api.Bitmap, error) {
	if term.Kind == api.Phrase {
		return nil, fmt.Errorf("%w: phrase resolution", api.ErrUnsupported)
	}

	contributions := make([]*api.Bitmap, 0, len(term.Derivations())+1)
	for _, word := range term.Derivations() {
		b, ok, err := db.GetWordPostings(ctx, word)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		bm, err := decode(b)
		if err != nil {
			return nil, err
		}
		contributions = append(contributions, bm)
	}
	if term.Word.UsePrefixDB {
		b, ok, err := db.GetPrefixPostings(ctx, term.Word.Original)
		if err != nil {
			return nil, err
		}
		if ok {
			bm, err := decode(b)
			if err != nil {
				return nil, err
			}
			contributions = append(contributions, bm)
		}
	}

	result := api.NewBitmap()
	for _, bm := range contributions {
		result.Or(bm)
	}
	return result, nil
}

func decode(b []byte) (*api.Bitmap, error) {
	bm, err := store.DecodePostings(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrStoreError, err)
	}
	return bm, nil
}
