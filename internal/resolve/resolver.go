// Package resolve implements the query-graph resolver: a topological
// propagation of bitmaps along the edges of a QueryGraph, intersected
// node-wise with each term's posting-list union.
package resolve

import (
	"context"
	"fmt"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/cache"
)

// Resolver resolves QueryGraphs against a NodeDocIdsCache. One Resolver is
// built per search and discarded at its end, matching the cache's own
// one-search lifetime.
type Resolver struct {
	nodeCache *cache.NodeDocIdsCache
}

// New creates a Resolver backed by the given node cache.
func New(nodeCache *cache.NodeDocIdsCache) *Resolver {
	return &Resolver{nodeCache: nodeCache}
}

// Resolve computes the set of documents matching some accepting Start->End
// path through g, intersected with universe, via Kahn's algorithm: nodes
// are processed in a fixed topological order computed once up front,
// rather than bounced through a naive re-queue until their predecessors
// happen to have settled.
func (r *Resolver) Resolve(ctx context.Context, g *api.QueryGraph, universe *api.Bitmap) (*api.Bitmap, error) {
	order, err := topologicalOrder(g)
	if err != nil {
		return nil, err
	}

	pathBitmap := make([]*api.Bitmap, len(g.Nodes))
	resolved := api.NewBitmap()

	for _, n := range order {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: resolving node %d", api.ErrCancelled, n)
		default:
		}

		node := g.Nodes[n]
		predBits := unionOfPredecessors(g, n, pathBitmap)

		switch node.Kind {
		case api.DeletedNode:
			return nil, fmt.Errorf("%w: node %d is deleted", api.ErrInvariantViolation, n)
		case api.StartNode:
			pathBitmap[n] = universe.Clone()
		case api.EndNode:
			return intersectWithUniverse(predBits, universe), nil
		case api.TermNode:
			nodeBits, err := r.nodeCache.GetNodePostings(ctx, n, node.Term)
			if err != nil {
				return nil, err
			}
			predBits.And(nodeBits)
			pathBitmap[n] = predBits
		default:
			return nil, fmt.Errorf("%w: unknown node kind for node %d", api.ErrInvariantViolation, n)
		}

		resolved.Add(n)
		freeFullyConsumedPredecessors(g, n, resolved, pathBitmap)
	}

	// A well-formed graph always visits EndNode before the order is
	// exhausted (every node lies on some path to End); reaching here
	// means the graph never contained an End node at all.
	return nil, fmt.Errorf("%w: query graph has no End node", api.ErrInvariantViolation)
}

func unionOfPredecessors(g *api.QueryGraph, n api.NodeId, pathBitmap []*api.Bitmap) *api.Bitmap {
	result := api.NewBitmap()
	preds := g.Predecessors(n)
	it := preds.Iterator()
	for it.HasNext() {
		p := it.Next()
		if pathBitmap[p] != nil {
			result.Or(pathBitmap[p])
		}
	}
	return result
}

func intersectWithUniverse(b, universe *api.Bitmap) *api.Bitmap {
	out := b.Clone()
	out.And(universe)
	return out
}

// freeFullyConsumedPredecessors releases path bitmaps once every successor
// of a predecessor has been resolved, via a per-predecessor subset check
// rather than a blanket free of n's own predecessors — a predecessor with
// other unresolved successors still needs its bitmap kept around.
func freeFullyConsumedPredecessors(g *api.QueryGraph, n api.NodeId, resolved *api.Bitmap, pathBitmap []*api.Bitmap) {
	preds := g.Predecessors(n)
	it := preds.Iterator()
	for it.HasNext() {
		p := it.Next()
		if isSubset(g.Successors(p), resolved) {
			pathBitmap[p] = nil
		}
	}
}

func isSubset(sub, super *api.Bitmap) bool {
	clone := sub.Clone()
	clone.AndNot(super)
	return clone.IsEmpty()
}
