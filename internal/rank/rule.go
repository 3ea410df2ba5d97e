// Package rank implements the ranking-rule contract and the bucket-sort
// driver that composes rules into a single ordered, paginated result.
package rank

import (
	"context"

	"github.com/agentic-research/rankcore/api"
)

// Rule is a narrow capability interface rather than an inheritance
// hierarchy, with per-descent state owned by the implementation and
// scoped to exactly one StartIteration/EndIteration pairing.
type Rule interface {
	// Name identifies the rule for logging.
	Name() string
	// StartIteration prepares state for a new descent into parentUniverse
	// under the given query. May read from the index.
	StartIteration(ctx context.Context, logger api.SearchLogger, parentUniverse *api.Bitmap, query api.Query) error
	// NextBucket returns the next, strictly-less-preferred bucket of
	// currentUniverse, or (nil, nil) when exhausted at this level.
	// Successive buckets in one descent must be pairwise disjoint and
	// each a subset of currentUniverse.
	NextBucket(ctx context.Context, logger api.SearchLogger, currentUniverse *api.Bitmap) (*api.Bucket, error)
	// EndIteration releases per-descent state. Always called exactly
	// once for every StartIteration, on every exit path.
	EndIteration(ctx context.Context, logger api.SearchLogger) error
}
