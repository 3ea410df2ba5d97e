package rank

import (
	"context"

	"github.com/agentic-research/rankcore/api"
)

// SortRule is a terminal rule: it buckets one document at a time, in
// ascending docid order. Placed last in a pipeline it gives a
// deterministic tie-break for any ties left unresolved by every earlier
// rule.
type SortRule struct{}

func NewSortRule() *SortRule { return &SortRule{} }

func (*SortRule) Name() string { return "sort" }

func (*SortRule) StartIteration(context.Context, api.SearchLogger, *api.Bitmap, api.Query) error {
	return nil
}

func (*SortRule) NextBucket(_ context.Context, _ api.SearchLogger, currentUniverse *api.Bitmap) (*api.Bucket, error) {
	if currentUniverse.IsEmpty() {
		return nil, nil
	}
	it := currentUniverse.Iterator()
	first := it.Next()
	bucket := api.NewBitmap()
	bucket.Add(first)
	return &api.Bucket{Candidates: bucket}, nil
}

func (*SortRule) EndIteration(context.Context, api.SearchLogger) error { return nil }
