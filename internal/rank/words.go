package rank

import (
	"context"
	"sort"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/cache"
)

// WordsRule buckets documents by how many distinct query terms they
// match, most matches first. It is real enough to drive the CLI and
// exercise the BucketSort stack end to end, not a faithful reproduction
// of a production word-count rule (no exactness or proximity tie-break).
type WordsRule struct {
	db *cache.DatabaseCache

	// per-descent state
	started  bool
	descCnts []int
	byCount  map[int]*api.Bitmap
	idx      int
}

// NewWordsRule builds a WordsRule reading term postings through db.
func NewWordsRule(db *cache.DatabaseCache) *WordsRule {
	return &WordsRule{db: db}
}

func (r *WordsRule) Name() string { return "words" }

func (r *WordsRule) StartIteration(ctx context.Context, _ api.SearchLogger, parentUniverse *api.Bitmap, query api.Query) error {
	r.byCount = make(map[int]*api.Bitmap)
	r.idx = 0
	r.started = true

	termBitmaps := make([]*api.Bitmap, 0, len(query.Terms))
	for _, t := range query.Terms {
		bm, err := cache.UnionDerivations(ctx, r.db, t)
		if err != nil {
			return err
		}
		bm = bm.Clone()
		bm.And(parentUniverse)
		termBitmaps = append(termBitmaps, bm)
	}

	it := parentUniverse.Iterator()
	for it.HasNext() {
		doc := it.Next()
		count := 0
		for _, bm := range termBitmaps {
			if bm.Contains(doc) {
				count++
			}
		}
		bucket, ok := r.byCount[count]
		if !ok {
			bucket = api.NewBitmap()
			r.byCount[count] = bucket
		}
		bucket.Add(doc)
	}

	r.descCnts = r.descCnts[:0]
	for c := range r.byCount {
		r.descCnts = append(r.descCnts, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(r.descCnts)))
	return nil
}

func (r *WordsRule) NextBucket(_ context.Context, _ api.SearchLogger, currentUniverse *api.Bitmap) (*api.Bucket, error) {
	for r.idx < len(r.descCnts) {
		count := r.descCnts[r.idx]
		r.idx++
		bucket := r.byCount[count].Clone()
		bucket.And(currentUniverse)
		if bucket.IsEmpty() {
			continue
		}
		return &api.Bucket{Candidates: bucket}, nil
	}
	return nil, nil
}

func (r *WordsRule) EndIteration(context.Context, api.SearchLogger) error {
	r.started = false
	r.byCount = nil
	r.descCnts = nil
	return nil
}
