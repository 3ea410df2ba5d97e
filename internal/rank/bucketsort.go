package rank

import (
	"context"
	"fmt"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/distinct"
)

// sorter holds the recursive stack-machine state of bucket sort: one
// universe slot per ranking rule, a cursor depth, the accumulated
// results, and how many candidates have been considered so far (for
// honouring `from`). The two control-flow helpers below (commitOrDescend
// and pop) are plain methods on this struct, not inlined duplicate
// logic at each call site.
type sorter struct {
	rules    []Rule
	query    api.Query
	logger   api.SearchLogger
	distinct *distinct.Filter

	from   int
	length int

	stack     []*api.Bitmap
	depth     int
	results   []api.DocId
	curOffset uint64
}

// Sort runs the bucket-sort driver: it composes rules over universe and
// returns up to length document ids starting at offset from.
func Sort(ctx context.Context, rules []Rule, query api.Query, universe *api.Bitmap, from, length int, df *distinct.Filter, logger api.SearchLogger) (ids []api.DocId, err error) {
	if from < 0 || length < 0 {
		return nil, fmt.Errorf("%w: from=%d length=%d must be non-negative", api.ErrBadRequest, from, length)
	}
	if logger == nil {
		logger = api.NoopLogger{}
	}

	logger.InitialQuery(query)
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name()
	}
	logger.RankingRules(names)
	logger.InitialUniverse(universe)

	if universe.GetCardinality() < uint64(from) {
		return []api.DocId{}, nil
	}

	if len(rules) == 0 {
		return sortEmptyRules(ctx, universe, from, length, df)
	}

	s := &sorter{
		rules:    rules,
		query:    query,
		logger:   logger,
		distinct: df,
		from:     from,
		length:   length,
		stack:    make([]*api.Bitmap, len(rules)),
		results:  make([]api.DocId, 0, length),
	}
	s.stack[0] = universe.Clone()

	logger.StartIterationRankingRule(0, rules[0].Name(), query, s.stack[0])
	if err := rules[0].StartIteration(ctx, logger, s.stack[0], query); err != nil {
		return nil, err
	}

	// End every iteration still open at depths 0..s.depth when Sort
	// returns before depth 0 is exhausted (page full, cancellation, error).
	exhausted := false
	defer func() {
		for ; !exhausted && s.depth >= 0; s.depth-- {
			s.logger.EndIterationRankingRule(s.depth, s.rules[s.depth].Name(), s.stack[s.depth])
			if endErr := s.rules[s.depth].EndIteration(ctx, s.logger); endErr != nil && err == nil {
				ids, err = nil, endErr
			}
		}
	}()

	for len(s.results) < s.length {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: bucket sort at depth %d", api.ErrCancelled, s.depth)
		default:
		}

		if s.stack[s.depth].GetCardinality() <= 1 {
			if err := s.maybeCommit(ctx, s.stack[s.depth]); err != nil {
				return nil, err
			}
			s.stack[s.depth] = api.NewBitmap()
			done, err := s.pop(ctx)
			if err != nil {
				return nil, err
			}
			if done {
				exhausted = true
				break
			}
			continue
		}

		bucket, err := s.rules[s.depth].NextBucket(ctx, logger, s.stack[s.depth])
		if err != nil {
			return nil, err
		}
		if bucket == nil {
			done, err := s.pop(ctx)
			if err != nil {
				return nil, err
			}
			if done {
				exhausted = true
				break
			}
			continue
		}

		logger.NextBucketRankingRule(s.depth, s.rules[s.depth].Name(), s.stack[s.depth], bucket.Candidates)
		if !isSuperset(s.stack[s.depth], bucket.Candidates) {
			return nil, fmt.Errorf("%w: rule %q returned a bucket not contained in its universe", api.ErrBadRequest, s.rules[s.depth].Name())
		}
		s.stack[s.depth].AndNot(bucket.Candidates)

		if err := s.commitOrDescend(ctx, bucket); err != nil {
			return nil, err
		}
	}

	if len(s.results) > s.length {
		s.results = s.results[:s.length]
	}
	return s.results, nil
}

// commitOrDescend commits the bucket at the current depth without
// descending when no deeper rule can usefully
// refine it (last rule, a trivial 0/1-candidate bucket, or a bucket that
// lies entirely before the requested page); otherwise push a new frame
// and start the next rule's iteration over it.
func (s *sorter) commitOrDescend(ctx context.Context, bucket *api.Bucket) error {
	isLast := s.depth == len(s.rules)-1
	tooSmall := bucket.Candidates.GetCardinality() <= 1
	beforePage := s.curOffset+bucket.Candidates.GetCardinality() < uint64(s.from)

	if isLast || tooSmall || beforePage {
		return s.maybeCommit(ctx, bucket.Candidates)
	}

	s.depth++
	s.stack[s.depth] = bucket.Candidates.Clone()
	nextQuery := bucket.Query
	if nextQuery.Graph == nil && nextQuery.Terms == nil {
		nextQuery = s.query
	}
	s.logger.StartIterationRankingRule(s.depth, s.rules[s.depth].Name(), nextQuery, s.stack[s.depth])
	return s.rules[s.depth].StartIteration(ctx, s.logger, s.stack[s.depth], nextQuery)
}

// pop requires the current depth's slot to already be empty (every rule's
// buckets are expected to fully partition the universe it was started
// with); it ends that rule's iteration and unwinds one level, or reports
// completion if depth was already 0.
func (s *sorter) pop(ctx context.Context) (done bool, err error) {
	if !s.stack[s.depth].IsEmpty() {
		return false, fmt.Errorf("%w: rule %q exhausted with candidates still unaccounted for", api.ErrBadRequest, s.rules[s.depth].Name())
	}
	s.logger.EndIterationRankingRule(s.depth, s.rules[s.depth].Name(), s.stack[s.depth])
	if err := s.rules[s.depth].EndIteration(ctx, s.logger); err != nil {
		return false, err
	}
	if s.depth == 0 {
		return true, nil
	}
	s.depth--
	return false, nil
}

// maybeCommit applies distinct filtering, then skips or appends
// candidates (in ascending docid order) according to from/length/curOffset.
func (s *sorter) maybeCommit(ctx context.Context, candidates *api.Bitmap) error {
	kept := candidates
	if s.distinct.Enabled() {
		remaining, excluded, err := s.distinct.Apply(ctx, candidates)
		if err != nil {
			return err
		}
		for _, u := range s.stack {
			if u != nil {
				u.AndNot(excluded)
			}
		}
		kept = remaining
	}

	total := kept.GetCardinality()
	switch {
	case s.curOffset+total <= uint64(s.from):
		s.logger.SkipBucketRankingRule(s.depth, s.rules[s.depth].Name(), kept)
	case s.curOffset < uint64(s.from):
		skipCount := uint64(s.from) - s.curOffset
		skipped := api.NewBitmap()
		it := kept.Iterator()
		for i := uint64(0); i < skipCount && it.HasNext(); i++ {
			skipped.Add(it.Next())
		}
		s.logger.SkipBucketRankingRule(s.depth, s.rules[s.depth].Name(), skipped)
		var added []api.DocId
		for it.HasNext() && len(s.results) < s.length {
			id := it.Next()
			s.results = append(s.results, id)
			added = append(added, id)
		}
		s.logger.AddToResults(added)
	default:
		var added []api.DocId
		it := kept.Iterator()
		for it.HasNext() && len(s.results) < s.length {
			id := it.Next()
			s.results = append(s.results, id)
			added = append(added, id)
		}
		s.logger.AddToResults(added)
	}
	s.curOffset += total
	return nil
}

func isSuperset(universe, bucket *api.Bitmap) bool {
	clone := bucket.Clone()
	clone.AndNot(universe)
	return clone.IsEmpty()
}

// sortEmptyRules handles the no-rules case: the answer is just a page of
// universe in ascending docid order, subject to distinct filtering.
func sortEmptyRules(ctx context.Context, universe *api.Bitmap, from, length int, df *distinct.Filter) ([]api.DocId, error) {
	results := make([]api.DocId, 0, length)
	if !df.Enabled() {
		it := universe.Iterator()
		for i := 0; i < from && it.HasNext(); i++ {
			it.Next()
		}
		for it.HasNext() && len(results) < length {
			results = append(results, it.Next())
		}
		return results, nil
	}

	seen := make(distinct.SeenValues)
	kept := 0
	it := universe.Iterator()
	for it.HasNext() {
		doc := it.Next()
		dup, err := df.IsDuplicate(ctx, doc, seen)
		if err != nil {
			return nil, err
		}
		if dup {
			continue
		}
		if kept >= from {
			results = append(results, doc)
			if len(results) == length {
				break
			}
		}
		kept++
	}
	return results, nil
}
