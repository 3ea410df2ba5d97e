// Package search wires the ranking core's pieces together behind a single
// request/response entry point.
package search

import (
	"context"
	"fmt"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/cache"
	"github.com/agentic-research/rankcore/internal/distinct"
	"github.com/agentic-research/rankcore/internal/rank"
	"github.com/agentic-research/rankcore/internal/resolve"
	"github.com/agentic-research/rankcore/internal/store"
)

// Request bundles everything one search needs: the query graph to resolve,
// the candidate universe, a ranking pipeline, pagination bounds, and an
// optional distinct-field override.
type Request struct {
	QueryGraph *api.QueryGraph
	// Terms is the flattened query, in order, handed to ranking rules
	// as api.Query.Terms.
	Terms []api.QueryTerm
	// RuleNames names the ranking rules to run, in order (see
	// rank.BuildRules for the registry of known names). Rules are built
	// against this search's own DatabaseCache, so a rule that reads
	// postings (e.g. "words") shares the exact-same memoized reads the
	// resolver already performed.
	RuleNames []string
	Universe  *api.Bitmap
	From      int
	Length    int
	// DistinctFieldID overrides the store-configured distinct field when
	// non-nil. A nil pointer means "use whatever the store configures".
	DistinctFieldID *uint16
}

// Engine runs searches against a single Store. Caches are created fresh
// per Search call, so Engine itself holds no per-search state.
type Engine struct {
	db     store.Store
	logger api.SearchLogger
}

// New creates an Engine over db. A nil logger defaults to api.NoopLogger.
func New(db store.Store, logger api.SearchLogger) *Engine {
	if logger == nil {
		logger = api.NoopLogger{}
	}
	return &Engine{db: db, logger: logger}
}

// Search resolves req.QueryGraph against req.Universe and runs the result
// through the rules named by req.RuleNames via BucketSort, returning up to req.Length document
// ids starting at req.From.
func (e *Engine) Search(ctx context.Context, req Request) ([]api.DocId, error) {
	dbCache := cache.NewDatabaseCache(e.db)
	nodeCache := cache.NewNodeDocIdsCache(dbCache)
	resolver := resolve.New(nodeCache)

	candidates, err := resolver.Resolve(ctx, req.QueryGraph, req.Universe)
	if err != nil {
		return nil, fmt.Errorf("resolve query graph: %w", err)
	}

	rules, err := rank.BuildRules(req.RuleNames, dbCache)
	if err != nil {
		return nil, err
	}

	df, err := e.buildDistinctFilter(ctx, req.DistinctFieldID)
	if err != nil {
		return nil, err
	}

	query := api.Query{Graph: req.QueryGraph, Terms: req.Terms}
	results, err := rank.Sort(ctx, rules, query, candidates, req.From, req.Length, df, e.logger)
	if err != nil {
		return nil, fmt.Errorf("bucket sort: %w", err)
	}
	return results, nil
}

func (e *Engine) buildDistinctFilter(ctx context.Context, override *uint16) (*distinct.Filter, error) {
	if override != nil {
		return distinct.New(e.db, *override, true), nil
	}
	name, ok, err := e.db.DistinctField(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read distinct field: %v", api.ErrStoreError, err)
	}
	if !ok {
		return distinct.New(e.db, 0, false), nil
	}
	fid, ok, err := e.db.FieldID(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve distinct field id for %q: %v", api.ErrStoreError, name, err)
	}
	if !ok {
		return distinct.New(e.db, 0, false), nil
	}
	return distinct.New(e.db, fid, true), nil
}
