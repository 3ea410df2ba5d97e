package api

import "log"

// SearchLogger receives observer callbacks at every interesting transition
// of a search. All methods are synchronous; implementations must not
// retain any reference past the call (bitmaps are mutated in place
// downstream).
type SearchLogger interface {
	InitialQuery(q Query)
	InitialUniverse(universe *Bitmap)
	RankingRules(names []string)
	StartIterationRankingRule(depth int, ruleName string, query Query, universe *Bitmap)
	NextBucketRankingRule(depth int, ruleName string, universeBefore *Bitmap, bucket *Bitmap)
	SkipBucketRankingRule(depth int, ruleName string, skipped *Bitmap)
	AddToResults(ids []DocId)
	EndIterationRankingRule(depth int, ruleName string, remainingUniverse *Bitmap)
}

// NoopLogger discards every callback. It is the default when a caller
// passes a nil SearchLogger.
type NoopLogger struct{}

func (NoopLogger) InitialQuery(Query)                                          {}
func (NoopLogger) InitialUniverse(*Bitmap)                                     {}
func (NoopLogger) RankingRules([]string)                                       {}
func (NoopLogger) StartIterationRankingRule(int, string, Query, *Bitmap)       {}
func (NoopLogger) NextBucketRankingRule(int, string, *Bitmap, *Bitmap)         {}
func (NoopLogger) SkipBucketRankingRule(int, string, *Bitmap)                  {}
func (NoopLogger) AddToResults([]DocId)                                       {}
func (NoopLogger) EndIterationRankingRule(int, string, *Bitmap)                {}

// StdLogger logs every callback via the standard library logger: a single
// log.Printf per event, no structured fields, no external logging
// dependency.
type StdLogger struct {
	*log.Logger
}

// NewStdLogger wraps log.Default() (or l, if non-nil) as a SearchLogger.
func NewStdLogger(l *log.Logger) StdLogger {
	if l == nil {
		l = log.Default()
	}
	return StdLogger{Logger: l}
}

func (s StdLogger) InitialQuery(q Query) {
	s.Printf("search: initial query with %d term(s)", len(q.Terms))
}

func (s StdLogger) InitialUniverse(universe *Bitmap) {
	s.Printf("search: initial universe size=%d", universe.GetCardinality())
}

func (s StdLogger) RankingRules(names []string) {
	s.Printf("search: ranking rules=%v", names)
}

func (s StdLogger) StartIterationRankingRule(depth int, ruleName string, _ Query, universe *Bitmap) {
	s.Printf("search: rule[%d]=%s start_iteration universe=%d", depth, ruleName, universe.GetCardinality())
}

func (s StdLogger) NextBucketRankingRule(depth int, ruleName string, universeBefore, bucket *Bitmap) {
	s.Printf("search: rule[%d]=%s next_bucket universe=%d bucket=%d", depth, ruleName, universeBefore.GetCardinality(), bucket.GetCardinality())
}

func (s StdLogger) SkipBucketRankingRule(depth int, ruleName string, skipped *Bitmap) {
	s.Printf("search: rule[%d]=%s skip_bucket size=%d", depth, ruleName, skipped.GetCardinality())
}

func (s StdLogger) AddToResults(ids []DocId) {
	s.Printf("search: add_to_results count=%d", len(ids))
}

func (s StdLogger) EndIterationRankingRule(depth int, ruleName string, remainingUniverse *Bitmap) {
	s.Printf("search: rule[%d]=%s end_iteration remaining=%d", depth, ruleName, remainingUniverse.GetCardinality())
}
