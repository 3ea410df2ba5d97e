// Package cache implements the two per-search memoization layers: raw
// posting-list bytes, and the decoded/unioned bitmap per query-graph
// node.
package cache

import (
	"context"
	"fmt"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/store"
)

type postingsKind int

const (
	exactKind postingsKind = iota
	prefixKind
)

type postingsEntry struct {
	bytes  []byte
	absent bool
}

// DatabaseCache memoizes raw posting-list reads for the lifetime of one
// search. Keys are interned by value equality, as a plain Go map already
// does for (string, int) keys.
type DatabaseCache struct {
	db      store.Store
	entries map[databaseCacheKey]postingsEntry
}

type databaseCacheKey struct {
	word string
	kind postingsKind
}

// NewDatabaseCache creates an empty cache over db.
func NewDatabaseCache(db store.Store) *DatabaseCache {
	return &DatabaseCache{db: db, entries: make(map[databaseCacheKey]postingsEntry)}
}

// GetWordPostings returns the encoded posting list for an exact word, or
// (nil, false) if absent. Results are memoized: the store is read at most
// once per distinct word across the whole search.
func (c *DatabaseCache) GetWordPostings(ctx context.Context, word string) ([]byte, bool, error) {
	return c.get(ctx, word, exactKind)
}

// GetPrefixPostings returns the encoded posting list for a prefix, or
// (nil, false) if absent.
func (c *DatabaseCache) GetPrefixPostings(ctx context.Context, word string) ([]byte, bool, error) {
	return c.get(ctx, word, prefixKind)
}

func (c *DatabaseCache) get(ctx context.Context, word string, kind postingsKind) ([]byte, bool, error) {
	key := databaseCacheKey{word, kind}
	if e, ok := c.entries[key]; ok {
		return e.bytes, !e.absent, nil
	}
	var (
		b   []byte
		ok  bool
		err error
	)
	if kind == exactKind {
		b, ok, err = c.db.WordPostings(ctx, word)
	} else {
		b, ok, err = c.db.PrefixPostings(ctx, word)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read postings for %q: %v", api.ErrStoreError, word, err)
	}
	c.entries[key] = postingsEntry{bytes: b, absent: !ok}
	return b, ok, nil
}
