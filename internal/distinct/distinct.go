// Package distinct implements the distinct-field filter: reducing a
// candidate set to at most one document per distinct-field value, with
// deterministic ascending-docid tie-breaking.
package distinct

import (
	"context"
	"fmt"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/store"
)

// Filter applies the distinct-field rule against a Store. A zero-value
// Filter (no field configured) is the identity filter.
type Filter struct {
	db      store.Store
	fieldID uint16
	enabled bool
}

// New builds a Filter for fieldID. If enabled is false, Apply and
// IsDuplicate are no-ops: an absent distinct field means the filter is
// the identity.
func New(db store.Store, fieldID uint16, enabled bool) *Filter {
	return &Filter{db: db, fieldID: fieldID, enabled: enabled}
}

// Enabled reports whether a distinct field is configured.
func (f *Filter) Enabled() bool { return f != nil && f.enabled }

// Apply reduces candidates to at most one document per distinct value,
// returning the kept set and everything it suppressed. Ties are broken by
// ascending docid: candidates are iterated in ascending order and the
// first docid seen for a given value wins.
func (f *Filter) Apply(ctx context.Context, candidates *api.Bitmap) (remaining, excluded *api.Bitmap, err error) {
	remaining = api.NewBitmap()
	excluded = api.NewBitmap()
	if !f.Enabled() {
		remaining.Or(candidates)
		return remaining, excluded, nil
	}

	seen := make(map[string]uint32, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		doc := it.Next()
		value, ok, err := f.db.FieldValue(ctx, f.fieldID, doc)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read distinct field value for doc %d: %v", api.ErrStoreError, doc, err)
		}
		if !ok {
			// No value for this field: the document can't collide with
			// anything, so it is always kept.
			remaining.Add(doc)
			continue
		}
		if _, dup := seen[value]; dup {
			excluded.Add(doc)
			continue
		}
		seen[value] = doc
		remaining.Add(doc)
	}
	return remaining, excluded, nil
}

// SeenValues tracks distinct-field values already kept by IsDuplicate,
// across one ascending-docid scan: the forward-scan fast path bucket sort
// uses when no ranking rules are configured.
type SeenValues map[string]struct{}

// IsDuplicate reports whether docid's distinct-field value has already
// been kept earlier in the same ascending-docid scan, recording the value
// as seen if this is its first occurrence. Since candidates are always
// walked in ascending order, "first occurrence wins" is equivalent to
// marking every other document sharing that value as excluded: any later
// document with the same value is, by construction, a later docid and so
// gets reported as a duplicate when its turn comes.
func (f *Filter) IsDuplicate(ctx context.Context, docid uint32, seen SeenValues) (bool, error) {
	if !f.Enabled() {
		return false, nil
	}
	value, ok, err := f.db.FieldValue(ctx, f.fieldID, docid)
	if err != nil {
		return false, fmt.Errorf("%w: read distinct field value for doc %d: %v", api.ErrStoreError, docid, err)
	}
	if !ok {
		return false, nil
	}
	if _, dup := seen[value]; dup {
		return true, nil
	}
	seen[value] = struct{}{}
	return false, nil
}
