// Package store is the on-disk/in-memory collaborator the ranking core
// consumes: posting-list lookups, the distinct field, field ids, and the
// document universe.
package store

import (
	"context"
	"errors"

	"github.com/agentic-research/rankcore/api"
)

var (
	errTruncated = errors.New("rankcore/store: truncated posting list")
	errBadMagic  = errors.New("rankcore/store: bad posting list magic")
)

// Store is the interface consumed by internal/cache and internal/distinct.
type Store interface {
	// WordPostings returns the encoded posting list for an exact word,
	// or (nil, false) if the word is absent.
	WordPostings(ctx context.Context, word string) ([]byte, bool, error)
	// PrefixPostings returns the encoded posting list for a prefix, or
	// (nil, false) if the prefix is absent.
	PrefixPostings(ctx context.Context, word string) ([]byte, bool, error)
	// DistinctField returns the configured distinct field name, or
	// ("", false) if none is configured.
	DistinctField(ctx context.Context) (string, bool, error)
	// FieldID resolves a field name to its numeric id, or (0, false) if
	// the field is unknown.
	FieldID(ctx context.Context, name string) (uint16, bool, error)
	// DocumentsIDs returns the full universe of documents in the index.
	DocumentsIDs(ctx context.Context) (*api.Bitmap, error)
	// FieldValue returns the value of field fid on document doc, used by
	// the distinct filter to group documents. ("", false) means the
	// document has no value for that field.
	FieldValue(ctx context.Context, fid uint16, doc uint32) (string, bool, error)
}
