package store

import (
	"context"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/rankcore/api"
)

// postingsKey is (word, kind), matching the DatabaseCache key shape.
type postingsKey struct {
	word string
	kind postingsKind
}

type postingsKind int

const (
	exactKind postingsKind = iota
	prefixKind
)

// MemoryStore is a map-based Store used by the core's own tests and by
// callers that don't need persistence across processes.
type MemoryStore struct {
	postings      map[postingsKey][]byte
	distinctField string
	hasDistinct   bool
	fieldIDs      map[string]uint16
	fieldValues   map[uint16]map[uint32]string
	documents     *roaring.Bitmap
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		postings:    make(map[postingsKey][]byte),
		fieldIDs:    make(map[string]uint16),
		fieldValues: make(map[uint16]map[uint32]string),
		documents:   roaring.New(),
	}
}

// PutWordPostings indexes word -> docs for exact lookups, encoding docs as
// a posting list the same way the SQLite store would.
func (m *MemoryStore) PutWordPostings(word string, docs ...uint32) error {
	return m.put(word, exactKind, docs)
}

// PutPrefixPostings indexes a prefix -> docs for prefix-db lookups.
func (m *MemoryStore) PutPrefixPostings(word string, docs ...uint32) error {
	return m.put(word, prefixKind, docs)
}

func (m *MemoryStore) put(word string, kind postingsKind, docs []uint32) error {
	bm := roaring.New()
	for _, d := range docs {
		bm.Add(d)
		m.documents.Add(d)
	}
	enc, err := EncodePostings(bm)
	if err != nil {
		return err
	}
	m.postings[postingsKey{word, kind}] = enc
	return nil
}

// SetDistinctField configures the distinct field by name, allocating a
// field id for it if one doesn't already exist.
func (m *MemoryStore) SetDistinctField(name string) uint16 {
	m.distinctField = name
	m.hasDistinct = true
	return m.ensureFieldID(name)
}

func (m *MemoryStore) ensureFieldID(name string) uint16 {
	if id, ok := m.fieldIDs[name]; ok {
		return id
	}
	id := uint16(len(m.fieldIDs) + 1)
	m.fieldIDs[name] = id
	return id
}

// SetFieldValue records doc's value for field name, for distinct grouping.
func (m *MemoryStore) SetFieldValue(name string, doc uint32, value string) {
	fid := m.ensureFieldID(name)
	vals, ok := m.fieldValues[fid]
	if !ok {
		vals = make(map[uint32]string)
		m.fieldValues[fid] = vals
	}
	vals[doc] = value
	m.documents.Add(doc)
}

// AddDocument registers a bare document id in the universe without any
// postings (used to build universes larger than what's indexed).
func (m *MemoryStore) AddDocument(doc uint32) { m.documents.Add(doc) }

func (m *MemoryStore) WordPostings(_ context.Context, word string) ([]byte, bool, error) {
	b, ok := m.postings[postingsKey{word, exactKind}]
	return b, ok, nil
}

func (m *MemoryStore) PrefixPostings(_ context.Context, word string) ([]byte, bool, error) {
	b, ok := m.postings[postingsKey{word, prefixKind}]
	return b, ok, nil
}

func (m *MemoryStore) DistinctField(context.Context) (string, bool, error) {
	return m.distinctField, m.hasDistinct, nil
}

func (m *MemoryStore) FieldID(_ context.Context, name string) (uint16, bool, error) {
	id, ok := m.fieldIDs[name]
	return id, ok, nil
}

func (m *MemoryStore) DocumentsIDs(context.Context) (*api.Bitmap, error) {
	return m.documents.Clone(), nil
}

func (m *MemoryStore) FieldValue(_ context.Context, fid uint16, doc uint32) (string, bool, error) {
	vals, ok := m.fieldValues[fid]
	if !ok {
		return "", false, nil
	}
	v, ok := vals[doc]
	return v, ok, nil
}
