package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agentic-research/rankcore/api"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store backed by a modernc.org/sqlite (pure-Go, no CGo)
// database file: one table of framed posting lists keyed by (word, kind),
// one table of per-document field values for distinct grouping, and a
// single-row config table naming the distinct field.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS postings (
	word TEXT NOT NULL,
	kind INTEGER NOT NULL,
	bytes BLOB NOT NULL,
	PRIMARY KEY (word, kind)
);
CREATE TABLE IF NOT EXISTS documents (
	doc_id INTEGER PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS fields (
	name TEXT PRIMARY KEY,
	field_id INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS doc_fields (
	field_id INTEGER NOT NULL,
	doc_id INTEGER NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (field_id, doc_id)
);
CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// OpenSQLiteStore opens (creating if absent) the index at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// PutPostings writes (or overwrites) the framed posting list for a word of
// the given kind. Used by the `index` CLI subcommand, not by the search
// path.
func (s *SQLiteStore) PutPostings(ctx context.Context, word string, prefix bool, encoded []byte) error {
	kind := exactKind
	if prefix {
		kind = prefixKind
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO postings(word, kind, bytes) VALUES (?, ?, ?)
		 ON CONFLICT(word, kind) DO UPDATE SET bytes = excluded.bytes`,
		word, int(kind), encoded)
	return err
}

// PutDocument registers a document id in the universe.
func (s *SQLiteStore) PutDocument(ctx context.Context, doc uint32) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents(doc_id) VALUES (?) ON CONFLICT(doc_id) DO NOTHING`, doc)
	return err
}

// PutFieldValue records a document's value for a named field, creating the
// field id on first use.
func (s *SQLiteStore) PutFieldValue(ctx context.Context, name string, doc uint32, value string) error {
	fid, err := s.ensureFieldID(ctx, name)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO doc_fields(field_id, doc_id, value) VALUES (?, ?, ?)
		 ON CONFLICT(field_id, doc_id) DO UPDATE SET value = excluded.value`,
		fid, doc, value)
	return err
}

func (s *SQLiteStore) ensureFieldID(ctx context.Context, name string) (uint16, error) {
	if id, ok, err := s.FieldID(ctx, name); err != nil {
		return 0, err
	} else if ok {
		return id, nil
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fields`).Scan(&count); err != nil {
		return 0, err
	}
	fid := uint16(count + 1)
	if _, err := s.db.ExecContext(ctx, `INSERT INTO fields(name, field_id) VALUES (?, ?)`, name, fid); err != nil {
		return 0, err
	}
	return fid, nil
}

// SetDistinctField configures the distinct field by name.
func (s *SQLiteStore) SetDistinctField(ctx context.Context, name string) error {
	if _, err := s.ensureFieldID(ctx, name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO config(key, value) VALUES ('distinct_field', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, name)
	return err
}

func (s *SQLiteStore) WordPostings(ctx context.Context, word string) ([]byte, bool, error) {
	return s.lookupPostings(ctx, word, exactKind)
}

func (s *SQLiteStore) PrefixPostings(ctx context.Context, word string) ([]byte, bool, error) {
	return s.lookupPostings(ctx, word, prefixKind)
}

func (s *SQLiteStore) lookupPostings(ctx context.Context, word string, kind postingsKind) ([]byte, bool, error) {
	var b []byte
	err := s.db.QueryRowContext(ctx, `SELECT bytes FROM postings WHERE word = ? AND kind = ?`, word, int(kind)).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: lookup postings for %q: %v", errTruncated, word, err)
	}
	return b, true, nil
}

func (s *SQLiteStore) DistinctField(ctx context.Context) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = 'distinct_field'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLiteStore) FieldID(ctx context.Context, name string) (uint16, bool, error) {
	var fid uint16
	err := s.db.QueryRowContext(ctx, `SELECT field_id FROM fields WHERE name = ?`, name).Scan(&fid)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return fid, true, nil
}

func (s *SQLiteStore) DocumentsIDs(ctx context.Context) (*api.Bitmap, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_id FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()
	bm := api.NewBitmap()
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan document id: %w", err)
		}
		bm.Add(id)
	}
	return bm, rows.Err()
}

func (s *SQLiteStore) FieldValue(ctx context.Context, fid uint16, doc uint32) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM doc_fields WHERE field_id = ? AND doc_id = ?`, fid, doc).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
