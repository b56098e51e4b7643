package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/treescape/pkg/tree"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS trees (
	root       TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps one row per tree in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. Use ":memory:" for a
// private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection: writes are serialized and ":memory:" stays one database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, snap tree.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO trees (root, doc, updated_at) VALUES (?, ?, ?) ON CONFLICT(root) DO NOTHING`,
		snap.RootID, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert %q: %w", snap.RootID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrExists
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, root string) (tree.Snapshot, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM trees WHERE root = ?`, root).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return tree.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return tree.Snapshot{}, fmt.Errorf("select %q: %w", root, err)
	}
	return decode(root, []byte(doc))
}

func (s *SQLiteStore) Put(ctx context.Context, snap tree.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO trees (root, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(root) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		snap.RootID, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert %q: %w", snap.RootID, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, root string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trees WHERE root = ?`, root)
	if err != nil {
		return fmt.Errorf("delete %q: %w", root, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT root FROM trees ORDER BY root`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var roots []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		roots = append(roots, r)
	}
	return roots, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
