package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mithrel/blockmark/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

// conn returns the transaction carried by ctx, or the database handle.
func (s *sqliteStore) conn(ctx context.Context) runner {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *sqliteStore) PutExport(ctx context.Context, e api.Export) error {
	return inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var prev string
		err := tx.QueryRowContext(ctx, `SELECT hash FROM exports WHERE name=?`, e.Name).Scan(&prev)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return err
		case prev != e.Hash:
			if _, err := tx.ExecContext(ctx, `DELETE FROM renders WHERE export=?`, e.Name); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO exports(name, hash, payload, pages, imported_at) VALUES(?,?,?,?,?)
ON CONFLICT(name) DO UPDATE SET hash=excluded.hash, payload=excluded.payload,
  pages=excluded.pages, imported_at=excluded.imported_at`,
			e.Name, e.Hash, e.Payload, e.Pages, e.ImportedAt.UTC())
		return err
	})
}

func (s *sqliteStore) GetExport(ctx context.Context, name string) (api.Export, error) {
	var e api.Export
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT name, hash, payload, pages, imported_at FROM exports WHERE name=?`, name)
	if err := row.Scan(&e.Name, &e.Hash, &e.Payload, &e.Pages, &e.ImportedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Export{}, ErrNotFound
		}
		return api.Export{}, err
	}
	return e, nil
}

func (s *sqliteStore) ListExports(ctx context.Context) ([]api.ExportInfo, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT name, hash, pages, length(payload), imported_at FROM exports ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]api.ExportInfo, 0)
	for rows.Next() {
		var e api.ExportInfo
		if err := rows.Scan(&e.Name, &e.Hash, &e.Pages, &e.Size, &e.ImportedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *sqliteStore) DeleteExport(ctx context.Context, name string) error {
	return inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM renders WHERE export=?`, name); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM exports WHERE name=?`, name)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *sqliteStore) GetRender(ctx context.Context, export, pageID, hash string) (api.Rendered, error) {
	r := api.Rendered{Export: export, PageID: pageID, Hash: hash}
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT html, rendered_at FROM renders WHERE export=? AND page_id=? AND hash=?`, export, pageID, hash)
	if err := row.Scan(&r.HTML, &r.RenderedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Rendered{}, ErrNotFound
		}
		return api.Rendered{}, err
	}
	return r, nil
}

func (s *sqliteStore) PutRender(ctx context.Context, r api.Rendered) error {
	_, err := s.conn(ctx).ExecContext(ctx, `
INSERT INTO renders(export, page_id, hash, html, rendered_at) VALUES(?,?,?,?,?)
ON CONFLICT(export, page_id, hash) DO UPDATE SET html=excluded.html, rendered_at=excluded.rendered_at`,
		r.Export, r.PageID, r.Hash, r.HTML, r.RenderedAt.UTC())
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY") {
		return fmt.Errorf("cache render for %q: %w", r.Export, ErrNotFound)
	}
	return err
}

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// PRAGMAs are per connection; keep a single one so they always apply.
	dbh.SetMaxOpenConns(1)
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if _, err := dbh.ExecContext(ctx, `PRAGMA foreign_keys=ON;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	s := &sqliteStore{db: dbh}
	return &Store{Exports: s, Renders: s}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS exports (
  name TEXT PRIMARY KEY,
  hash TEXT NOT NULL,
  payload BLOB NOT NULL,
  pages INTEGER NOT NULL,
  imported_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS renders (
  export TEXT NOT NULL,
  page_id TEXT NOT NULL,
  hash TEXT NOT NULL,
  html TEXT NOT NULL,
  rendered_at TIMESTAMP NOT NULL,
  PRIMARY KEY(export, page_id, hash),
  FOREIGN KEY(export) REFERENCES exports(name) ON DELETE CASCADE
);
`)
	return err
}
