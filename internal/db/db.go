// Package db persists imported exports and cached page renders.
package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/blockmark/pkg/api"
)

var ErrNotFound = errors.New("not found")

// ExportRepo stores exports by name.
type ExportRepo interface {
	// PutExport inserts or replaces the export with the same name. Cached
	// renders of a replaced payload are dropped.
	PutExport(ctx context.Context, e api.Export) error
	GetExport(ctx context.Context, name string) (api.Export, error)
	// ListExports returns every export ordered by name.
	ListExports(ctx context.Context) ([]api.ExportInfo, error)
	DeleteExport(ctx context.Context, name string) error
}

// RenderCache stores rendered page fragments keyed by export, page and a
// hash of everything the fragment depends on.
type RenderCache interface {
	GetRender(ctx context.Context, export, pageID, hash string) (api.Rendered, error)
	PutRender(ctx context.Context, r api.Rendered) error
}

// Store groups the repositories of one backend.
type Store struct {
	Exports ExportRepo
	Renders RenderCache
}

// Open returns a Store for a URL: sqlite://path, a bare file path, or
// mem:// for a process-local store.
func Open(ctx context.Context, url string) (*Store, io.Closer, error) {
	switch {
	case strings.HasPrefix(url, "mem://"):
		m := newMemStore()
		return &Store{Exports: m, Renders: m}, nopCloser{}, nil
	case strings.HasPrefix(url, "sqlite://"):
		return openSQLite(ctx, url)
	case strings.Contains(url, "://"):
		return nil, nil, fmt.Errorf("open store %q: unsupported scheme", url)
	case url == "":
		return nil, nil, errors.New("open store: empty url")
	default:
		return openSQLite(ctx, "sqlite://"+url)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
