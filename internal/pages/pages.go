// Package pages serves rendered pages of stored exports.
package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mithrel/blockmark/internal/db"
	"github.com/mithrel/blockmark/internal/export"
	"github.com/mithrel/blockmark/internal/present/format"
	"github.com/mithrel/blockmark/internal/render"
	"github.com/mithrel/blockmark/pkg/api"
	"github.com/mithrel/blockmark/pkg/models"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrInvalidName  = errors.New("invalid export name")
)

type Service struct {
	store      *db.Store
	renderer   *render.Renderer
	log        *zap.Logger
	cache      bool
	stylesheet string
	now        func() time.Time

	mu     sync.Mutex
	tables map[string]decoded
}

// decoded memoizes the table of the latest payload seen for an export.
type decoded struct {
	hash  string
	table models.Table
}

type Option func(*Service)

// WithCache enables storing rendered fragments in the render cache.
func WithCache(on bool) Option { return func(s *Service) { s.cache = on } }

// WithStylesheet sets the stylesheet linked from full documents.
func WithStylesheet(href string) Option { return func(s *Service) { s.stylesheet = href } }

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func New(store *db.Store, r *render.Renderer, opts ...Option) *Service {
	if r == nil {
		r = render.New()
	}
	s := &Service{
		store:    store,
		renderer: r,
		log:      zap.NewNop(),
		cache:    true,
		now:      time.Now,
		tables:   make(map[string]decoded),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ValidateName checks that name can be used as an export name: non-empty
// and free of path separators.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" || name != strings.TrimSpace(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Import decodes payload and stores it under name, replacing any export
// with the same name.
func (s *Service) Import(ctx context.Context, name string, payload []byte) (api.ExportInfo, error) {
	if err := ValidateName(name); err != nil {
		return api.ExportInfo{}, err
	}
	table, err := export.DecodeBytes(payload)
	if err != nil {
		return api.ExportInfo{}, err
	}
	e := api.Export{
		Name:       name,
		Hash:       api.HashPayload(payload),
		Payload:    payload,
		Pages:      len(models.Pages(table)),
		ImportedAt: s.now().UTC(),
	}
	if err := s.store.Exports.PutExport(ctx, e); err != nil {
		return api.ExportInfo{}, fmt.Errorf("store export %q: %w", name, err)
	}
	s.remember(name, e.Hash, table)
	s.log.Info("imported export", zap.String("name", name), zap.Int("pages", e.Pages), zap.Int("bytes", len(payload)))
	return e.Info(), nil
}

// Delete removes an export and its cached renders.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.store.Exports.DeleteExport(ctx, name); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.tables, name)
	s.mu.Unlock()
	return nil
}

// Exports lists stored exports.
func (s *Service) Exports(ctx context.Context) ([]api.ExportInfo, error) {
	return s.store.Exports.ListExports(ctx)
}

// Table returns the decoded block table of a stored export.
func (s *Service) Table(ctx context.Context, name string) (models.Table, api.Export, error) {
	e, err := s.store.Exports.GetExport(ctx, name)
	if err != nil {
		return nil, api.Export{}, fmt.Errorf("export %q: %w", name, err)
	}
	s.mu.Lock()
	d, ok := s.tables[name]
	s.mu.Unlock()
	if ok && d.hash == e.Hash {
		return d.table, e, nil
	}
	table, err := export.DecodeBytes(e.Payload)
	if err != nil {
		return nil, api.Export{}, fmt.Errorf("export %q: %w", name, err)
	}
	s.remember(name, e.Hash, table)
	return table, e, nil
}

func (s *Service) remember(name, hash string, table models.Table) {
	s.mu.Lock()
	s.tables[name] = decoded{hash: hash, table: table}
	s.mu.Unlock()
}

// List summarizes the pages of a stored export.
func (s *Service) List(ctx context.Context, name string) ([]api.PageInfo, error) {
	table, _, err := s.Table(ctx, name)
	if err != nil {
		return nil, err
	}
	return models.Pages(table), nil
}

// Fragment renders the page of a stored export that query selects (see
// ResolvePage), serving it from the render cache when enabled.
func (s *Service) Fragment(ctx context.Context, name, query string) (api.PageInfo, string, error) {
	table, e, err := s.Table(ctx, name)
	if err != nil {
		return api.PageInfo{}, "", err
	}
	p, err := ResolvePage(table, query)
	if err != nil {
		return api.PageInfo{}, "", err
	}
	key := api.CacheKey(e.Hash, "max_depth="+strconv.Itoa(s.renderer.MaxDepth()))
	if s.cache {
		r, err := s.store.Renders.GetRender(ctx, name, p.ID, key)
		switch {
		case err == nil:
			s.log.Debug("render cache hit", zap.String("export", name), zap.String("page", p.ID))
			return p, r.HTML, nil
		case !errors.Is(err, db.ErrNotFound):
			s.log.Warn("render cache read failed", zap.String("export", name), zap.Error(err))
		}
	}
	html := s.renderer.Render(p.ID, table).String()
	if s.cache {
		r := api.Rendered{Export: name, PageID: p.ID, Hash: key, HTML: html, RenderedAt: s.now().UTC()}
		if err := s.store.Renders.PutRender(ctx, r); err != nil {
			s.log.Warn("render cache write failed", zap.String("export", name), zap.Error(err))
		}
	}
	return p, html, nil
}

// Document writes the selected page as a standalone HTML document.
func (s *Service) Document(ctx context.Context, w io.Writer, name, query string) (api.PageInfo, error) {
	p, frag, err := s.Fragment(ctx, name, query)
	if err != nil {
		return api.PageInfo{}, err
	}
	opts := format.DocumentOptions{Title: p.Title, Stylesheet: s.stylesheet}
	return p, format.WriteHTMLDocument(w, opts, frag)
}
