package db

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mithrel/blockmark/pkg/api"
)

type renderKey struct{ export, pageID, hash string }

type memStore struct {
	mu      sync.RWMutex
	exports map[string]api.Export
	renders map[renderKey]api.Rendered
}

func newMemStore() *memStore {
	return &memStore{
		exports: make(map[string]api.Export),
		renders: make(map[renderKey]api.Rendered),
	}
}

func (m *memStore) PutExport(ctx context.Context, e api.Export) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.exports[e.Name]; ok && prev.Hash != e.Hash {
		m.dropRendersLocked(e.Name)
	}
	e.Payload = append([]byte(nil), e.Payload...)
	e.ImportedAt = e.ImportedAt.UTC()
	m.exports[e.Name] = e
	return nil
}

func (m *memStore) GetExport(ctx context.Context, name string) (api.Export, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exports[name]
	if !ok {
		return api.Export{}, ErrNotFound
	}
	e.Payload = append([]byte(nil), e.Payload...)
	return e, nil
}

func (m *memStore) ListExports(ctx context.Context) ([]api.ExportInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.ExportInfo, 0, len(m.exports))
	for _, e := range m.exports {
		out = append(out, e.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) DeleteExport(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exports[name]; !ok {
		return ErrNotFound
	}
	delete(m.exports, name)
	m.dropRendersLocked(name)
	return nil
}

func (m *memStore) dropRendersLocked(export string) {
	for k := range m.renders {
		if k.export == export {
			delete(m.renders, k)
		}
	}
}

func (m *memStore) GetRender(ctx context.Context, export, pageID, hash string) (api.Rendered, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.renders[renderKey{export, pageID, hash}]
	if !ok {
		return api.Rendered{}, ErrNotFound
	}
	return r, nil
}

func (m *memStore) PutRender(ctx context.Context, r api.Rendered) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exports[r.Export]; !ok {
		return fmt.Errorf("cache render for %q: %w", r.Export, ErrNotFound)
	}
	r.RenderedAt = r.RenderedAt.UTC()
	m.renders[renderKey{r.Export, r.PageID, r.Hash}] = r
	return nil
}
