// Package render turns a block table into HTML markup.
//
// Rendering never fails: identifiers that are missing from the table, or
// that point at records without block content, render as nothing; block
// kinds without a dedicated renderer render as a visible placeholder.
package render

import (
	"go.uber.org/zap"

	"github.com/mithrel/blockmark/pkg/models"
)

// DefaultMaxDepth bounds the nesting depth of a walk. Exports are expected
// to be acyclic; the bound guarantees termination when they are not.
const DefaultMaxDepth = 100

// Renderer walks block tables. It holds no per-render state and is safe
// for concurrent use.
type Renderer struct {
	maxDepth int
	log      *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxDepth sets the depth guard. Blocks nested deeper than n levels
// below the rendered root render as nothing. Values below zero are ignored.
func WithMaxDepth(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxDepth = n
		}
	}
}

// WithLogger sets the logger used to report skipped blocks at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// New returns a Renderer with DefaultMaxDepth and a no-op logger,
// adjusted by opts.
func New(opts ...Option) *Renderer {
	r := &Renderer{maxDepth: DefaultMaxDepth, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// MaxDepth reports the configured depth guard.
func (r *Renderer) MaxDepth() int { return r.maxDepth }

var defaultRenderer = New()

// Render renders id with the default renderer.
func Render(id string, table models.Table) Markup {
	return defaultRenderer.Render(id, table)
}

// Render renders the block id and, recursively, its children.
func (r *Renderer) Render(id string, table models.Table) Markup {
	return r.render(id, table, 0)
}

func (r *Renderer) render(id string, table models.Table, depth int) Markup {
	if depth > r.maxDepth {
		r.log.Debug("render depth exceeded", zap.String("id", id), zap.Int("max_depth", r.maxDepth))
		return nil
	}
	v, ok := table.Resolve(id)
	if !ok {
		r.log.Debug("skipping unresolved block", zap.String("id", id))
		return nil
	}
	self := renderBlock(v.Block)
	if !v.IsContainer() {
		return self
	}
	children := r.renderChildren(v.Content, table, depth+1)
	if _, ok := v.Block.(models.BulletedList); ok {
		// Nested content belongs to the list item itself.
		return appendInside(self, children)
	}
	return append(self, children...)
}

// pendingGroup is an open run of list items of one family. The zero value
// is the "no pending group" state.
type pendingGroup struct {
	family models.ListFamily
	ids    []string
}

func (g pendingGroup) open() bool { return len(g.ids) > 0 }

// childAccumulator folds sibling identifiers into markup, coalescing each
// run of consecutive same-family list items into one list container.
type childAccumulator struct {
	r       *Renderer
	table   models.Table
	depth   int
	emitted Markup
	pending pendingGroup
}

func (a *childAccumulator) step(id string) {
	v, ok := a.table.Resolve(id)
	if !ok {
		// Neither emits nor breaks the pending group.
		a.r.log.Debug("skipping unresolved child", zap.String("id", id))
		return
	}
	family := models.FamilyOf(v.Block)
	switch {
	case family == models.NotAList:
		a.flush()
		a.emitted = append(a.emitted, a.r.render(id, a.table, a.depth)...)
	case a.pending.open() && a.pending.family == family:
		a.pending.ids = append(a.pending.ids, id)
	default:
		a.flush()
		a.pending = pendingGroup{family: family, ids: []string{id}}
	}
}

func (a *childAccumulator) flush() {
	a.emitted = append(a.emitted, a.r.renderWrapper(a.pending, a.table, a.depth)...)
	a.pending = pendingGroup{}
}

func (r *Renderer) renderChildren(ids []string, table models.Table, depth int) Markup {
	acc := childAccumulator{r: r, table: table, depth: depth}
	for _, id := range ids {
		acc.step(id)
	}
	acc.flush()
	return wrap("div", acc.emitted)
}

func (r *Renderer) renderWrapper(g pendingGroup, table models.Table, depth int) Markup {
	if !g.open() {
		return nil
	}
	var items Markup
	for _, id := range g.ids {
		items = append(items, r.render(id, table, depth)...)
	}
	tag := "ul"
	if g.family == models.Numbered {
		tag = "ol"
	}
	return wrap(tag, items)
}
