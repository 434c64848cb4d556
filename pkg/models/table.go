package models

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mithrel/blockmark/pkg/api"
)

// NormalizeID returns the canonical dashed lower-case form of a UUID
// identifier. Dashless and upper-case forms are accepted; anything that is
// not a UUID is returned trimmed but otherwise untouched.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	u, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return u.String()
}

// Key returns the table key id refers to: id itself when present, else its
// canonical UUID form.
func (t Table) Key(id string) (string, bool) {
	if _, ok := t[id]; ok {
		return id, true
	}
	if n := NormalizeID(id); n != id {
		if _, ok := t[n]; ok {
			return n, true
		}
	}
	return "", false
}

// Lookup finds a record by exact key, falling back to the canonical UUID
// form of id.
func (t Table) Lookup(id string) (Record, bool) {
	key, ok := t.Key(id)
	if !ok {
		return Record{}, false
	}
	return t[key], true
}

// Resolve returns the block value for id when the table holds a
// renderable record for it.
func (t Table) Resolve(id string) (*Value, bool) {
	r, ok := t.Lookup(id)
	if !ok {
		return nil, false
	}
	return r.Resolved()
}

// Pages summarizes every page block in the table, sorted by title and then
// identifier. A page is a root when its parent is not a block of the table.
func Pages(t Table) []api.PageInfo {
	out := make([]api.PageInfo, 0)
	for id, rec := range t {
		v, ok := rec.Resolved()
		if !ok {
			continue
		}
		p, ok := v.Block.(Page)
		if !ok {
			continue
		}
		_, hasParent := t.Resolve(v.ParentID)
		out = append(out, api.PageInfo{
			ID:       id,
			Title:    PlainText(p.Properties.Title),
			Children: len(v.Content),
			Root:     v.ParentID == "" || !hasParent,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Roots returns the root pages of the table in Pages order.
func Roots(t Table) []api.PageInfo {
	var out []api.PageInfo
	for _, p := range Pages(t) {
		if p.Root {
			out = append(out, p)
		}
	}
	return out
}
