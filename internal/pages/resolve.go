package pages

import (
	"fmt"
	"strings"

	"github.com/mithrel/blockmark/internal/util"
	"github.com/mithrel/blockmark/pkg/api"
	"github.com/mithrel/blockmark/pkg/models"
)

// ResolvePage picks the block a query names. An empty query selects the
// first root page. Otherwise the query is tried as a block identifier
// (dashless UUIDs included) and then fuzzily against page titles.
func ResolvePage(table models.Table, query string) (api.PageInfo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		if roots := models.Roots(table); len(roots) > 0 {
			return roots[0], nil
		}
		if pages := models.Pages(table); len(pages) > 0 {
			return pages[0], nil
		}
		return api.PageInfo{}, fmt.Errorf("%w: export has no pages", ErrPageNotFound)
	}

	if key, ok := table.Key(query); ok {
		if v, ok := table[key].Resolved(); ok {
			return pageInfo(table, key, v), nil
		}
	}

	pages := models.Pages(table)
	titles := make([]string, len(pages))
	for i, p := range pages {
		titles[i] = p.Title
	}
	if i, ok := util.BestMatch(query, titles); ok {
		return pages[i], nil
	}
	return api.PageInfo{}, fmt.Errorf("%w: %q", ErrPageNotFound, query)
}

// pageInfo describes the block stored under key. The ID is the table key,
// which need not equal the block's own id field.
func pageInfo(table models.Table, key string, v *models.Value) api.PageInfo {
	_, hasParent := table.Resolve(v.ParentID)
	return api.PageInfo{
		ID:       key,
		Title:    models.PlainText(models.Title(v.Block)),
		Children: len(v.Content),
		Root:     v.ParentID == "" || !hasParent,
	}
}
