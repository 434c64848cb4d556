package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/blockmark/pkg/models"
)

const pageChunk = `{
  "recordMap": {
    "block": {
      "root": {"role": "reader", "value": {
        "id": "root", "type": "page",
        "properties": {"title": [["Trip ", [["b"]]], ["notes"]]},
        "content": ["p1", "l1", "n1", "c1", "gone"],
        "format": {"page_icon": "x"},
        "file_ids": ["f1"]
      }},
      "p1": {"role": "reader", "value": {"id": "p1", "type": "text", "parent_id": "root",
        "properties": {"title": [["see ", []], ["here", [["a", "https://example.com"], ["i"]]]]}}},
      "l1": {"role": "reader", "value": {"id": "l1", "type": "bulleted_list", "parent_id": "root", "content": []}},
      "n1": {"role": "reader", "value": {"id": "n1", "type": "numbered_list", "parent_id": "root",
        "properties": {"title": [["first"]]}}},
      "c1": {"role": "reader", "value": {"id": "c1", "type": "collection_view", "parent_id": "root"}},
      "dead": {"role": "none", "value": null}
    },
    "collection": {
      "coll1": {"role": "reader", "value": {"id": "coll1", "name": [["Table"]]}}
    },
    "space": 3
  }
}`

func TestDecodePageChunk(t *testing.T) {
	table, err := DecodeBytes([]byte(pageChunk))
	require.NoError(t, err)

	t.Run("page with formatted title", func(t *testing.T) {
		v, ok := table.Resolve("root")
		require.True(t, ok)
		page, ok := v.Block.(models.Page)
		require.True(t, ok)
		require.Len(t, page.Properties.Title, 2)
		assert.Equal(t, "Trip ", page.Properties.Title[0].Text)
		assert.Equal(t, []models.FormatInstruction{models.Style{Kind: models.Bold, Raw: "b"}}, page.Properties.Title[0].Formatting)
		assert.Nil(t, page.Properties.Title[1].Formatting)
		assert.Equal(t, []string{"p1", "l1", "n1", "c1", "gone"}, v.Content)
		assert.Equal(t, []string{"f1"}, page.FileIDs)
		assert.Equal(t, "x", page.Format["page_icon"])
	})

	t.Run("text with annotations", func(t *testing.T) {
		v, ok := table.Resolve("p1")
		require.True(t, ok)
		assert.Equal(t, "root", v.ParentID)
		assert.False(t, v.IsContainer())
		text, ok := v.Block.(models.Text)
		require.True(t, ok)
		require.NotNil(t, text.Properties)
		title := text.Properties.Title
		require.Len(t, title, 2)
		assert.NotNil(t, title[0].Formatting)
		assert.Empty(t, title[0].Formatting)
		require.Len(t, title[1].Formatting, 2)
		link, ok := title[1].Formatting[0].(models.Annotation)
		require.True(t, ok)
		assert.Equal(t, models.Link, link.Kind)
		assert.Equal(t, "https://example.com", link.Value)
		assert.Equal(t, models.Style{Kind: models.Italic, Raw: "i"}, title[1].Formatting[1])
	})

	t.Run("list items", func(t *testing.T) {
		v, ok := table.Resolve("l1")
		require.True(t, ok)
		assert.True(t, v.IsContainer())
		assert.Empty(t, v.Content)
		bl, ok := v.Block.(models.BulletedList)
		require.True(t, ok)
		assert.Nil(t, bl.Properties)

		v, ok = table.Resolve("n1")
		require.True(t, ok)
		assert.Equal(t, models.NumberedList{}, v.Block)
	})

	t.Run("other block types are unsupported kinds", func(t *testing.T) {
		v, ok := table.Resolve("c1")
		require.True(t, ok)
		assert.Equal(t, models.Unsupported{Name: "collection_view"}, v.Block)
	})

	t.Run("null values and other maps are unresolved", func(t *testing.T) {
		rec, ok := table.Lookup("dead")
		require.True(t, ok)
		_, resolved := rec.Resolved()
		assert.False(t, resolved)

		rec, ok = table.Lookup("coll1")
		require.True(t, ok)
		_, resolved = rec.Resolved()
		assert.False(t, resolved)
		assert.NotEmpty(t, rec.Raw)
	})

	t.Run("missing references stay missing", func(t *testing.T) {
		_, ok := table.Lookup("gone")
		assert.False(t, ok)
	})
}

func TestDecodeShapes(t *testing.T) {
	t.Run("bare record map", func(t *testing.T) {
		table, err := DecodeBytes([]byte(`{"block": {"a": {"value": {"type": "text"}}}}`))
		require.NoError(t, err)
		v, ok := table.Resolve("a")
		require.True(t, ok)
		assert.Equal(t, "a", v.ID, "id falls back to the map key")
		assert.Equal(t, models.Text{}, v.Block)
	})

	t.Run("bare block map", func(t *testing.T) {
		table, err := Decode(strings.NewReader(`{"a": {"value": {"id": "a", "type": "page"}}}`))
		require.NoError(t, err)
		_, ok := table.Resolve("a")
		assert.True(t, ok)
	})

	t.Run("empty export", func(t *testing.T) {
		_, err := DecodeBytes([]byte(`{}`))
		assert.ErrorIs(t, err, ErrNoBlocks)

		_, err = DecodeBytes([]byte(`{"recordMap": {"block": {}}}`))
		assert.ErrorIs(t, err, ErrNoBlocks)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := DecodeBytes([]byte(`[1, 2`))
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestDecodeTitle(t *testing.T) {
	runs := decodeTitle([]byte(`[["a"], [], [42], ["b", [["zz"], ["h", "red"], ["s"], []]]]`))
	require.Len(t, runs, 2, "empty and non-string runs are dropped")
	assert.Equal(t, "a", runs[0].Text)
	assert.Equal(t, "b", runs[1].Text)
	assert.Equal(t, []models.FormatInstruction{
		models.Style{Kind: models.StyleUnknown, Raw: "zz"},
		models.Annotation{Kind: models.Color, Raw: "h", Value: "red"},
		models.Style{Kind: models.Strike, Raw: "s"},
	}, runs[1].Formatting)

	assert.Nil(t, decodeTitle([]byte(`"not a title"`)))
}
