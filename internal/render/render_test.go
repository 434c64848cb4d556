package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/blockmark/pkg/models"
)

func plain(s string) []models.FormattedText {
	return []models.FormattedText{{Text: s}}
}

func pageKind(title string) models.Kind {
	return models.Page{Properties: models.PageProperties{Title: plain(title)}}
}

func textKind(title string) models.Kind {
	return models.Text{Properties: &models.TextProperties{Title: plain(title)}}
}

func bulletKind(title string) models.Kind {
	return models.BulletedList{Properties: &models.TextProperties{Title: plain(title)}}
}

func leaf(id string, k models.Kind) models.Record {
	return models.Record{Value: &models.Value{ID: id, Block: k}}
}

func parent(id string, k models.Kind, children ...string) models.Record {
	return models.Record{Value: &models.Value{ID: id, Block: k, Content: append([]string{}, children...)}}
}

const (
	pageH1 = `<h1 class="notion-page-block">`
	notRendered = `<h1>Could not render!</h1>`
)

func p(s string) string  { return `<p class="notion-text-block">` + s + `</p>` }
func li(s string) string { return `<li class="notion-bulleted_list-block">` + s + `</li>` }

func TestRenderBlockSkeletons(t *testing.T) {
	cases := []struct {
		name string
		kind models.Kind
		want string
	}{
		{"page", pageKind("Doc"), pageH1 + "Doc</h1>"},
		{"text", textKind("x"), p("x")},
		{"empty text", models.Text{}, p("")},
		{"bulleted item", bulletKind("a"), li("a")},
		{"empty bulleted item", models.BulletedList{}, li("")},
		{"numbered item", models.NumberedList{}, notRendered},
		{"unsupported", models.Unsupported{Name: "toggle"}, notRendered},
		{"unnamed unsupported", models.Unsupported{}, notRendered},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, renderBlock(tc.kind).String())
		})
	}
}

func TestRenderMissingAndUnresolved(t *testing.T) {
	table := models.Table{
		"meta": {Raw: []byte(`{"name": "collection"}`)},
	}
	assert.Empty(t, Render("nope", table).String())
	assert.Empty(t, Render("meta", table).String())
	assert.Empty(t, Render("", nil).String())
}

func TestRenderLeafAndContainer(t *testing.T) {
	table := models.Table{
		"leaf":  leaf("leaf", pageKind("Doc")),
		"empty": parent("empty", pageKind("Doc")),
	}
	assert.Equal(t, pageH1+"Doc</h1>", Render("leaf", table).String())
	assert.Equal(t, pageH1+"Doc</h1><div></div>", Render("empty", table).String())
}

func TestRenderOrderAndGrouping(t *testing.T) {
	table := models.Table{
		"root": parent("root", pageKind("Doc"), "t1", "b1", "b2", "t2"),
		"t1":   leaf("t1", textKind("one")),
		"b1":   leaf("b1", bulletKind("a")),
		"b2":   leaf("b2", bulletKind("b")),
		"t2":   leaf("t2", textKind("two")),
	}
	want := pageH1 + "Doc</h1><div>" + p("one") + "<ul>" + li("a") + li("b") + "</ul>" + p("two") + "</div>"
	assert.Equal(t, want, Render("root", table).String())
}

func TestRenderChildrenOrderPreserved(t *testing.T) {
	table := models.Table{
		"c1": leaf("c1", textKind("1")),
		"c2": leaf("c2", textKind("2")),
		"c3": leaf("c3", textKind("3")),
	}
	r := New()
	assert.Equal(t, "<div>"+p("3")+p("1")+p("2")+"</div>", r.renderChildren([]string{"c3", "c1", "c2"}, table, 1).String())
}

func TestRenderUniformRunIsOneContainer(t *testing.T) {
	table := models.Table{}
	var ids []string
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		table[id] = leaf(id, bulletKind(id))
		ids = append(ids, id)
	}
	out := New().renderChildren(ids, table, 1).String()
	assert.Equal(t, 1, strings.Count(out, "<ul>"))
	assert.Equal(t, 5, strings.Count(out, "<li "))
	assert.Equal(t, "<div><ul>"+li("a")+li("b")+li("c")+li("d")+li("e")+"</ul></div>", out)
}

func TestRenderGroupBreaksOnKindChange(t *testing.T) {
	table := models.Table{
		"b1": leaf("b1", bulletKind("a")),
		"b2": leaf("b2", bulletKind("b")),
		"n1": leaf("n1", models.NumberedList{}),
		"n2": leaf("n2", models.NumberedList{}),
	}
	out := New().renderChildren([]string{"b1", "b2", "n1", "n2"}, table, 1).String()
	want := "<div><ul>" + li("a") + li("b") + "</ul><ol>" + notRendered + notRendered + "</ol></div>"
	assert.Equal(t, want, out)
}

func TestRenderGroupStateMachine(t *testing.T) {
	table := models.Table{
		"b1": leaf("b1", bulletKind("a")),
		"b2": leaf("b2", bulletKind("b")),
		"b3": leaf("b3", bulletKind("c")),
		"n1": leaf("n1", models.NumberedList{}),
		"t1": leaf("t1", textKind("x")),
		"u1": leaf("u1", models.Unsupported{Name: "image"}),
		"m":  {Raw: []byte("null")},
	}
	cases := []struct {
		name string
		ids  []string
		want string
	}{
		{"empty", nil, "<div></div>"},
		{"single item opens and closes a group", []string{"b1"}, "<div><ul>" + li("a") + "</ul></div>"},
		{"paragraph closes the group", []string{"b1", "t1", "b2"}, "<div><ul>" + li("a") + "</ul>" + p("x") + "<ul>" + li("b") + "</ul></div>"},
		{"numbered between bulleted", []string{"b1", "n1", "b2", "b3"}, "<div><ul>" + li("a") + "</ul><ol>" + notRendered + "</ol><ul>" + li("b") + li("c") + "</ul></div>"},
		{"unresolved keeps the group open", []string{"b1", "m", "b2"}, "<div><ul>" + li("a") + li("b") + "</ul></div>"},
		{"missing keeps the group open", []string{"b1", "gone", "b2"}, "<div><ul>" + li("a") + li("b") + "</ul></div>"},
		{"unsupported kind closes the group", []string{"b1", "u1"}, "<div><ul>" + li("a") + "</ul>" + notRendered + "</div>"},
		{"only missing", []string{"gone", "m"}, "<div></div>"},
	}
	r := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.renderChildren(tc.ids, table, 1).String())
		})
	}
}

func TestRenderMissingReferenceTolerance(t *testing.T) {
	with := models.Table{
		"root": parent("root", pageKind("Doc"), "b1", "gone", "t1", "b2"),
		"b1":   leaf("b1", bulletKind("a")),
		"t1":   leaf("t1", textKind("x")),
		"b2":   leaf("b2", bulletKind("b")),
	}
	without := models.Table{
		"root": parent("root", pageKind("Doc"), "b1", "t1", "b2"),
		"b1":   with["b1"],
		"t1":   with["t1"],
		"b2":   with["b2"],
	}
	assert.Equal(t, Render("root", without).String(), Render("root", with).String())
}

func TestRenderWrapperEmpty(t *testing.T) {
	assert.Empty(t, New().renderWrapper(pendingGroup{}, models.Table{}, 0))
	assert.Empty(t, New().renderWrapper(pendingGroup{family: models.Bulleted, ids: []string{}}, models.Table{}, 0).String())
}

func TestRenderWrapperSkipsMembersThatRenderNothing(t *testing.T) {
	table := models.Table{"b1": leaf("b1", bulletKind("a"))}
	g := pendingGroup{family: models.Bulleted, ids: []string{"b1", "gone"}}
	assert.Equal(t, "<ul>"+li("a")+"</ul>", New().renderWrapper(g, table, 0).String())
}

func TestRenderNestedListItems(t *testing.T) {
	table := models.Table{
		"root": parent("root", pageKind("Doc"), "b1", "b2"),
		"b1":   parent("b1", bulletKind("a"), "b1a", "t1"),
		"b1a":  leaf("b1a", bulletKind("a1")),
		"t1":   leaf("t1", textKind("x")),
		"b2":   leaf("b2", bulletKind("b")),
	}
	want := pageH1 + "Doc</h1><div><ul>" +
		`<li class="notion-bulleted_list-block">a<div><ul>` + li("a1") + "</ul>" + p("x") + "</div></li>" +
		li("b") +
		"</ul></div>"
	assert.Equal(t, want, Render("root", table).String())
}

func TestRenderUnsupportedKindStillRendersChildren(t *testing.T) {
	table := models.Table{
		"u":  parent("u", models.Unsupported{Name: "toggle"}, "t1"),
		"t1": leaf("t1", textKind("inside")),
	}
	assert.Equal(t, notRendered+"<div>"+p("inside")+"</div>", Render("u", table).String())
}

func TestRenderTerminatesOnCycles(t *testing.T) {
	t.Run("self reference", func(t *testing.T) {
		table := models.Table{"a": parent("a", pageKind("A"), "a")}
		out := New(WithMaxDepth(3)).Render("a", table).String()
		assert.Equal(t, 4, strings.Count(out, "<h1"), "root plus three nested levels")
		assert.True(t, strings.HasSuffix(out, "<div></div></div></div></div>"))
	})

	t.Run("list items referencing each other", func(t *testing.T) {
		table := models.Table{
			"x": parent("x", bulletKind("x"), "y"),
			"y": parent("y", bulletKind("y"), "x"),
		}
		var out string
		require.NotPanics(t, func() { out = Render("x", table).String() })
		assert.Equal(t, DefaultMaxDepth+1, strings.Count(out, "<li "))
	})

	t.Run("zero depth renders the root only", func(t *testing.T) {
		table := models.Table{"a": parent("a", pageKind("A"), "a")}
		assert.Equal(t, pageH1+"A</h1><div></div>", New(WithMaxDepth(0)).Render("a", table).String())
	})
}

func TestRenderOptions(t *testing.T) {
	assert.Equal(t, DefaultMaxDepth, New().MaxDepth())
	assert.Equal(t, 7, New(WithMaxDepth(7)).MaxDepth())
	assert.Equal(t, DefaultMaxDepth, New(WithMaxDepth(-1)).MaxDepth())
	assert.NotPanics(t, func() { New(WithLogger(nil)).Render("x", nil) })
}

func TestRenderDoesNotMutateTable(t *testing.T) {
	table := models.Table{
		"root": parent("root", pageKind("Doc"), "b1"),
		"b1":   leaf("b1", bulletKind("a")),
	}
	before := Render("root", table).String()
	assert.Equal(t, []string{"b1"}, table["root"].Value.Content)
	assert.Equal(t, before, Render("root", table).String())
}

func TestRenderConcurrentPasses(t *testing.T) {
	table := models.Table{
		"root": parent("root", pageKind("Doc"), "t1", "b1", "b2"),
		"t1":   leaf("t1", textKind("x")),
		"b1":   leaf("b1", bulletKind("a")),
		"b2":   leaf("b2", bulletKind("b")),
	}
	want := Render("root", table).String()
	r := New()
	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Render("root", table).String()
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestRenderIsWellFormed(t *testing.T) {
	table := models.Table{
		"root": parent("root", pageKind("Doc <draft>"), "t1", "b1"),
		"t1": leaf("t1", models.Text{Properties: &models.TextProperties{Title: []models.FormattedText{
			{Text: "fish & chips", Formatting: []models.FormatInstruction{models.Style{Kind: models.Bold}}},
		}}}),
		"b1": leaf("b1", bulletKind("a")),
	}
	out := Render("root", table).String()
	assert.Contains(t, out, "Doc &lt;draft")
	assert.Contains(t, out, "fish &amp; chips")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString("<root>"+out+"</root>"))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Len(t, root.ChildElements(), 2)
	assert.NotNil(t, root.FindElement("./div/ul/li"))
	assert.Equal(t, "0", root.FindElement("./div/p/span").SelectAttrValue("data-token-index", ""))
}

func TestMarkupElement(t *testing.T) {
	m := text("a")
	m = append(m, wrap("b", text("c"))...)
	el := m.Element("body")
	assert.Len(t, el.ChildElements(), 1)
	assert.Equal(t, "a<b>c</b>", m.String(), "Element copies tokens")
}
