//go:build ignore

// generate_sample writes a deterministic block export to stdout. It covers
// every block kind, inline formatting, list runs of both families, nested
// bullets, a sub-page and a dangling child reference.
//
//	go run scripts/generate_sample.go > sample.json
package main

import (
	"fmt"
	mrand "math/rand"
	"os"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var ns = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

type block struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	ParentID   string         `json:"parent_id,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Content    []string       `json:"content,omitempty"`
}

type record struct {
	Role  string `json:"role"`
	Value block  `json:"value"`
}

type builder struct {
	r      *mrand.Rand
	blocks map[string]record
	n      int
}

// id derives a stable identifier from a running counter.
func (b *builder) id() string {
	b.n++
	return uuid.NewSHA1(ns, []byte(fmt.Sprintf("block-%d", b.n))).String()
}

func (b *builder) add(parent, typ string, title []any, children ...string) string {
	id := b.id()
	blk := block{ID: id, Type: typ, ParentID: parent, Content: children}
	if title != nil {
		blk.Properties = map[string]any{"title": title}
	}
	b.blocks[id] = record{Role: "reader", Value: blk}
	return id
}

// adopt points children created before their parent at it.
func (b *builder) adopt(parent string, children ...string) {
	rec := b.blocks[parent]
	rec.Value.Content = append(rec.Value.Content, children...)
	b.blocks[parent] = rec
	for _, c := range children {
		if r, ok := b.blocks[c]; ok {
			r.Value.ParentID = parent
			b.blocks[c] = r
		}
	}
}

func plain(s string) []any { return []any{[]any{s}} }

// sentence returns a title of random words, some of them formatted.
func (b *builder) sentence(words int) []any {
	vocab := []string{"pack", "tent", "stove", "ridge", "river", "map", "trail", "camp", "dawn", "fuel"}
	styles := [][]any{nil, {[]any{"b"}}, {[]any{"i"}}, {[]any{"b"}, []any{"i"}}, {[]any{"a", "https://example.com"}}, {}}
	var out []any
	for i := 0; i < words; i++ {
		w := vocab[b.r.Intn(len(vocab))]
		if i < words-1 {
			w += " "
		}
		if s := styles[b.r.Intn(len(styles))]; s != nil {
			out = append(out, []any{w, s})
		} else {
			out = append(out, []any{w})
		}
	}
	return out
}

func main() {
	b := &builder{r: mrand.New(mrand.NewSource(42)), blocks: map[string]record{}}

	root := b.add("space", "page", plain("Sample Trip"))
	var kids []string
	kids = append(kids, b.add(root, "text", b.sentence(6)))
	for i := 0; i < 3; i++ {
		kids = append(kids, b.add(root, "bulleted_list", b.sentence(3)))
	}
	nested := b.add(root, "bulleted_list", plain("gear"))
	b.adopt(nested, b.add("", "bulleted_list", plain("tarp")), b.add("", "text", plain("spare stakes")))
	kids = append(kids, nested)
	for i := 0; i < 2; i++ {
		kids = append(kids, b.add(root, "numbered_list", b.sentence(2)))
	}
	kids = append(kids, b.add(root, "bulleted_list", plain("after numbers")))
	kids = append(kids, b.add(root, "toggle", plain("hidden")))
	kids = append(kids, "00000000-0000-0000-0000-000000000000")

	sub := b.add(root, "page", plain("Budget"))
	b.adopt(sub, b.add("", "text", b.sentence(4)), b.add("", "divider", nil))
	kids = append(kids, sub)
	b.adopt(root, kids...)

	out := map[string]any{"recordMap": map[string]any{"block": b.blocks}}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}
