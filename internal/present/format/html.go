package format

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// DocumentOptions describes the HTML page around a rendered fragment.
type DocumentOptions struct {
	Title      string
	Stylesheet string
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "wbr": true,
}

// WriteHTMLDocument embeds a rendered fragment into a standalone HTML5
// document. The fragment must be well-formed markup as produced by the
// renderer.
func WriteHTMLDocument(w io.Writer, opts DocumentOptions, fragment string) error {
	body := etree.NewDocument()
	if err := body.ReadFromString("<body>" + fragment + "</body>"); err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}

	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	doc.CreateDirective("DOCTYPE html")
	doc.CreateText("\n")

	html := doc.CreateElement("html")
	head := html.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "utf-8")
	head.CreateElement("title").SetText(opts.Title)
	if opts.Stylesheet != "" {
		link := head.CreateElement("link")
		link.CreateAttr("rel", "stylesheet")
		link.CreateAttr("href", opts.Stylesheet)
	}
	html.AddChild(body.Root())
	closeEmptyElements(html)

	if _, err := doc.WriteTo(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// closeEmptyElements gives every empty non-void element an explicit end
// tag; <div/> does not close in HTML.
func closeEmptyElements(el *etree.Element) {
	if len(el.Child) == 0 && !voidElements[el.Tag] {
		el.AddChild(etree.NewText(""))
		return
	}
	for _, c := range el.ChildElements() {
		closeEmptyElements(c)
	}
}
