package render

import (
	"github.com/beevik/etree"
)

// Markup is an embeddable fragment: a sequence of sibling elements and
// text nodes. The zero value is the empty fragment.
type Markup []etree.Token

type attr struct {
	key, value string
}

func class(name string) attr { return attr{key: "class", value: name} }

// wrap places inner inside a new element. The tokens of inner are moved,
// not copied.
func wrap(tag string, inner Markup, attrs ...attr) Markup {
	el := etree.NewElement(tag)
	for _, a := range attrs {
		el.CreateAttr(a.key, a.value)
	}
	for _, t := range inner {
		el.AddChild(t)
	}
	return Markup{el}
}

// appendInside moves inner into the last element of m.
func appendInside(m, inner Markup) Markup {
	if len(m) == 0 {
		return inner
	}
	el, ok := m[len(m)-1].(*etree.Element)
	if !ok {
		return append(m, inner...)
	}
	for _, t := range inner {
		el.AddChild(t)
	}
	return m
}

func text(s string) Markup {
	return Markup{etree.NewText(s)}
}

// String serializes the fragment. Empty elements get explicit end tags so
// the result is valid HTML as well as well-formed XML.
func (m Markup) String() string {
	if len(m) == 0 {
		return ""
	}
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalEndTags = true
	doc.WriteSettings.CanonicalText = true
	for _, t := range m {
		if c := copyToken(t); c != nil {
			doc.AddChild(c)
		}
	}
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// Element returns the fragment as the children of a new element, e.g. for
// embedding it into a document body.
func (m Markup) Element(tag string) *etree.Element {
	el := etree.NewElement(tag)
	for _, t := range m {
		if c := copyToken(t); c != nil {
			el.AddChild(c)
		}
	}
	return el
}

func copyToken(t etree.Token) etree.Token {
	switch v := t.(type) {
	case *etree.Element:
		return v.Copy()
	case *etree.CharData:
		return etree.NewText(v.Data)
	default:
		return nil
	}
}
