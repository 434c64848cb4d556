package models

import "strings"

// FormattedText is one run of a title. Formatting is nil when the run
// carries no instructions at all; an empty non-nil slice is kept as is.
type FormattedText struct {
	Text       string
	Formatting []FormatInstruction
}

// FormatInstruction decorates a text run. Implemented by Style and
// Annotation only.
type FormatInstruction interface {
	Code() string
	isInstruction()
}

type StyleKind int

const (
	StyleUnknown StyleKind = iota
	Bold
	Italic
	Strike
	InlineCode
	Underline
)

var styleCodes = map[string]StyleKind{
	"b": Bold,
	"i": Italic,
	"s": Strike,
	"c": InlineCode,
	"_": Underline,
}

// ParseStyle maps an export style code to its kind.
func ParseStyle(code string) StyleKind {
	if k, ok := styleCodes[code]; ok {
		return k
	}
	return StyleUnknown
}

// Style is a context-free decoration such as bold or italic.
type Style struct {
	Kind StyleKind
	// Raw is the code as read from the export.
	Raw string
}

func (s Style) Code() string {
	if s.Raw != "" {
		return s.Raw
	}
	switch s.Kind {
	case Bold:
		return "b"
	case Italic:
		return "i"
	case Strike:
		return "s"
	case InlineCode:
		return "c"
	case Underline:
		return "_"
	}
	return ""
}

type AnnotationKind int

const (
	AnnotationUnknown AnnotationKind = iota
	Link
	Color
	Date
	UserMention
	PageMention
)

var annotationCodes = map[string]AnnotationKind{
	"a": Link,
	"h": Color,
	"d": Date,
	"u": UserMention,
	"p": PageMention,
}

// ParseAnnotation maps an export annotation code to its kind.
func ParseAnnotation(code string) AnnotationKind {
	if k, ok := annotationCodes[code]; ok {
		return k
	}
	return AnnotationUnknown
}

// Annotation is a decoration that needs context: a link target, a
// mentioned user, a date.
type Annotation struct {
	Kind  AnnotationKind
	Raw   string
	Value any
}

func (a Annotation) Code() string { return a.Raw }

func (Style) isInstruction()      {}
func (Annotation) isInstruction() {}

// PlainText concatenates the text of all runs, dropping decorations.
func PlainText(runs []FormattedText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
