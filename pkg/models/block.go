package models

// Table maps block identifiers to their records, as found in an export.
// Lookup by identifier is the only access pattern; callers own the table
// and must not mutate it while a render is in flight.
type Table map[string]Record

// Record is one entry of a Table. Exactly one of Value and Raw is set:
// Value for blocks that carry structural content, Raw for everything else
// (collections, users, spaces, blocks the export could not resolve).
type Record struct {
	Role  string
	Value *Value
	Raw   []byte
}

// Resolved returns the record's block value when it has one.
func (r Record) Resolved() (*Value, bool) {
	return r.Value, r.Value != nil
}

// Value is a renderable block.
type Value struct {
	ID       string
	ParentID string
	Block    Kind
	// Content lists child identifiers in document order. nil marks a leaf
	// block; a non-nil empty slice is a container without children.
	Content []string
}

// IsContainer reports whether the block declares a children list.
func (v *Value) IsContainer() bool {
	return v.Content != nil
}

// Kind is the structural role of a block. The set of kinds is closed:
// only the types in this file implement it.
type Kind interface {
	// Type returns the block type name as it appears in exports.
	Type() string
	isKind()
}

type PageProperties struct {
	Title []FormattedText
}

type TextProperties struct {
	Title []FormattedText
}

// Page is a document root or sub-page.
type Page struct {
	Properties PageProperties
	Format     map[string]any
	FileIDs    []string
}

// Text is a paragraph; Properties is nil for an empty paragraph.
type Text struct {
	Properties *TextProperties
}

// BulletedList is one item of a bulleted list.
type BulletedList struct {
	Properties *TextProperties
}

// NumberedList is one item of a numbered list. Exports do carry a title
// for these items but it is not modelled yet.
type NumberedList struct{}

// Unsupported is any block type without a dedicated kind.
type Unsupported struct {
	Name string
}

func (Page) Type() string         { return "page" }
func (Text) Type() string         { return "text" }
func (BulletedList) Type() string { return "bulleted_list" }
func (NumberedList) Type() string { return "numbered_list" }
func (u Unsupported) Type() string {
	if u.Name == "" {
		return "unknown"
	}
	return u.Name
}

func (Page) isKind()         {}
func (Text) isKind()         {}
func (BulletedList) isKind() {}
func (NumberedList) isKind() {}
func (Unsupported) isKind()  {}

// ListFamily groups list item kinds that share one enclosing container.
type ListFamily int

const (
	NotAList ListFamily = iota
	Bulleted
	Numbered
)

// FamilyOf classifies a kind for list grouping.
func FamilyOf(k Kind) ListFamily {
	switch k.(type) {
	case BulletedList:
		return Bulleted
	case NumberedList:
		return Numbered
	default:
		return NotAList
	}
}

// Title returns the title runs of a kind, or nil when it has none.
func Title(k Kind) []FormattedText {
	switch b := k.(type) {
	case Page:
		return b.Properties.Title
	case Text:
		if b.Properties != nil {
			return b.Properties.Title
		}
	case BulletedList:
		if b.Properties != nil {
			return b.Properties.Title
		}
	}
	return nil
}
