package api

import "time"

// Export is a stored block export: the original JSON payload plus the
// metadata needed to list and cache it.
type Export struct {
	Name       string    `json:"name"`
	Hash       string    `json:"hash"`
	Payload    []byte    `json:"-"`
	Pages      int       `json:"pages"`
	ImportedAt time.Time `json:"imported_at"`
}

// ExportInfo is the listing view of an Export.
type ExportInfo struct {
	Name       string    `json:"name"`
	Hash       string    `json:"hash"`
	Pages      int       `json:"pages"`
	Size       int       `json:"size"`
	ImportedAt time.Time `json:"imported_at"`
}

// Info returns the listing view of e.
func (e Export) Info() ExportInfo {
	return ExportInfo{
		Name:       e.Name,
		Hash:       e.Hash,
		Pages:      e.Pages,
		Size:       len(e.Payload),
		ImportedAt: e.ImportedAt,
	}
}

// PageInfo summarizes one page block of an export.
type PageInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Children int    `json:"children"`
	Root     bool   `json:"root"`
}

// Rendered is a cached page fragment. Hash is the hash of the export
// payload the fragment was rendered from.
type Rendered struct {
	Export     string    `json:"export"`
	PageID     string    `json:"page_id"`
	Hash       string    `json:"hash"`
	HTML       string    `json:"html"`
	RenderedAt time.Time `json:"rendered_at"`
}
