package present

import (
	"io"

	"github.com/mithrel/blockmark/internal/present/format"
	"github.com/mithrel/blockmark/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeTUI
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// RenderPages renders a page listing according to options.
func RenderPages(w io.Writer, pages []api.PageInfo, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, pages, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, pages)
	default:
		// Pretty listings fall back to the aligned plain table, and so does
		// tui: the interactive picker is driven by the caller.
		return format.WritePlainPages(w, pages, opts.Headers)
	}
}

// RenderExports renders an export listing according to options.
func RenderExports(w io.Writer, exports []api.ExportInfo, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, exports, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, exports)
	default:
		return format.WritePlainExports(w, exports, opts.Headers)
	}
}
