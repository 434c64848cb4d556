package format

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// PrettyOptions configures terminal previews.
type PrettyOptions struct {
	Style string
	Width int
}

// WritePrettyPage renders a Markdown outline for the terminal using glamour.
func WritePrettyPage(w io.Writer, md string, opts PrettyOptions) error {
	style := opts.Style
	if style == "" {
		style = "dracula"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(opts.Width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
