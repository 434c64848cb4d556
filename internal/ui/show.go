package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/blockmark/pkg/api"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// FormatSummary returns the header shown above a page preview: where the
// page comes from and how it sits in its export.
func FormatSummary(source string, e *api.ExportInfo, p api.PageInfo) string {
	lines := []string{
		labelStyle.Render("Source:") + " " + source,
		labelStyle.Render("Page:") + " " + p.Title + " (" + p.ID + ")",
		labelStyle.Render("Children:") + fmt.Sprintf(" %d", p.Children),
	}
	if e != nil {
		lines = append(lines,
			labelStyle.Render("Imported:")+" "+e.ImportedAt.Local().Format(time.RFC3339),
			labelStyle.Render("Hash:")+" "+e.Hash,
		)
	}
	return boxStyle.Render(strings.Join(lines, "\n")) + "\n"
}
