package render

import (
	"strings"

	"github.com/mithrel/blockmark/pkg/models"
)

// Markdown renders id as a Markdown outline for terminal previews. It
// follows the same walk as Render, including the depth guard and the
// placeholder for kinds without a renderer.
func (r *Renderer) Markdown(id string, table models.Table) string {
	v, ok := table.Resolve(id)
	if !ok {
		return ""
	}
	w := mdWriter{r: r, table: table}
	w.block(v, 0, 0)
	return strings.TrimRight(w.b.String(), "\n") + "\n"
}

type mdWriter struct {
	r     *Renderer
	table models.Table
	b     strings.Builder
}

func (w *mdWriter) block(v *models.Value, depth, indent int) {
	if depth > w.r.maxDepth {
		return
	}
	pad := strings.Repeat(" ", indent)
	childIndent := indent
	switch b := v.Block.(type) {
	case models.Page:
		w.b.WriteString(strings.Repeat("#", min(depth+1, 6)) + " " + markdownText(b.Properties.Title) + "\n\n")
	case models.Text:
		if s := markdownText(models.Title(b)); s != "" {
			w.b.WriteString(pad + s + "\n\n")
		}
	case models.BulletedList:
		w.b.WriteString(pad + "- " + markdownText(models.Title(b)) + "\n")
		childIndent = indent + 2
	case models.NumberedList:
		w.b.WriteString(pad + "1. " + placeholderText + "\n")
		childIndent = indent + 3
	default:
		w.b.WriteString(pad + "**" + placeholderText + "**\n\n")
	}
	if v.IsContainer() {
		w.children(v.Content, depth+1, childIndent)
	}
}

func (w *mdWriter) children(ids []string, depth, indent int) {
	prev := models.NotAList
	for _, id := range ids {
		v, ok := w.table.Resolve(id)
		if !ok {
			continue
		}
		family := models.FamilyOf(v.Block)
		if prev != models.NotAList && family != prev {
			w.b.WriteString("\n")
		}
		prev = family
		w.block(v, depth, indent)
	}
	if prev != models.NotAList && indent == 0 {
		w.b.WriteString("\n")
	}
}

// inlineEscaper escapes characters that open inline Markdown constructs.
var inlineEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "~", `\~`, "|", `\|`,
)

// escapeMarkdown escapes s so it renders as literal text. Block markers
// that only matter at the start of a line (list bullets, ordered list
// numbers, setext underlines) are escaped there; the rest everywhere.
func escapeMarkdown(s string, lineStart bool) string {
	lines := strings.Split(inlineEscaper.Replace(s), "\n")
	for i, line := range lines {
		if i == 0 && !lineStart {
			continue
		}
		lines[i] = escapeLineStart(line)
	}
	return strings.Join(lines, "\n")
}

func escapeLineStart(line string) string {
	body := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(body)]
	switch {
	case body == "":
		return line
	case strings.ContainsRune("-+=", rune(body[0])):
		return indent + `\` + body
	}
	digits := len(body) - len(strings.TrimLeft(body, "0123456789"))
	if digits > 0 && digits < len(body) && (body[digits] == '.' || body[digits] == ')') {
		return indent + body[:digits] + `\` + body[digits:]
	}
	return line
}

func markdownText(runs []models.FormattedText) string {
	var b strings.Builder
	for _, run := range runs {
		s := escapeMarkdown(run.Text, b.Len() == 0)
		for _, f := range run.Formatting {
			st, ok := f.(models.Style)
			if !ok {
				continue
			}
			switch st.Kind {
			case models.Bold:
				s = "**" + s + "**"
			case models.Italic:
				s = "_" + s + "_"
			}
		}
		b.WriteString(s)
	}
	return b.String()
}
