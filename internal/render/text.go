package render

import (
	"strconv"

	"github.com/mithrel/blockmark/pkg/models"
)

// renderText renders title runs. Runs without formatting are emitted as
// bare text; formatted runs are wrapped by each instruction in turn (the
// first instruction innermost) and then by a span addressing the run.
func renderText(runs []models.FormattedText) Markup {
	var out Markup
	for i, run := range runs {
		if run.Formatting == nil {
			out = append(out, text(run.Text)...)
			continue
		}
		inner := text(run.Text)
		for _, f := range run.Formatting {
			inner = applyFormat(f, inner)
		}
		out = append(out, wrap("span", inner, attr{key: "data-token-index", value: strconv.Itoa(i)})...)
	}
	return out
}

func applyFormat(f models.FormatInstruction, inner Markup) Markup {
	s, ok := f.(models.Style)
	if !ok {
		return inner
	}
	switch s.Kind {
	case models.Bold:
		return wrap("b", inner)
	case models.Italic:
		return wrap("em", inner)
	default:
		return inner
	}
}
