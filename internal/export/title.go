package export

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/mithrel/blockmark/pkg/models"
)

// decodeTitle parses a title property: a list of runs, each either [text]
// or [text, [[code], [code, arg], ...]]. Malformed runs are dropped.
func decodeTitle(raw jsoniter.RawMessage) []models.FormattedText {
	var runs [][]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &runs); err != nil {
		return nil
	}
	out := make([]models.FormattedText, 0, len(runs))
	for _, run := range runs {
		if len(run) == 0 {
			continue
		}
		var ft models.FormattedText
		if err := json.Unmarshal(run[0], &ft.Text); err != nil {
			continue
		}
		if len(run) > 1 {
			ft.Formatting = decodeFormatting(run[1])
		}
		out = append(out, ft)
	}
	return out
}

func decodeFormatting(raw jsoniter.RawMessage) []models.FormatInstruction {
	var codes [][]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil
	}
	out := make([]models.FormatInstruction, 0, len(codes))
	for _, c := range codes {
		if len(c) == 0 {
			continue
		}
		var code string
		if err := json.Unmarshal(c[0], &code); err != nil {
			continue
		}
		out = append(out, decodeInstruction(code, c[1:]))
	}
	return out
}

func decodeInstruction(code string, args []jsoniter.RawMessage) models.FormatInstruction {
	if len(args) == 0 {
		if k := models.ParseStyle(code); k != models.StyleUnknown {
			return models.Style{Kind: k, Raw: code}
		}
		if k := models.ParseAnnotation(code); k != models.AnnotationUnknown {
			return models.Annotation{Kind: k, Raw: code}
		}
		return models.Style{Kind: models.StyleUnknown, Raw: code}
	}
	var value any
	_ = json.Unmarshal(args[0], &value)
	return models.Annotation{Kind: models.ParseAnnotation(code), Raw: code, Value: value}
}
