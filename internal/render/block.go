package render

import (
	"github.com/mithrel/blockmark/pkg/models"
)

const placeholderText = "Could not render!"

// renderBlock renders the skeleton of a single block, without children.
func renderBlock(k models.Kind) Markup {
	switch b := k.(type) {
	case models.Page:
		return wrap("h1", renderText(b.Properties.Title), class("notion-page-block"))
	case models.Text:
		return wrap("p", renderProperties(b.Properties), class("notion-text-block"))
	case models.BulletedList:
		return wrap("li", renderProperties(b.Properties), class("notion-bulleted_list-block"))
	case models.NumberedList, models.Unsupported:
		return placeholder()
	default:
		return placeholder()
	}
}

func renderProperties(p *models.TextProperties) Markup {
	if p == nil {
		return nil
	}
	return renderText(p.Title)
}

func placeholder() Markup {
	return wrap("h1", text(placeholderText))
}
