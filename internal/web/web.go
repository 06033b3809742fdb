// Package web holds the server-rendered HTML templates.
package web

import (
	"embed"
	"html/template"

	"github.com/pageza/cookbook/backend/internal/formset"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/validation"
)

//go:embed templates/*.html
var Templates embed.FS

// Funcs are the helpers available to every template
var Funcs = template.FuncMap{
	"field":      formset.Field,
	"management": formset.ManagementField,
	"errs": func(fe validation.FieldErrors, field string) []string {
		return fe[field]
	},
	"cuisine": func(v string) string {
		return models.ChoiceLabel(models.CuisineChoices, v)
	},
	"foodType": func(v string) string {
		return models.ChoiceLabel(models.FoodTypeChoices, v)
	},
	"difficulty": func(v string) string {
		return models.ChoiceLabel(models.DifficultyChoices, v)
	},
}

// Load parses every template with Funcs
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(Templates, "templates/*.html")
}
