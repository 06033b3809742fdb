package validation

import (
	"strings"

	"github.com/google/uuid"
)

// CollectionInput holds the raw collection form values
type CollectionInput struct {
	Title   string   `form:"title" json:"title"`
	Recipes []string `form:"recipes" json:"recipes"`
}

// CollectionFields are the coerced collection values
type CollectionFields struct {
	Title     string      `form:"title" validate:"required,max=200"`
	RecipeIDs []uuid.UUID `form:"recipes"`
}

// ValidateCollection checks the title and parses the selected recipe ids.
// Whether the ids exist is checked by the caller.
func ValidateCollection(in CollectionInput) (CollectionFields, Result) {
	res := newResult()
	f := CollectionFields{Title: strings.TrimSpace(in.Title)}

	seen := make(map[uuid.UUID]bool)
	for _, raw := range in.Recipes {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			res.Add("recipes", InvalidChoice(raw))
			continue
		}
		if !seen[id] {
			seen[id] = true
			f.RecipeIDs = append(f.RecipeIDs, id)
		}
	}

	checkStruct(f, &res)
	return f, res
}
