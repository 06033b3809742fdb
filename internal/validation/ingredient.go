package validation

import (
	"strconv"
	"strings"

	"github.com/pageza/cookbook/backend/internal/models"
)

// IngredientInput holds the raw values of one ingredient row
type IngredientInput struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	Unit       string `json:"unit"`
	IsOptional bool   `json:"is_optional"`
}

// IngredientFields are the coerced ingredient values
type IngredientFields struct {
	Name       string   `form:"name" validate:"required,max=100"`
	Quantity   *float64 `form:"quantity" validate:"required,gt=0"`
	Unit       string   `form:"unit" validate:"required,max=20"`
	IsOptional bool     `form:"is_optional"`
}

// Apply copies the fields onto an ingredient
func (f IngredientFields) Apply(i *models.Ingredient) {
	i.Name = f.Name
	if f.Quantity != nil {
		i.Quantity = *f.Quantity
	}
	i.Unit = f.Unit
	i.IsOptional = f.IsOptional
}

// IngredientInputFrom renders a stored ingredient back into form values
func IngredientInputFrom(i models.Ingredient) IngredientInput {
	return IngredientInput{
		Name:       i.Name,
		Quantity:   strconv.FormatFloat(i.Quantity, 'f', -1, 64),
		Unit:       i.Unit,
		IsOptional: i.IsOptional,
	}
}

func ValidateIngredient(in IngredientInput) (IngredientFields, Result) {
	res := newResult()
	f := IngredientFields{
		Name:       strings.TrimSpace(in.Name),
		Unit:       strings.TrimSpace(in.Unit),
		IsOptional: in.IsOptional,
	}
	f.Quantity = coerceFloat("quantity", in.Quantity, &res)
	checkStruct(f, &res)
	return f, res
}

// Checked interprets an HTML checkbox value
func Checked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes", "y":
		return true
	}
	return false
}
