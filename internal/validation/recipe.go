package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/pageza/cookbook/backend/internal/models"
)

// RecipeInput holds the raw recipe form values
type RecipeInput struct {
	Title           string `form:"title" json:"title"`
	Servings        string `form:"servings" json:"servings"`
	PreparationTime string `form:"preparation_time" json:"preparation_time"`
	TotalTime       string `form:"total_time" json:"total_time"`
	Calories        string `form:"calories" json:"calories"`
	Instructions    string `form:"instructions" json:"instructions"`
	Cuisine         string `form:"cuisine" json:"cuisine"`
	FoodType        string `form:"food_type" json:"food_type"`
	DifficultyLevel string `form:"difficulty_level" json:"difficulty_level"`
	Featured        bool   `form:"featured" json:"featured"`
}

// RecipeFields are the coerced recipe values
type RecipeFields struct {
	Title           string           `form:"title" validate:"required,max=200"`
	Servings        *int             `form:"servings" validate:"required,min=1"`
	PreparationTime *models.Duration `form:"preparation_time"`
	TotalTime       *models.Duration `form:"total_time"`
	Calories        *int             `form:"calories" validate:"omitempty,min=0"`
	Instructions    string           `form:"instructions" validate:"required"`
	Cuisine         string           `form:"cuisine" validate:"required,cuisine"`
	FoodType        string           `form:"food_type" validate:"required,food_type"`
	DifficultyLevel string           `form:"difficulty_level" validate:"required,difficulty"`
	Featured        bool             `form:"featured"`
}

// Apply copies the fields onto a recipe
func (f RecipeFields) Apply(r *models.Recipe) {
	r.Title = f.Title
	if f.Servings != nil {
		r.Servings = *f.Servings
	}
	r.PreparationTime = f.PreparationTime
	r.TotalTime = f.TotalTime
	r.Calories = f.Calories
	r.Instructions = f.Instructions
	r.Cuisine = f.Cuisine
	r.FoodType = f.FoodType
	r.DifficultyLevel = f.DifficultyLevel
	r.Featured = f.Featured
}

// RecipeInputFrom renders a stored recipe back into form values
func RecipeInputFrom(r *models.Recipe) RecipeInput {
	in := RecipeInput{
		Title:           r.Title,
		Servings:        strconv.Itoa(r.Servings),
		Instructions:    r.Instructions,
		Cuisine:         r.Cuisine,
		FoodType:        r.FoodType,
		DifficultyLevel: r.DifficultyLevel,
		Featured:        r.Featured,
	}
	if r.PreparationTime != nil {
		in.PreparationTime = r.PreparationTime.String()
	}
	if r.TotalTime != nil {
		in.TotalTime = r.TotalTime.String()
	}
	if r.Calories != nil {
		in.Calories = strconv.Itoa(*r.Calories)
	}
	return in
}

// ValidateRecipe coerces and checks a recipe form, including the rule that
// preparation time may not exceed total time
func ValidateRecipe(in RecipeInput) (RecipeFields, Result) {
	res := newResult()
	f := RecipeFields{
		Title:           strings.TrimSpace(in.Title),
		Instructions:    strings.TrimSpace(in.Instructions),
		Cuisine:         strings.TrimSpace(in.Cuisine),
		FoodType:        strings.TrimSpace(in.FoodType),
		DifficultyLevel: strings.TrimSpace(in.DifficultyLevel),
		Featured:        in.Featured,
	}

	f.Servings = coerceInt("servings", in.Servings, &res)
	f.Calories = coerceInt("calories", in.Calories, &res)
	var prepOK, totalOK bool
	f.PreparationTime, prepOK = coerceDuration("preparation_time", in.PreparationTime, &res)
	f.TotalTime, totalOK = coerceDuration("total_time", in.TotalTime, &res)

	checkStruct(f, &res)

	switch {
	case !prepOK || !totalOK:
		res.Add("preparation_time", MsgDurationTypes)
	case f.PreparationTime != nil && f.TotalTime != nil && *f.PreparationTime > *f.TotalTime:
		res.Add("preparation_time", MsgPrepAfterTotal)
	}

	return f, res
}

// coerceInt returns nil for blank input
func coerceInt(field, raw string, res *Result) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		res.Add(field, MsgWholeNumber)
		return nil
	}
	return &n
}

// coerceFloat returns nil for blank input
func coerceFloat(field, raw string, res *Result) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		res.Add(field, MsgNumber)
		return nil
	}
	return &n
}

// coerceDuration returns (nil, true) for blank input and (nil, false) when
// the value was supplied but could not be parsed
func coerceDuration(field, raw string, res *Result) (*models.Duration, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	d, err := models.ParseDuration(raw)
	if err != nil {
		res.Add(field, MsgDuration)
		return nil, false
	}
	return &d, true
}
