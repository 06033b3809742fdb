package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/cookbook/backend/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report errors under the form field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	choice := func(choices []models.Choice) validator.Func {
		values := models.ChoiceValues(choices)
		return func(fl validator.FieldLevel) bool {
			return slices.Contains(values, fl.Field().String())
		}
	}
	mustRegister(v, "cuisine", choice(models.CuisineChoices))
	mustRegister(v, "food_type", choice(models.FoodTypeChoices))
	mustRegister(v, "difficulty", choice(models.DifficultyChoices))

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// checkStruct runs the tag validators on s and adds one message per failing
// field. Fields that already carry a coercion error are left alone.
func checkStruct(s interface{}, res *Result) {
	err := validate.Struct(s)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Add("__all__", err.Error())
		return
	}

	for _, fe := range verrs {
		field := fe.Field()
		if res.FieldErrors.Has(field) {
			continue
		}
		res.Add(field, message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf(msgMaxLength, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf(msgMinLength, fe.Param())
		}
		return fmt.Sprintf(msgMinValue, fe.Param())
	case "email":
		return MsgEmail
	case "gt":
		return fmt.Sprintf(msgGreaterThan, fe.Param())
	case "cuisine", "food_type", "difficulty":
		return InvalidChoice(fmt.Sprint(fe.Value()))
	default:
		return msgInvalidGeneric
	}
}
