package models

// Choice is a stored value with its display label
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var CuisineChoices = []Choice{
	{"italian", "Italian"},
	{"mexican", "Mexican"},
	{"indian", "Indian"},
	{"chinese", "Chinese"},
	{"japanese", "Japanese"},
	{"french", "French"},
	{"thai", "Thai"},
	{"mediterranean", "Mediterranean"},
	{"american", "American"},
	{"other", "Other"},
}

var FoodTypeChoices = []Choice{
	{"vegetarian", "Vegetarian"},
	{"vegan", "Vegan"},
	{"non_vegetarian", "Non-vegetarian"},
	{"pescatarian", "Pescatarian"},
}

var DifficultyChoices = []Choice{
	{"easy", "Easy"},
	{"medium", "Medium"},
	{"hard", "Hard"},
}

// ChoiceValues returns the stored values of a choice list
func ChoiceValues(choices []Choice) []string {
	values := make([]string, len(choices))
	for i, c := range choices {
		values[i] = c.Value
	}
	return values
}

// ChoiceLabel returns the label for value, or value itself if unknown
func ChoiceLabel(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}
