package formset

import (
	"mime/multipart"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/internal/validation"
)

func ingredientRow(row Row) (validation.IngredientFields, validation.Result) {
	return validation.ValidateIngredient(validation.IngredientInput{
		Name:       row.Value("name"),
		Quantity:   row.Value("quantity"),
		Unit:       row.Value("unit"),
		IsOptional: validation.Checked(row.Value("is_optional")),
	})
}

func TestParse(t *testing.T) {
	id := uuid.New()
	values := Values("ingredients", 1, []map[string]string{
		{"id": id.String(), "name": "Salt", "quantity": "1", "unit": "tsp", "DELETE": "on"},
		{"name": "Pepper", "quantity": "2", "unit": "g", "is_optional": "on"},
	})
	values.Set("ingredients-5-name", "out of range")
	values.Set("images-0-id", "other prefix")

	sub, err := Parse("ingredients", values, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Total)
	assert.Equal(t, 1, sub.Initial)
	require.Len(t, sub.Rows, 2)

	assert.Equal(t, id.String(), sub.Rows[0].ID)
	assert.True(t, sub.Rows[0].Delete)
	assert.NotContains(t, sub.Rows[0].Values, "id")
	assert.NotContains(t, sub.Rows[0].Values, "DELETE")

	assert.True(t, sub.Rows[1].IsNew())
	assert.Equal(t, "Pepper", sub.Rows[1].Value("name"))
	assert.Equal(t, "on", sub.Rows[1].Value("is_optional"))
}

func TestParseManagementForm(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		err    error
	}{
		{"missing", url.Values{}, ErrManagementForm},
		{"missing initial", url.Values{"ingredients-TOTAL_FORMS": {"1"}}, ErrManagementForm},
		{"not a number", url.Values{"ingredients-TOTAL_FORMS": {"x"}, "ingredients-INITIAL_FORMS": {"0"}}, ErrManagementForm},
		{"negative", url.Values{"ingredients-TOTAL_FORMS": {"-1"}, "ingredients-INITIAL_FORMS": {"0"}}, ErrManagementForm},
		{"too many", url.Values{"ingredients-TOTAL_FORMS": {"1001"}, "ingredients-INITIAL_FORMS": {"0"}}, ErrTooManyForms},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("ingredients", tt.values, nil)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseFiles(t *testing.T) {
	values := Values("images", 0, []map[string]string{{}, {}})
	files := map[string][]*multipart.FileHeader{
		"images-0-image": {{Filename: "a.png", Size: 10}},
		"images-1-image": {{Filename: "", Size: 0}},
	}

	sub, err := Parse("images", values, files)
	require.NoError(t, err)
	assert.NotNil(t, sub.Rows[0].File("image"))
	assert.False(t, sub.Rows[0].Blank())
	assert.Nil(t, sub.Rows[1].File("image"))
	assert.True(t, sub.Rows[1].Blank())
}

func TestValidatePartialAcceptance(t *testing.T) {
	values := Values("ingredients", 0, []map[string]string{
		{"name": "Salt", "quantity": "1", "unit": "tsp"},
		{"name": "", "quantity": "2", "unit": "g"},
		{"name": "Water", "quantity": "500", "unit": "ml"},
		{"name": "", "quantity": "", "unit": ""},
	})
	sub, err := Parse("ingredients", values, nil)
	require.NoError(t, err)

	res := Validate(sub, nil, ingredientRow)
	assert.False(t, res.Valid())
	require.Len(t, res.Accepted, 2)
	assert.Equal(t, 0, res.Accepted[0].Index)
	assert.Equal(t, "Salt", res.Accepted[0].Value.Name)
	assert.True(t, res.Accepted[0].IsNew())
	assert.Equal(t, 2, res.Accepted[1].Index)

	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.Equal(t, []string{validation.MsgRequired}, res.Rejected[0].Errors["name"])
}

func TestValidateDeleteAndUnknownIDs(t *testing.T) {
	existing, other := uuid.New(), uuid.New()
	known := func(id uuid.UUID) bool { return id == existing }

	values := Values("ingredients", 2, []map[string]string{
		{"id": existing.String(), "name": "", "DELETE": "on"},
		{"id": other.String(), "name": "Salt", "quantity": "1", "unit": "g"},
		{"id": "not-a-uuid", "name": "Salt", "quantity": "1", "unit": "g"},
		{"name": "Ghost", "DELETE": "on"},
	})
	sub, err := Parse("ingredients", values, nil)
	require.NoError(t, err)

	res := Validate(sub, known, ingredientRow)
	assert.Equal(t, []uuid.UUID{existing}, res.Deleted)
	assert.Empty(t, res.Accepted)
	require.Len(t, res.Rejected, 2)
	for _, rej := range res.Rejected {
		assert.Equal(t, []string{MsgUnknownChild}, rej.Errors["id"])
	}
}

func TestValidateRejectsRepeatedID(t *testing.T) {
	existing := uuid.New()
	values := Values("ingredients", 2, []map[string]string{
		{"id": existing.String(), "name": "Salt", "DELETE": "on"},
		{"id": existing.String(), "name": "Sea salt", "quantity": "2", "unit": "g"},
	})
	sub, err := Parse("ingredients", values, nil)
	require.NoError(t, err)

	res := Validate(sub, func(id uuid.UUID) bool { return id == existing }, ingredientRow)
	assert.Equal(t, []uuid.UUID{existing}, res.Deleted)
	assert.Empty(t, res.Accepted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.Equal(t, []string{MsgDuplicateChild}, res.Rejected[0].Errors["id"])
}

func TestValidateExistingRowUpdate(t *testing.T) {
	existing := uuid.New()
	values := Values("ingredients", 1, []map[string]string{
		{"id": existing.String(), "name": "Sea salt", "quantity": "2", "unit": "g"},
	})
	sub, err := Parse("ingredients", values, nil)
	require.NoError(t, err)

	res := Validate(sub, func(id uuid.UUID) bool { return id == existing }, ingredientRow)
	require.True(t, res.Valid())
	require.Len(t, res.Accepted, 1)
	assert.Equal(t, existing, res.Accepted[0].ID)
	assert.False(t, res.Accepted[0].IsNew())
}

func TestFieldNames(t *testing.T) {
	assert.Equal(t, "images-3-DELETE", Field("images", 3, DeleteField))
	assert.Equal(t, "images-TOTAL_FORMS", ManagementField("images", TotalFormsField))
	assert.True(t, strings.HasPrefix(Values("x", 0, nil).Encode(), "x-INITIAL_FORMS=0"))
}
