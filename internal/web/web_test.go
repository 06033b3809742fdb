package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/internal/validation"
)

func TestLoadParsesEveryPage(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "recipe_list.html", "recipe_detail.html", "recipe_form.html",
		"recipe_confirm_delete.html", "collections.html", "collection_detail.html",
		"collection_form.html", "collection_confirm_delete.html",
		"login.html", "register.html", "error.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestErrorPageRendersMessage(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "error.html", map[string]interface{}{
		"User": nil,
		"View": struct {
			Status  int
			Message string
		}{404, "<missing>"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<h1>404</h1>")
	assert.Contains(t, buf.String(), "&lt;missing&gt;")
	assert.Contains(t, buf.String(), "Log in")
}

func TestFuncs(t *testing.T) {
	field := Funcs["field"].(func(string, int, string) string)
	assert.Equal(t, "ingredients-2-name", field("ingredients", 2, "name"))

	errs := Funcs["errs"].(func(validation.FieldErrors, string) []string)
	fe := validation.FieldErrors{"title": {"This field is required."}}
	assert.Equal(t, []string{"This field is required."}, errs(fe, "title"))
	assert.Nil(t, errs(nil, "title"))

	cuisine := Funcs["cuisine"].(func(string) string)
	assert.Equal(t, "Italian", cuisine("italian"))
}
