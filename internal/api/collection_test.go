package api_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
	"github.com/pageza/cookbook/backend/internal/validation"
)

func TestCollectionLifecycle(t *testing.T) {
	a := setupAPITest(t)
	author, token := testhelpers.CreateTestUserAndToken(t, a.db, a.auth)
	soup := testhelpers.CreateTestRecipe(t, a.db, author.ID, func(r *models.Recipe) { r.Title = "Soup" })
	salad := testhelpers.CreateTestRecipe(t, a.db, author.ID, func(r *models.Recipe) { r.Title = "Salad" })

	w := a.do(request{path: "/collection/create", token: token, accept: acceptHTML})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Soup")
	assert.Contains(t, w.Body.String(), "Salad")

	w = a.postForm("/collection/create", token, url.Values{
		"title":   {"Weeknights"},
		"recipes": {soup.ID.String()},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/collections", w.Header().Get("Location"))

	var collection models.Collection
	require.NoError(t, a.db.Preload("Recipes").First(&collection).Error)
	assert.Equal(t, "Weeknights", collection.Title)
	require.Len(t, collection.Recipes, 1)
	path := "/collection/" + collection.ID.String() + "/"

	w = a.do(request{path: path + "edit/", token: token, accept: acceptHTML})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="`+soup.ID.String()+`" selected`)

	w = a.postForm(path+"edit/", token, url.Values{
		"title":   {"Weekends"},
		"recipes": {soup.ID.String(), salad.ID.String()},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, path, w.Header().Get("Location"))

	w = a.do(request{path: path, accept: acceptHTML})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Weekends")
	assert.Contains(t, w.Body.String(), "Salad")

	w = a.do(request{path: "/collections", accept: acceptHTML})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), path)

	w = a.postForm(path+"delete/", token, url.Values{})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/collections", w.Header().Get("Location"))

	var recipes int64
	require.NoError(t, a.db.Model(&models.Recipe{}).Count(&recipes).Error)
	assert.Equal(t, int64(2), recipes)
}

func TestCreateCollectionInvalid(t *testing.T) {
	a := setupAPITest(t)
	_, token := testhelpers.CreateTestUserAndToken(t, a.db, a.auth)

	w := a.postForm("/collection/create", token, url.Values{
		"title":   {""},
		"recipes": {"00000000-0000-0000-0000-000000000009"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), validation.MsgRequired)

	var n int64
	require.NoError(t, a.db.Model(&models.Collection{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCollectionOwnership(t *testing.T) {
	a := setupAPITest(t)
	owner := testhelpers.CreateTestUser(t, a.db)
	_, token := testhelpers.CreateTestUserAndToken(t, a.db, a.auth)
	collection := testhelpers.CreateTestCollection(t, a.db, owner.ID, "Mine")
	path := "/collection/" + collection.ID.String() + "/"

	w := a.do(request{path: path, token: token, accept: acceptHTML})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), path+"edit/")

	for _, suffix := range []string{"edit/", "delete/"} {
		w = a.do(request{path: path + suffix, token: token, accept: acceptJSON})
		assert.Equal(t, http.StatusForbidden, w.Code, suffix)

		w = a.postForm(path+suffix, token, url.Values{"title": {"Theirs"}})
		assert.Equal(t, http.StatusForbidden, w.Code, suffix)
	}

	var stored models.Collection
	require.NoError(t, a.db.First(&stored, "id = ?", collection.ID).Error)
	assert.Equal(t, "Mine", stored.Title)
}

func TestCollectionNotFound(t *testing.T) {
	a := setupAPITest(t)

	w := a.do(request{path: "/collection/00000000-0000-0000-0000-000000000001/", accept: acceptJSON})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w).Code)
}
