package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/api"
	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
	"github.com/pageza/cookbook/backend/internal/web"
)

const (
	acceptHTML = "text/html"
	acceptJSON = "application/json"
)

type apiTest struct {
	db     *gorm.DB
	auth   *service.AuthService
	store  *testhelpers.MemoryImageStore
	engine *gin.Engine
}

func setupAPITest(t *testing.T) *apiTest {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret")
	store := testhelpers.NewMemoryImageStore()
	recipes := service.NewRecipeService(db, store, logger.Nop(), 1<<20)

	tmpl, err := web.Load()
	require.NoError(t, err)
	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)
	engine.Use(middleware.AuthMiddleware(auth))
	api.RegisterRoutes(engine, api.Dependencies{
		DB:          db,
		Auth:        auth,
		Recipes:     recipes,
		Collections: service.NewCollectionService(db, logger.Nop()),
		Log:         logger.Nop(),
	})

	return &apiTest{db: db, auth: auth, store: store, engine: engine}
}

type request struct {
	method      string
	path        string
	token       string
	accept      string
	body        io.Reader
	contentType string
}

func (a *apiTest) do(r request) *httptest.ResponseRecorder {
	if r.method == "" {
		r.method = http.MethodGet
	}
	req := httptest.NewRequest(r.method, r.path, r.body)
	if r.accept != "" {
		req.Header.Set("Accept", r.accept)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *apiTest) postForm(path, token string, values url.Values) *httptest.ResponseRecorder {
	return a.do(request{
		method:      http.MethodPost,
		path:        path,
		token:       token,
		accept:      acceptHTML,
		body:        strings.NewReader(values.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorDetail {
	t.Helper()
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	a := setupAPITest(t)

	w := a.do(request{path: "/health"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"ok","redis":"disabled"}`, w.Body.String())
}

func TestRateLimitStatusDisabled(t *testing.T) {
	a := setupAPITest(t)
	_, token := testhelpers.CreateTestUserAndToken(t, a.db, a.auth)

	w := a.do(request{path: "/rate-limits/recipe-creation", token: token, accept: acceptJSON})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w).Code)
}

func TestUnknownRouteReturnsJSONEnvelope(t *testing.T) {
	a := setupAPITest(t)

	w := a.do(request{path: "/nope", accept: acceptJSON})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w).Code)
}

func TestRecipeDetailJSON(t *testing.T) {
	a := setupAPITest(t)
	author := testhelpers.CreateTestUser(t, a.db)
	recipe := testhelpers.CreateTestRecipe(t, a.db, author.ID)
	testhelpers.CreateTestIngredient(t, a.db, recipe.ID, "salt", 0)

	w := a.do(request{path: "/recipe/" + recipe.ID.String() + "/", accept: acceptJSON})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Recipe  models.Recipe `json:"recipe"`
		CanEdit bool          `json:"can_edit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, recipe.ID, body.Recipe.ID)
	assert.False(t, body.CanEdit)
	require.Len(t, body.Recipe.Ingredients, 1)
	assert.Equal(t, "salt", body.Recipe.Ingredients[0].Name)
	require.NotNil(t, body.Recipe.PreparationTime)
	assert.Equal(t, "00:10:00", body.Recipe.PreparationTime.String())
}

func httptestRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Accept", acceptHTML)
	return req
}

func serve(a *apiTest, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}
