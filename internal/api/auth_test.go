package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/internal/api"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
)

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == middleware.TokenCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", middleware.TokenCookie)
	return nil
}

func TestRegisterSignsIn(t *testing.T) {
	a := setupAPITest(t)

	w := a.postForm("/auth/register", "", url.Values{
		"name":      {"Ada"},
		"email":     {"Ada@Example.com"},
		"password":  {"correct-horse"},
		"password2": {"correct-horse"},
	})

	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/recipes/", w.Header().Get("Location"))
	cookie := sessionCookie(t, w.Result())
	assert.True(t, cookie.HttpOnly)

	claims, err := a.auth.ValidateToken(cookie.Value)
	require.NoError(t, err)
	user, err := a.auth.GetUserByID(context.Background(), claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestRegisterJSONReturnsToken(t *testing.T) {
	a := setupAPITest(t)

	w := a.do(request{
		method:      http.MethodPost,
		path:        "/auth/register",
		accept:      acceptJSON,
		body:        strings.NewReader(`{"name":"Bo","email":"bo@example.com","password":"correct-horse"}`),
		contentType: "application/json",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "Bo", body.User.Name)
}

func TestRegisterInvalidRerenders(t *testing.T) {
	a := setupAPITest(t)

	w := a.postForm("/auth/register", "", url.Values{
		"name":      {"Ada"},
		"email":     {"ada@example.com"},
		"password":  {"correct-horse"},
		"password2": {"wrong-horse"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "didn&#39;t match")
	assert.Contains(t, w.Body.String(), `value="ada@example.com"`)
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginRedirectsToNext(t *testing.T) {
	a := setupAPITest(t)
	user := testhelpers.CreateTestUser(t, a.db)

	tests := []struct {
		next string
		want string
	}{
		{"/collections", "/collections"},
		{"", "/recipes/"},
		{"//evil.example.com/", "/recipes/"},
		{"https://evil.example.com/", "/recipes/"},
	}
	for _, tt := range tests {
		w := a.postForm("/auth/login", "", url.Values{
			"email":    {user.Email},
			"password": {testhelpers.TestPassword},
			"next":     {tt.next},
		})
		require.Equal(t, http.StatusFound, w.Code, tt.next)
		assert.Equal(t, tt.want, w.Header().Get("Location"), tt.next)
		sessionCookie(t, w.Result())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	a := setupAPITest(t)
	user := testhelpers.CreateTestUser(t, a.db)

	w := a.postForm("/auth/login", "", url.Values{
		"email":    {user.Email},
		"password": {"not-the-password"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), api.MsgInvalidLogin)
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginFormCarriesNext(t *testing.T) {
	a := setupAPITest(t)

	w := a.do(request{path: "/auth/login?next=%2Frecipe%2Fcreate", accept: acceptHTML})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="next" value="/recipe/create"`)
}

func TestSessionCookieAuthenticates(t *testing.T) {
	a := setupAPITest(t)
	user := testhelpers.CreateTestUser(t, a.db)

	w := a.postForm("/auth/login", "", url.Values{
		"email":    {user.Email},
		"password": {testhelpers.TestPassword},
	})
	require.Equal(t, http.StatusFound, w.Code)
	cookie := sessionCookie(t, w.Result())

	req := httptestRequest(http.MethodGet, "/recipe/create")
	req.AddCookie(cookie)
	w = serve(a, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.Name)
}

func TestStaleCookieIsCleared(t *testing.T) {
	a := setupAPITest(t)

	req := httptestRequest(http.MethodGet, "/recipes/")
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: "garbage"})
	w := serve(a, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w.Result())
	assert.Empty(t, cookie.Value)
	assert.Contains(t, w.Body.String(), "Log in")
}

func TestLogoutClearsCookie(t *testing.T) {
	a := setupAPITest(t)
	_, token := testhelpers.CreateTestUserAndToken(t, a.db, a.auth)

	w := a.postForm("/auth/logout", token, url.Values{})

	assert.Equal(t, http.StatusFound, w.Code)
	cookie := sessionCookie(t, w.Result())
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
