package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
	"github.com/pageza/cookbook/backend/internal/validation"
)

func setupAuthTest(t *testing.T) *service.AuthService {
	db := testhelpers.SetupTestDatabase(t)
	return service.NewAuthService(db, "test-secret")
}

func TestRegister(t *testing.T) {
	authSvc := setupAuthTest(t)
	ctx := context.Background()

	user, res, err := authSvc.Register(ctx, validation.RegistrationInput{
		Name:      "Ada",
		Email:     " Ada@Example.com ",
		Password:  "password123",
		Password2: "password123",
	})
	require.NoError(t, err)
	require.True(t, res.Valid, res.FieldErrors)
	require.NotNil(t, user)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	_, res, err = authSvc.Register(ctx, validation.RegistrationInput{
		Name:     "Ada Again",
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.FieldErrors.Has("email"))
}

func TestRegisterInvalidForm(t *testing.T) {
	authSvc := setupAuthTest(t)

	user, res, err := authSvc.Register(context.Background(), validation.RegistrationInput{
		Email:     "not-an-email",
		Password:  "short",
		Password2: "different",
	})
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.False(t, res.Valid)
	assert.True(t, res.FieldErrors.Has("name"))
	assert.True(t, res.FieldErrors.Has("email"))
	assert.True(t, res.FieldErrors.Has("password"))
	assert.True(t, res.FieldErrors.Has("password2"))
}

func TestLogin(t *testing.T) {
	authSvc := setupAuthTest(t)
	ctx := context.Background()

	registered, _, err := authSvc.Register(ctx, validation.RegistrationInput{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotNil(t, registered)

	user, token, err := authSvc.Login(ctx, "GRACE@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := authSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "Grace", claims.Username)

	loaded, err := authSvc.GetUserByID(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", loaded.Email)
}

func TestLoginInvalidCredentials(t *testing.T) {
	authSvc := setupAuthTest(t)
	ctx := context.Background()

	_, _, err := authSvc.Register(ctx, validation.RegistrationInput{
		Name:     "Linus",
		Email:    "linus@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, _, err = authSvc.Login(ctx, "linus@example.com", "wrongpassword")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = authSvc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	issuer := service.NewAuthService(db, "one-secret")
	verifier := service.NewAuthService(db, "other-secret")

	user := testhelpers.CreateTestUser(t, db)
	token, err := issuer.GenerateToken(user)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)

	_, err = issuer.ValidateToken("not-a-token")
	assert.Error(t, err)
}
