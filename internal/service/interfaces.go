package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/types"
	"github.com/pageza/cookbook/backend/internal/validation"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, in validation.RegistrationInput) (*models.User, validation.Result, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetForEdit(ctx context.Context, user, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, page string) (Page[models.Recipe], error)
	ListFeatured(ctx context.Context, page string) (Page[models.Recipe], error)
	RecipeChoices(ctx context.Context) ([]models.Recipe, error)
	CreateRecipe(ctx context.Context, user uuid.UUID, sub RecipeSubmission) (*EditResult, error)
	UpdateRecipe(ctx context.Context, user, id uuid.UUID, sub RecipeSubmission) (*EditResult, error)
	DeleteRecipe(ctx context.Context, user, id uuid.UUID) error
}

// ICollectionService defines the interface for collection operations
type ICollectionService interface {
	GetCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	GetForEdit(ctx context.Context, user, id uuid.UUID) (*models.Collection, error)
	ListCollections(ctx context.Context, page string) (Page[models.Collection], error)
	CreateCollection(ctx context.Context, user uuid.UUID, in validation.CollectionInput) (*models.Collection, validation.Result, error)
	UpdateCollection(ctx context.Context, user, id uuid.UUID, in validation.CollectionInput) (*models.Collection, validation.Result, error)
	DeleteCollection(ctx context.Context, user, id uuid.UUID) error
}

var (
	_ IAuthService       = (*AuthService)(nil)
	_ IRecipeService     = (*RecipeService)(nil)
	_ ICollectionService = (*CollectionService)(nil)
)
