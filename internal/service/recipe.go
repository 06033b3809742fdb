package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/access"
	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/storage"
)

// RecipeService handles recipe reads, the aggregate edit protocol and deletion
type RecipeService struct {
	db             *gorm.DB
	images         storage.ImageStore
	log            *logger.Logger
	maxUploadBytes int64
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images storage.ImageStore, log *logger.Logger, maxUploadBytes int64) *RecipeService {
	return &RecipeService{
		db:             db,
		images:         images,
		log:            log.With("component", "recipes"),
		maxUploadBytes: maxUploadBytes,
	}
}

func orderedIngredients(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

// load fetches a recipe with its author and children
func (s *RecipeService) load(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients", orderedIngredients).
		Preload("Images", orderedImages).
		First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// GetRecipe retrieves a recipe by ID with image URLs resolved
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveURLs(ctx, recipe.Images)
	return recipe, nil
}

// GetForEdit loads a recipe the user is allowed to change
func (s *RecipeService) GetForEdit(ctx context.Context, user, id uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanEditRecipe(user, recipe) {
		return nil, ErrPermissionDenied
	}
	return recipe, nil
}

func (s *RecipeService) resolveURLs(ctx context.Context, images []models.Image) {
	for i := range images {
		u, err := s.images.URL(ctx, images[i].StorageKey)
		if err != nil {
			s.log.Warn("Failed to resolve image URL", "image_id", images[i].ID, "error", err)
			continue
		}
		images[i].URL = u
	}
}

// ListRecipes returns a page of all recipes. Invalid or out-of-range pages
// are ErrInvalidPage.
func (s *RecipeService) ListRecipes(ctx context.Context, page string) (Page[models.Recipe], error) {
	return paginate[models.Recipe](ctx, s.db, nil, page, RecipePageSize, true, "Author")
}

// ListFeatured returns a page of featured recipes, clamping the page number
func (s *RecipeService) ListFeatured(ctx context.Context, page string) (Page[models.Recipe], error) {
	featured := func(q *gorm.DB) *gorm.DB { return q.Where("featured = ?", true) }
	return paginate[models.Recipe](ctx, s.db, featured, page, FeaturedPageSize, false, "Author")
}

// RecipeChoices lists every recipe by title for the collection form
func (s *RecipeService) RecipeChoices(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Select("id", "title").Order("title ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// DeleteRecipe removes a recipe owned by user together with its children,
// its collection memberships and its stored images
func (s *RecipeService) DeleteRecipe(ctx context.Context, user, id uuid.UUID) error {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanEditRecipe(user, recipe) {
		return ErrPermissionDenied
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+models.CollectionRecipesTable+" WHERE recipe_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to remove collection memberships: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete ingredients: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete images: %w", err)
		}
		if err := tx.Delete(&models.Recipe{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, img := range recipe.Images {
		s.deleteObject(ctx, img.StorageKey)
	}
	s.log.Info("Recipe deleted", "recipe_id", id, "user_id", user)
	return nil
}

// deleteObject removes a stored image, logging failures
func (s *RecipeService) deleteObject(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Warn("Failed to delete stored image", "key", key, "error", err)
	}
}
