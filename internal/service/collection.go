package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/cookbook/backend/internal/access"
	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/validation"
)

// CollectionService handles recipe collections
type CollectionService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollectionService(db *gorm.DB, log *logger.Logger) *CollectionService {
	return &CollectionService{db: db, log: log.With("component", "collections")}
}

func (s *CollectionService) load(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Recipes", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipes.created_at DESC").Order("recipes.id DESC")
		}).
		First(&collection, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	return &collection, nil
}

// GetCollection retrieves a collection with its author and member recipes
func (s *CollectionService) GetCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	return s.load(ctx, id)
}

// GetForEdit loads a collection the user is allowed to change
func (s *CollectionService) GetForEdit(ctx context.Context, user, id uuid.UUID) (*models.Collection, error) {
	collection, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanEditCollection(user, collection) {
		return nil, ErrPermissionDenied
	}
	return collection, nil
}

// ListCollections returns a page of collections, clamping the page number
func (s *CollectionService) ListCollections(ctx context.Context, page string) (Page[models.Collection], error) {
	return paginate[models.Collection](ctx, s.db, nil, page, CollectionPageSize, false, "Author")
}

// CreateCollection validates the form and stores a collection authored by user.
// On invalid input the returned collection is nil.
func (s *CollectionService) CreateCollection(ctx context.Context, user uuid.UUID, in validation.CollectionInput) (*models.Collection, validation.Result, error) {
	if user == uuid.Nil {
		return nil, validation.Result{}, ErrPermissionDenied
	}

	fields, res, err := s.validate(ctx, in)
	if err != nil || !res.Valid {
		return nil, res, err
	}

	collection := &models.Collection{Title: fields.Title, AuthorID: user}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(collection).Error; err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return replaceMembers(tx, collection, fields.RecipeIDs)
	})
	if err != nil {
		return nil, res, err
	}
	s.log.Info("Collection created", "collection_id", collection.ID, "user_id", user)
	return collection, res, nil
}

// UpdateCollection changes the title and membership of a collection owned by user
func (s *CollectionService) UpdateCollection(ctx context.Context, user, id uuid.UUID, in validation.CollectionInput) (*models.Collection, validation.Result, error) {
	collection, err := s.GetForEdit(ctx, user, id)
	if err != nil {
		return nil, validation.Result{}, err
	}

	fields, res, err := s.validate(ctx, in)
	if err != nil || !res.Valid {
		return collection, res, err
	}

	collection.Title = fields.Title
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(collection).Error; err != nil {
			return fmt.Errorf("failed to update collection: %w", err)
		}
		return replaceMembers(tx, collection, fields.RecipeIDs)
	})
	if err != nil {
		return nil, res, err
	}
	s.log.Info("Collection updated", "collection_id", collection.ID, "user_id", user)
	return collection, res, nil
}

// DeleteCollection removes a collection owned by user. Member recipes are kept.
func (s *CollectionService) DeleteCollection(ctx context.Context, user, id uuid.UUID) error {
	collection, err := s.GetForEdit(ctx, user, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+models.CollectionRecipesTable+" WHERE collection_id = ?", collection.ID).Error; err != nil {
			return fmt.Errorf("failed to remove collection memberships: %w", err)
		}
		if err := tx.Delete(&models.Collection{}, "id = ?", collection.ID).Error; err != nil {
			return fmt.Errorf("failed to delete collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("Collection deleted", "collection_id", collection.ID, "user_id", user)
	return nil
}

// validate runs the form checks and reports selected recipes that do not exist
func (s *CollectionService) validate(ctx context.Context, in validation.CollectionInput) (validation.CollectionFields, validation.Result, error) {
	fields, res := validation.ValidateCollection(in)
	if len(fields.RecipeIDs) == 0 {
		return fields, res, nil
	}

	var found []models.Recipe
	if err := s.db.WithContext(ctx).Select("id").Where("id IN ?", fields.RecipeIDs).Find(&found).Error; err != nil {
		return fields, res, fmt.Errorf("failed to look up recipes: %w", err)
	}
	exists := make(map[uuid.UUID]bool, len(found))
	for _, r := range found {
		exists[r.ID] = true
	}
	for _, id := range fields.RecipeIDs {
		if !exists[id] {
			res.Add("recipes", validation.InvalidChoice(id.String()))
		}
	}
	return fields, res, nil
}

func replaceMembers(tx *gorm.DB, collection *models.Collection, recipeIDs []uuid.UUID) error {
	if err := tx.Exec("DELETE FROM "+models.CollectionRecipesTable+" WHERE collection_id = ?", collection.ID).Error; err != nil {
		return fmt.Errorf("failed to clear collection members: %w", err)
	}
	for _, id := range recipeIDs {
		err := tx.Exec("INSERT INTO "+models.CollectionRecipesTable+" (collection_id, recipe_id) VALUES (?, ?)", collection.ID, id).Error
		if err != nil {
			return fmt.Errorf("failed to add recipe %s to collection: %w", id, err)
		}
	}
	return nil
}
