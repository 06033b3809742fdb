package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/cookbook/backend/internal/access"
	"github.com/pageza/cookbook/backend/internal/formset"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/storage"
	"github.com/pageza/cookbook/backend/internal/validation"
)

const (
	IngredientsPrefix = "ingredients"
	ImagesPrefix      = "images"

	// ImageField is the file field of an image row
	ImageField = "image"

	MsgImageNotStored = "The image could not be stored. Please try again."
)

// RecipeSubmission is a decoded recipe form and its two child collections. A
// collection whose management form was unusable has a nil submission and a
// non-nil error.
type RecipeSubmission struct {
	Recipe         validation.RecipeInput
	Ingredients    *formset.Submission
	IngredientsErr error
	Images         *formset.Submission
	ImagesErr      error
}

// ParseRecipeSubmission decodes form values and uploaded files
func ParseRecipeSubmission(values url.Values, files map[string][]*multipart.FileHeader) RecipeSubmission {
	sub := RecipeSubmission{
		Recipe: validation.RecipeInput{
			Title:           values.Get("title"),
			Servings:        values.Get("servings"),
			PreparationTime: values.Get("preparation_time"),
			TotalTime:       values.Get("total_time"),
			Calories:        values.Get("calories"),
			Instructions:    values.Get("instructions"),
			Cuisine:         values.Get("cuisine"),
			FoodType:        values.Get("food_type"),
			DifficultyLevel: values.Get("difficulty_level"),
			Featured:        validation.Checked(values.Get("featured")),
		},
	}
	sub.Ingredients, sub.IngredientsErr = formset.Parse(IngredientsPrefix, values, nil)
	sub.Images, sub.ImagesErr = formset.Parse(ImagesPrefix, values, files)
	return sub
}

// IngredientSeed is an ingredient row carried back into a re-rendered form
type IngredientSeed struct {
	ID         *uuid.UUID `json:"id"`
	Name       string     `json:"name"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit"`
	IsOptional bool       `json:"is_optional"`
}

// ImageSeed is an image row carried back into a re-rendered form. URL is empty
// for rows that only had a new upload.
type ImageSeed struct {
	ID  *uuid.UUID `json:"id"`
	URL string     `json:"url"`
}

// EditResult is the outcome of a create or update submission.
//
// When Saved is false nothing was written; FieldErrors holds the recipe errors
// and the seeds hold the child rows that passed on their own. When Saved is
// true the recipe was persisted and the child outcomes are reported in
// IngredientErrors, ImageErrors and the *Failure fields.
type EditResult struct {
	Saved           bool                   `json:"saved"`
	Recipe          *models.Recipe         `json:"recipe,omitempty"`
	FieldErrors     validation.FieldErrors `json:"field_errors,omitempty"`
	IngredientSeeds []IngredientSeed       `json:"ingredient_seeds,omitempty"`
	ImageSeeds      []ImageSeed            `json:"image_seeds,omitempty"`

	IngredientErrors   []formset.Rejected `json:"-"`
	ImageErrors        []formset.Rejected `json:"-"`
	IngredientsFailure error              `json:"-"`
	ImagesFailure      error              `json:"-"`
}

// CreateRecipe runs the edit protocol for a new recipe authored by user
func (s *RecipeService) CreateRecipe(ctx context.Context, user uuid.UUID, sub RecipeSubmission) (*EditResult, error) {
	if user == uuid.Nil {
		return nil, ErrPermissionDenied
	}

	fields, res := validation.ValidateRecipe(sub.Recipe)
	if !res.Valid {
		return s.failed(ctx, sub, res, nil), nil
	}

	recipe := &models.Recipe{AuthorID: user}
	fields.Apply(recipe)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(recipe).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	s.log.Info("Recipe created", "recipe_id", recipe.ID, "user_id", user)

	result := &EditResult{Saved: true, Recipe: recipe}
	s.saveChildren(ctx, recipe, sub, result)
	return result, nil
}

// UpdateRecipe runs the edit protocol for an existing recipe. Ownership is
// checked before anything in the submission is looked at.
func (s *RecipeService) UpdateRecipe(ctx context.Context, user, id uuid.UUID, sub RecipeSubmission) (*EditResult, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanEditRecipe(user, recipe) {
		return nil, ErrPermissionDenied
	}

	fields, res := validation.ValidateRecipe(sub.Recipe)
	if !res.Valid {
		return s.failed(ctx, sub, res, recipe), nil
	}

	fields.Apply(recipe)
	// the author is re-stamped to the requester on every update
	recipe.AuthorID = user
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(recipe).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	s.log.Info("Recipe updated", "recipe_id", recipe.ID, "user_id", user)

	result := &EditResult{Saved: true, Recipe: recipe}
	s.saveChildren(ctx, recipe, sub, result)
	return result, nil
}

// failed builds the re-render state for an invalid recipe. recipe is nil on create.
func (s *RecipeService) failed(ctx context.Context, sub RecipeSubmission, res validation.Result, recipe *models.Recipe) *EditResult {
	result := &EditResult{FieldErrors: res.FieldErrors, Recipe: recipe}
	ingredients, images := childIndex(recipe)

	if sub.IngredientsErr == nil {
		rows := formset.Validate(sub.Ingredients, ingredients.known, ingredientRow)
		for _, item := range rows.Accepted {
			seed := IngredientSeed{
				Name:       item.Value.Name,
				Unit:       item.Value.Unit,
				IsOptional: item.Value.IsOptional,
			}
			if item.Value.Quantity != nil {
				seed.Quantity = *item.Value.Quantity
			}
			if !item.IsNew() {
				id := item.ID
				seed.ID = &id
			}
			result.IngredientSeeds = append(result.IngredientSeeds, seed)
		}
	}

	if sub.ImagesErr == nil {
		if recipe != nil {
			s.resolveURLs(ctx, recipe.Images)
		}
		rows := formset.Validate(sub.Images, images.known, s.imageRow)
		for _, item := range rows.Accepted {
			var seed ImageSeed
			if !item.IsNew() {
				id := item.ID
				seed.ID = &id
				seed.URL = images[item.ID].URL
			}
			result.ImageSeeds = append(result.ImageSeeds, seed)
		}
	}

	return result
}

func (s *RecipeService) saveChildren(ctx context.Context, recipe *models.Recipe, sub RecipeSubmission, result *EditResult) {
	ingredients, images := childIndex(recipe)
	result.IngredientErrors, result.IngredientsFailure = s.saveIngredients(ctx, recipe.ID, sub, ingredients)
	result.ImageErrors, result.ImagesFailure = s.saveImages(ctx, recipe.ID, sub, images)
}

func (s *RecipeService) saveIngredients(ctx context.Context, recipeID uuid.UUID, sub RecipeSubmission, existing ingredientIndex) ([]formset.Rejected, error) {
	if sub.IngredientsErr != nil {
		s.log.Warn("Ingredient collection rejected", "recipe_id", recipeID, "error", sub.IngredientsErr)
		return nil, sub.IngredientsErr
	}

	rows := formset.Validate(sub.Ingredients, existing.known, ingredientRow)
	s.logRejected(IngredientsPrefix, recipeID, rows.Rejected)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows.Deleted) > 0 {
			if err := tx.Where("recipe_id = ? AND id IN ?", recipeID, rows.Deleted).Delete(&models.Ingredient{}).Error; err != nil {
				return fmt.Errorf("failed to delete ingredients: %w", err)
			}
		}
		for _, item := range rows.Accepted {
			ingredient := models.Ingredient{RecipeID: recipeID}
			if !item.IsNew() {
				ingredient = *existing[item.ID]
			}
			item.Value.Apply(&ingredient)
			ingredient.Position = item.Index
			if err := tx.Save(&ingredient).Error; err != nil {
				return fmt.Errorf("failed to save ingredient row %d: %w", item.Index, err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("Ingredient collection not saved", "recipe_id", recipeID, "error", err)
		return rows.Rejected, err
	}
	return rows.Rejected, nil
}

func (s *RecipeService) saveImages(ctx context.Context, recipeID uuid.UUID, sub RecipeSubmission, existing imageIndex) ([]formset.Rejected, error) {
	if sub.ImagesErr != nil {
		s.log.Warn("Image collection rejected", "recipe_id", recipeID, "error", sub.ImagesErr)
		return nil, sub.ImagesErr
	}

	rows := formset.Validate(sub.Images, existing.known, s.imageRow)
	rejected := rows.Rejected

	type upload struct {
		item formset.Item[validation.ImageFields]
		key  string
	}
	var uploads []upload
	for _, item := range rows.Accepted {
		if item.Value.File == nil {
			// existing row without a new file keeps its stored object
			continue
		}
		key := storage.ImageKey(recipeID, item.Value.Extension)
		if err := s.storeUpload(ctx, key, item.Value); err != nil {
			s.log.Error("Failed to store image", "recipe_id", recipeID, "row", item.Index, "error", err)
			rejected = append(rejected, formset.Rejected{
				Index:  item.Index,
				Errors: validation.FieldErrors{ImageField: {MsgImageNotStored}},
			})
			continue
		}
		uploads = append(uploads, upload{item: item, key: key})
	}
	s.logRejected(ImagesPrefix, recipeID, rejected)

	var replaced []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		replaced = replaced[:0]
		if len(rows.Deleted) > 0 {
			if err := tx.Where("recipe_id = ? AND id IN ?", recipeID, rows.Deleted).Delete(&models.Image{}).Error; err != nil {
				return fmt.Errorf("failed to delete images: %w", err)
			}
			for _, id := range rows.Deleted {
				replaced = append(replaced, existing[id].StorageKey)
			}
		}
		for _, u := range uploads {
			image := models.Image{RecipeID: recipeID}
			if !u.item.IsNew() {
				image = *existing[u.item.ID]
				replaced = append(replaced, image.StorageKey)
			}
			image.StorageKey = u.key
			image.ContentType = u.item.Value.ContentType
			if err := tx.Save(&image).Error; err != nil {
				return fmt.Errorf("failed to save image row %d: %w", u.item.Index, err)
			}
		}
		return nil
	})
	if err != nil {
		for _, u := range uploads {
			s.deleteObject(ctx, u.key)
		}
		s.log.Error("Image collection not saved", "recipe_id", recipeID, "error", err)
		return rejected, err
	}

	for _, key := range replaced {
		s.deleteObject(ctx, key)
	}
	return rejected, nil
}

func (s *RecipeService) storeUpload(ctx context.Context, key string, f validation.ImageFields) error {
	r, err := f.File.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer r.Close()
	return s.images.Save(ctx, key, r, f.ContentType)
}

func (s *RecipeService) logRejected(collection string, recipeID uuid.UUID, rejected []formset.Rejected) {
	for _, r := range rejected {
		s.log.Warn("Child row rejected", "collection", collection, "recipe_id", recipeID, "row", r.Index, "errors", r.Errors)
	}
}

func ingredientRow(row formset.Row) (validation.IngredientFields, validation.Result) {
	return validation.ValidateIngredient(validation.IngredientInput{
		Name:       row.Value("name"),
		Quantity:   row.Value("quantity"),
		Unit:       row.Value("unit"),
		IsOptional: validation.Checked(row.Value("is_optional")),
	})
}

func (s *RecipeService) imageRow(row formset.Row) (validation.ImageFields, validation.Result) {
	return validation.ValidateImage(validation.ImageInput{
		File:     validation.UploadFromFileHeader(row.File(ImageField)),
		Existing: !row.IsNew(),
	}, s.maxUploadBytes)
}

type ingredientIndex map[uuid.UUID]*models.Ingredient

func (idx ingredientIndex) known(id uuid.UUID) bool {
	_, ok := idx[id]
	return ok
}

type imageIndex map[uuid.UUID]*models.Image

func (idx imageIndex) known(id uuid.UUID) bool {
	_, ok := idx[id]
	return ok
}

// childIndex maps the current children of recipe by id. recipe may be nil.
func childIndex(recipe *models.Recipe) (ingredientIndex, imageIndex) {
	ingredients := ingredientIndex{}
	images := imageIndex{}
	if recipe == nil {
		return ingredients, images
	}
	for i := range recipe.Ingredients {
		ingredients[recipe.Ingredients[i].ID] = &recipe.Ingredients[i]
	}
	for i := range recipe.Images {
		images[recipe.Images[i].ID] = &recipe.Images[i]
	}
	return ingredients, images
}
