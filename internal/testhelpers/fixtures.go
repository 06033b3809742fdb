package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/models"
)

// TestPassword is the plain password of every user created by CreateTestUser
const TestPassword = "testpassword123"

// TokenGenerator issues tokens for a user
type TokenGenerator interface {
	GenerateToken(user *models.User) (string, error)
}

// CreateTestUser creates a user with a unique email and TestPassword
func CreateTestUser(t testing.TB, db *gorm.DB) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	id := uuid.New()
	user := &models.User{
		ID:           id,
		Name:         "Test User",
		Email:        fmt.Sprintf("testuser+%s@example.com", id),
		PasswordHash: string(hashed),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserAndToken creates a user and a valid token for it
func CreateTestUserAndToken(t testing.TB, db *gorm.DB, tokens TokenGenerator) (*models.User, string) {
	t.Helper()

	user := CreateTestUser(t, db)
	token, err := tokens.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

// CreateTestRecipe creates a valid recipe owned by authorID. mutate, when
// given, adjusts the recipe before it is stored.
func CreateTestRecipe(t testing.TB, db *gorm.DB, authorID uuid.UUID, mutate ...func(*models.Recipe)) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Title:           "Test Recipe",
		Servings:        2,
		PreparationTime: models.NewDuration(10 * time.Minute),
		TotalTime:       models.NewDuration(30 * time.Minute),
		Instructions:    "Mix and cook.",
		Cuisine:         "italian",
		FoodType:        "vegetarian",
		DifficultyLevel: "easy",
		AuthorID:        authorID,
	}
	for _, fn := range mutate {
		fn(recipe)
	}
	if err := db.Omit("Author", "Ingredients", "Images").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}

// CreateTestIngredient adds an ingredient to a recipe
func CreateTestIngredient(t testing.TB, db *gorm.DB, recipeID uuid.UUID, name string, position int) *models.Ingredient {
	t.Helper()

	ingredient := &models.Ingredient{
		RecipeID: recipeID,
		Position: position,
		Name:     name,
		Quantity: 1,
		Unit:     "cup",
	}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ingredient
}

// CreateTestImage adds an image row pointing at key
func CreateTestImage(t testing.TB, db *gorm.DB, recipeID uuid.UUID, key string) *models.Image {
	t.Helper()

	image := &models.Image{
		RecipeID:    recipeID,
		StorageKey:  key,
		ContentType: "image/png",
	}
	if err := db.Create(image).Error; err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	return image
}

// CreateTestCollection creates a collection owned by authorID containing recipes
func CreateTestCollection(t testing.TB, db *gorm.DB, authorID uuid.UUID, title string, recipes ...*models.Recipe) *models.Collection {
	t.Helper()

	collection := &models.Collection{Title: title, AuthorID: authorID}
	if err := db.Omit("Author", "Recipes").Create(collection).Error; err != nil {
		t.Fatalf("failed to create test collection: %v", err)
	}
	for _, r := range recipes {
		err := db.Exec("INSERT INTO "+models.CollectionRecipesTable+" (collection_id, recipe_id) VALUES (?, ?)", collection.ID, r.ID).Error
		if err != nil {
			t.Fatalf("failed to add recipe to test collection: %v", err)
		}
	}
	return collection
}
