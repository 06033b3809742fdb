// Package access holds the ownership rules for recipes and collections.
package access

import (
	"github.com/google/uuid"

	"github.com/pageza/cookbook/backend/internal/models"
)

// CanEditRecipe reports whether user may edit or delete recipe. Anonymous
// users (uuid.Nil) may edit nothing.
func CanEditRecipe(user uuid.UUID, recipe *models.Recipe) bool {
	return user != uuid.Nil && recipe != nil && recipe.AuthorID == user
}

// CanEditCollection reports whether user may edit or delete collection
func CanEditCollection(user uuid.UUID, collection *models.Collection) bool {
	return user != uuid.Nil && collection != nil && collection.AuthorID == user
}
