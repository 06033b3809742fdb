package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection groups recipes. Membership does not own the recipes.
type Collection struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	AuthorID  uuid.UUID `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Recipes   []Recipe  `gorm:"many2many:collection_recipes" json:"recipes,omitempty"`
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CollectionRecipesTable is the join table backing Collection.Recipes
const CollectionRecipesTable = "collection_recipes"
