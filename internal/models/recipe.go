package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is the aggregate root. Ingredients and Images are owned children.
type Recipe struct {
	ID              uuid.UUID    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt       time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	Title           string       `gorm:"size:200;not null" json:"title"`
	Servings        int          `gorm:"not null" json:"servings"`
	PreparationTime *Duration    `gorm:"type:bigint" json:"preparation_time"`
	TotalTime       *Duration    `gorm:"type:bigint" json:"total_time"`
	Calories        *int         `json:"calories"`
	Instructions    string       `gorm:"type:text;not null" json:"instructions"`
	Cuisine         string       `gorm:"size:20;not null" json:"cuisine"`
	FoodType        string       `gorm:"size:20;not null" json:"food_type"`
	DifficultyLevel string       `gorm:"size:10;not null" json:"difficulty_level"`
	Featured        bool         `gorm:"not null;default:false;index" json:"featured"`
	AuthorID        uuid.UUID    `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author          *User        `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Ingredients     []Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Images          []Image      `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Ingredient is a child row of a Recipe. Position keeps the submission order.
type Ingredient struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
	RecipeID   uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Quantity   float64   `gorm:"not null" json:"quantity"`
	Unit       string    `gorm:"size:20;not null" json:"unit"`
	IsOptional bool      `gorm:"not null;default:false" json:"is_optional"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Image is a child row of a Recipe pointing at an object in the image store.
type Image struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
	RecipeID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	StorageKey  string    `gorm:"size:255;not null" json:"-"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	// URL is resolved through the image store when the recipe is loaded.
	URL string `gorm:"-" json:"url"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
