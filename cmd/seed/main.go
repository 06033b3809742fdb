package main

import (
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/migrations"
)

const testPassword = "testpassword123"

var testUsers = []struct {
	name  string
	email string
}{
	{"John Doe", "john.doe@example.com"},
	{"Jane Smith", "jane.smith@example.com"},
}

type ingredientSeed struct {
	name     string
	quantity float64
	unit     string
	optional bool
}

type recipeSeed struct {
	title        string
	servings     int
	prep, total  time.Duration
	cuisine      string
	foodType     string
	difficulty   string
	featured     bool
	instructions string
	ingredients  []ingredientSeed
}

var recipes = []recipeSeed{
	{
		title: "Margherita Pizza", servings: 4, prep: 20 * time.Minute, total: time.Hour,
		cuisine: "italian", foodType: "vegetarian", difficulty: "medium", featured: true,
		instructions: "Stretch the dough, top with tomato and mozzarella, bake until blistered.",
		ingredients: []ingredientSeed{
			{"pizza dough", 500, "g", false},
			{"tomato passata", 200, "ml", false},
			{"mozzarella", 250, "g", false},
			{"basil", 1, "bunch", true},
		},
	},
	{
		title: "Chana Masala", servings: 4, prep: 15 * time.Minute, total: 45 * time.Minute,
		cuisine: "indian", foodType: "vegan", difficulty: "easy", featured: true,
		instructions: "Fry the onion and spices, add tomatoes and chickpeas, simmer.",
		ingredients: []ingredientSeed{
			{"chickpeas", 800, "g", false},
			{"onion", 2, "pcs", false},
			{"garam masala", 2, "tsp", false},
			{"cilantro", 1, "bunch", true},
		},
	},
	{
		title: "Fish Tacos", servings: 2, prep: 20 * time.Minute, total: 35 * time.Minute,
		cuisine: "mexican", foodType: "pescatarian", difficulty: "easy",
		instructions: "Season and sear the fish, serve in warm tortillas with slaw.",
		ingredients: []ingredientSeed{
			{"white fish fillets", 300, "g", false},
			{"corn tortillas", 6, "pcs", false},
			{"cabbage", 0.25, "head", false},
		},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.Open(cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.RunMigrations(db, migrations.FS, appLog); err != nil {
		appLog.Fatal("Failed to run migrations", "error", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	if err != nil {
		appLog.Fatal("Failed to hash password", "error", err)
	}

	var users []models.User
	for _, u := range testUsers {
		user, err := ensureUser(db, u.name, u.email, string(hashed))
		if err != nil {
			appLog.Fatal("Failed to seed user", "email", u.email, "error", err)
		}
		users = append(users, *user)
		appLog.Info("Seeded user", "email", u.email)
	}

	var seeded []models.Recipe
	for i, r := range recipes {
		author := users[i%len(users)]
		recipe, err := createRecipe(db, author, r)
		if err != nil {
			appLog.Fatal("Failed to seed recipe", "title", r.title, "error", err)
		}
		seeded = append(seeded, *recipe)
		appLog.Info("Seeded recipe", "title", r.title, "author", author.Email)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		collection := models.Collection{Title: "Weeknight favourites", AuthorID: users[0].ID}
		if err := tx.Omit(clause.Associations).Create(&collection).Error; err != nil {
			return err
		}
		for _, r := range seeded {
			if err := tx.Exec("INSERT INTO "+models.CollectionRecipesTable+" (collection_id, recipe_id) VALUES (?, ?)", collection.ID, r.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		appLog.Fatal("Failed to seed collection", "error", err)
	}

	appLog.Info("Seeding complete", "users", len(users), "recipes", len(seeded), "password", testPassword)
}

// ensureUser returns the user with email, creating it if needed
func ensureUser(db *gorm.DB, name, email, hash string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	user = models.User{Name: name, Email: email, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func createRecipe(db *gorm.DB, author models.User, r recipeSeed) (*models.Recipe, error) {
	recipe := models.Recipe{
		Title:           r.title,
		Servings:        r.servings,
		PreparationTime: models.NewDuration(r.prep),
		TotalTime:       models.NewDuration(r.total),
		Instructions:    r.instructions,
		Cuisine:         r.cuisine,
		FoodType:        r.foodType,
		DifficultyLevel: r.difficulty,
		Featured:        r.featured,
		AuthorID:        author.ID,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		for i, ing := range r.ingredients {
			row := models.Ingredient{
				RecipeID:   recipe.ID,
				Position:   i,
				Name:       ing.name,
				Quantity:   ing.quantity,
				Unit:       ing.unit,
				IsOptional: ing.optional,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}
