package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/internal/access"
	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/validation"
)

// extraRows is the number of blank rows offered after the seeded ones
const extraRows = 1

type RecipeHandler struct {
	recipes       service.IRecipeService
	createLimiter *middleware.RateLimiter
	modifyLimiter *middleware.RateLimiter
	log           *logger.Logger
}

// NewRecipeHandler creates a recipe handler. Either limiter may be nil.
func NewRecipeHandler(recipes service.IRecipeService, createLimiter, modifyLimiter *middleware.RateLimiter, log *logger.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		createLimiter: createLimiter,
		modifyLimiter: modifyLimiter,
		log:           log,
	}
}

func (h *RecipeHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/recipes/", h.ListRecipes)
	r.GET("/recipe/:id/", h.GetRecipe)

	auth := r.Group("", middleware.RequireAuth())
	{
		auth.GET("/recipe/create", h.NewRecipe)
		auth.POST("/recipe/create", h.createLimiter.RateLimitMiddleware(), h.CreateRecipe)
		auth.GET("/recipe/:id/edit", h.EditRecipe)
		auth.POST("/recipe/:id/edit", h.modifyLimiter.PerRecipeRateLimitMiddleware(), h.UpdateRecipe)
		auth.GET("/recipe/:id/delete/", h.ConfirmDeleteRecipe)
		auth.POST("/recipe/:id/delete/", h.DeleteRecipe)
	}
}

type homeView struct {
	Featured []models.Recipe `json:"featured"`
}

func (h *RecipeHandler) Home(c *gin.Context) {
	featured, err := h.recipes.ListFeatured(c.Request.Context(), "1")
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "home.html", homeView{Featured: featured.Items})
}

type recipeListView struct {
	Recipes  service.Page[models.Recipe] `json:"recipes"`
	Featured service.Page[models.Recipe] `json:"featured"`
}

// ListRecipes shows the paginated recipe list with a separately paginated
// featured block
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	recipes, err := h.recipes.ListRecipes(ctx, c.Query("page"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	featured, err := h.recipes.ListFeatured(ctx, c.Query("featured_page"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "recipe_list.html", recipeListView{Recipes: recipes, Featured: featured})
}

type recipeDetailView struct {
	Recipe  *models.Recipe `json:"recipe"`
	CanEdit bool           `json:"can_edit"`
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "recipe_detail.html", recipeDetailView{
		Recipe:  recipe,
		CanEdit: access.CanEditRecipe(requester(c), recipe),
	})
}

type ingredientRow struct {
	ID         string
	Name       string
	Quantity   string
	Unit       string
	IsOptional bool
}

type imageRow struct {
	ID  string
	URL string
}

type recipeFormView struct {
	Action      string                   `json:"action"`
	Recipe      *models.Recipe           `json:"recipe,omitempty"`
	Form        validation.RecipeInput   `json:"form"`
	Errors      validation.FieldErrors   `json:"errors,omitempty"`
	Ingredients []service.IngredientSeed `json:"initial_ingredients"`
	Images      []service.ImageSeed      `json:"initial_images"`

	IngredientRows     []ingredientRow `json:"-"`
	IngredientsInitial int             `json:"-"`
	ImageRows          []imageRow      `json:"-"`
	ImagesInitial      int             `json:"-"`
	Cuisines           []models.Choice `json:"-"`
	FoodTypes          []models.Choice `json:"-"`
	Difficulties       []models.Choice `json:"-"`
}

func newRecipeFormView(action string, recipe *models.Recipe, form validation.RecipeInput, errs validation.FieldErrors, ingredients []service.IngredientSeed, images []service.ImageSeed) recipeFormView {
	v := recipeFormView{
		Action:       action,
		Recipe:       recipe,
		Form:         form,
		Errors:       errs,
		Ingredients:  ingredients,
		Images:       images,
		Cuisines:     models.CuisineChoices,
		FoodTypes:    models.FoodTypeChoices,
		Difficulties: models.DifficultyChoices,
	}
	if v.Ingredients == nil {
		v.Ingredients = []service.IngredientSeed{}
	}
	if v.Images == nil {
		v.Images = []service.ImageSeed{}
	}

	// rows keep submission order; stored rows are recognised by their hidden id
	for _, s := range ingredients {
		row := ingredientRow{
			Name:       s.Name,
			Quantity:   strconv.FormatFloat(s.Quantity, 'f', -1, 64),
			Unit:       s.Unit,
			IsOptional: s.IsOptional,
		}
		if s.ID != nil {
			row.ID = s.ID.String()
			v.IngredientsInitial++
		}
		v.IngredientRows = append(v.IngredientRows, row)
	}
	// uploads cannot be carried back into a file input, so only stored images return
	for _, s := range images {
		if s.ID == nil {
			continue
		}
		v.ImageRows = append(v.ImageRows, imageRow{ID: s.ID.String(), URL: s.URL})
		v.ImagesInitial++
	}
	for i := 0; i < extraRows; i++ {
		v.IngredientRows = append(v.IngredientRows, ingredientRow{})
		v.ImageRows = append(v.ImageRows, imageRow{})
	}
	return v
}

// seedsFrom lists the stored children of a recipe in form order
func seedsFrom(recipe *models.Recipe) ([]service.IngredientSeed, []service.ImageSeed) {
	ingredients := make([]service.IngredientSeed, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		id := ing.ID
		ingredients = append(ingredients, service.IngredientSeed{
			ID:         &id,
			Name:       ing.Name,
			Quantity:   ing.Quantity,
			Unit:       ing.Unit,
			IsOptional: ing.IsOptional,
		})
	}
	images := make([]service.ImageSeed, 0, len(recipe.Images))
	for _, img := range recipe.Images {
		id := img.ID
		images = append(images, service.ImageSeed{ID: &id, URL: img.URL})
	}
	return ingredients, images
}

func recipeURL(recipe *models.Recipe) string {
	return "/recipe/" + recipe.ID.String() + "/"
}

func (h *RecipeHandler) NewRecipe(c *gin.Context) {
	render(c, http.StatusOK, "recipe_form.html", newRecipeFormView("/recipe/create", nil, validation.RecipeInput{}, nil, nil, nil))
}

// CreateRecipe runs the edit protocol for a new recipe
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	sub, ok := h.submission(c)
	if !ok {
		return
	}

	result, err := h.recipes.CreateRecipe(c.Request.Context(), requester(c), sub)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	if !result.Saved {
		render(c, http.StatusBadRequest, "recipe_form.html",
			newRecipeFormView("/recipe/create", nil, sub.Recipe, result.FieldErrors, result.IngredientSeeds, result.ImageSeeds))
		return
	}
	redirect(c, recipeURL(result.Recipe))
}

func (h *RecipeHandler) EditRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetForEdit(c.Request.Context(), requester(c), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	ingredients, images := seedsFrom(recipe)
	render(c, http.StatusOK, "recipe_form.html",
		newRecipeFormView(recipeURL(recipe)+"edit", recipe, validation.RecipeInputFrom(recipe), nil, ingredients, images))
}

// UpdateRecipe runs the edit protocol for an existing recipe
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sub, ok := h.submission(c)
	if !ok {
		return
	}

	result, err := h.recipes.UpdateRecipe(c.Request.Context(), requester(c), id, sub)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	if !result.Saved {
		render(c, http.StatusBadRequest, "recipe_form.html",
			newRecipeFormView(recipeURL(result.Recipe)+"edit", result.Recipe, sub.Recipe, result.FieldErrors, result.IngredientSeeds, result.ImageSeeds))
		return
	}
	redirect(c, recipeURL(result.Recipe))
}

type recipeDeleteView struct {
	Recipe *models.Recipe `json:"recipe"`
}

func (h *RecipeHandler) ConfirmDeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetForEdit(c.Request.Context(), requester(c), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "recipe_confirm_delete.html", recipeDeleteView{Recipe: recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), requester(c), id); err != nil {
		handleError(c, h.log, err)
		return
	}
	redirect(c, "/recipes/")
}

// submission decodes a multipart or urlencoded recipe form
func (h *RecipeHandler) submission(c *gin.Context) (service.RecipeSubmission, bool) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		form, err := c.MultipartForm()
		if err != nil {
			h.log.Warn("Malformed multipart form", "error", err)
			renderBadRequest(c, "The submitted form could not be read.")
			return service.RecipeSubmission{}, false
		}
		return service.ParseRecipeSubmission(url.Values(form.Value), form.File), true
	}
	if err := c.Request.ParseForm(); err != nil {
		h.log.Warn("Malformed form", "error", err)
		renderBadRequest(c, "The submitted form could not be read.")
		return service.RecipeSubmission{}, false
	}
	return service.ParseRecipeSubmission(c.Request.PostForm, nil), true
}
