package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/internal/access"
	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/validation"
)

// recipeChoices supplies the recipes offered on the collection form
type recipeChoices interface {
	RecipeChoices(ctx context.Context) ([]models.Recipe, error)
}

type CollectionHandler struct {
	collections service.ICollectionService
	recipes     recipeChoices
	log         *logger.Logger
}

func NewCollectionHandler(collections service.ICollectionService, recipes recipeChoices, log *logger.Logger) *CollectionHandler {
	return &CollectionHandler{collections: collections, recipes: recipes, log: log}
}

func (h *CollectionHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/collections", h.ListCollections)
	r.GET("/collection/:id/", h.GetCollection)

	auth := r.Group("", middleware.RequireAuth())
	{
		auth.GET("/collection/create", h.NewCollection)
		auth.POST("/collection/create", h.CreateCollection)
		auth.GET("/collection/:id/edit/", h.EditCollection)
		auth.POST("/collection/:id/edit/", h.UpdateCollection)
		auth.GET("/collection/:id/delete/", h.ConfirmDeleteCollection)
		auth.POST("/collection/:id/delete/", h.DeleteCollection)
	}
}

type collectionListView struct {
	Collections service.Page[models.Collection] `json:"collections"`
}

func (h *CollectionHandler) ListCollections(c *gin.Context) {
	page, err := h.collections.ListCollections(c.Request.Context(), c.Query("page"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "collections.html", collectionListView{Collections: page})
}

type collectionDetailView struct {
	Collection *models.Collection `json:"collection"`
	CanEdit    bool               `json:"can_edit"`
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	collection, err := h.collections.GetCollection(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "collection_detail.html", collectionDetailView{
		Collection: collection,
		CanEdit:    access.CanEditCollection(requester(c), collection),
	})
}

type collectionFormView struct {
	Action     string                     `json:"action"`
	Collection *models.Collection         `json:"collection,omitempty"`
	Form       validation.CollectionInput `json:"form"`
	Errors     validation.FieldErrors     `json:"errors,omitempty"`
	Choices    []models.Recipe            `json:"choices"`
	Selected   map[string]bool            `json:"-"`
}

// formView loads the recipe choices and marks the selected ones
func (h *CollectionHandler) formView(c *gin.Context, action string, collection *models.Collection, form validation.CollectionInput, errs validation.FieldErrors) (collectionFormView, error) {
	choices, err := h.recipes.RecipeChoices(c.Request.Context())
	if err != nil {
		return collectionFormView{}, err
	}
	selected := make(map[string]bool, len(form.Recipes))
	for _, id := range form.Recipes {
		selected[id] = true
	}
	return collectionFormView{
		Action:     action,
		Collection: collection,
		Form:       form,
		Errors:     errs,
		Choices:    choices,
		Selected:   selected,
	}, nil
}

func (h *CollectionHandler) renderForm(c *gin.Context, status int, action string, collection *models.Collection, form validation.CollectionInput, errs validation.FieldErrors) {
	view, err := h.formView(c, action, collection, form, errs)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	render(c, status, "collection_form.html", view)
}

func collectionURL(collection *models.Collection) string {
	return "/collection/" + collection.ID.String() + "/"
}

func collectionInputFrom(collection *models.Collection) validation.CollectionInput {
	in := validation.CollectionInput{Title: collection.Title}
	for _, r := range collection.Recipes {
		in.Recipes = append(in.Recipes, r.ID.String())
	}
	return in
}

func bindCollection(c *gin.Context) validation.CollectionInput {
	return validation.CollectionInput{
		Title:   c.PostForm("title"),
		Recipes: c.PostFormArray("recipes"),
	}
}

func (h *CollectionHandler) NewCollection(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "/collection/create", nil, validation.CollectionInput{}, nil)
}

func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	in := bindCollection(c)
	_, res, err := h.collections.CreateCollection(c.Request.Context(), requester(c), in)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	if !res.Valid {
		h.renderForm(c, http.StatusBadRequest, "/collection/create", nil, in, res.FieldErrors)
		return
	}
	redirect(c, "/collections")
}

func (h *CollectionHandler) EditCollection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	collection, err := h.collections.GetForEdit(c.Request.Context(), requester(c), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	h.renderForm(c, http.StatusOK, collectionURL(collection)+"edit/", collection, collectionInputFrom(collection), nil)
}

func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	in := bindCollection(c)
	collection, res, err := h.collections.UpdateCollection(c.Request.Context(), requester(c), id, in)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	if !res.Valid {
		h.renderForm(c, http.StatusBadRequest, collectionURL(collection)+"edit/", collection, in, res.FieldErrors)
		return
	}
	redirect(c, collectionURL(collection))
}

type collectionDeleteView struct {
	Collection *models.Collection `json:"collection"`
}

func (h *CollectionHandler) ConfirmDeleteCollection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	collection, err := h.collections.GetForEdit(c.Request.Context(), requester(c), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "collection_confirm_delete.html", collectionDeleteView{Collection: collection})
}

func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.collections.DeleteCollection(c.Request.Context(), requester(c), id); err != nil {
		handleError(c, h.log, err)
		return
	}
	redirect(c, "/collections")
}
