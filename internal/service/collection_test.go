package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
	"github.com/pageza/cookbook/backend/internal/validation"
)

func TestCollectionLifecycle(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewCollectionService(db, logger.Nop())
	author := testhelpers.CreateTestUser(t, db)
	soup := testhelpers.CreateTestRecipe(t, db, author.ID, func(r *models.Recipe) { r.Title = "Soup" })
	stew := testhelpers.CreateTestRecipe(t, db, author.ID, func(r *models.Recipe) { r.Title = "Stew" })
	ctx := context.Background()

	created, res, err := svc.CreateCollection(ctx, author.ID, validation.CollectionInput{
		Title:   "Winter",
		Recipes: []string{soup.ID.String(), stew.ID.String()},
	})
	require.NoError(t, err)
	require.True(t, res.Valid, res.FieldErrors)

	loaded, err := svc.GetCollection(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Winter", loaded.Title)
	assert.Equal(t, author.ID, loaded.AuthorID)
	assert.Len(t, loaded.Recipes, 2)

	_, res, err = svc.UpdateCollection(ctx, author.ID, created.ID, validation.CollectionInput{
		Title:   "Soups",
		Recipes: []string{soup.ID.String()},
	})
	require.NoError(t, err)
	require.True(t, res.Valid)

	loaded, err = svc.GetCollection(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soups", loaded.Title)
	require.Len(t, loaded.Recipes, 1)
	assert.Equal(t, soup.ID, loaded.Recipes[0].ID)

	require.NoError(t, svc.DeleteCollection(ctx, author.ID, created.ID))
	_, err = svc.GetCollection(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var recipes int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	assert.Equal(t, int64(2), recipes, "member recipes outlive the collection")
}

func TestCreateCollectionValidation(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewCollectionService(db, logger.Nop())
	author := testhelpers.CreateTestUser(t, db)
	missing := uuid.New()

	collection, res, err := svc.CreateCollection(context.Background(), author.ID, validation.CollectionInput{
		Title:   "",
		Recipes: []string{missing.String(), "not-a-uuid"},
	})
	require.NoError(t, err)
	assert.Nil(t, collection)
	assert.False(t, res.Valid)
	assert.True(t, res.FieldErrors.Has("title"))
	assert.ElementsMatch(t, []string{
		validation.InvalidChoice("not-a-uuid"),
		validation.InvalidChoice(missing.String()),
	}, res.FieldErrors["recipes"])

	var count int64
	require.NoError(t, db.Model(&models.Collection{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCollectionRequiresOwnership(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewCollectionService(db, logger.Nop())
	author := testhelpers.CreateTestUser(t, db)
	intruder := testhelpers.CreateTestUser(t, db)
	collection := testhelpers.CreateTestCollection(t, db, author.ID, "Mine")
	ctx := context.Background()

	_, _, err := svc.UpdateCollection(ctx, intruder.ID, collection.ID, validation.CollectionInput{Title: "Theirs"})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	assert.ErrorIs(t, svc.DeleteCollection(ctx, intruder.ID, collection.ID), service.ErrPermissionDenied)

	_, _, err = svc.CreateCollection(ctx, uuid.Nil, validation.CollectionInput{Title: "Anon"})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	loaded, err := svc.GetCollection(ctx, collection.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", loaded.Title)
}

func TestListCollections(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewCollectionService(db, logger.Nop())
	author := testhelpers.CreateTestUser(t, db)
	for i := 0; i < 12; i++ {
		testhelpers.CreateTestCollection(t, db, author.ID, "Collection")
	}

	page, err := svc.ListCollections(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, page.Items, service.CollectionPageSize)
	assert.Equal(t, 2, page.TotalPages)

	page, err = svc.ListCollections(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Len(t, page.Items, 2)
	require.NotNil(t, page.Items[0].Author)
}
