package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
)

func TestResolvePage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		total   int64
		strict  bool
		want    int
		wantErr bool
	}{
		{name: "empty defaults to first", raw: "", total: 7, strict: true, want: 1},
		{name: "in range", raw: "2", total: 7, strict: true, want: 2},
		{name: "last", raw: "last", total: 7, strict: true, want: 3},
		{name: "first page of empty list", raw: "1", total: 0, strict: true, want: 1},
		{name: "strict out of range", raw: "4", total: 7, strict: true, wantErr: true},
		{name: "strict zero", raw: "0", total: 7, strict: true, wantErr: true},
		{name: "strict not an integer", raw: "two", total: 7, strict: true, wantErr: true},
		{name: "lenient out of range clamps", raw: "9", total: 7, strict: false, want: 3},
		{name: "lenient not an integer", raw: "two", total: 7, strict: false, want: 1},
		{name: "lenient negative", raw: "-3", total: 7, strict: false, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ResolvePage(tt.raw, tt.total, service.RecipePageSize, tt.strict)
			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidPage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListRecipesPaginatesSevenIntoThreePages(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db, testhelpers.NewMemoryImageStore(), logger.Nop(), 1<<20)
	author := testhelpers.CreateTestUser(t, db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		created := base.Add(time.Duration(i) * time.Minute)
		testhelpers.CreateTestRecipe(t, db, author.ID, func(r *models.Recipe) { r.CreatedAt = created })
	}
	ctx := context.Background()

	var seen []string
	for _, tc := range []struct {
		page string
		want int
	}{{"1", 3}, {"2", 3}, {"3", 1}} {
		page, err := svc.ListRecipes(ctx, tc.page)
		require.NoError(t, err)
		assert.Len(t, page.Items, tc.want, "page %s", tc.page)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, int64(7), page.TotalItems)
		for _, r := range page.Items {
			seen = append(seen, r.ID.String())
			require.NotNil(t, r.Author)
		}
	}
	assert.Len(t, seen, 7)

	first, err := svc.ListRecipes(ctx, "1")
	require.NoError(t, err)
	assert.True(t, first.Items[0].CreatedAt.After(first.Items[1].CreatedAt), "newest first")
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())

	_, err = svc.ListRecipes(ctx, "4")
	assert.ErrorIs(t, err, service.ErrInvalidPage)
}

func TestListFeaturedClamps(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db, testhelpers.NewMemoryImageStore(), logger.Nop(), 1<<20)
	author := testhelpers.CreateTestUser(t, db)

	for i := 0; i < 8; i++ {
		featured := i%2 == 0
		testhelpers.CreateTestRecipe(t, db, author.ID, func(r *models.Recipe) { r.Featured = featured })
	}

	page, err := svc.ListFeatured(context.Background(), "99")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Len(t, page.Items, 4)
	for _, r := range page.Items {
		assert.True(t, r.Featured)
	}

	page, err = svc.ListFeatured(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
}
