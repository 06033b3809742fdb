package testhelpers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/types"
)

// MockAuthService is a mock implementation of the token checks used by middleware
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetForEdit(ctx context.Context, user, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, page string) (service.Page[models.Recipe], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(service.Page[models.Recipe]), args.Error(1)
}

func (m *MockRecipeService) ListFeatured(ctx context.Context, page string) (service.Page[models.Recipe], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(service.Page[models.Recipe]), args.Error(1)
}

func (m *MockRecipeService) RecipeChoices(ctx context.Context) ([]models.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, user uuid.UUID, sub service.RecipeSubmission) (*service.EditResult, error) {
	args := m.Called(ctx, user, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EditResult), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, user, id uuid.UUID, sub service.RecipeSubmission) (*service.EditResult, error) {
	args := m.Called(ctx, user, id, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EditResult), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, user, id uuid.UUID) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

// ErrStoreUnavailable is returned by MemoryImageStore when FailSave is set
var ErrStoreUnavailable = errors.New("image store unavailable")

// MemoryImageStore keeps stored images in memory
type MemoryImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string

	// FailSave makes every Save fail with ErrStoreUnavailable
	FailSave bool
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *MemoryImageStore) Save(_ context.Context, key string, r io.Reader, contentType string) error {
	s.mu.Lock()
	fail := s.FailSave
	s.mu.Unlock()
	if fail {
		return ErrStoreUnavailable
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = buf.Bytes()
	s.types[key] = contentType
	return nil
}

func (s *MemoryImageStore) URL(_ context.Context, key string) (string, error) {
	return "/media/" + key, nil
}

func (s *MemoryImageStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	delete(s.types, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// Has reports whether key is currently stored
func (s *MemoryImageStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// Keys lists the stored keys
func (s *MemoryImageStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

// Deleted lists every key passed to Delete, in call order
func (s *MemoryImageStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}
