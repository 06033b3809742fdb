package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/config"
)

func TestImageKey(t *testing.T) {
	id := uuid.New()
	key := ImageKey(id, ".PNG")
	assert.True(t, strings.HasPrefix(key, "recipes/"+id.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, ImageKey(id, "png"))
}

func TestCleanKey(t *testing.T) {
	for _, key := range []string{"", "/abs", "../up", "a/../../b", "a//b", `a\b`, "."} {
		_, err := cleanKey(key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
	k, err := cleanKey("recipes/1/a.png")
	require.NoError(t, err)
	assert.Equal(t, "recipes/1/a.png", k)
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media")
	require.NoError(t, err)

	key := "recipes/abc/photo one.png"
	require.NoError(t, store.Save(ctx, key, strings.NewReader("png-bytes"), "image/png"))

	data, err := os.ReadFile(filepath.Join(root, "recipes", "abc", "photo one.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	u, err := store.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/abc/photo%20one.png", u)

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, "recipes", "abc", "photo one.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, key))
	assert.ErrorIs(t, store.Save(ctx, "../escape.png", strings.NewReader("x"), "image/png"), ErrInvalidKey)
}

func TestNewSelectsBackend(t *testing.T) {
	store, err := New(context.Background(), &config.Config{StorageBackend: "local", MediaDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), &config.Config{StorageBackend: "ftp"})
	assert.Error(t, err)
}
