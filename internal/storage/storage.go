// Package storage persists uploaded recipe images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/cookbook/backend/config"
)

// ErrInvalidKey is returned for keys that escape the store root
var ErrInvalidKey = errors.New("invalid storage key")

// ImageStore saves, resolves and removes image objects by key
type ImageStore interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageKey builds "recipes/{recipe_id}/{uuid}{ext}"
func ImageKey(recipeID uuid.UUID, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.New(), strings.ToLower(ext))
}

// cleanKey rejects absolute keys and parent references
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned != key || cleaned == "." || strings.HasPrefix(cleaned, "../") || cleaned == ".." {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// MediaURLPrefix is where the router serves a LocalStore
const MediaURLPrefix = "/media/"

// New builds the image store selected by STORAGE_BACKEND
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.StorageBackend {
	case "s3":
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Store(s3cfg), nil
	case "local", "":
		return NewLocalStore(cfg.MediaDir, MediaURLPrefix)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}
