package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	RecipePageSize     = 3
	FeaturedPageSize   = 6
	CollectionPageSize = 10

	// LastPage selects the final page
	LastPage = "last"
)

// Page is one window of an ordered listing
type Page[T any] struct {
	Items      []T   `json:"items"`
	Number     int   `json:"number"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p Page[T]) NextNumber() int {
	return p.Number + 1
}

func (p Page[T]) PreviousNumber() int {
	return p.Number - 1
}

// Numbers lists every page number, for rendering page links
func (p Page[T]) Numbers() []int {
	nums := make([]int, p.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// numPages never returns less than 1 so an empty listing still has a first page
func numPages(total int64, size int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

// ResolvePage turns a raw page parameter into a page number. Strict mode
// returns ErrInvalidPage for non-integers and out-of-range pages; lenient mode
// falls back to the first page or clamps to the last one.
func ResolvePage(raw string, total int64, size int, strict bool) (int, error) {
	pages := numPages(total, size)
	raw = strings.TrimSpace(raw)

	switch {
	case raw == "":
		return 1, nil
	case raw == LastPage:
		return pages, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		if strict {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidPage, raw)
		}
		return 1, nil
	}
	if n < 1 {
		if strict {
			return 0, fmt.Errorf("%w: page %d is less than 1", ErrInvalidPage, n)
		}
		return 1, nil
	}
	if n > pages {
		if strict {
			return 0, fmt.Errorf("%w: page %d has no results", ErrInvalidPage, n)
		}
		return pages, nil
	}
	return n, nil
}

// paginate counts the rows matched by filter, resolves the page and loads its
// window ordered newest first. preloads apply to the window only.
func paginate[T any](ctx context.Context, db *gorm.DB, filter func(*gorm.DB) *gorm.DB, raw string, size int, strict bool, preloads ...string) (Page[T], error) {
	if filter == nil {
		filter = func(q *gorm.DB) *gorm.DB { return q }
	}

	var total int64
	if err := filter(db.WithContext(ctx).Model(new(T))).Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("failed to count items: %w", err)
	}

	number, err := ResolvePage(raw, total, size, strict)
	if err != nil {
		return Page[T]{}, err
	}

	q := filter(db.WithContext(ctx))
	for _, p := range preloads {
		q = q.Preload(p)
	}
	items := make([]T, 0, size)
	err = q.Order("created_at DESC").
		Order("id DESC").
		Offset((number - 1) * size).
		Limit(size).
		Find(&items).Error
	if err != nil {
		return Page[T]{}, fmt.Errorf("failed to load page: %w", err)
	}

	return Page[T]{
		Items:      items,
		Number:     number,
		PageSize:   size,
		TotalItems: total,
		TotalPages: numPages(total, size),
	}, nil
}
