package domain

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// =============================================================================
// Category
// =============================================================================

// MaxCategoryNameLength bounds category names, matching the column width.
const MaxCategoryNameLength = 100

var categoryNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Category is a named bucket with an associated keyword list used to
// classify incoming messages. It is a plain value type: the
// categorization engine receives a snapshot per call and owns no
// category lifecycle.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateCategoryName reports whether name is a usable category
// identifier: non-empty, bounded length, letters/digits/hyphen/underscore.
func ValidateCategoryName(name string) error {
	if name == "" {
		return fmt.Errorf("category name must not be empty")
	}
	if len(name) > MaxCategoryNameLength {
		return fmt.Errorf("category name exceeds %d characters", MaxCategoryNameLength)
	}
	if !categoryNamePattern.MatchString(name) {
		return fmt.Errorf("category name may only contain letters, digits, hyphens and underscores")
	}
	return nil
}

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	GetByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, category *Category) error
	Delete(ctx context.Context, name string) error
	Count(ctx context.Context) (int64, error)
}
