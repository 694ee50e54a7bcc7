package domain

import "context"

// Tag is a label attached to posts. Slug is the URL-safe unique form.
type Tag struct {
	ID        int64
	Name      string
	Slug      string
	PostCount int64 // Published posts carrying this tag; derived on read
}

// TagRepository defines the contract for tag persistence.
type TagRepository interface {
	// FetchAll lists every tag with its published-post count, most used
	// first.
	FetchAll(ctx context.Context) ([]Tag, error)

	// GetBySlug retrieves a tag by slug. Returns ErrNotFound if missing.
	GetBySlug(ctx context.Context, slug string) (Tag, error)

	// GetByIDs retrieves tags for the given IDs.
	GetByIDs(ctx context.Context, ids []int64) ([]Tag, error)

	// Store creates a tag and backfills its ID.
	Store(ctx context.Context, t *Tag) error

	// Delete removes a tag by slug. Returns ErrNotFound if missing.
	Delete(ctx context.Context, slug string) error
}

// TagUsecase defines the business logic contract for tags.
type TagUsecase interface {
	FetchAll(ctx context.Context) ([]Tag, error)
	GetBySlug(ctx context.Context, slug string) (Tag, error)
	// Create returns ErrConflict when the slug is already taken.
	Create(ctx context.Context, name, slug string) (Tag, error)
	Delete(ctx context.Context, slug string) error
}
