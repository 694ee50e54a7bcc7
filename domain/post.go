package domain

import (
	"context"
	"time"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostDraft     PostStatus = "DRAFT"
	PostScheduled PostStatus = "SCHEDULED"
	PostPublished PostStatus = "PUBLISHED"
)

// Post is an article written by a user. The markdown source is kept next to
// the rendered HTML so edits re-render from the source of truth.
type Post struct {
	ID            int64
	Title         string
	Slug          string // Unique, URL-safe identifier
	Excerpt       string
	ContentMD     string // Markdown source
	ContentHTML   string // Rendered, sanitized HTML
	CoverImageURL string
	ReadingTime   int // Estimated minutes to read
	Views         int64
	Status        PostStatus
	ScheduledAt   *time.Time // Set only while status is SCHEDULED
	PublishedAt   *time.Time // Set on first publish, kept on re-publish
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Author User
	Tags   []Tag
}

// PostFilter narrows post listings.
type PostFilter struct {
	Page     int64
	Limit    int64
	TagSlug  string
	Username string
	Query    string     // Case-insensitive substring over title/content/excerpt
	Status   PostStatus // Empty means any
}

// PostRepository defines the contract for post persistence.
type PostRepository interface {
	// GetByID retrieves a post by ID. Returns ErrNotFound if missing.
	GetByID(ctx context.Context, id int64) (Post, error)

	// GetBySlug retrieves a post by slug regardless of status.
	GetBySlug(ctx context.Context, slug string) (Post, error)

	// SlugExists reports whether any post uses the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// FetchSlugs lists every slug, used to seed the slug bloom filter.
	FetchSlugs(ctx context.Context) ([]string, error)

	// Store creates a post and backfills ID and timestamps.
	Store(ctx context.Context, p *Post) error

	// Update persists all mutable fields of the post.
	Update(ctx context.Context, p *Post) error

	// Delete removes a post. Returns ErrNotFound if missing.
	Delete(ctx context.Context, id int64) error

	// FetchPublished lists PUBLISHED posts matching the filter, newest
	// published first, with the total count.
	FetchPublished(ctx context.Context, f PostFilter) ([]Post, int64, error)

	// FetchRecent lists the newest PUBLISHED posts.
	FetchRecent(ctx context.Context, limit int64) ([]Post, error)

	// FetchTrending lists PUBLISHED posts ordered by view count descending.
	FetchTrending(ctx context.Context, limit int64) ([]Post, error)

	// FetchRelated lists PUBLISHED posts sharing at least one tag with the
	// given post, excluding the post itself.
	FetchRelated(ctx context.Context, postID int64, tagIDs []int64, limit int64) ([]Post, error)

	// FetchByAuthor lists the author's posts matching the filter. When
	// f.Status is empty every status is included, ordered by update time.
	FetchByAuthor(ctx context.Context, authorID int64, f PostFilter) ([]Post, int64, error)

	// ReplaceTags rewrites the post's tag set.
	ReplaceTags(ctx context.Context, postID int64, tagIDs []int64) error

	// AddViews increments the persisted view counter.
	AddViews(ctx context.Context, id int64, delta int64) error

	// PublishDue flips SCHEDULED posts whose scheduled time has passed to
	// PUBLISHED and returns how many were flipped.
	PublishDue(ctx context.Context, now time.Time) (int64, error)
}

// PostViewTracker deduplicates and buffers post views before they are
// flushed into the persisted counter.
type PostViewTracker interface {
	// MarkViewed records a view for the (post, ipHash) pair. Returns false
	// when the pair was already seen inside the dedupe window.
	MarkViewed(ctx context.Context, postID int64, ipHash string) (bool, error)

	// FetchAndResetViews drains the buffered per-post view deltas.
	FetchAndResetViews(ctx context.Context) (map[int64]int64, error)
}

// PostCache is a read-through cache for rendered posts.
type PostCache interface {
	GetBySlug(ctx context.Context, slug string) (Post, error)
	Set(ctx context.Context, p *Post) error
	Delete(ctx context.Context, slug string) error
}

// PostUsecase defines the business logic contract for posts.
type PostUsecase interface {
	// Create renders the markdown, generates a unique slug and stores the
	// post. Scheduling requires a future time.
	Create(ctx context.Context, authorID int64, p *Post, tagIDs []int64) error

	// Update edits a post. Allowed to the author, admins and editors.
	Update(ctx context.Context, postID, userID int64, role Role, p *Post, tagIDs []int64) (Post, error)

	// Publish makes the post visible now, keeping the original publishedAt
	// on re-publish.
	Publish(ctx context.Context, postID, userID int64, role Role) (Post, error)

	// Unpublish reverts the post to DRAFT.
	Unpublish(ctx context.Context, postID, userID int64, role Role) (Post, error)

	// Delete removes a post. Allowed to the author and admins only.
	Delete(ctx context.Context, postID, userID int64, role Role) error

	// GetBySlug returns a PUBLISHED post for public reading.
	GetBySlug(ctx context.Context, slug string) (Post, error)

	// GetByID returns any post for editing. Allowed to the author, admins
	// and editors.
	GetByID(ctx context.Context, postID, userID int64, role Role) (Post, error)

	// FetchPublished lists published posts with tag/author/query filters.
	FetchPublished(ctx context.Context, f PostFilter) ([]Post, PageMeta, error)

	// FetchFeatured lists the newest published posts.
	FetchFeatured(ctx context.Context, limit int64) ([]Post, error)

	// FetchTrending lists the most viewed published posts.
	FetchTrending(ctx context.Context, limit int64) ([]Post, error)

	// FetchRelated lists published posts sharing tags with the slug's post.
	FetchRelated(ctx context.Context, slug string, limit int64) ([]Post, error)

	// FetchMine lists the caller's own posts in any status.
	FetchMine(ctx context.Context, userID int64, f PostFilter) ([]Post, PageMeta, error)

	// Search runs a case-insensitive substring search over published posts.
	Search(ctx context.Context, query string, page, limit int64) ([]Post, PageMeta, error)

	// RecordView counts a view unless the same address viewed the post
	// within the dedupe window. Returns whether the view was counted.
	RecordView(ctx context.Context, postID int64, remoteAddr string) (bool, error)

	// PublishScheduled flips due SCHEDULED posts to PUBLISHED.
	PublishScheduled(ctx context.Context) (int64, error)
}
