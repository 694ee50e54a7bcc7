package domain

import (
	"context"
	"time"
)

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentVisible CommentStatus = "VISIBLE"
	CommentHidden  CommentStatus = "HIDDEN"
)

// Comment is a single node in a post's discussion. ParentID nil means the
// comment sits directly under the post; otherwise it is a reply and its
// parent must belong to the same post. Comments form a strict tree: a parent
// must already exist at creation time, so cycles cannot be built.
type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	ParentID  *int64
	Body      string
	Status    CommentStatus
	Likes     int64 // Denormalized count of CommentLike facts
	CreatedAt time.Time

	// User 评论作者信息
	User *User
	// Parent carries the parent's author for "replying to" display
	Parent *Comment
	// IsLiked is resolved per viewer at read time
	IsLiked bool
	// Replies 子评论列表, oldest first
	Replies []*Comment
}

// CommentLike is the fact that a user liked a comment. At most one row
// exists per (comment, user) pair; the comment's Likes counter must always
// equal the number of these facts.
type CommentLike struct {
	CommentID int64
	UserID    int64
	CreatedAt time.Time
}

// LikeState is the outcome of a like toggle.
type LikeState struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

// CommentRepository 数据存取接口
type CommentRepository interface {
	// GetByID retrieves a comment in any status.
	// Returns ErrNotFound if it doesn't exist.
	GetByID(ctx context.Context, id int64) (*Comment, error)

	// Store creates a comment and backfills ID and CreatedAt.
	Store(ctx context.Context, c *Comment) error

	// SetStatus sets the moderation status.
	SetStatus(ctx context.Context, id int64, status CommentStatus) error

	// FetchRoots returns one page of VISIBLE top-level comments of the post,
	// newest first, plus the total count matching the same filter.
	FetchRoots(ctx context.Context, postID int64, page, limit int64) ([]*Comment, int64, error)

	// FetchVisibleReplies returns every VISIBLE reply (ParentID non-nil) of
	// the post, ordered by creation time ascending.
	FetchVisibleReplies(ctx context.Context, postID int64) ([]*Comment, error)

	// FetchLikedIDs filters commentIDs down to the ones the user has liked.
	FetchLikedIDs(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error)

	// ToggleLike flips the (comment, user) like fact and adjusts the
	// denormalized counter in the same transaction.
	ToggleLike(ctx context.Context, commentID, userID int64) (LikeState, error)
}

// CommentTreePage is one page of fully assembled comment trees.
type CommentTreePage struct {
	Data []*Comment
	Meta PageMeta
}

// CommentUsecase 业务逻辑接口
type CommentUsecase interface {
	// ListTrees assembles a page of top-level comments with all descendant
	// replies attached and like state resolved for viewerID (0 = anonymous).
	ListTrees(ctx context.Context, postID, page, limit, viewerID int64) (CommentTreePage, error)

	// Create validates the target post and optional parent, stores the
	// comment and returns it annotated the same way ListTrees would.
	Create(ctx context.Context, postID, authorID int64, body string, parentID *int64) (*Comment, error)

	// Delete soft-deletes a comment. Allowed to admins, the post's author
	// and the comment's author.
	Delete(ctx context.Context, commentID, userID int64, role Role) error

	// Moderate sets the status directly. Admin gate lives at the boundary.
	Moderate(ctx context.Context, commentID int64, status CommentStatus) error

	// ToggleLike likes the comment if the user hasn't, unlikes otherwise.
	ToggleLike(ctx context.Context, commentID, userID int64) (LikeState, error)
}
