package response

import "github.com/systemink/api/domain"

type Comment struct {
	ID         int64  `json:"id"`
	PostID     int64  `json:"postId"`
	ParentID   *int64 `json:"parentId"`
	Body       string `json:"body"`
	Status     string `json:"status"`
	LikesCount int64  `json:"likesCount"`
	IsLiked    bool   `json:"isLiked"`
	CreatedAt  string `json:"createdAt"`

	// User 评论作者信息
	User *User `json:"user"`
	// Parent carries only the author being replied to
	Parent *CommentParent `json:"parent,omitempty"`
	// Replies 子评论列表
	Replies []*Comment `json:"replies"`
}

type CommentParent struct {
	ID   int64 `json:"id"`
	User *User `json:"user"`
}

// NewCommentFromDomain: Domain -> Response, replies included recursively.
func NewCommentFromDomain(c *domain.Comment) *Comment {
	if c == nil {
		return nil
	}
	out := &Comment{
		ID:         c.ID,
		PostID:     c.PostID,
		ParentID:   c.ParentID,
		Body:       c.Body,
		Status:     string(c.Status),
		LikesCount: c.Likes,
		IsLiked:    c.IsLiked,
		CreatedAt:  c.CreatedAt.Format(DateTimeFormat),
		User:       NewUserFromDomain(c.User),
		Replies:    []*Comment{},
	}
	if c.Parent != nil {
		out.Parent = &CommentParent{
			ID:   c.Parent.ID,
			User: NewUserFromDomain(c.Parent.User),
		}
	}
	for _, r := range c.Replies {
		out.Replies = append(out.Replies, NewCommentFromDomain(r))
	}
	return out
}
