package model

import (
	"time"

	"github.com/systemink/api/domain"
)

type CommentLike struct {
	CommentID int64     `gorm:"column:comment_id;not null;uniqueIndex:idx_comment_user"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_comment_user"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

func NewCommentLikeFromDomain(cl domain.CommentLike) CommentLike {
	return CommentLike{
		CommentID: cl.CommentID,
		UserID:    cl.UserID,
		CreatedAt: cl.CreatedAt,
	}
}

