package model

import (
	"time"

	"github.com/systemink/api/domain"
)

type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	PostID    int64     `gorm:"column:post_id;not null;index"`
	UserID    int64     `gorm:"column:user_id;not null"`
	ParentID  *int64    `gorm:"column:parent_id;index"` // NULL for top-level comments
	Body      string    `gorm:"type:varchar(2000);not null"`
	Status    string    `gorm:"type:varchar(10);default:'VISIBLE';not null"`
	Likes     int64     `gorm:"column:likes_count;default:0"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Comment) TableName() string {
	return "comments"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		ParentID:  c.ParentID,
		Body:      c.Body,
		Status:    string(c.Status),
		Likes:     c.Likes,
		CreatedAt: c.CreatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		UserID:    m.UserID,
		ParentID:  m.ParentID,
		Body:      m.Body,
		Status:    domain.CommentStatus(m.Status),
		Likes:     m.Likes,
		CreatedAt: m.CreatedAt,
	}
}
