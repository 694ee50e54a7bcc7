package model

import "github.com/systemink/api/domain"

type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(50);not null"`
	Slug string `gorm:"type:varchar(50);uniqueIndex;not null"`
}

func (Tag) TableName() string {
	return "tags"
}

func (m *Tag) ToDomain() domain.Tag {
	return domain.Tag{
		ID:   m.ID,
		Name: m.Name,
		Slug: m.Slug,
	}
}

func NewTagFromDomain(t *domain.Tag) *Tag {
	return &Tag{
		ID:   t.ID,
		Name: t.Name,
		Slug: t.Slug,
	}
}

// PostTag joins posts and tags.
type PostTag struct {
	PostID int64 `gorm:"column:post_id;not null;uniqueIndex:idx_post_tag"`
	TagID  int64 `gorm:"column:tag_id;not null;uniqueIndex:idx_post_tag"`
}

func (PostTag) TableName() string {
	return "post_tags"
}
