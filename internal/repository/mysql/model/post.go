package model

import (
	"time"

	"github.com/systemink/api/domain"
)

type Post struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	AuthorID      int64      `gorm:"column:author_id;not null;index"`
	Title         string     `gorm:"type:varchar(200);not null"`
	Slug          string     `gorm:"type:varchar(220);uniqueIndex;not null"`
	Excerpt       string     `gorm:"type:varchar(500)"`
	ContentMD     string     `gorm:"column:content_md;type:longtext;not null"`
	ContentHTML   string     `gorm:"column:content_html;type:longtext;not null"`
	CoverImageURL string     `gorm:"column:cover_image_url;type:varchar(500)"`
	ReadingTime   int        `gorm:"column:reading_time;default:1"`
	Views         int64      `gorm:"column:views_count;default:0"`
	Status        string     `gorm:"type:varchar(10);default:'DRAFT';not null;index"`
	ScheduledAt   *time.Time `gorm:"column:scheduled_at;type:datetime"`
	PublishedAt   *time.Time `gorm:"column:published_at;type:datetime;index"`
	CreatedAt     time.Time  `gorm:"type:datetime"`
	UpdatedAt     time.Time  `gorm:"type:datetime"`
}

func (Post) TableName() string {
	return "posts"
}

func (m *Post) ToDomain() domain.Post {
	return domain.Post{
		ID:            m.ID,
		Title:         m.Title,
		Slug:          m.Slug,
		Excerpt:       m.Excerpt,
		ContentMD:     m.ContentMD,
		ContentHTML:   m.ContentHTML,
		CoverImageURL: m.CoverImageURL,
		ReadingTime:   m.ReadingTime,
		Views:         m.Views,
		Status:        domain.PostStatus(m.Status),
		ScheduledAt:   m.ScheduledAt,
		PublishedAt:   m.PublishedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Author: domain.User{
			ID: m.AuthorID,
		},
	}
}

func NewPostFromDomain(p *domain.Post) *Post {
	return &Post{
		ID:            p.ID,
		AuthorID:      p.Author.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		ContentMD:     p.ContentMD,
		ContentHTML:   p.ContentHTML,
		CoverImageURL: p.CoverImageURL,
		ReadingTime:   p.ReadingTime,
		Views:         p.Views,
		Status:        string(p.Status),
		ScheduledAt:   p.ScheduledAt,
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
