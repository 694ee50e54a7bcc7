package request

import (
	"time"

	"github.com/systemink/api/domain"
)

type Post struct {
	Title         string     `json:"title" binding:"required,min=1,max=200"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt" binding:"max=500"`
	Content       string     `json:"content" binding:"required"`
	CoverImageURL string     `json:"coverImageUrl"`
	Status        string     `json:"status" binding:"omitempty,oneof=DRAFT SCHEDULED PUBLISHED"`
	ScheduledAt   *time.Time `json:"scheduledAt"`
	TagIDs        []int64    `json:"tagIds"`
}

// ToDomain: Request -> Domain
func (r *Post) ToDomain() domain.Post {
	return domain.Post{
		Title:         r.Title,
		Slug:          r.Slug,
		Excerpt:       r.Excerpt,
		ContentMD:     r.Content,
		CoverImageURL: r.CoverImageURL,
		Status:        domain.PostStatus(r.Status),
		ScheduledAt:   r.ScheduledAt,
	}
}

// UpdatePost carries partial edits; empty fields are left unchanged.
type UpdatePost struct {
	Title         string     `json:"title" binding:"omitempty,min=1,max=200"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt" binding:"max=500"`
	Content       string     `json:"content"`
	CoverImageURL string     `json:"coverImageUrl"`
	Status        string     `json:"status" binding:"omitempty,oneof=DRAFT SCHEDULED PUBLISHED"`
	ScheduledAt   *time.Time `json:"scheduledAt"`
	TagIDs        []int64    `json:"tagIds"`
}

func (r *UpdatePost) ToDomain() domain.Post {
	return domain.Post{
		Title:         r.Title,
		Slug:          r.Slug,
		Excerpt:       r.Excerpt,
		ContentMD:     r.Content,
		CoverImageURL: r.CoverImageURL,
		Status:        domain.PostStatus(r.Status),
		ScheduledAt:   r.ScheduledAt,
	}
}
