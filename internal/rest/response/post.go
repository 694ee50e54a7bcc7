package response

import (
	"github.com/systemink/api/domain"
)

type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int64  `json:"postCount,omitempty"`
}

func NewTagFromDomain(t *domain.Tag) Tag {
	return Tag{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		PostCount: t.PostCount,
	}
}

type Post struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	Excerpt       string  `json:"excerpt,omitempty"`
	Content       string  `json:"content,omitempty"`
	ContentHTML   string  `json:"contentHtml,omitempty"`
	CoverImageURL string  `json:"coverImageUrl,omitempty"`
	ReadingTime   int     `json:"readingTime"`
	Views         int64   `json:"views"`
	Status        string  `json:"status"`
	ScheduledAt   *string `json:"scheduledAt,omitempty"`
	PublishedAt   *string `json:"publishedAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
	Author        *User   `json:"author,omitempty"`
	Tags          []Tag   `json:"tags"`
}

func formatTimePtr(t *domain.Post) (scheduled, published *string) {
	if t.ScheduledAt != nil {
		s := t.ScheduledAt.Format(DateTimeFormat)
		scheduled = &s
	}
	if t.PublishedAt != nil {
		s := t.PublishedAt.Format(DateTimeFormat)
		published = &s
	}
	return
}

// NewPostSummaryFromDomain renders a listing entry, without the body.
func NewPostSummaryFromDomain(p *domain.Post) Post {
	out := NewPostFromDomain(p)
	out.Content = ""
	out.ContentHTML = ""
	return out
}

// NewPostFromDomain: Domain -> Response
func NewPostFromDomain(p *domain.Post) Post {
	scheduled, published := formatTimePtr(p)
	tags := make([]Tag, 0, len(p.Tags))
	for i := range p.Tags {
		tags = append(tags, NewTagFromDomain(&p.Tags[i]))
	}
	return Post{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.ContentMD,
		ContentHTML:   p.ContentHTML,
		CoverImageURL: p.CoverImageURL,
		ReadingTime:   p.ReadingTime,
		Views:         p.Views,
		Status:        string(p.Status),
		ScheduledAt:   scheduled,
		PublishedAt:   published,
		CreatedAt:     p.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:     p.UpdatedAt.Format(DateTimeFormat),
		Author:        NewUserFromDomain(&p.Author),
		Tags:          tags,
	}
}
