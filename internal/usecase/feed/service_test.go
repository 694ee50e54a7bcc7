package feed

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systemink/api/domain"
)

const repoMaxLimit = 100

func clampLimit(limit int64) int64 {
	if limit < 1 {
		return 20
	}
	if limit > repoMaxLimit {
		return repoMaxLimit
	}
	return limit
}

type fakePostRepo struct {
	domain.PostRepository
	posts []domain.Post
}

// FetchPublished pages like the real repository does, clamping limit the
// same way, so callers that ask for oversized pages see the clamp.
func (f *fakePostRepo) FetchPublished(_ context.Context, fl domain.PostFilter) ([]domain.Post, int64, error) {
	limit := clampLimit(fl.Limit)
	page := fl.Page
	if page < 1 {
		page = 1
	}
	total := int64(len(f.posts))
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return f.posts[start:end], total, nil
}

func (f *fakePostRepo) FetchRecent(_ context.Context, limit int64) ([]domain.Post, error) {
	if limit > int64(len(f.posts)) {
		limit = int64(len(f.posts))
	}
	return f.posts[:limit], nil
}

type fakeTagRepo struct {
	domain.TagRepository
	tags []domain.Tag
}

func (f *fakeTagRepo) FetchAll(_ context.Context) ([]domain.Tag, error) {
	return f.tags, nil
}

type fakeUserRepo struct {
	domain.UserRepository
	authors []domain.User
}

func (f *fakeUserRepo) FetchAuthors(_ context.Context, page, limit int64) ([]domain.User, int64, error) {
	limit = clampLimit(limit)
	if page < 1 {
		page = 1
	}
	total := int64(len(f.authors))
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return f.authors[start:end], total, nil
}

func makePosts(n int) []domain.Post {
	published := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	posts := make([]domain.Post, n)
	for i := range posts {
		at := published.Add(time.Duration(i) * time.Minute)
		posts[i] = domain.Post{
			ID:          int64(i + 1),
			Title:       fmt.Sprintf("Post & Title %d", i+1),
			Slug:        fmt.Sprintf("post-%d", i+1),
			Excerpt:     fmt.Sprintf("excerpt %d", i+1),
			Status:      domain.PostPublished,
			PublishedAt: &at,
			CreatedAt:   at,
			UpdatedAt:   at,
			Author:      domain.User{ID: 10, Name: "alice", Username: "alice"},
		}
	}
	return posts
}

func makeAuthors(n int) []domain.User {
	authors := make([]domain.User, n)
	for i := range authors {
		authors[i] = domain.User{
			ID:       int64(i + 1),
			Username: fmt.Sprintf("author-%d", i+1),
		}
	}
	return authors
}

func newFeedService(posts []domain.Post, tags []domain.Tag, authors []domain.User) *Service {
	return NewService(
		&fakePostRepo{posts: posts},
		&fakeTagRepo{tags: tags},
		&fakeUserRepo{authors: authors},
		"https://blog.example.com/",
		"SystemInk",
		"A multi-author blog",
	)
}

func TestSitemapCoversAllPages(t *testing.T) {
	tags := []domain.Tag{{Slug: "go"}, {Slug: "sql"}, {Slug: "web"}}
	svc := newFeedService(makePosts(250), tags, makeAuthors(120))

	out, err := svc.Sitemap(context.Background())
	require.NoError(t, err)

	// 4 static pages + 250 posts + 3 tags + 120 authors, none lost to the
	// per-page limit clamp
	assert.Equal(t, 4+250+3+120, strings.Count(out, "<loc>"))
	assert.Contains(t, out, "<loc>https://blog.example.com/posts/post-250</loc>")
	assert.Contains(t, out, "<loc>https://blog.example.com/authors/author-120</loc>")
	assert.Contains(t, out, "<loc>https://blog.example.com/tags/web</loc>")
	assert.Contains(t, out, "<lastmod>2025-05-01</lastmod>")
}

func TestSitemapEmptySite(t *testing.T) {
	svc := newFeedService(nil, nil, nil)

	out, err := svc.Sitemap(context.Background())
	require.NoError(t, err)
	// only the static pages remain
	assert.Equal(t, 4, strings.Count(out, "<loc>"))
}

func TestRSSCapsItemsAndEscapesTitles(t *testing.T) {
	svc := newFeedService(makePosts(60), nil, nil)

	out, err := svc.RSS(context.Background())
	require.NoError(t, err)

	assert.Equal(t, feedItemLimit, strings.Count(out, "<item>"))
	assert.Contains(t, out, "<![CDATA[Post & Title 1]]>")
	assert.Contains(t, out, "<link>https://blog.example.com/posts/post-1</link>")
	assert.Contains(t, out, "<author>alice</author>")
}

func TestRobotsPointsAtSitemap(t *testing.T) {
	svc := newFeedService(nil, nil, nil)

	out := svc.Robots()
	assert.Contains(t, out, "User-agent: *")
	assert.Contains(t, out, "Sitemap: https://blog.example.com/sitemap.xml")
}
