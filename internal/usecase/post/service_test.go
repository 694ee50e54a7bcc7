package post

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systemink/api/domain"
)

type fakePostRepo struct {
	domain.PostRepository
	posts  map[int64]domain.Post
	tags   map[int64][]int64
	nextID int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:  make(map[int64]domain.Post),
		tags:   make(map[int64][]int64),
		nextID: 1,
	}
}

func (f *fakePostRepo) GetByID(_ context.Context, id int64) (domain.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return domain.Post{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePostRepo) GetBySlug(_ context.Context, slug string) (domain.Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Post{}, domain.ErrNotFound
}

func (f *fakePostRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostRepo) Store(_ context.Context, p *domain.Post) error {
	p.ID = f.nextID
	f.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.posts[p.ID] = *p
	return nil
}

func (f *fakePostRepo) Update(_ context.Context, p *domain.Post) error {
	if _, ok := f.posts[p.ID]; !ok {
		return domain.ErrNotFound
	}
	f.posts[p.ID] = *p
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) ReplaceTags(_ context.Context, postID int64, tagIDs []int64) error {
	f.tags[postID] = tagIDs
	return nil
}

type fakeTagRepo struct {
	domain.TagRepository
	tags map[int64]domain.Tag
}

func (f *fakeTagRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, id := range ids {
		if t, ok := f.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeViewTracker struct {
	domain.PostViewTracker
	seen map[string]bool
}

func (f *fakeViewTracker) MarkViewed(_ context.Context, postID int64, ipHash string) (bool, error) {
	key := ipHash
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func newTestService() (*Service, *fakePostRepo, *fakeViewTracker) {
	repo := newFakePostRepo()
	tags := &fakeTagRepo{tags: map[int64]domain.Tag{
		1: {ID: 1, Name: "Go", Slug: "go"},
	}}
	tracker := &fakeViewTracker{seen: make(map[string]bool)}
	return NewService(repo, tags, tracker), repo, tracker
}

func TestCreateGeneratesUniqueSlug(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first := domain.Post{Title: "Hello World", ContentMD: "body", Status: domain.PostPublished}
	require.NoError(t, svc.Create(ctx, 10, &first, nil))
	assert.Equal(t, "hello-world", first.Slug)

	second := domain.Post{Title: "Hello World", ContentMD: "body", Status: domain.PostPublished}
	require.NoError(t, svc.Create(ctx, 10, &second, nil))
	assert.Equal(t, "hello-world-1", second.Slug)

	third := domain.Post{Title: "Hello World", ContentMD: "body", Status: domain.PostPublished}
	require.NoError(t, svc.Create(ctx, 10, &third, nil))
	assert.Equal(t, "hello-world-2", third.Slug)
}

func TestCreateRendersMarkdown(t *testing.T) {
	svc, _, _ := newTestService()

	p := domain.Post{Title: "Title", ContentMD: "# Heading\n\nsome **bold** text"}
	require.NoError(t, svc.Create(context.Background(), 10, &p, nil))

	assert.Contains(t, p.ContentHTML, "<h1")
	assert.Contains(t, p.ContentHTML, "<strong>bold</strong>")
	assert.Equal(t, 1, p.ReadingTime)
	assert.Equal(t, domain.PostDraft, p.Status)
}

func TestCreateScheduledRequiresFutureTime(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	p := domain.Post{Title: "Soon", ContentMD: "body", Status: domain.PostScheduled, ScheduledAt: &past}
	assert.ErrorIs(t, svc.Create(ctx, 10, &p, nil), domain.ErrBadParamInput)

	missing := domain.Post{Title: "Soon", ContentMD: "body", Status: domain.PostScheduled}
	assert.ErrorIs(t, svc.Create(ctx, 10, &missing, nil), domain.ErrBadParamInput)

	future := time.Now().Add(time.Hour)
	ok := domain.Post{Title: "Soon", ContentMD: "body", Status: domain.PostScheduled, ScheduledAt: &future}
	require.NoError(t, svc.Create(ctx, 10, &ok, nil))
	assert.Nil(t, ok.PublishedAt)
}

func TestCreatePublishedSetsPublishedAt(t *testing.T) {
	svc, _, _ := newTestService()

	p := domain.Post{Title: "Now", ContentMD: "body", Status: domain.PostPublished}
	require.NoError(t, svc.Create(context.Background(), 10, &p, nil))
	require.NotNil(t, p.PublishedAt)
	assert.Nil(t, p.ScheduledAt)
}

func TestUpdatePermissions(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	p := domain.Post{Title: "Mine", ContentMD: "body"}
	require.NoError(t, svc.Create(ctx, 10, &p, nil))
	repo.posts[p.ID] = p

	in := domain.Post{Title: "Edited"}

	_, err := svc.Update(ctx, p.ID, 99, domain.RoleAuthor, &in, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.Update(ctx, p.ID, 99, domain.RoleEditor, &in, nil)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Title)

	got, err = svc.Update(ctx, p.ID, 10, domain.RoleAuthor, &domain.Post{Title: "Again"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Again", got.Title)
}

func TestPublishKeepsFirstPublishedAt(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	p := domain.Post{Title: "Repub", ContentMD: "body", Status: domain.PostPublished}
	require.NoError(t, svc.Create(ctx, 10, &p, nil))
	firstPublished := *p.PublishedAt

	_, err := svc.Unpublish(ctx, p.ID, 10, domain.RoleAuthor)
	require.NoError(t, err)
	assert.Equal(t, domain.PostDraft, repo.posts[p.ID].Status)

	got, err := svc.Publish(ctx, p.ID, 10, domain.RoleAuthor)
	require.NoError(t, err)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(firstPublished))
}

func TestDeletePermissions(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	p := domain.Post{Title: "Target", ContentMD: "body"}
	require.NoError(t, svc.Create(ctx, 10, &p, nil))

	// editors may edit but not delete
	assert.ErrorIs(t, svc.Delete(ctx, p.ID, 99, domain.RoleEditor), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, p.ID, 10, domain.RoleAuthor))

	q := domain.Post{Title: "Target2", ContentMD: "body"}
	require.NoError(t, svc.Create(ctx, 10, &q, nil))
	require.NoError(t, svc.Delete(ctx, q.ID, 99, domain.RoleAdmin))
}

func TestGetBySlugOnlyPublished(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	draft := domain.Post{Title: "Hidden Draft", ContentMD: "body"}
	require.NoError(t, svc.Create(ctx, 10, &draft, nil))

	_, err := svc.GetBySlug(ctx, draft.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	pub := domain.Post{Title: "Public", ContentMD: "body", Status: domain.PostPublished}
	require.NoError(t, svc.Create(ctx, 10, &pub, nil))

	got, err := svc.GetBySlug(ctx, pub.Slug)
	require.NoError(t, err)
	assert.Equal(t, pub.ID, got.ID)
}

func TestRecordViewDedupesByAddress(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	p := domain.Post{Title: "Viewed", ContentMD: "body", Status: domain.PostPublished}
	require.NoError(t, svc.Create(ctx, 10, &p, nil))

	counted, err := svc.RecordView(ctx, p.ID, "203.0.113.9:51234")
	require.NoError(t, err)
	assert.True(t, counted)

	// same host behind a different ephemeral port is the same viewer
	counted, err = svc.RecordView(ctx, p.ID, "203.0.113.9:51999")
	require.NoError(t, err)
	assert.False(t, counted)

	counted, err = svc.RecordView(ctx, p.ID, "198.51.100.7:4444")
	require.NoError(t, err)
	assert.True(t, counted)

	_, err = svc.RecordView(ctx, 999, "203.0.113.9:1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
