package post

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"time"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/markdown"
)

type Service struct {
	postRepo    domain.PostRepository
	tagRepo     domain.TagRepository
	viewTracker domain.PostViewTracker
}

var _ domain.PostUsecase = (*Service)(nil)

func NewService(postRepo domain.PostRepository, tagRepo domain.TagRepository, viewTracker domain.PostViewTracker) *Service {
	return &Service{
		postRepo:    postRepo,
		tagRepo:     tagRepo,
		viewTracker: viewTracker,
	}
}

func canEdit(authorID, userID int64, role domain.Role) bool {
	return authorID == userID || role == domain.RoleAdmin || role == domain.RoleEditor
}

// uniqueSlug suffixes -1, -2, ... until the slug is free.
func (s *Service) uniqueSlug(ctx context.Context, slug string) (string, error) {
	candidate := slug
	for counter := 1; ; counter++ {
		exists, err := s.postRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, counter)
	}
}

func (s *Service) render(p *domain.Post) error {
	contentHTML, err := markdown.Render(p.ContentMD)
	if err != nil {
		return err
	}
	p.ContentHTML = contentHTML
	p.ReadingTime = markdown.ReadingTime(p.ContentMD)
	if p.CoverImageURL == "" {
		p.CoverImageURL = markdown.FirstImageURL(contentHTML)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, authorID int64, p *domain.Post, tagIDs []int64) error {
	if p.Slug == "" {
		if p.Title == "" {
			return domain.ErrBadParamInput
		}
		p.Slug = markdown.Slugify(p.Title)
	}

	slug, err := s.uniqueSlug(ctx, p.Slug)
	if err != nil {
		return err
	}
	p.Slug = slug

	if err := s.render(p); err != nil {
		return err
	}

	now := time.Now()
	if p.Status == "" {
		p.Status = domain.PostDraft
	}
	switch p.Status {
	case domain.PostPublished:
		p.PublishedAt = &now
		p.ScheduledAt = nil
	case domain.PostScheduled:
		if p.ScheduledAt == nil || !p.ScheduledAt.After(now) {
			return domain.ErrBadParamInput
		}
	case domain.PostDraft:
		p.ScheduledAt = nil
	default:
		return domain.ErrBadParamInput
	}

	p.Author = domain.User{ID: authorID}
	if err := s.postRepo.Store(ctx, p); err != nil {
		return err
	}

	if len(tagIDs) > 0 {
		if err := s.postRepo.ReplaceTags(ctx, p.ID, tagIDs); err != nil {
			return err
		}
		tags, err := s.tagRepo.GetByIDs(ctx, tagIDs)
		if err != nil {
			return err
		}
		p.Tags = tags
	}
	return nil
}

func (s *Service) Update(ctx context.Context, postID, userID int64, role domain.Role, in *domain.Post, tagIDs []int64) (domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if !canEdit(post.Author.ID, userID, role) {
		return domain.Post{}, domain.ErrForbidden
	}

	if in.Slug != "" && in.Slug != post.Slug {
		exists, err := s.postRepo.SlugExists(ctx, in.Slug)
		if err != nil {
			return domain.Post{}, err
		}
		if exists {
			return domain.Post{}, domain.ErrConflict
		}
		post.Slug = in.Slug
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Excerpt != "" {
		post.Excerpt = in.Excerpt
	}
	if in.CoverImageURL != "" {
		post.CoverImageURL = in.CoverImageURL
	}
	if in.ContentMD != "" {
		post.ContentMD = in.ContentMD
		if err := s.render(&post); err != nil {
			return domain.Post{}, err
		}
	}

	now := time.Now()
	if in.Status != "" {
		switch in.Status {
		case domain.PostPublished:
			if post.PublishedAt == nil {
				post.PublishedAt = &now
			}
			post.ScheduledAt = nil
		case domain.PostScheduled:
			if in.ScheduledAt == nil || !in.ScheduledAt.After(now) {
				return domain.Post{}, domain.ErrBadParamInput
			}
			post.ScheduledAt = in.ScheduledAt
			post.PublishedAt = nil
		case domain.PostDraft:
			post.ScheduledAt = nil
		default:
			return domain.Post{}, domain.ErrBadParamInput
		}
		post.Status = in.Status
	}

	post.UpdatedAt = now
	if err := s.postRepo.Update(ctx, &post); err != nil {
		return domain.Post{}, err
	}

	if tagIDs != nil {
		if err := s.postRepo.ReplaceTags(ctx, post.ID, tagIDs); err != nil {
			return domain.Post{}, err
		}
		tags, err := s.tagRepo.GetByIDs(ctx, tagIDs)
		if err != nil {
			return domain.Post{}, err
		}
		post.Tags = tags
	}
	return post, nil
}

func (s *Service) Publish(ctx context.Context, postID, userID int64, role domain.Role) (domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if !canEdit(post.Author.ID, userID, role) {
		return domain.Post{}, domain.ErrForbidden
	}

	post.Status = domain.PostPublished
	if post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	post.ScheduledAt = nil
	if err := s.postRepo.Update(ctx, &post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (s *Service) Unpublish(ctx context.Context, postID, userID int64, role domain.Role) (domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if !canEdit(post.Author.ID, userID, role) {
		return domain.Post{}, domain.ErrForbidden
	}

	post.Status = domain.PostDraft
	if err := s.postRepo.Update(ctx, &post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (s *Service) Delete(ctx context.Context, postID, userID int64, role domain.Role) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	// Editors may edit but not delete
	if post.Author.ID != userID && role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Post{}, err
	}
	if post.Status != domain.PostPublished {
		return domain.Post{}, domain.ErrNotFound
	}
	return post, nil
}

func (s *Service) GetByID(ctx context.Context, postID, userID int64, role domain.Role) (domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if !canEdit(post.Author.ID, userID, role) {
		return domain.Post{}, domain.ErrForbidden
	}
	return post, nil
}

func (s *Service) FetchPublished(ctx context.Context, f domain.PostFilter) ([]domain.Post, domain.PageMeta, error) {
	posts, total, err := s.postRepo.FetchPublished(ctx, f)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return posts, domain.NewPageMeta(total, f.Page, f.Limit), nil
}

func (s *Service) FetchFeatured(ctx context.Context, limit int64) ([]domain.Post, error) {
	return s.postRepo.FetchRecent(ctx, limit)
}

func (s *Service) FetchTrending(ctx context.Context, limit int64) ([]domain.Post, error) {
	return s.postRepo.FetchTrending(ctx, limit)
}

func (s *Service) FetchRelated(ctx context.Context, slug string, limit int64) ([]domain.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return []domain.Post{}, nil
	}
	tagIDs := make([]int64, len(post.Tags))
	for i, t := range post.Tags {
		tagIDs[i] = t.ID
	}
	return s.postRepo.FetchRelated(ctx, post.ID, tagIDs, limit)
}

func (s *Service) FetchMine(ctx context.Context, userID int64, f domain.PostFilter) ([]domain.Post, domain.PageMeta, error) {
	posts, total, err := s.postRepo.FetchByAuthor(ctx, userID, f)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return posts, domain.NewPageMeta(total, f.Page, f.Limit), nil
}

func (s *Service) Search(ctx context.Context, query string, page, limit int64) ([]domain.Post, domain.PageMeta, error) {
	if query == "" {
		return []domain.Post{}, domain.NewPageMeta(0, page, limit), nil
	}
	return s.FetchPublished(ctx, domain.PostFilter{Page: page, Limit: limit, Query: query})
}

func (s *Service) RecordView(ctx context.Context, postID int64, remoteAddr string) (bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return false, err
	}

	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	sum := sha256.Sum256([]byte(host))
	ipHash := hex.EncodeToString(sum[:])[:16]

	return s.viewTracker.MarkViewed(ctx, postID, ipHash)
}

func (s *Service) PublishScheduled(ctx context.Context) (int64, error) {
	return s.postRepo.PublishDue(ctx, time.Now())
}
