package tag

import (
	"context"
	"errors"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/markdown"
)

type Service struct {
	tagRepo domain.TagRepository
}

var _ domain.TagUsecase = (*Service)(nil)

func NewService(tagRepo domain.TagRepository) *Service {
	return &Service{tagRepo: tagRepo}
}

func (s *Service) FetchAll(ctx context.Context) ([]domain.Tag, error) {
	return s.tagRepo.FetchAll(ctx)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (domain.Tag, error) {
	return s.tagRepo.GetBySlug(ctx, slug)
}

func (s *Service) Create(ctx context.Context, name, slug string) (domain.Tag, error) {
	if name == "" {
		return domain.Tag{}, domain.ErrBadParamInput
	}
	if slug == "" {
		slug = markdown.Slugify(name)
	}

	if _, err := s.tagRepo.GetBySlug(ctx, slug); err == nil {
		return domain.Tag{}, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Tag{}, err
	}

	t := domain.Tag{Name: name, Slug: slug}
	if err := s.tagRepo.Store(ctx, &t); err != nil {
		return domain.Tag{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, slug string) error {
	if _, err := s.tagRepo.GetBySlug(ctx, slug); err != nil {
		return err
	}
	return s.tagRepo.Delete(ctx, slug)
}
