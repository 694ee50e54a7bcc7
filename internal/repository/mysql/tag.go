package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/repository/mysql/model"
)

type tagRepository struct {
	DB *gorm.DB
}

var _ domain.TagRepository = (*tagRepository)(nil)

func NewTagRepository(db *gorm.DB) *tagRepository {
	return &tagRepository{db}
}

func (m *tagRepository) FetchAll(ctx context.Context) ([]domain.Tag, error) {
	type tagRow struct {
		ID        int64
		Name      string
		Slug      string
		PostCount int64
	}
	var rows []tagRow
	err := m.DB.WithContext(ctx).
		Model(&model.Tag{}).
		Select("tags.id, tags.name, tags.slug, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("LEFT JOIN posts ON posts.id = post_tags.post_id AND posts.status = ?", string(domain.PostPublished)).
		Group("tags.id, tags.name, tags.slug").
		Order("post_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Tag, len(rows))
	for i, row := range rows {
		res[i] = domain.Tag{ID: row.ID, Name: row.Name, Slug: row.Slug, PostCount: row.PostCount}
	}
	return res, nil
}

func (m *tagRepository) GetBySlug(ctx context.Context, slug string) (domain.Tag, error) {
	var tag model.Tag
	if err := m.DB.WithContext(ctx).First(&tag, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Tag{}, domain.ErrNotFound
		}
		return domain.Tag{}, err
	}

	res := tag.ToDomain()
	err := m.DB.WithContext(ctx).
		Table("post_tags").
		Joins("JOIN posts ON posts.id = post_tags.post_id").
		Where("post_tags.tag_id = ? AND posts.status = ?", tag.ID, string(domain.PostPublished)).
		Count(&res.PostCount).Error
	return res, err
}

func (m *tagRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	var tags []model.Tag
	err := m.DB.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Tag, len(tags))
	for i := range tags {
		res[i] = tags[i].ToDomain()
	}
	return res, nil
}

func (m *tagRepository) Store(ctx context.Context, t *domain.Tag) error {
	tagModel := model.NewTagFromDomain(t)
	if err := m.DB.WithContext(ctx).Create(&tagModel).Error; err != nil {
		return err
	}
	t.ID = tagModel.ID
	return nil
}

func (m *tagRepository) Delete(ctx context.Context, slug string) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag model.Tag
		if err := tx.First(&tag, "slug = ?", slug).Error; err != nil {
			return domain.ErrNotFound
		}
		if err := tx.Where("tag_id = ?", tag.ID).Delete(&model.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Tag{}, tag.ID).Error
	})
}
