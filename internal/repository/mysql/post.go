package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/repository"
	"github.com/systemink/api/internal/repository/mysql/model"
)

type postRepository struct {
	DB *gorm.DB
}

var _ domain.PostRepository = (*postRepository)(nil)

func NewPostRepository(db *gorm.DB) *postRepository {
	return &postRepository{db}
}

func (m *postRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	var post model.Post
	err := m.DB.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		return domain.Post{}, domain.ErrNotFound
	}
	res := post.ToDomain()
	if err := m.fillTags(ctx, []*domain.Post{&res}); err != nil {
		return domain.Post{}, err
	}
	return res, nil
}

func (m *postRepository) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	var post model.Post
	err := m.DB.WithContext(ctx).First(&post, "slug = ?", slug).Error
	if err != nil {
		return domain.Post{}, domain.ErrNotFound
	}
	res := post.ToDomain()
	if err := m.fillTags(ctx, []*domain.Post{&res}); err != nil {
		return domain.Post{}, err
	}
	return res, nil
}

func (m *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (m *postRepository) FetchSlugs(ctx context.Context) ([]string, error) {
	var slugs []string
	err := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Pluck("slug", &slugs).Error
	return slugs, err
}

func (m *postRepository) Store(ctx context.Context, p *domain.Post) error {
	postModel := model.NewPostFromDomain(p)
	result := m.DB.WithContext(ctx).Create(&postModel)
	if result.Error != nil {
		return result.Error
	}
	p.ID = postModel.ID
	p.CreatedAt = postModel.CreatedAt
	p.UpdatedAt = postModel.UpdatedAt
	return nil
}

func (m *postRepository) Update(ctx context.Context, p *domain.Post) error {
	postModel := model.NewPostFromDomain(p)
	// Select("*") so zeroed fields (cleared scheduledAt, DRAFT status) are
	// written too.
	result := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", p.ID).
		Select("*").
		Omit("id", "created_at", "views_count").
		Updates(postModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *postRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *postRepository) publishedQuery(ctx context.Context, f domain.PostFilter) *gorm.DB {
	q := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("posts.status = ?", string(domain.PostPublished))

	if f.TagSlug != "" {
		// select posts.* so joined tag columns don't shadow post columns
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", f.TagSlug).
			Select("posts.*")
	}
	if f.Username != "" {
		q = q.Joins("JOIN users ON users.id = posts.author_id").
			Where("users.username = ?", f.Username).
			Select("posts.*")
	}
	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		q = q.Where("posts.title LIKE ? OR posts.content_md LIKE ? OR posts.excerpt LIKE ?", pattern, pattern, pattern)
	}
	return q
}

func (m *postRepository) FetchPublished(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	repository.PageVerify(&f.Page, &f.Limit)

	var total int64
	if err := m.publishedQuery(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := m.publishedQuery(ctx, f).
		Order("posts.published_at DESC").
		Offset(repository.Offset(f.Page, f.Limit)).
		Limit(int(f.Limit)).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	res, err := m.toDomainWithTags(ctx, posts)
	return res, total, err
}

func (m *postRepository) FetchRecent(ctx context.Context, limit int64) ([]domain.Post, error) {
	var posts []model.Post
	err := m.DB.WithContext(ctx).
		Where("status = ?", string(domain.PostPublished)).
		Order("published_at DESC").
		Limit(int(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return m.toDomainWithTags(ctx, posts)
}

func (m *postRepository) FetchTrending(ctx context.Context, limit int64) ([]domain.Post, error) {
	var posts []model.Post
	err := m.DB.WithContext(ctx).
		Where("status = ?", string(domain.PostPublished)).
		Order("views_count DESC").
		Limit(int(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return m.toDomainWithTags(ctx, posts)
}

func (m *postRepository) FetchRelated(ctx context.Context, postID int64, tagIDs []int64, limit int64) ([]domain.Post, error) {
	var posts []model.Post
	q := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("posts.status = ? AND posts.id != ?", string(domain.PostPublished), postID)
	if len(tagIDs) > 0 {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id IN ?", tagIDs).
			Distinct("posts.*")
	}
	err := q.
		Order("posts.published_at DESC").
		Limit(int(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return m.toDomainWithTags(ctx, posts)
}

func (m *postRepository) FetchByAuthor(ctx context.Context, authorID int64, f domain.PostFilter) ([]domain.Post, int64, error) {
	repository.PageVerify(&f.Page, &f.Limit)

	base := func() *gorm.DB {
		q := m.DB.WithContext(ctx).
			Model(&model.Post{}).
			Where("posts.author_id = ?", authorID)
		if f.Status != "" {
			q = q.Where("posts.status = ?", string(f.Status))
		}
		if f.TagSlug != "" {
			q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
				Joins("JOIN tags ON tags.id = post_tags.tag_id").
				Where("tags.slug = ?", f.TagSlug).
				Select("posts.*")
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := base().
		Order("posts.updated_at DESC").
		Offset(repository.Offset(f.Page, f.Limit)).
		Limit(int(f.Limit)).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	res, err := m.toDomainWithTags(ctx, posts)
	return res, total, err
}

func (m *postRepository) ReplaceTags(ctx context.Context, postID int64, tagIDs []int64) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostTag{}).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}
		rows := make([]model.PostTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			rows = append(rows, model.PostTag{PostID: postID, TagID: tagID})
		}
		return tx.Create(&rows).Error
	})
}

func (m *postRepository) AddViews(ctx context.Context, id int64, delta int64) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Update("views_count", gorm.Expr("views_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *postRepository) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	result := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("status = ? AND scheduled_at <= ?", string(domain.PostScheduled), now).
		Updates(map[string]any{
			"status":       string(domain.PostPublished),
			"published_at": now,
			"scheduled_at": nil,
		})
	return result.RowsAffected, result.Error
}

func (m *postRepository) toDomainWithTags(ctx context.Context, posts []model.Post) ([]domain.Post, error) {
	res := make([]domain.Post, len(posts))
	refs := make([]*domain.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToDomain()
		refs[i] = &res[i]
	}
	if err := m.fillTags(ctx, refs); err != nil {
		return nil, err
	}
	return res, nil
}

// fillTags loads each post's tag set with a single join query.
func (m *postRepository) fillTags(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	type taggedRow struct {
		PostID int64
		ID     int64
		Name   string
		Slug   string
	}
	var rows []taggedRow
	err := m.DB.WithContext(ctx).
		Model(&model.PostTag{}).
		Select("post_tags.post_id, tags.id, tags.name, tags.slug").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("post_tags.post_id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	byPost := make(map[int64][]domain.Tag, len(posts))
	for _, row := range rows {
		byPost[row.PostID] = append(byPost[row.PostID], domain.Tag{ID: row.ID, Name: row.Name, Slug: row.Slug})
	}
	for _, p := range posts {
		if tags, ok := byPost[p.ID]; ok {
			p.Tags = tags
		} else {
			p.Tags = []domain.Tag{}
		}
	}
	return nil
}
