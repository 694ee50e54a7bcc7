package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/systemink/api/domain"
)

// postRepository 协调层，协调缓存和数据库
type postRepository struct {
	db           domain.PostRepository
	cache        domain.PostCache
	userRepo     domain.UserRepository
	bloom        domain.BloomRepository
	rebuildGroup singleflight.Group
}

var _ domain.PostRepository = (*postRepository)(nil)

// NewPostRepository wraps the database repository with the read-through
// slug cache. Writes invalidate; reads by slug rebuild under singleflight.
// The bloom filter rejects unknown slugs before they reach cache or DB.
func NewPostRepository(db domain.PostRepository, cache domain.PostCache, userRepo domain.UserRepository, bloom domain.BloomRepository) *postRepository {
	return &postRepository{
		db:       db,
		cache:    cache,
		userRepo: userRepo,
		bloom:    bloom,
	}
}

// WarmSlugFilter seeds the bloom filter with every existing slug.
func (r *postRepository) WarmSlugFilter(ctx context.Context) error {
	slugs, err := r.db.FetchSlugs(ctx)
	if err != nil {
		return err
	}
	return r.bloom.BulkAdd(ctx, slugs)
}

func (r *postRepository) FetchSlugs(ctx context.Context) ([]string, error) {
	return r.db.FetchSlugs(ctx)
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	// 布隆过滤器说不存在就一定不存在
	exists, err := r.bloom.Exists(ctx, slug)
	if err != nil {
		logrus.Warnf("bloom filter check failed for %s: %v", slug, err)
	} else if !exists {
		return domain.Post{}, domain.ErrNotFound
	}

	post, err := r.cache.GetBySlug(ctx, slug)
	if err == nil {
		return post, nil
	}

	// 缓存未命中，使用singleflight避免缓存击穿
	result, err, _ := r.rebuildGroup.Do("slug:"+slug, func() (any, error) {
		p, err := r.db.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		ps, err := r.fillAuthors(ctx, []domain.Post{p})
		if err != nil {
			return nil, err
		}
		p = ps[0]

		go func(cached domain.Post) {
			if err := r.cache.Set(context.Background(), &cached); err != nil {
				logrus.Warnf("failed to set post cache for %s: %v", cached.Slug, err)
			}
		}(p)

		return p, nil
	})
	if err != nil {
		return domain.Post{}, err
	}
	return result.(domain.Post), nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	post, err := r.db.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	posts, err := r.fillAuthors(ctx, []domain.Post{post})
	if err != nil {
		return domain.Post{}, err
	}
	return posts[0], nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.db.SlugExists(ctx, slug)
}

func (r *postRepository) Store(ctx context.Context, p *domain.Post) error {
	if err := r.db.Store(ctx, p); err != nil {
		return err
	}
	if err := r.bloom.Add(ctx, p.Slug); err != nil {
		logrus.Warnf("failed to add slug %s to bloom filter: %v", p.Slug, err)
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, p *domain.Post) error {
	if err := r.db.Update(ctx, p); err != nil {
		return err
	}
	// 改 slug 后旧 slug 留下的只是误报，无需清理
	if err := r.bloom.Add(ctx, p.Slug); err != nil {
		logrus.Warnf("failed to add slug %s to bloom filter: %v", p.Slug, err)
	}
	r.invalidate(p.Slug)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	post, err := r.db.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(post.Slug)
	return nil
}

func (r *postRepository) FetchPublished(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	posts, total, err := r.db.FetchPublished(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	posts, err = r.fillAuthors(ctx, posts)
	return posts, total, err
}

func (r *postRepository) FetchRecent(ctx context.Context, limit int64) ([]domain.Post, error) {
	posts, err := r.db.FetchRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return r.fillAuthors(ctx, posts)
}

func (r *postRepository) FetchTrending(ctx context.Context, limit int64) ([]domain.Post, error) {
	posts, err := r.db.FetchTrending(ctx, limit)
	if err != nil {
		return nil, err
	}
	return r.fillAuthors(ctx, posts)
}

func (r *postRepository) FetchRelated(ctx context.Context, postID int64, tagIDs []int64, limit int64) ([]domain.Post, error) {
	posts, err := r.db.FetchRelated(ctx, postID, tagIDs, limit)
	if err != nil {
		return nil, err
	}
	return r.fillAuthors(ctx, posts)
}

func (r *postRepository) FetchByAuthor(ctx context.Context, authorID int64, f domain.PostFilter) ([]domain.Post, int64, error) {
	posts, total, err := r.db.FetchByAuthor(ctx, authorID, f)
	if err != nil {
		return nil, 0, err
	}
	posts, err = r.fillAuthors(ctx, posts)
	return posts, total, err
}

func (r *postRepository) ReplaceTags(ctx context.Context, postID int64, tagIDs []int64) error {
	if err := r.db.ReplaceTags(ctx, postID, tagIDs); err != nil {
		return err
	}
	if post, err := r.db.GetByID(ctx, postID); err == nil {
		r.invalidate(post.Slug)
	}
	return nil
}

func (r *postRepository) AddViews(ctx context.Context, id int64, delta int64) error {
	return r.db.AddViews(ctx, id, delta)
}

func (r *postRepository) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	return r.db.PublishDue(ctx, now)
}

func (r *postRepository) invalidate(slug string) {
	// 异步删除缓存
	go func(slug string) {
		if err := r.cache.Delete(context.Background(), slug); err != nil && !errors.Is(err, domain.ErrNotFound) {
			logrus.Warnf("failed to invalidate post cache for %s: %v", slug, err)
		}
	}(slug)
}

// fillAuthors 批量填充作者信息
func (r *postRepository) fillAuthors(ctx context.Context, posts []domain.Post) ([]domain.Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}

	userIDs := make([]int64, 0, len(posts))
	existMap := make(map[int64]bool)
	for _, item := range posts {
		if !existMap[item.Author.ID] {
			userIDs = append(userIDs, item.Author.ID)
			existMap[item.Author.ID] = true
		}
	}

	users, err := r.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	userMap := make(map[int64]domain.User)
	for _, u := range users {
		userMap[u.ID] = u
	}

	for i := range posts {
		if u, ok := userMap[posts[i].Author.ID]; ok {
			posts[i].Author = u
		}
	}

	return posts, nil
}
