package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/systemink/api/domain"
)

const (
	KeyPostBySlug = "post:slug:%s"

	postCacheTTL = 10 * time.Minute
)

type postCache struct {
	client *redis.Client
}

var _ domain.PostCache = (*postCache)(nil)

func NewPostCache(client *redis.Client) *postCache {
	return &postCache{client}
}

func (c *postCache) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	key := fmt.Sprintf(KeyPostBySlug, slug)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Post{}, domain.ErrNotFound
	} else if err != nil {
		return domain.Post{}, err
	}

	var res domain.Post
	if err = json.Unmarshal(data, &res); err != nil {
		return domain.Post{}, err
	}
	return res, nil
}

func (c *postCache) Set(ctx context.Context, p *domain.Post) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(KeyPostBySlug, p.Slug)
	return c.client.Set(ctx, key, data, postCacheTTL).Err()
}

func (c *postCache) Delete(ctx context.Context, slug string) error {
	key := fmt.Sprintf(KeyPostBySlug, slug)
	return c.client.Del(ctx, key).Err()
}
