package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/systemink/api/domain"
)

const (
	KeyViewDedupe      = "post:view:%d:%s"
	KeyViewsBuffer     = "post:views:buffer"
	KeyViewsProcessing = "post:views:processing"

	// A repeat view from the same address inside this window is not counted.
	viewDedupeWindow = time.Hour
)

type viewTracker struct {
	client *redis.Client
}

var _ domain.PostViewTracker = (*viewTracker)(nil)

func NewViewTracker(client *redis.Client) *viewTracker {
	return &viewTracker{client}
}

func (c *viewTracker) MarkViewed(ctx context.Context, postID int64, ipHash string) (bool, error) {
	key := fmt.Sprintf(KeyViewDedupe, postID, ipHash)
	fresh, err := c.client.SetNX(ctx, key, 1, viewDedupeWindow).Result()
	if err != nil {
		return false, err
	}
	if !fresh {
		return false, nil
	}

	err = c.client.HIncrBy(ctx, KeyViewsBuffer, strconv.FormatInt(postID, 10), 1).Err()
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *viewTracker) FetchAndResetViews(ctx context.Context) (map[int64]int64, error) {
	result := make(map[int64]int64)
	err := c.client.Rename(ctx, KeyViewsBuffer, KeyViewsProcessing).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return result, nil
		}
		return result, err
	}

	data, err := c.client.HGetAll(ctx, KeyViewsProcessing).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return result, nil
		}
		return result, err
	}

	for idStr, viewsStr := range data {
		id, _ := strconv.ParseInt(idStr, 10, 64)
		views, _ := strconv.ParseInt(viewsStr, 10, 64)
		result[id] = views
	}

	c.client.Del(ctx, KeyViewsProcessing)

	return result, nil
}
