package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkViewedCountsFreshView(t *testing.T) {
	client, mock := redismock.NewClientMock()
	tracker := NewViewTracker(client)

	key := fmt.Sprintf(KeyViewDedupe, int64(7), "abcdef0123456789")
	mock.ExpectSetNX(key, 1, time.Hour).SetVal(true)
	mock.ExpectHIncrBy(KeyViewsBuffer, "7", 1).SetVal(1)

	counted, err := tracker.MarkViewed(context.Background(), 7, "abcdef0123456789")
	require.NoError(t, err)
	assert.True(t, counted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkViewedSkipsRepeatView(t *testing.T) {
	client, mock := redismock.NewClientMock()
	tracker := NewViewTracker(client)

	key := fmt.Sprintf(KeyViewDedupe, int64(7), "abcdef0123456789")
	mock.ExpectSetNX(key, 1, time.Hour).SetVal(false)

	counted, err := tracker.MarkViewed(context.Background(), 7, "abcdef0123456789")
	require.NoError(t, err)
	assert.False(t, counted)
	// the buffer must not be touched for a deduplicated view
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchAndResetViewsDrainsBuffer(t *testing.T) {
	client, mock := redismock.NewClientMock()
	tracker := NewViewTracker(client)

	mock.ExpectRename(KeyViewsBuffer, KeyViewsProcessing).SetVal("OK")
	mock.ExpectHGetAll(KeyViewsProcessing).SetVal(map[string]string{
		"1": "3",
		"9": "12",
	})
	mock.ExpectDel(KeyViewsProcessing).SetVal(1)

	views, err := tracker.FetchAndResetViews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 3, 9: 12}, views)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchAndResetViewsEmptyBuffer(t *testing.T) {
	client, mock := redismock.NewClientMock()
	tracker := NewViewTracker(client)

	// Rename fails with redis.Nil when the buffer key does not exist
	mock.ExpectRename(KeyViewsBuffer, KeyViewsProcessing).RedisNil()

	views, err := tracker.FetchAndResetViews(context.Background())
	require.NoError(t, err)
	assert.Empty(t, views)
}
