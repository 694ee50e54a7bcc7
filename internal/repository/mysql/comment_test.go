package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/systemink/api/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestCommentGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "post_id", "user_id", "parent_id", "body", "status", "likes_count", "created_at"}).
		AddRow(5, 1, 10, nil, "hello", "VISIBLE", 2, created)
	mock.ExpectQuery("SELECT (.+) FROM `comments` WHERE id = (.+)").
		WithArgs(int64(5), 1).
		WillReturnRows(rows)

	c, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), c.ID)
	assert.Nil(t, c.ParentID)
	assert.Equal(t, domain.CommentVisible, c.Status)
	assert.Equal(t, int64(2), c.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `comments` WHERE id = (.+)").
		WithArgs(int64(99), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetchRootsFiltersAndPaginates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery("SELECT count(.+) FROM `comments`").
		WithArgs(int64(1), "VISIBLE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "post_id", "user_id", "parent_id", "body", "status", "likes_count", "created_at"}).
		AddRow(3, 1, 10, nil, "newest", "VISIBLE", 0, created.Add(time.Minute)).
		AddRow(2, 1, 11, nil, "older", "VISIBLE", 1, created)
	mock.ExpectQuery("SELECT (.+) FROM `comments` WHERE post_id = (.+) AND parent_id IS NULL AND status = (.+) ORDER BY created_at DESC").
		WithArgs(int64(1), "VISIBLE", 2).
		WillReturnRows(rows)

	roots, total, err := repo.FetchRoots(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, roots, 2)
	assert.Equal(t, "newest", roots[0].Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchVisibleReplies(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	parent := int64(3)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "post_id", "user_id", "parent_id", "body", "status", "likes_count", "created_at"}).
		AddRow(4, 1, 11, parent, "first reply", "VISIBLE", 0, created)
	mock.ExpectQuery("SELECT (.+) FROM `comments` WHERE post_id = (.+) AND parent_id IS NOT NULL AND status = (.+) ORDER BY created_at ASC").
		WithArgs(int64(1), "VISIBLE").
		WillReturnRows(rows)

	replies, err := repo.FetchVisibleReplies(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	require.NotNil(t, replies[0].ParentID)
	assert.Equal(t, parent, *replies[0].ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchLikedIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery("SELECT `comment_id` FROM `comment_likes`").
		WithArgs(int64(10), int64(1), int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"comment_id"}).AddRow(1).AddRow(3))

	liked, err := repo.FetchLikedIDs(context.Background(), 10, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 3: true}, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchLikedIDsEmptyInput(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewCommentRepository(db)

	liked, err := repo.FetchLikedIDs(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestSetStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `comments` SET").
		WithArgs("HIDDEN", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.SetStatus(context.Background(), 42, domain.CommentHidden)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleLikeAddsFactAndIncrements(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count(.+) FROM `comment_likes`").
		WithArgs(int64(5), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `comment_likes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `comments` SET `likes_count`=likes_count \\+ (.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT `likes_count` FROM `comments` WHERE id = (.+)").
		WithArgs(int64(5), 1).
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(1))
	mock.ExpectCommit()

	state, err := repo.ToggleLike(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.Equal(t, int64(1), state.LikesCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeRemovesFactAndDecrements(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count(.+) FROM `comment_likes`").
		WithArgs(int64(5), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("DELETE FROM `comment_likes`").
		WithArgs(int64(5), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `comments` SET `likes_count`=likes_count - (.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT `likes_count` FROM `comments` WHERE id = (.+)").
		WithArgs(int64(5), 1).
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(0))
	mock.ExpectCommit()

	state, err := repo.ToggleLike(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, int64(0), state.LikesCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
