package comment

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systemink/api/domain"
)

type fakeCommentRepo struct {
	comments map[int64]*domain.Comment
	likes    map[[2]int64]bool // (commentID, userID)
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[int64]*domain.Comment),
		likes:    make(map[[2]int64]bool),
		nextID:   1,
	}
}

func (f *fakeCommentRepo) add(c domain.Comment) *domain.Comment {
	c.ID = f.nextID
	f.nextID++
	stored := c
	f.comments[c.ID] = &stored
	return &stored
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommentRepo) Store(_ context.Context, c *domain.Comment) error {
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	stored := *c
	f.comments[c.ID] = &stored
	return nil
}

func (f *fakeCommentRepo) SetStatus(_ context.Context, id int64, status domain.CommentStatus) error {
	c, ok := f.comments[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	return nil
}

func (f *fakeCommentRepo) FetchRoots(_ context.Context, postID, page, limit int64) ([]*domain.Comment, int64, error) {
	var roots []*domain.Comment
	for _, c := range f.comments {
		if c.PostID == postID && c.ParentID == nil && c.Status == domain.CommentVisible {
			cp := *c
			roots = append(roots, &cp)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	total := int64(len(roots))

	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return roots[start:end], total, nil
}

func (f *fakeCommentRepo) FetchVisibleReplies(_ context.Context, postID int64) ([]*domain.Comment, error) {
	var replies []*domain.Comment
	for _, c := range f.comments {
		if c.PostID == postID && c.ParentID != nil && c.Status == domain.CommentVisible {
			cp := *c
			replies = append(replies, &cp)
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies, nil
}

func (f *fakeCommentRepo) FetchLikedIDs(_ context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool)
	for _, id := range commentIDs {
		if f.likes[[2]int64{id, userID}] {
			liked[id] = true
		}
	}
	return liked, nil
}

func (f *fakeCommentRepo) ToggleLike(_ context.Context, commentID, userID int64) (domain.LikeState, error) {
	c, ok := f.comments[commentID]
	if !ok {
		return domain.LikeState{}, domain.ErrNotFound
	}
	key := [2]int64{commentID, userID}
	if f.likes[key] {
		delete(f.likes, key)
		c.Likes--
	} else {
		f.likes[key] = true
		c.Likes++
	}
	return domain.LikeState{Liked: f.likes[key], LikesCount: c.Likes}, nil
}

type fakePostRepo struct {
	domain.PostRepository
	posts map[int64]domain.Post
}

func (f *fakePostRepo) GetByID(_ context.Context, id int64) (domain.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return domain.Post{}, domain.ErrNotFound
	}
	return p, nil
}

type fakeUserRepo struct {
	domain.UserRepository
	users map[int64]domain.User
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.User, error) {
	var users []domain.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

type fixture struct {
	commentRepo *fakeCommentRepo
	postRepo    *fakePostRepo
	userRepo    *fakeUserRepo
	svc         domain.CommentUsecase
}

func newFixture() *fixture {
	commentRepo := newFakeCommentRepo()
	postRepo := &fakePostRepo{posts: map[int64]domain.Post{
		1: {ID: 1, Status: domain.PostPublished, Author: domain.User{ID: 10}},
		2: {ID: 2, Status: domain.PostPublished, Author: domain.User{ID: 10}},
		3: {ID: 3, Status: domain.PostDraft, Author: domain.User{ID: 10}},
	}}
	userRepo := &fakeUserRepo{users: map[int64]domain.User{
		10: {ID: 10, Name: "Alice", Username: "alice"},
		11: {ID: 11, Name: "Bob", Username: "bob"},
		12: {ID: 12, Name: "Carol", Username: "carol"},
	}}
	return &fixture{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		svc:         NewService(commentRepo, postRepo, userRepo),
	}
}

func at(minute int) time.Time {
	return time.Date(2025, 6, 1, 12, minute, 0, 0, time.UTC)
}

func ptr(v int64) *int64 { return &v }

func TestListTreesOrdering(t *testing.T) {
	f := newFixture()
	// two roots, the second one newer
	rootOld := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 10, Body: "first", Status: domain.CommentVisible, CreatedAt: at(0)})
	rootNew := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 11, Body: "second", Status: domain.CommentVisible, CreatedAt: at(5)})
	// replies to the old root, inserted newest-first to prove re-ordering
	replyLate := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 12, ParentID: ptr(rootOld.ID), Body: "late reply", Status: domain.CommentVisible, CreatedAt: at(3)})
	replyEarly := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 11, ParentID: ptr(rootOld.ID), Body: "early reply", Status: domain.CommentVisible, CreatedAt: at(1)})
	nested := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 10, ParentID: ptr(replyEarly.ID), Body: "nested", Status: domain.CommentVisible, CreatedAt: at(2)})

	page, err := f.svc.ListTrees(context.Background(), 1, 1, 20, 0)
	require.NoError(t, err)

	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.Meta.Total)
	assert.Equal(t, int64(1), page.Meta.TotalPages)

	// roots newest first
	assert.Equal(t, rootNew.ID, page.Data[0].ID)
	assert.Equal(t, rootOld.ID, page.Data[1].ID)
	assert.Empty(t, page.Data[0].Replies)

	// replies oldest first at every level
	replies := page.Data[1].Replies
	require.Len(t, replies, 2)
	assert.Equal(t, replyEarly.ID, replies[0].ID)
	assert.Equal(t, replyLate.ID, replies[1].ID)
	require.Len(t, replies[0].Replies, 1)
	assert.Equal(t, nested.ID, replies[0].Replies[0].ID)

	// authors resolved, parent carries the replied-to author
	assert.Equal(t, "bob", replies[0].User.Username)
	require.NotNil(t, replies[0].Parent)
	assert.Equal(t, rootOld.ID, replies[0].Parent.ID)
	assert.Equal(t, "alice", replies[0].Parent.User.Username)
}

func TestListTreesHiddenSubtreeStaysInvisible(t *testing.T) {
	f := newFixture()
	root := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 10, Body: "root", Status: domain.CommentVisible, CreatedAt: at(0)})
	hidden := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 11, ParentID: ptr(root.ID), Body: "hidden", Status: domain.CommentHidden, CreatedAt: at(1)})
	// visible child of a hidden parent must never surface
	f.commentRepo.add(domain.Comment{PostID: 1, UserID: 12, ParentID: ptr(hidden.ID), Body: "orphaned", Status: domain.CommentVisible, CreatedAt: at(2)})
	// hidden roots are excluded from page and total
	f.commentRepo.add(domain.Comment{PostID: 1, UserID: 11, Body: "hidden root", Status: domain.CommentHidden, CreatedAt: at(3)})

	page, err := f.svc.ListTrees(context.Background(), 1, 1, 20, 0)
	require.NoError(t, err)

	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(1), page.Meta.Total)
	assert.Equal(t, root.ID, page.Data[0].ID)
	assert.Empty(t, page.Data[0].Replies)
}

func TestListTreesEmptyPage(t *testing.T) {
	f := newFixture()

	page, err := f.svc.ListTrees(context.Background(), 1, 1, 20, 0)
	require.NoError(t, err)

	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(0), page.Meta.Total)
	assert.Equal(t, int64(0), page.Meta.TotalPages)
}

func TestListTreesRootPagination(t *testing.T) {
	f := newFixture()
	for i := 0; i < 5; i++ {
		f.commentRepo.add(domain.Comment{PostID: 1, UserID: 10, Body: "c", Status: domain.CommentVisible, CreatedAt: at(i)})
	}

	page, err := f.svc.ListTrees(context.Background(), 1, 2, 2, 0)
	require.NoError(t, err)

	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(5), page.Meta.Total)
	assert.Equal(t, int64(2), page.Meta.Page)
	assert.Equal(t, int64(3), page.Meta.TotalPages)
}

func TestListTreesLikeState(t *testing.T) {
	f := newFixture()
	root := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 10, Body: "root", Status: domain.CommentVisible, CreatedAt: at(0)})
	reply := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 11, ParentID: ptr(root.ID), Body: "reply", Status: domain.CommentVisible, CreatedAt: at(1)})

	viewer := int64(12)
	_, err := f.svc.ToggleLike(context.Background(), reply.ID, viewer)
	require.NoError(t, err)

	page, err := f.svc.ListTrees(context.Background(), 1, 1, 20, viewer)
	require.NoError(t, err)
	assert.False(t, page.Data[0].IsLiked)
	assert.True(t, page.Data[0].Replies[0].IsLiked)
	assert.Equal(t, int64(1), page.Data[0].Replies[0].Likes)

	// anonymous viewers never see isLiked true
	page, err = f.svc.ListTrees(context.Background(), 1, 1, 20, 0)
	require.NoError(t, err)
	assert.False(t, page.Data[0].Replies[0].IsLiked)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), 999, 11, "hello", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// commenting on a draft is rejected
	_, err = f.svc.Create(context.Background(), 3, 11, "hello", nil)
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	// parent must exist
	_, err = f.svc.Create(context.Background(), 1, 11, "hello", ptr(999))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// parent must belong to the same post
	other := f.commentRepo.add(domain.Comment{PostID: 2, UserID: 10, Body: "elsewhere", Status: domain.CommentVisible, CreatedAt: at(0)})
	_, err = f.svc.Create(context.Background(), 1, 11, "hello", ptr(other.ID))
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestCreateAnnotatesNewComment(t *testing.T) {
	f := newFixture()
	root := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 10, Body: "root", Status: domain.CommentVisible, CreatedAt: at(0)})

	c, err := f.svc.Create(context.Background(), 1, 11, "a reply", ptr(root.ID))
	require.NoError(t, err)

	assert.NotZero(t, c.ID)
	assert.Equal(t, domain.CommentVisible, c.Status)
	assert.Equal(t, int64(0), c.Likes)
	assert.False(t, c.IsLiked)
	assert.NotNil(t, c.Replies)
	assert.Empty(t, c.Replies)
	require.NotNil(t, c.User)
	assert.Equal(t, "bob", c.User.Username)
	require.NotNil(t, c.Parent)
	assert.Equal(t, "alice", c.Parent.User.Username)
}

func TestDeletePermissions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name    string
		userID  int64
		role    domain.Role
		wantErr error
	}{
		{"comment author", 11, domain.RoleAuthor, nil},
		{"post author", 10, domain.RoleAuthor, nil},
		{"admin", 12, domain.RoleAdmin, nil},
		{"stranger", 12, domain.RoleAuthor, domain.ErrForbidden},
		{"editor without ownership", 12, domain.RoleEditor, domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 11, Body: "target", Status: domain.CommentVisible, CreatedAt: at(0)})

			err := f.svc.Delete(ctx, c.ID, tc.userID, tc.role)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, domain.CommentVisible, f.commentRepo.comments[c.ID].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.CommentHidden, f.commentRepo.comments[c.ID].Status)
		})
	}
}

func TestModerate(t *testing.T) {
	f := newFixture()
	c := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 11, Body: "target", Status: domain.CommentVisible, CreatedAt: at(0)})

	err := f.svc.Moderate(context.Background(), c.ID, domain.CommentHidden)
	require.NoError(t, err)
	assert.Equal(t, domain.CommentHidden, f.commentRepo.comments[c.ID].Status)

	err = f.svc.Moderate(context.Background(), c.ID, domain.CommentVisible)
	require.NoError(t, err)
	assert.Equal(t, domain.CommentVisible, f.commentRepo.comments[c.ID].Status)

	err = f.svc.Moderate(context.Background(), 999, domain.CommentHidden)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleLikeFlips(t *testing.T) {
	f := newFixture()
	c := f.commentRepo.add(domain.Comment{PostID: 1, UserID: 10, Body: "root", Status: domain.CommentVisible, CreatedAt: at(0)})

	state, err := f.svc.ToggleLike(context.Background(), c.ID, 11)
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.Equal(t, int64(1), state.LikesCount)

	state, err = f.svc.ToggleLike(context.Background(), c.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.LikesCount)

	state, err = f.svc.ToggleLike(context.Background(), c.ID, 11)
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, int64(1), state.LikesCount)

	_, err = f.svc.ToggleLike(context.Background(), 999, 11)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
