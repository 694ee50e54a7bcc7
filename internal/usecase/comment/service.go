package comment

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/systemink/api/domain"
)

type service struct {
	commentRepo domain.CommentRepository
	postRepo    domain.PostRepository
	userRepo    domain.UserRepository
}

var _ domain.CommentUsecase = (*service)(nil)

func NewService(commentRepo domain.CommentRepository, postRepo domain.PostRepository, userRepo domain.UserRepository) *service {
	return &service{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// ListTrees assembles one page of comment trees. The page of top-level
// comments comes newest-first; every reply level underneath comes
// oldest-first. Instead of one query per node, all visible replies of the
// post are fetched once and attached in memory via an id->children map.
//
// Traversal starts from the visible roots and descends through visible
// nodes only, so the entire subtree under a HIDDEN comment stays invisible
// even when its own descendants are VISIBLE.
func (s *service) ListTrees(ctx context.Context, postID, page, limit, viewerID int64) (domain.CommentTreePage, error) {
	roots, total, err := s.commentRepo.FetchRoots(ctx, postID, page, limit)
	if err != nil {
		return domain.CommentTreePage{}, err
	}

	meta := domain.NewPageMeta(total, page, limit)
	if len(roots) == 0 {
		return domain.CommentTreePage{Data: []*domain.Comment{}, Meta: meta}, nil
	}

	replies, err := s.commentRepo.FetchVisibleReplies(ctx, postID)
	if err != nil {
		return domain.CommentTreePage{}, err
	}

	// Replies arrive ordered oldest-first, so each children list keeps
	// that order.
	children := make(map[int64][]*domain.Comment)
	byID := make(map[int64]*domain.Comment, len(roots)+len(replies))
	for _, r := range roots {
		byID[r.ID] = r
	}
	for _, reply := range replies {
		byID[reply.ID] = reply
		children[*reply.ParentID] = append(children[*reply.ParentID], reply)
	}

	var reached []*domain.Comment
	for _, root := range roots {
		reached = attach(root, children, reached)
	}

	if err := s.annotate(ctx, reached, byID, viewerID); err != nil {
		return domain.CommentTreePage{}, err
	}

	return domain.CommentTreePage{Data: roots, Meta: meta}, nil
}

// attach wires node's children from the map and recurses into them,
// returning every node visited.
func attach(node *domain.Comment, children map[int64][]*domain.Comment, reached []*domain.Comment) []*domain.Comment {
	reached = append(reached, node)
	list := children[node.ID]
	if list == nil {
		node.Replies = []*domain.Comment{}
	} else {
		node.Replies = list
	}
	for _, child := range node.Replies {
		reached = attach(child, children, reached)
	}
	return reached
}

// annotate resolves authors, parent authors and the viewer's like state for
// every reached node with one user query and one like query.
func (s *service) annotate(ctx context.Context, nodes []*domain.Comment, byID map[int64]*domain.Comment, viewerID int64) error {
	if len(nodes) == 0 {
		return nil
	}

	userIDs := make([]int64, 0, len(nodes))
	seen := make(map[int64]bool)
	for _, n := range nodes {
		if !seen[n.UserID] {
			userIDs = append(userIDs, n.UserID)
			seen[n.UserID] = true
		}
		if n.ParentID != nil {
			if parent, ok := byID[*n.ParentID]; ok && !seen[parent.UserID] {
				userIDs = append(userIDs, parent.UserID)
				seen[parent.UserID] = true
			}
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	userMap := make(map[int64]domain.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	var liked map[int64]bool
	if viewerID != 0 {
		ids := make([]int64, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
		}
		liked, err = s.commentRepo.FetchLikedIDs(ctx, viewerID, ids)
		if err != nil {
			return err
		}
	}

	for _, n := range nodes {
		if u, ok := userMap[n.UserID]; ok {
			n.User = &u
		} else {
			logrus.Warnf("comment %d references missing user %d", n.ID, n.UserID)
		}
		if n.ParentID != nil {
			if parent, ok := byID[*n.ParentID]; ok {
				if pu, ok := userMap[parent.UserID]; ok {
					n.Parent = &domain.Comment{ID: parent.ID, UserID: parent.UserID, User: &pu}
				}
			}
		}
		n.IsLiked = liked[n.ID]
	}
	return nil
}

// Create validates the target post and the optional parent, stores the
// comment and hands it back annotated exactly like the list path would.
func (s *service) Create(ctx context.Context, postID, authorID int64, body string, parentID *int64) (*domain.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != domain.PostPublished {
		return nil, domain.ErrBadParamInput
	}

	byID := make(map[int64]*domain.Comment)
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, domain.ErrBadParamInput
		}
		byID[parent.ID] = parent
	}

	c := &domain.Comment{
		PostID:   postID,
		UserID:   authorID,
		ParentID: parentID,
		Body:     body,
		Status:   domain.CommentVisible,
	}
	if err := s.commentRepo.Store(ctx, c); err != nil {
		return nil, err
	}

	c.Replies = []*domain.Comment{}
	if err := s.annotate(ctx, []*domain.Comment{c}, byID, authorID); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete soft-deletes. The row stays so replies keep their parent link;
// they just become unreachable from the visible roots.
func (s *service) Delete(ctx context.Context, commentID, userID int64, role domain.Role) error {
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, c.PostID)
	if err != nil {
		return err
	}

	canDelete := role == domain.RoleAdmin ||
		post.Author.ID == userID ||
		c.UserID == userID
	if !canDelete {
		return domain.ErrForbidden
	}

	return s.commentRepo.SetStatus(ctx, commentID, domain.CommentHidden)
}

func (s *service) Moderate(ctx context.Context, commentID int64, status domain.CommentStatus) error {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return err
	}
	return s.commentRepo.SetStatus(ctx, commentID, status)
}

func (s *service) ToggleLike(ctx context.Context, commentID, userID int64) (domain.LikeState, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return domain.LikeState{}, err
	}
	return s.commentRepo.ToggleLike(ctx, commentID, userID)
}
