package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/repository"
	"github.com/systemink/api/internal/repository/mysql/model"
)

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var comment model.Comment
	err := c.DB.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, domain.ErrNotFound
	}
	domainComment := comment.ToDomain()
	return &domainComment, nil
}

func (c *commentRepository) Store(ctx context.Context, comment *domain.Comment) error {
	commentModel := model.NewCommentFromDomain(comment)
	err := c.DB.WithContext(ctx).Create(commentModel).Error
	if err != nil {
		return err
	}
	comment.ID = commentModel.ID
	comment.CreatedAt = commentModel.CreatedAt
	return nil
}

func (c *commentRepository) SetStatus(ctx context.Context, id int64, status domain.CommentStatus) error {
	result := c.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) FetchRoots(ctx context.Context, postID int64, page, limit int64) ([]*domain.Comment, int64, error) {
	repository.PageVerify(&page, &limit)

	base := func() *gorm.DB {
		return c.DB.WithContext(ctx).
			Model(&model.Comment{}).
			Where("post_id = ? AND parent_id IS NULL AND status = ?", postID, string(domain.CommentVisible))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := base().
		Order("created_at DESC").
		Offset(repository.Offset(page, limit)).
		Limit(int(limit)).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	res := make([]*domain.Comment, 0, len(comments))
	for _, comment := range comments {
		domainComment := comment.ToDomain()
		res = append(res, &domainComment)
	}
	return res, total, nil
}

func (c *commentRepository) FetchVisibleReplies(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	var comments []model.Comment
	err := c.DB.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NOT NULL AND status = ?", postID, string(domain.CommentVisible)).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	res := make([]*domain.Comment, 0, len(comments))
	for _, comment := range comments {
		domainComment := comment.ToDomain()
		res = append(res, &domainComment)
	}
	return res, nil
}

func (c *commentRepository) FetchLikedIDs(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(commentIDs))
	if len(commentIDs) == 0 {
		return liked, nil
	}

	var ids []int64
	err := c.DB.WithContext(ctx).
		Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// ToggleLike flips the like fact and the denormalized counter inside one
// transaction so the counter always matches the number of facts.
func (c *commentRepository) ToggleLike(ctx context.Context, commentID, userID int64) (domain.LikeState, error) {
	var state domain.LikeState
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.CommentLike{}).
			Where("comment_id = ? AND user_id = ?", commentID, userID).
			Count(&existing).Error; err != nil {
			return err
		}

		if existing > 0 {
			if err := tx.
				Where("comment_id = ? AND user_id = ?", commentID, userID).
				Delete(&model.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Comment{}).
				Where("id = ?", commentID).
				Update("likes_count", gorm.Expr("likes_count - ?", 1)).Error; err != nil {
				return err
			}
			state.Liked = false
		} else {
			like := model.NewCommentLikeFromDomain(domain.CommentLike{CommentID: commentID, UserID: userID})
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Comment{}).
				Where("id = ?", commentID).
				Update("likes_count", gorm.Expr("likes_count + ?", 1)).Error; err != nil {
				return err
			}
			state.Liked = true
		}

		var comment model.Comment
		if err := tx.Select("likes_count").First(&comment, "id = ?", commentID).Error; err != nil {
			return err
		}
		state.LikesCount = comment.Likes
		return nil
	})
	if err != nil {
		return domain.LikeState{}, err
	}
	return state, nil
}
