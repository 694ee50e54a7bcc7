package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/repository"
	"github.com/systemink/api/internal/repository/mysql/model"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository will create an implementation of domain.UserRepository
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		DB: db,
	}
}

func (m *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return user.ToDomain(), nil
}

func (m *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return user.ToDomain(), nil
}

func (m *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return user.ToDomain(), nil
}

func (m *userRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	var users []model.User
	err := m.DB.WithContext(ctx).Model(&model.User{}).Where("id IN ?", ids).Find(&users).Error
	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, err
}

func (m *userRepository) Insert(ctx context.Context, u *domain.User) error {
	userModel := model.NewUserFromDomain(u)
	result := m.DB.WithContext(ctx).Create(&userModel)
	if result.Error != nil {
		return result.Error
	}
	u.ID = userModel.ID
	u.CreatedAt = userModel.CreatedAt
	return nil
}

func (m *userRepository) Update(ctx context.Context, u *domain.User) error {
	userModel := model.NewUserFromDomain(u)
	// Select("*") so cleared fields (empty bio, removed links) are written too.
	result := m.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", u.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(userModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *userRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *userRepository) FetchAll(ctx context.Context, page, limit int64) ([]domain.User, int64, error) {
	repository.PageVerify(&page, &limit)

	var total int64
	if err := m.DB.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := m.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset(repository.Offset(page, limit)).
		Limit(int(limit)).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, total, nil
}

func (m *userRepository) FetchAuthors(ctx context.Context, page, limit int64) ([]domain.User, int64, error) {
	repository.PageVerify(&page, &limit)

	authorFilter := func() *gorm.DB {
		return m.DB.WithContext(ctx).
			Model(&model.User{}).
			Select("users.*").
			Joins("JOIN posts ON posts.author_id = users.id AND posts.status = ?", string(domain.PostPublished)).
			Group("users.id")
	}

	var authorIDs []int64
	if err := authorFilter().Pluck("users.id", &authorIDs).Error; err != nil {
		return nil, 0, err
	}
	total := int64(len(authorIDs))

	var users []model.User
	err := authorFilter().
		Order("COUNT(posts.id) DESC").
		Offset(repository.Offset(page, limit)).
		Limit(int(limit)).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, total, nil
}

func (m *userRepository) CountPublishedPosts(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Table("posts").
		Where("author_id = ? AND status = ?", userID, string(domain.PostPublished)).
		Count(&count).Error
	return count, err
}

func (m *userRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (m *userRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (m *userRepository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (m *userRepository) InsertFollow(ctx context.Context, f domain.Follow) error {
	follow := model.NewFollowFromDomain(f)
	return m.DB.WithContext(ctx).Create(&follow).Error
}

func (m *userRepository) DeleteFollow(ctx context.Context, followerID, followingID int64) error {
	result := m.DB.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
