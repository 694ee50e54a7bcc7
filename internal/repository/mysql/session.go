package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/repository/mysql/model"
)

type sessionRepository struct {
	DB *gorm.DB
}

var _ domain.SessionRepository = (*sessionRepository)(nil)

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db}
}

func (m *sessionRepository) InsertSession(ctx context.Context, s *domain.Session) error {
	sessionModel := model.NewSessionFromDomain(s)
	if err := m.DB.WithContext(ctx).Create(&sessionModel).Error; err != nil {
		return err
	}
	s.ID = sessionModel.ID
	return nil
}

func (m *sessionRepository) GetSessionByToken(ctx context.Context, token string) (domain.Session, error) {
	var session model.Session
	if err := m.DB.WithContext(ctx).First(&session, "refresh_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, err
	}
	return session.ToDomain(), nil
}

func (m *sessionRepository) DeleteSession(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).Delete(&model.Session{}, id).Error
}

func (m *sessionRepository) DeleteUserSessions(ctx context.Context, userID int64, token string) error {
	q := m.DB.WithContext(ctx).Where("user_id = ?", userID)
	if token != "" {
		q = q.Where("refresh_token = ?", token)
	}
	return q.Delete(&model.Session{}).Error
}

func (m *sessionRepository) InsertPasswordReset(ctx context.Context, r *domain.PasswordReset) error {
	resetModel := model.NewPasswordResetFromDomain(r)
	if err := m.DB.WithContext(ctx).Create(&resetModel).Error; err != nil {
		return err
	}
	r.ID = resetModel.ID
	return nil
}

func (m *sessionRepository) GetPasswordResetByToken(ctx context.Context, token string) (domain.PasswordReset, error) {
	var reset model.PasswordReset
	if err := m.DB.WithContext(ctx).First(&reset, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PasswordReset{}, domain.ErrNotFound
		}
		return domain.PasswordReset{}, err
	}
	return reset.ToDomain(), nil
}

func (m *sessionRepository) MarkPasswordResetUsed(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).
		Model(&model.PasswordReset{}).
		Where("id = ?", id).
		Update("used", true).Error
}

func (m *sessionRepository) InvalidateUserResets(ctx context.Context, userID int64) error {
	return m.DB.WithContext(ctx).
		Model(&model.PasswordReset{}).
		Where("user_id = ? AND used = ?", userID, false).
		Update("used", true).Error
}
