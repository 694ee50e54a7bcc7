package model

import (
	"time"

	"github.com/systemink/api/domain"
)

type Session struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	UserID       int64     `gorm:"column:user_id;not null;index"`
	RefreshToken string    `gorm:"column:refresh_token;type:varchar(100);uniqueIndex;not null"`
	ExpiresAt    time.Time `gorm:"column:expires_at;type:datetime;not null"`
	CreatedAt    time.Time `gorm:"type:datetime"`
}

func (Session) TableName() string {
	return "sessions"
}

func (m *Session) ToDomain() domain.Session {
	return domain.Session{
		ID:           m.ID,
		UserID:       m.UserID,
		RefreshToken: m.RefreshToken,
		ExpiresAt:    m.ExpiresAt,
		CreatedAt:    m.CreatedAt,
	}
}

func NewSessionFromDomain(s *domain.Session) *Session {
	return &Session{
		ID:           s.ID,
		UserID:       s.UserID,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		CreatedAt:    s.CreatedAt,
	}
}

type PasswordReset struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Token     string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Used      bool      `gorm:"default:false"`
	ExpiresAt time.Time `gorm:"column:expires_at;type:datetime;not null"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

func (m *PasswordReset) ToDomain() domain.PasswordReset {
	return domain.PasswordReset{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		Used:      m.Used,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

func NewPasswordResetFromDomain(r *domain.PasswordReset) *PasswordReset {
	return &PasswordReset{
		ID:        r.ID,
		UserID:    r.UserID,
		Token:     r.Token,
		Used:      r.Used,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
	}
}
