package model

import (
	"encoding/json"
	"time"

	"github.com/systemink/api/domain"
)

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Username  string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string    `gorm:"column:password_hash;type:varchar(100);not null"`
	Role      string    `gorm:"type:varchar(10);default:'AUTHOR';not null"`
	Bio       string    `gorm:"type:text"`
	AvatarURL string    `gorm:"column:avatar_url;type:varchar(500)"`
	Links     string    `gorm:"type:text"` // JSON object, label -> URL
	CreatedAt time.Time `gorm:"type:datetime"`
	UpdatedAt time.Time `gorm:"type:datetime"`
}

func (User) TableName() string {
	return "users"
}

func (m *User) ToDomain() domain.User {
	var links map[string]string
	if m.Links != "" {
		_ = json.Unmarshal([]byte(m.Links), &links)
	}
	return domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Username:  m.Username,
		Email:     m.Email,
		Password:  m.Password,
		Role:      domain.Role(m.Role),
		Bio:       m.Bio,
		AvatarURL: m.AvatarURL,
		Links:     links,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func NewUserFromDomain(u *domain.User) *User {
	links := ""
	if len(u.Links) > 0 {
		if raw, err := json.Marshal(u.Links); err == nil {
			links = string(raw)
		}
	}
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Links:     links,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
