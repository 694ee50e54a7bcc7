package response

import (
	"time"

	"github.com/systemink/api/domain"
)

const DateTimeFormat = time.RFC3339

type User struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Username  string            `json:"username"`
	Email     string            `json:"email,omitempty"`
	Role      string            `json:"role,omitempty"`
	Bio       string            `json:"bio,omitempty"`
	AvatarURL string            `json:"avatarUrl,omitempty"`
	Links     map[string]string `json:"links,omitempty"`
	CreatedAt string            `json:"createdAt,omitempty"`
}

// NewUserFromDomain renders the public view of a user, without email or role.
func NewUserFromDomain(u *domain.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// NewAccountFromDomain renders the full view for the account owner or admins.
func NewAccountFromDomain(u *domain.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Links:     u.Links,
		CreatedAt: u.CreatedAt.Format(DateTimeFormat),
	}
}

type Profile struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Username       string            `json:"username"`
	Bio            string            `json:"bio,omitempty"`
	AvatarURL      string            `json:"avatarUrl,omitempty"`
	Links          map[string]string `json:"links,omitempty"`
	PostCount      int64             `json:"postCount"`
	FollowersCount int64             `json:"followersCount"`
	FollowingCount int64             `json:"followingCount"`
	IsFollowing    bool              `json:"isFollowing"`
	CreatedAt      string            `json:"createdAt"`
}

func NewProfileFromDomain(p *domain.Profile) Profile {
	return Profile{
		ID:             p.ID,
		Name:           p.Name,
		Username:       p.Username,
		Bio:            p.Bio,
		AvatarURL:      p.AvatarURL,
		Links:          p.Links,
		PostCount:      p.PostCount,
		FollowersCount: p.FollowersCount,
		FollowingCount: p.FollowingCount,
		IsFollowing:    p.IsFollowing,
		CreatedAt:      p.CreatedAt.Format(DateTimeFormat),
	}
}
