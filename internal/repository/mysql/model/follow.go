package model

import (
	"time"

	"github.com/systemink/api/domain"
)

type Follow struct {
	FollowerID  int64     `gorm:"column:follower_id;not null;uniqueIndex:idx_follower_following"`
	FollowingID int64     `gorm:"column:following_id;not null;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `gorm:"type:datetime"`
}

func (Follow) TableName() string {
	return "follows"
}

func NewFollowFromDomain(f domain.Follow) Follow {
	return Follow{
		FollowerID:  f.FollowerID,
		FollowingID: f.FollowingID,
		CreatedAt:   f.CreatedAt,
	}
}
