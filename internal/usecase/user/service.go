package user

import (
	"context"

	"github.com/systemink/api/domain"
)

type Service struct {
	userRepo domain.UserRepository
}

var _ domain.UserUsecase = (*Service)(nil)

func NewService(userRepo domain.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

func (s *Service) buildProfile(ctx context.Context, u domain.User, viewerID int64) (domain.Profile, error) {
	p := domain.Profile{User: u}

	var err error
	if p.PostCount, err = s.userRepo.CountPublishedPosts(ctx, u.ID); err != nil {
		return domain.Profile{}, err
	}
	if p.FollowersCount, err = s.userRepo.CountFollowers(ctx, u.ID); err != nil {
		return domain.Profile{}, err
	}
	if p.FollowingCount, err = s.userRepo.CountFollowing(ctx, u.ID); err != nil {
		return domain.Profile{}, err
	}
	if viewerID != 0 && viewerID != u.ID {
		if p.IsFollowing, err = s.userRepo.IsFollowing(ctx, viewerID, u.ID); err != nil {
			return domain.Profile{}, err
		}
	}
	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, username string, viewerID int64) (domain.Profile, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return domain.Profile{}, err
	}
	return s.buildProfile(ctx, u, viewerID)
}

func (s *Service) FetchAuthors(ctx context.Context, page, limit int64, viewerID int64) ([]domain.Profile, domain.PageMeta, error) {
	users, total, err := s.userRepo.FetchAuthors(ctx, page, limit)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}

	profiles := make([]domain.Profile, 0, len(users))
	for _, u := range users {
		p, err := s.buildProfile(ctx, u, viewerID)
		if err != nil {
			return nil, domain.PageMeta{}, err
		}
		profiles = append(profiles, p)
	}
	return profiles, domain.NewPageMeta(total, page, limit), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, name, bio, avatarURL string, links map[string]string) (domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if name != "" {
		u.Name = name
	}
	u.Bio = bio
	if avatarURL != "" {
		u.AvatarURL = avatarURL
	}
	if links != nil {
		u.Links = links
	}

	if err := s.userRepo.Update(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) ToggleFollow(ctx context.Context, followerID int64, username string) (domain.FollowState, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return domain.FollowState{}, err
	}
	if target.ID == followerID {
		return domain.FollowState{}, domain.ErrBadParamInput
	}

	following, err := s.userRepo.IsFollowing(ctx, followerID, target.ID)
	if err != nil {
		return domain.FollowState{}, err
	}

	if following {
		err = s.userRepo.DeleteFollow(ctx, followerID, target.ID)
	} else {
		err = s.userRepo.InsertFollow(ctx, domain.Follow{FollowerID: followerID, FollowingID: target.ID})
	}
	if err != nil {
		return domain.FollowState{}, err
	}

	count, err := s.userRepo.CountFollowers(ctx, target.ID)
	if err != nil {
		return domain.FollowState{}, err
	}
	return domain.FollowState{Following: !following, FollowersCount: count}, nil
}

func (s *Service) FetchAll(ctx context.Context, page, limit int64) ([]domain.User, domain.PageMeta, error) {
	users, total, err := s.userRepo.FetchAll(ctx, page, limit)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return users, domain.NewPageMeta(total, page, limit), nil
}

func (s *Service) UpdateRole(ctx context.Context, userID, adminID int64, role domain.Role) (domain.User, error) {
	if userID == adminID {
		return domain.User{}, domain.ErrBadParamInput
	}
	switch role {
	case domain.RoleAdmin, domain.RoleEditor, domain.RoleAuthor:
	default:
		return domain.User{}, domain.ErrBadParamInput
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = role
	if err := s.userRepo.Update(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID, adminID int64) error {
	if userID == adminID {
		return domain.ErrBadParamInput
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
