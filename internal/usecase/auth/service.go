package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/systemink/api/domain"
)

const (
	bcryptCost            = 12
	defaultAccessTokenTTL = 15 * time.Minute
	refreshTokenTTL       = 7 * 24 * time.Hour
	resetTokenTTL         = time.Hour
)

// Claims carried inside an access token.
type Claims struct {
	UserID int64       `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	jwtSecret   []byte
	accessTTL   time.Duration
}

var _ domain.AuthUsecase = (*Service)(nil)

// NewService builds the auth usecase. accessTTL is how long issued access
// tokens stay valid; non-positive values fall back to the default.
func NewService(userRepo domain.UserRepository, sessionRepo domain.SessionRepository, jwtSecret string, accessTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTokenTTL
	}
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecret),
		accessTTL:   accessTTL,
	}
}

// ParseToken validates the token signature and expiry and returns the
// embedded claims.
func ParseToken(secret []byte, tokenStr string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, domain.ErrUnauthorized
	}
	return claims, nil
}

func (s *Service) issueTokens(ctx context.Context, u domain.User) (domain.AuthTokens, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return domain.AuthTokens{}, err
	}

	session := &domain.Session{
		UserID:       u.ID,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    now.Add(refreshTokenTTL),
	}
	if err := s.sessionRepo.InsertSession(ctx, session); err != nil {
		return domain.AuthTokens{}, err
	}
	return domain.AuthTokens{AccessToken: access, RefreshToken: session.RefreshToken}, nil
}

func (s *Service) Signup(ctx context.Context, name, username, email, password string) (domain.User, domain.AuthTokens, error) {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return domain.User{}, domain.AuthTokens{}, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.AuthTokens{}, err
	}
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return domain.User{}, domain.AuthTokens{}, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.AuthTokens{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.User{}, domain.AuthTokens{}, err
	}

	user := domain.User{
		Name:     name,
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     domain.RoleAuthor,
	}
	if err := s.userRepo.Insert(ctx, &user); err != nil {
		return domain.User{}, domain.AuthTokens{}, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return domain.User{}, domain.AuthTokens{}, err
	}
	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (domain.User, domain.AuthTokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.AuthTokens{}, domain.ErrUnauthorized
		}
		return domain.User{}, domain.AuthTokens{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return domain.User{}, domain.AuthTokens{}, domain.ErrUnauthorized
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return domain.User{}, domain.AuthTokens{}, err
	}
	return user, tokens, nil
}

func (s *Service) Logout(ctx context.Context, userID int64, refreshToken string) error {
	return s.sessionRepo.DeleteUserSessions(ctx, userID, refreshToken)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (domain.User, domain.AuthTokens, error) {
	session, err := s.sessionRepo.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.AuthTokens{}, domain.ErrUnauthorized
		}
		return domain.User{}, domain.AuthTokens{}, err
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.sessionRepo.DeleteSession(ctx, session.ID)
		return domain.User{}, domain.AuthTokens{}, domain.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return domain.User{}, domain.AuthTokens{}, err
	}

	// 旧 session 先作废再发新 token，保证每个 refresh token 只能用一次
	if err := s.sessionRepo.DeleteSession(ctx, session.ID); err != nil {
		return domain.User{}, domain.AuthTokens{}, err
	}
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return domain.User{}, domain.AuthTokens{}, err
	}
	return user, tokens, nil
}

func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// 不暴露邮箱是否存在
			return "", nil
		}
		return "", err
	}

	if err := s.sessionRepo.InvalidateUserResets(ctx, user.ID); err != nil {
		return "", err
	}
	reset := &domain.PasswordReset{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.sessionRepo.InsertPasswordReset(ctx, reset); err != nil {
		return "", err
	}

	// Mail delivery is out of process; the token is handed to the caller's
	// notification pipeline.
	logrus.WithField("user_id", user.ID).Info("password reset token issued")
	return reset.Token, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	reset, err := s.sessionRepo.GetPasswordResetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrBadParamInput
		}
		return err
	}
	if reset.Used || time.Now().After(reset.ExpiresAt) {
		return domain.ErrBadParamInput
	}

	user, err := s.userRepo.GetByID(ctx, reset.UserID)
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	if err := s.userRepo.Update(ctx, &user); err != nil {
		return err
	}
	if err := s.sessionRepo.MarkPasswordResetUsed(ctx, reset.ID); err != nil {
		return err
	}
	// 改密后全端下线
	return s.sessionRepo.DeleteUserSessions(ctx, user.ID, "")
}

func (s *Service) GetMe(ctx context.Context, userID int64) (domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
