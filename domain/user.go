package domain

import (
	"context"
	"time"
)

// Role controls what a user may do beyond their own content.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
	RoleAuthor Role = "AUTHOR"
)

// User represents an account on the platform.
// A user can write posts, comment, like and follow other users.
type User struct {
	ID        int64             // Unique identifier
	Name      string            // Display name
	Username  string            // Unique handle, used in profile URLs
	Email     string            // Unique login email
	Password  string            // Bcrypt hashed password
	Role      Role              // ADMIN | EDITOR | AUTHOR
	Bio       string            // Short profile text
	AvatarURL string            // Avatar image URL
	Links     map[string]string // Social links, label -> URL
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is a user as seen on their public page, with aggregate counts
// and the viewer's follow state.
type Profile struct {
	User
	PostCount      int64
	FollowersCount int64
	FollowingCount int64
	IsFollowing    bool
}

// Follow is the fact that one user follows another.
// At most one row exists per (follower, following) pair.
type Follow struct {
	FollowerID  int64
	FollowingID int64
	CreatedAt   time.Time
}

// Session holds an opaque refresh token. Access tokens are stateless JWTs;
// sessions exist so refresh tokens can be rotated and revoked.
type Session struct {
	ID           int64
	UserID       int64
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// PasswordReset is a single-use reset token.
type PasswordReset struct {
	ID        int64
	UserID    int64
	Token     string
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the contract for user data persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByUsername retrieves a user by their unique handle.
	GetByUsername(ctx context.Context, username string) (User, error)

	// GetByEmail retrieves a user by their login email.
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByIDs retrieves users for the given IDs, in no particular order.
	GetByIDs(ctx context.Context, ids []int64) ([]User, error)

	// Insert creates a new user account.
	// Backfills the ID in the provided User object upon success.
	Insert(ctx context.Context, u *User) error

	// Update modifies an existing user's information.
	Update(ctx context.Context, u *User) error

	// Delete removes a user account.
	Delete(ctx context.Context, id int64) error

	// FetchAll returns a page of users ordered by creation time descending,
	// with the total count for pagination metadata.
	FetchAll(ctx context.Context, page, limit int64) ([]User, int64, error)

	// FetchAuthors returns users with at least one published post, ordered
	// by published post count descending.
	FetchAuthors(ctx context.Context, page, limit int64) ([]User, int64, error)

	// CountPublishedPosts counts PUBLISHED posts authored by the user.
	CountPublishedPosts(ctx context.Context, userID int64) (int64, error)

	// CountFollowers counts users following the given user.
	CountFollowers(ctx context.Context, userID int64) (int64, error)

	// CountFollowing counts users the given user follows.
	CountFollowing(ctx context.Context, userID int64) (int64, error)

	// IsFollowing reports whether follower follows following.
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)

	// InsertFollow records a follow fact.
	InsertFollow(ctx context.Context, f Follow) error

	// DeleteFollow removes a follow fact.
	// Returns ErrNotFound if the fact doesn't exist.
	DeleteFollow(ctx context.Context, followerID, followingID int64) error
}

// SessionRepository persists refresh tokens and password reset tokens.
type SessionRepository interface {
	InsertSession(ctx context.Context, s *Session) error
	// GetSessionByToken returns ErrNotFound for unknown tokens.
	GetSessionByToken(ctx context.Context, token string) (Session, error)
	DeleteSession(ctx context.Context, id int64) error
	// DeleteUserSessions removes all sessions of a user; when token is
	// non-empty only the matching one is removed.
	DeleteUserSessions(ctx context.Context, userID int64, token string) error

	InsertPasswordReset(ctx context.Context, r *PasswordReset) error
	GetPasswordResetByToken(ctx context.Context, token string) (PasswordReset, error)
	MarkPasswordResetUsed(ctx context.Context, id int64) error
	// InvalidateUserResets marks all unused reset tokens of a user as used.
	InvalidateUserResets(ctx context.Context, userID int64) error
}

// FollowState is the outcome of a follow toggle.
type FollowState struct {
	Following      bool
	FollowersCount int64
}

// UserUsecase defines the business logic contract for profile and
// follow-graph operations.
type UserUsecase interface {
	// GetProfile returns the public profile for username. viewerID resolves
	// IsFollowing and may be 0 for anonymous viewers.
	GetProfile(ctx context.Context, username string, viewerID int64) (Profile, error)

	// FetchAuthors lists users with published posts.
	FetchAuthors(ctx context.Context, page, limit int64, viewerID int64) ([]Profile, PageMeta, error)

	// UpdateProfile edits the caller's own profile fields.
	UpdateProfile(ctx context.Context, userID int64, name, bio, avatarURL string, links map[string]string) (User, error)

	// ToggleFollow follows username if not followed, unfollows otherwise.
	// Returns ErrBadParamInput when a user tries to follow themselves.
	ToggleFollow(ctx context.Context, followerID int64, username string) (FollowState, error)

	// FetchAll lists every account. Admin only at the boundary.
	FetchAll(ctx context.Context, page, limit int64) ([]User, PageMeta, error)

	// UpdateRole changes a user's role. Admins cannot change their own role.
	UpdateRole(ctx context.Context, userID, adminID int64, role Role) (User, error)

	// DeleteUser removes an account. Admins cannot delete themselves.
	DeleteUser(ctx context.Context, userID, adminID int64) error
}

// AuthTokens is an access/refresh token pair issued at login.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
}

// AuthUsecase handles registration, login and token lifecycle.
type AuthUsecase interface {
	// Signup creates an account and logs it in.
	// Returns ErrConflict if the email or username is taken.
	Signup(ctx context.Context, name, username, email, password string) (User, AuthTokens, error)

	// Login verifies credentials. Returns ErrUnauthorized on mismatch.
	Login(ctx context.Context, email, password string) (User, AuthTokens, error)

	// Logout revokes the given refresh token, or every session of the user
	// when token is empty.
	Logout(ctx context.Context, userID int64, refreshToken string) error

	// Refresh rotates a refresh token, invalidating the old session.
	Refresh(ctx context.Context, refreshToken string) (User, AuthTokens, error)

	// ForgotPassword issues a reset token. Always succeeds from the caller's
	// point of view so email existence cannot be probed.
	ForgotPassword(ctx context.Context, email string) (string, error)

	// ResetPassword consumes a reset token and replaces the password,
	// revoking all sessions.
	ResetPassword(ctx context.Context, token, password string) error

	// GetMe returns the authenticated user.
	GetMe(ctx context.Context, userID int64) (User, error)
}
