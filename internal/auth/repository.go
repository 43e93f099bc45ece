package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrSessionExpired     = errors.New("session invalid or expired")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
)

// ValidationError reports malformed registration or reset input. The field
// name is machine-readable, the message is what the client displays.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

type User struct {
	ID           int64
	Username     string
	Fullname     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session maps an opaque token to a user identity with an absolute expiry.
// There is no sliding renewal; the window is fixed at login time.
type Session struct {
	UserID    int64
	Username  string
	Fullname  string
	ExpiresAt time.Time
}

// ResetToken is a short-lived, single-use credential permitting a password
// change without the old password.
type ResetToken struct {
	UserID    int64
	Username  string
	Email     string
	ExpiresAt time.Time
}

type UserRepository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, token string, session Session) error
	GetSession(ctx context.Context, token string) (Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID int64) error
}

type ResetTokenRepository interface {
	CreateResetToken(ctx context.Context, token string, reset ResetToken) error
	GetResetToken(ctx context.Context, token string) (ResetToken, error)
	DeleteResetToken(ctx context.Context, token string) error
}
