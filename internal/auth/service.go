package auth

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6

	defaultSessionTTL    = 7 * 24 * time.Hour
	defaultResetTokenTTL = 15 * time.Minute
)

type Service struct {
	users    UserRepository
	sessions SessionRepository
	resets   ResetTokenRepository
	notifier ResetNotifier

	sessionTTL    time.Duration
	resetTokenTTL time.Duration
	resetBaseURL  string
}

type ServiceConfig struct {
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	// ResetBaseURL prefixes the reset link handed to the notifier,
	// e.g. "http://localhost:8080".
	ResetBaseURL string
}

func NewService(users UserRepository, sessions SessionRepository, resets ResetTokenRepository, notifier ResetNotifier, cfg ServiceConfig) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = defaultResetTokenTTL
	}
	return &Service{
		users:         users,
		sessions:      sessions,
		resets:        resets,
		notifier:      notifier,
		sessionTTL:    cfg.SessionTTL,
		resetTokenTTL: cfg.ResetTokenTTL,
		resetBaseURL:  strings.TrimRight(cfg.ResetBaseURL, "/"),
	}
}

func (s *Service) Register(ctx context.Context, username, password, fullname, email string) (User, error) {
	username = strings.TrimSpace(username)
	fullname = strings.TrimSpace(fullname)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || password == "" || fullname == "" || email == "" {
		return User{}, &ValidationError{Message: "all fields are required"}
	}
	if len(username) < minUsernameLength {
		return User{}, &ValidationError{Field: "username", Message: "must be at least 3 characters"}
	}
	if len(password) < minPasswordLength {
		return User{}, &ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, &ValidationError{Field: "email", Message: "must be a valid email address"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.users.CreateUser(ctx, User{
		Username:     username,
		Fullname:     fullname,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
}

// Login verifies the credentials and issues an opaque session token with an
// absolute expiry. Unknown usernames and wrong passwords are reported
// identically so callers cannot probe for accounts.
func (s *Service) Login(ctx context.Context, username, password string) (string, Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", Session{}, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", Session{}, ErrInvalidCredentials
		}
		return "", Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", Session{}, ErrInvalidCredentials
	}

	token := uuid.NewString()
	session := Session{
		UserID:    user.ID,
		Username:  user.Username,
		Fullname:  user.Fullname,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}
	if err := s.sessions.CreateSession(ctx, token, session); err != nil {
		return "", Session{}, err
	}
	return token, session, nil
}

// Authenticate resolves a bearer token to a session. Expired sessions are
// deleted on the way out; expiry is checked lazily, there is no sweeper.
func (s *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, ErrUnauthenticated
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return Session{}, ErrSessionExpired
		}
		return Session{}, err
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		_ = s.sessions.DeleteSession(ctx, token)
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrUnauthenticated
	}
	return s.sessions.DeleteSession(ctx, token)
}

// ForgotPassword issues a short-lived single-use reset token. The response is
// identical whether or not the email exists, so the endpoint cannot be used
// to enumerate accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	reset := ResetToken{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		ExpiresAt: time.Now().UTC().Add(s.resetTokenTTL),
	}
	if err := s.resets.CreateResetToken(ctx, token, reset); err != nil {
		return err
	}

	if s.notifier != nil {
		resetURL := s.resetBaseURL + "/reset-password?token=" + token
		if err := s.notifier.PasswordResetRequested(ctx, user.Email, resetURL); err != nil {
			log.Printf("reset notification for %s failed: %v", user.Email, err)
		}
	}
	return nil
}

// ResetPassword consumes a reset token, rotates the password hash and purges
// every session for that user. An expired token is removed when checked and
// no password change is applied.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return ErrResetTokenInvalid
	}

	reset, err := s.resets.GetResetToken(ctx, token)
	if err != nil {
		return err
	}

	if time.Now().UTC().After(reset.ExpiresAt) {
		_ = s.resets.DeleteResetToken(ctx, token)
		return ErrResetTokenInvalid
	}

	if len(newPassword) < minPasswordLength {
		return &ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, reset.UserID, string(hash)); err != nil {
		return err
	}
	if err := s.resets.DeleteResetToken(ctx, token); err != nil {
		return err
	}
	// A rotated password invalidates every outstanding login.
	return s.sessions.DeleteUserSessions(ctx, reset.UserID)
}
