package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[string]User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user User) (User, error) {
	if _, ok := f.users[user.Username]; ok {
		return User{}, ErrUsernameTaken
	}
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return User{}, ErrEmailTaken
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (User, error) {
	user, ok := f.users[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	for username, user := range f.users {
		if user.ID == userID {
			user.PasswordHash = passwordHash
			f.users[username] = user
			return nil
		}
	}
	return ErrUserNotFound
}

type fakeSessionRepo struct {
	sessions map[string]Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]Session)}
}

func (f *fakeSessionRepo) CreateSession(_ context.Context, token string, session Session) error {
	f.sessions[token] = session
	return nil
}

func (f *fakeSessionRepo) GetSession(_ context.Context, token string) (Session, error) {
	session, ok := f.sessions[token]
	if !ok {
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

func (f *fakeSessionRepo) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionRepo) DeleteUserSessions(_ context.Context, userID int64) error {
	for token, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, token)
		}
	}
	return nil
}

type fakeResetRepo struct {
	tokens map[string]ResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]ResetToken)}
}

func (f *fakeResetRepo) CreateResetToken(_ context.Context, token string, reset ResetToken) error {
	f.tokens[token] = reset
	return nil
}

func (f *fakeResetRepo) GetResetToken(_ context.Context, token string) (ResetToken, error) {
	reset, ok := f.tokens[token]
	if !ok {
		return ResetToken{}, ErrResetTokenInvalid
	}
	return reset, nil
}

func (f *fakeResetRepo) DeleteResetToken(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type recordingNotifier struct {
	emails []string
	urls   []string
}

func (n *recordingNotifier) PasswordResetRequested(_ context.Context, email, resetURL string) error {
	n.emails = append(n.emails, email)
	n.urls = append(n.urls, resetURL)
	return nil
}

func newAuthTestService(cfg ServiceConfig) (*Service, *fakeUserRepo, *fakeSessionRepo, *fakeResetRepo, *recordingNotifier) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	resets := newFakeResetRepo()
	notifier := &recordingNotifier{}
	return NewService(users, sessions, resets, notifier, cfg), users, sessions, resets, notifier
}

func registerTestUser(t *testing.T, s *Service) User {
	t.Helper()
	user, err := s.Register(context.Background(), "alice", "secret1", "Alice Smith", "alice@example.com")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		fullname string
		email    string
	}{
		{"missing fields", "", "secret1", "Alice", "a@example.com"},
		{"short username", "ab", "secret1", "Alice", "a@example.com"},
		{"short password", "alice", "12345", "Alice", "a@example.com"},
		{"bad email", "alice", "secret1", "Alice", "not-an-email"},
	}

	s, _, _, _, _ := newAuthTestService(ServiceConfig{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.username, tc.password, tc.fullname, tc.email)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	s, users, _, _, _ := newAuthTestService(ServiceConfig{})
	registerTestUser(t, s)

	stored := users.users["alice"]
	if stored.PasswordHash == "secret1" {
		t.Fatalf("password stored in plain text")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")) != nil {
		t.Fatalf("stored hash does not verify the original password")
	}
}

func TestRegisterDuplicates(t *testing.T) {
	s, _, _, _, _ := newAuthTestService(ServiceConfig{})
	registerTestUser(t, s)

	ctx := context.Background()
	if _, err := s.Register(ctx, "alice", "secret1", "Other", "other@example.com"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate username = %v, want ErrUsernameTaken", err)
	}
	if _, err := s.Register(ctx, "alice2", "secret1", "Other", "alice@example.com"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	s, _, sessions, _, _ := newAuthTestService(ServiceConfig{SessionTTL: time.Hour})
	user := registerTestUser(t, s)
	ctx := context.Background()

	token, session, err := s.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("empty session token")
	}
	if session.UserID != user.ID || session.Username != "alice" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if _, ok := sessions.sessions[token]; !ok {
		t.Fatalf("session not persisted")
	}

	// Unknown usernames and wrong passwords are indistinguishable.
	_, _, errUser := s.Login(ctx, "nobody", "secret1")
	_, _, errPass := s.Login(ctx, "alice", "wrong")
	if !errors.Is(errUser, ErrInvalidCredentials) || !errors.Is(errPass, ErrInvalidCredentials) {
		t.Fatalf("login failures = (%v, %v), want ErrInvalidCredentials twice", errUser, errPass)
	}
}

func TestAuthenticate(t *testing.T) {
	s, _, sessions, _, _ := newAuthTestService(ServiceConfig{SessionTTL: time.Hour})
	registerTestUser(t, s)
	ctx := context.Background()

	token, _, err := s.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	session, err := s.Authenticate(ctx, token)
	if err != nil || session.Username != "alice" {
		t.Fatalf("Authenticate = (%+v, %v)", session, err)
	}

	if _, err := s.Authenticate(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("empty token = %v, want ErrUnauthenticated", err)
	}
	if _, err := s.Authenticate(ctx, "unknown-token"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("unknown token = %v, want ErrSessionExpired", err)
	}

	// Force the session past its expiry and check lazy cleanup.
	expired := sessions.sessions[token]
	expired.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	sessions.sessions[token] = expired

	if _, err := s.Authenticate(ctx, token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expired token = %v, want ErrSessionExpired", err)
	}
	if _, ok := sessions.sessions[token]; ok {
		t.Fatalf("expired session not deleted on authenticate")
	}
}

func TestLogout(t *testing.T) {
	s, _, sessions, _, _ := newAuthTestService(ServiceConfig{})
	registerTestUser(t, s)
	ctx := context.Background()

	token, _, err := s.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := s.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, ok := sessions.sessions[token]; ok {
		t.Fatalf("session survived logout")
	}
	if err := s.Logout(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("logout without token = %v, want ErrUnauthenticated", err)
	}
}

func TestForgotPassword(t *testing.T) {
	s, _, _, resets, notifier := newAuthTestService(ServiceConfig{
		ResetTokenTTL: 15 * time.Minute,
		ResetBaseURL:  "http://localhost:8080",
	})
	registerTestUser(t, s)
	ctx := context.Background()

	if err := s.ForgotPassword(ctx, "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	if len(resets.tokens) != 1 {
		t.Fatalf("expected one reset token, have %d", len(resets.tokens))
	}
	if len(notifier.emails) != 1 || notifier.emails[0] != "alice@example.com" {
		t.Fatalf("notifier not called: %+v", notifier.emails)
	}
	for token := range resets.tokens {
		wantURL := "http://localhost:8080/reset-password?token=" + token
		if notifier.urls[0] != wantURL {
			t.Fatalf("reset URL = %q, want %q", notifier.urls[0], wantURL)
		}
	}

	// Unknown addresses are swallowed so the endpoint cannot enumerate users.
	if err := s.ForgotPassword(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("unknown email = %v, want nil", err)
	}
	if len(resets.tokens) != 1 {
		t.Fatalf("token issued for unknown email")
	}
}

func TestResetPassword(t *testing.T) {
	s, _, sessions, resets, _ := newAuthTestService(ServiceConfig{})
	user := registerTestUser(t, s)
	ctx := context.Background()

	token, _, err := s.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := s.ForgotPassword(ctx, "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}

	var resetToken string
	for tok := range resets.tokens {
		resetToken = tok
	}

	if err := s.ResetPassword(ctx, resetToken, "short"); err == nil {
		t.Fatalf("short password accepted")
	}

	if err := s.ResetPassword(ctx, resetToken, "brand-new-secret"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	// The token is single use.
	if err := s.ResetPassword(ctx, resetToken, "another-secret"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("reused token = %v, want ErrResetTokenInvalid", err)
	}

	// Every outstanding session for the user is gone.
	if _, ok := sessions.sessions[token]; ok {
		t.Fatalf("old session survived the password rotation")
	}
	for _, session := range sessions.sessions {
		if session.UserID == user.ID {
			t.Fatalf("session for user %d survived", user.ID)
		}
	}

	if _, _, err := s.Login(ctx, "alice", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still works after reset")
	}
	if _, _, err := s.Login(ctx, "alice", "brand-new-secret"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	s, users, _, resets, _ := newAuthTestService(ServiceConfig{})
	registerTestUser(t, s)
	ctx := context.Background()

	hashBefore := users.users["alice"].PasswordHash

	resets.tokens["stale"] = ResetToken{
		UserID:    users.users["alice"].ID,
		Username:  "alice",
		Email:     "alice@example.com",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}

	if err := s.ResetPassword(ctx, "stale", "brand-new-secret"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expired token = %v, want ErrResetTokenInvalid", err)
	}
	if _, ok := resets.tokens["stale"]; ok {
		t.Fatalf("expired token not removed on use")
	}
	if users.users["alice"].PasswordHash != hashBefore {
		t.Fatalf("expired token changed the password")
	}
}
