package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLiteStore implements the user, session and reset-token repositories over
// a shared SQLite handle. The handle is serialized to one connection, so the
// check-then-insert uniqueness probes below cannot interleave.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	store := &SQLiteStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			fullname TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			username TEXT NOT NULL,
			fullname TEXT NOT NULL,
			expires_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS reset_tokens (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			expires_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user User) (User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback()

	var found int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ? LIMIT 1`, user.Username).Scan(&found)
	if err == nil {
		return User{}, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}

	err = tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = ? LIMIT 1`, user.Email).Scan(&found)
	if err == nil {
		return User{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	result, err := tx.ExecContext(
		ctx,
		`INSERT INTO users (username, fullname, email, password_hash, created_at_unix)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Username,
		user.Fullname,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.UnixNano(),
	)
	if err != nil {
		return User{}, err
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return user, tx.Commit()
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return s.getUser(ctx, `SELECT id, username, fullname, email, password_hash, created_at_unix FROM users WHERE username = ?`, username)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.getUser(ctx, `SELECT id, username, fullname, email, password_hash, created_at_unix FROM users WHERE email = ?`, email)
}

func (s *SQLiteStore) getUser(ctx context.Context, query string, arg any) (User, error) {
	var (
		user          User
		createdAtUnix int64
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Fullname,
		&user.Email,
		&user.PasswordHash,
		&createdAtUnix,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	user.CreatedAt = time.Unix(0, createdAtUnix).UTC()
	return user, nil
}

func (s *SQLiteStore) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	result, err := s.db.ExecContext(
		ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash,
		userID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *SQLiteStore) CreateSession(ctx context.Context, token string, session Session) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (token, user_id, username, fullname, expires_at_unix)
		 VALUES (?, ?, ?, ?, ?)`,
		token,
		session.UserID,
		session.Username,
		session.Fullname,
		session.ExpiresAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) GetSession(ctx context.Context, token string) (Session, error) {
	var (
		session       Session
		expiresAtUnix int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT user_id, username, fullname, expires_at_unix FROM sessions WHERE token = ?`,
		token,
	).Scan(&session.UserID, &session.Username, &session.Fullname, &expiresAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A token the store has never seen and a token past its expiry are
			// reported identically.
			return Session{}, ErrSessionExpired
		}
		return Session{}, err
	}
	session.ExpiresAt = time.Unix(0, expiresAtUnix).UTC()
	return session, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func (s *SQLiteStore) DeleteUserSessions(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

func (s *SQLiteStore) CreateResetToken(ctx context.Context, token string, reset ResetToken) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO reset_tokens (token, user_id, username, email, expires_at_unix)
		 VALUES (?, ?, ?, ?, ?)`,
		token,
		reset.UserID,
		reset.Username,
		reset.Email,
		reset.ExpiresAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) GetResetToken(ctx context.Context, token string) (ResetToken, error) {
	var (
		reset         ResetToken
		expiresAtUnix int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT user_id, username, email, expires_at_unix FROM reset_tokens WHERE token = ?`,
		token,
	).Scan(&reset.UserID, &reset.Username, &reset.Email, &expiresAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResetToken{}, ErrResetTokenInvalid
		}
		return ResetToken{}, err
	}
	reset.ExpiresAt = time.Unix(0, expiresAtUnix).UTC()
	return reset, nil
}

func (s *SQLiteStore) DeleteResetToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reset_tokens WHERE token = ?`, token)
	return err
}
