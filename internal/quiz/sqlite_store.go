package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLiteStore keeps quizzes and results in the shared SQLite database.
// Question bodies travel as a JSON column; everything the store needs to
// filter or sort on lives in real columns.
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
		`CREATE TABLE IF NOT EXISTS quizzes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			author_id INTEGER NOT NULL,
			questions_json TEXT NOT NULL,
			is_public INTEGER NOT NULL DEFAULT 0,
			created_at_unix INTEGER NOT NULL,
			updated_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			quiz_id INTEGER NOT NULL,
			total_time INTEGER NOT NULL,
			avg_time INTEGER NOT NULL,
			fastest_time INTEGER NOT NULL,
			slowest_time INTEGER NOT NULL,
			completed_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_author ON quizzes(author_id, created_at_unix DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_results_username ON results(username);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) CreateQuiz(ctx context.Context, q Quiz) (int64, error) {
	questionsJSON, err := json.Marshal(q.Questions)
	if err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO quizzes (title, author, author_id, questions_json, is_public, created_at_unix, updated_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.Title,
		q.Author,
		q.AuthorID,
		string(questionsJSON),
		boolToInt(q.IsPublic),
		q.CreatedAt.UnixNano(),
		q.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetQuiz(ctx context.Context, id int64) (Quiz, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, title, author, author_id, questions_json, is_public, created_at_unix, updated_at_unix
		 FROM quizzes WHERE id = ?`,
		id,
	)
	q, err := scanQuiz(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}
	return q, nil
}

func (s *SQLiteStore) ListQuizzesByAuthor(ctx context.Context, authorID int64) ([]Quiz, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, title, author, author_id, questions_json, is_public, created_at_unix, updated_at_unix
		 FROM quizzes WHERE author_id = ?
		 ORDER BY created_at_unix DESC`,
		authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := make([]Quiz, 0)
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (s *SQLiteStore) UpdateQuiz(ctx context.Context, q Quiz) error {
	questionsJSON, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE quizzes
		 SET title = ?, questions_json = ?, is_public = ?, updated_at_unix = ?
		 WHERE id = ?`,
		q.Title,
		string(questionsJSON),
		boolToInt(q.IsPublic),
		q.UpdatedAt.UnixNano(),
		q.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteQuiz(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrQuizNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (Quiz, error) {
	var (
		q             Quiz
		questionsJSON string
		isPublic      int
		createdAtUnix int64
		updatedAtUnix int64
	)
	if err := row.Scan(&q.ID, &q.Title, &q.Author, &q.AuthorID, &questionsJSON, &isPublic, &createdAtUnix, &updatedAtUnix); err != nil {
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(questionsJSON), &q.Questions); err != nil {
		return Quiz{}, err
	}
	q.IsPublic = isPublic != 0
	q.CreatedAt = time.Unix(0, createdAtUnix).UTC()
	q.UpdatedAt = time.Unix(0, updatedAtUnix).UTC()
	return q, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
