package quiz

import (
	"context"
	"errors"
)

var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrForbidden       = errors.New("caller does not own this quiz")
	ErrInvalidQuestion = errors.New("question index out of range")
	ErrInvalidOption   = errors.New("option index out of range")
)

type QuizRepository interface {
	CreateQuiz(ctx context.Context, q Quiz) (int64, error)
	GetQuiz(ctx context.Context, id int64) (Quiz, error)
	ListQuizzesByAuthor(ctx context.Context, authorID int64) ([]Quiz, error)
	UpdateQuiz(ctx context.Context, q Quiz) error
	DeleteQuiz(ctx context.Context, id int64) error
}

type ResultRepository interface {
	AppendResult(ctx context.Context, r Result) error
	ListResultsByUsername(ctx context.Context, username string) ([]Result, error)
	GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}
