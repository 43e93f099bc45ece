package quiz

import (
	"context"
	"errors"
	"strings"
	"time"

	"quizdeck/internal/opentdb"
)

const (
	defaultLeaderboardLimit = 10
	defaultImportCount      = 10
)

type QuestionsFetcher func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)

type Service struct {
	quizzes QuizRepository
	results ResultRepository
	fetcher QuestionsFetcher
}

func NewService(quizzes QuizRepository, results ResultRepository, fetcher QuestionsFetcher) *Service {
	return &Service{
		quizzes: quizzes,
		results: results,
		fetcher: fetcher,
	}
}

func (s *Service) CreateQuiz(ctx context.Context, authorID int64, author, title string, questions []Question, isPublic bool) (Quiz, error) {
	now := time.Now().UTC()
	q := Quiz{
		Title:     strings.TrimSpace(title),
		Author:    author,
		AuthorID:  authorID,
		Questions: questions,
		IsPublic:  isPublic,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := q.Validate(); err != nil {
		return Quiz{}, err
	}

	id, err := s.quizzes.CreateQuiz(ctx, q)
	if err != nil {
		return Quiz{}, err
	}
	q.ID = id
	return q, nil
}

// ViewQuiz returns the redacted representation. A private quiz requested by
// anyone but its owner is reported as not found, indistinguishable from a
// quiz that does not exist.
func (s *Service) ViewQuiz(ctx context.Context, id, callerID int64) (QuizView, error) {
	q, err := s.readableQuiz(ctx, id, callerID)
	if err != nil {
		return QuizView{}, err
	}
	return q.View(callerID), nil
}

// QuizDocument returns the full quiz including the answer key. Only the owner
// may have it; the edit UI depends on this path.
func (s *Service) QuizDocument(ctx context.Context, id, callerID int64) (Quiz, error) {
	q, err := s.readableQuiz(ctx, id, callerID)
	if err != nil {
		return Quiz{}, err
	}
	if q.AuthorID != callerID {
		return Quiz{}, ErrForbidden
	}
	return q, nil
}

func (s *Service) ListMyQuizzes(ctx context.Context, authorID int64) ([]Summary, error) {
	quizzes, err := s.quizzes.ListQuizzesByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(quizzes))
	for _, q := range quizzes {
		summaries = append(summaries, q.Summary())
	}
	return summaries, nil
}

// QuizUpdate carries a partial update; nil fields keep their stored values.
type QuizUpdate struct {
	Title     *string
	IsPublic  *bool
	Questions []Question
}

func (s *Service) UpdateQuiz(ctx context.Context, id, callerID int64, update QuizUpdate) (Quiz, error) {
	q, err := s.ownedQuiz(ctx, id, callerID)
	if err != nil {
		return Quiz{}, err
	}

	if update.Title != nil {
		q.Title = strings.TrimSpace(*update.Title)
	}
	if update.IsPublic != nil {
		q.IsPublic = *update.IsPublic
	}
	if update.Questions != nil {
		q.Questions = update.Questions
	}

	if err := q.Validate(); err != nil {
		return Quiz{}, err
	}

	q.UpdatedAt = time.Now().UTC()
	if err := s.quizzes.UpdateQuiz(ctx, q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *Service) DeleteQuiz(ctx context.Context, id, callerID int64) error {
	if _, err := s.ownedQuiz(ctx, id, callerID); err != nil {
		return err
	}
	return s.quizzes.DeleteQuiz(ctx, id)
}

// DuplicateQuiz copies an owned quiz into a fresh private document with new
// timestamps and a new id.
func (s *Service) DuplicateQuiz(ctx context.Context, id, callerID int64) (Quiz, error) {
	q, err := s.ownedQuiz(ctx, id, callerID)
	if err != nil {
		return Quiz{}, err
	}

	now := time.Now().UTC()
	copyQuiz := Quiz{
		Title:     q.Title + " (Copy)",
		Author:    q.Author,
		AuthorID:  q.AuthorID,
		Questions: append([]Question(nil), q.Questions...),
		IsPublic:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	newID, err := s.quizzes.CreateQuiz(ctx, copyQuiz)
	if err != nil {
		return Quiz{}, err
	}
	copyQuiz.ID = newID
	return copyQuiz, nil
}

// CheckAnswer evaluates one guess against a readable quiz. The correct index
// is disclosed only on a correct guess; a wrong guess reveals nothing beyond
// its own wrongness. Repeated calls with the same inputs return the same pair.
func (s *Service) CheckAnswer(ctx context.Context, id, callerID int64, questionIndex, selectedOption int) (AnswerResult, error) {
	q, err := s.readableQuiz(ctx, id, callerID)
	if err != nil {
		return AnswerResult{}, err
	}

	if questionIndex < 0 || questionIndex >= len(q.Questions) {
		return AnswerResult{}, ErrInvalidQuestion
	}
	question := q.Questions[questionIndex]
	if selectedOption < 0 || selectedOption >= len(question.Options) {
		return AnswerResult{}, ErrInvalidOption
	}

	result := AnswerResult{
		IsCorrect:    question.Options[selectedOption].IsCorrect,
		CorrectIndex: -1,
	}
	if result.IsCorrect {
		result.CorrectIndex = question.CorrectIndex()
	}
	return result, nil
}

// SaveResult appends a completion record. The quiz must still be readable by
// the caller; records are never mutated or deleted afterwards.
func (s *Service) SaveResult(ctx context.Context, callerID int64, username string, r Result) error {
	if _, err := s.readableQuiz(ctx, r.QuizID, callerID); err != nil {
		return err
	}
	if r.TotalTime < 0 || r.AvgTime < 0 || r.FastestTime < 0 || r.SlowestTime < 0 {
		return &ValidationError{Message: "times must not be negative"}
	}

	r.Username = username
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now().UTC()
	}
	return s.results.AppendResult(ctx, r)
}

func (s *Service) MyResults(ctx context.Context, username string) ([]Result, error) {
	return s.results.ListResultsByUsername(ctx, username)
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > defaultLeaderboardLimit {
		limit = defaultLeaderboardLimit
	}
	return s.results.GetLeaderboard(ctx, limit)
}

// ImportQuiz builds a private quiz for the caller out of Open Trivia DB
// questions.
func (s *Service) ImportQuiz(ctx context.Context, authorID int64, author, title string, count int) (Quiz, error) {
	if s.fetcher == nil {
		return Quiz{}, errors.New("question fetcher is not configured")
	}
	if count <= 0 {
		count = defaultImportCount
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Trivia round " + time.Now().UTC().Format("2006-01-02")
	}

	raw, err := s.fetcher(ctx, count)
	if err != nil {
		return Quiz{}, err
	}

	return s.CreateQuiz(ctx, authorID, author, title, BuildQuestions(raw), false)
}

func (s *Service) readableQuiz(ctx context.Context, id, callerID int64) (Quiz, error) {
	q, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	if !q.IsPublic && q.AuthorID != callerID {
		return Quiz{}, ErrQuizNotFound
	}
	return q, nil
}

func (s *Service) ownedQuiz(ctx context.Context, id, callerID int64) (Quiz, error) {
	q, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	if q.AuthorID != callerID {
		return Quiz{}, ErrForbidden
	}
	return q, nil
}
