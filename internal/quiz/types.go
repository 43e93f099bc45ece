package quiz

import (
	"fmt"
	"strings"
	"time"
)

const (
	minOptions = 2
	maxOptions = 6
)

// Option is one answer choice. IsCorrect never leaves the server in a
// non-owner response; see QuizView.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	Text    string   `json:"question"`
	Options []Option `json:"options"`
}

// CorrectIndex returns the index of the correct option, or -1 when none is
// marked.
func (q Question) CorrectIndex() int {
	for idx, option := range q.Options {
		if option.IsCorrect {
			return idx
		}
	}
	return -1
}

// Quiz is the authored document, answer key included.
type Quiz struct {
	ID        int64
	Title     string
	Author    string
	AuthorID  int64
	Questions []Question
	IsPublic  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidationError reports a rejected quiz document. Question is 1-indexed;
// zero means the failure is quiz-level rather than per-question.
type ValidationError struct {
	Question int
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Question > 0 {
		return fmt.Sprintf("question %d: %s", e.Question, e.Message)
	}
	return e.Message
}

func (q Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return &ValidationError{Message: "title must not be empty"}
	}
	if len(q.Questions) == 0 {
		return &ValidationError{Message: "quiz must have at least one question"}
	}
	return ValidateQuestions(q.Questions)
}

// ValidateQuestions enforces the authoring rules: non-empty texts, 2 to 6
// options, exactly one of them marked correct.
func ValidateQuestions(questions []Question) error {
	for idx, question := range questions {
		number := idx + 1
		if strings.TrimSpace(question.Text) == "" {
			return &ValidationError{Question: number, Message: "question text must not be empty"}
		}
		if len(question.Options) < minOptions || len(question.Options) > maxOptions {
			return &ValidationError{Question: number, Message: "must have between 2 and 6 options"}
		}

		correct := 0
		for _, option := range question.Options {
			if strings.TrimSpace(option.Text) == "" {
				return &ValidationError{Question: number, Message: "option text must not be empty"}
			}
			if option.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return &ValidationError{Question: number, Message: "exactly one option must be marked correct"}
		}
	}
	return nil
}

// OptionView is the redacted option: text only, no correctness flag.
type OptionView struct {
	Text string `json:"text"`
}

type QuestionView struct {
	Text    string       `json:"question"`
	Options []OptionView `json:"options"`
}

// QuizView is what players get. It carries no answer key anywhere in its
// structure, so it cannot leak one no matter how it is serialized.
type QuizView struct {
	ID            int64
	Title         string
	Author        string
	QuestionCount int
	IsPublic      bool
	IsOwner       bool
	Questions     []QuestionView
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// View redacts the quiz for the given caller. Zero means anonymous and is
// never an owner.
func (q Quiz) View(callerID int64) QuizView {
	questions := make([]QuestionView, 0, len(q.Questions))
	for _, question := range q.Questions {
		options := make([]OptionView, 0, len(question.Options))
		for _, option := range question.Options {
			options = append(options, OptionView{Text: option.Text})
		}
		questions = append(questions, QuestionView{
			Text:    question.Text,
			Options: options,
		})
	}

	return QuizView{
		ID:            q.ID,
		Title:         q.Title,
		Author:        q.Author,
		QuestionCount: len(q.Questions),
		IsPublic:      q.IsPublic,
		IsOwner:       callerID != 0 && callerID == q.AuthorID,
		Questions:     questions,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

// Summary is the listing row for an author's own quizzes.
type Summary struct {
	ID            int64
	Title         string
	QuestionCount int
	IsPublic      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q Quiz) Summary() Summary {
	return Summary{
		ID:            q.ID,
		Title:         q.Title,
		QuestionCount: len(q.Questions),
		IsPublic:      q.IsPublic,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

// AnswerResult is the verdict on one guess. CorrectIndex stays -1 unless the
// guess was correct.
type AnswerResult struct {
	IsCorrect    bool
	CorrectIndex int
}

// Result is one append-only completion record.
type Result struct {
	Username    string
	QuizID      int64
	TotalTime   int
	AvgTime     int
	FastestTime int
	SlowestTime int
	CompletedAt time.Time
}

type LeaderboardEntry struct {
	Username string `json:"username"`
	BestTime int    `json:"best_time"`
	Runs     int    `json:"runs"`
}
