package httpapi

import (
	"time"

	"quizdeck/internal/quiz"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type verifyResponse struct {
	User userResponse `json:"user"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type optionPayload struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type questionPayload struct {
	Question string          `json:"question"`
	Options  []optionPayload `json:"options"`
}

type createQuizRequest struct {
	Title     string            `json:"title"`
	Questions []questionPayload `json:"questions"`
	IsPublic  bool              `json:"is_public"`
}

type updateQuizRequest struct {
	Title     *string           `json:"title"`
	IsPublic  *bool             `json:"is_public"`
	Questions []questionPayload `json:"questions"`
}

type importQuizRequest struct {
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

// quizResponse is the redacted view: options carry text only, never a
// correctness flag.
type quizResponse struct {
	ID            int64               `json:"id"`
	Title         string              `json:"title"`
	Author        string              `json:"author"`
	QuestionCount int                 `json:"question_count"`
	IsPublic      bool                `json:"is_public"`
	IsOwner       bool                `json:"is_owner"`
	Questions     []quiz.QuestionView `json:"questions"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// fullQuizResponse includes the answer key; it is only written for the owner.
type fullQuizResponse struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Author    string            `json:"author"`
	Questions []questionPayload `json:"questions"`
	IsPublic  bool              `json:"is_public"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type quizSummaryResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type myActivitiesResponse struct {
	Quizzes []quizSummaryResponse `json:"quizzes"`
}

type checkAnswerRequest struct {
	QuestionIndex  int `json:"question_index"`
	SelectedOption int `json:"selected_option"`
}

type checkAnswerResponse struct {
	IsCorrect    bool `json:"is_correct"`
	CorrectIndex int  `json:"correct_index"`
}

type saveResultRequest struct {
	QuizID      int64 `json:"quiz_id"`
	TotalTime   int   `json:"total_time"`
	AvgTime     int   `json:"avg_time"`
	FastestTime int   `json:"fastest_time"`
	SlowestTime int   `json:"slowest_time"`
}

type resultResponse struct {
	QuizID      int64     `json:"quiz_id"`
	TotalTime   int       `json:"total_time"`
	AvgTime     int       `json:"avg_time"`
	FastestTime int       `json:"fastest_time"`
	SlowestTime int       `json:"slowest_time"`
	CompletedAt time.Time `json:"completed_at"`
}

type myResultsResponse struct {
	Results []resultResponse `json:"results"`
}

type leaderboardResponse struct {
	Leaderboard []quiz.LeaderboardEntry `json:"leaderboard"`
}
