package player

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var ErrServiceUnavailable = errors.New("quizdeck server unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient talks to the quizdeck REST API. The session token captured at
// login rides along as a bearer header on every later call.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type optionItem struct {
	Text string `json:"text"`
}

type questionItem struct {
	Question string       `json:"question"`
	Options  []optionItem `json:"options"`
}

// QuizPayload is the redacted quiz the server hands to players.
type QuizPayload struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Author        string         `json:"author"`
	QuestionCount int            `json:"question_count"`
	IsPublic      bool           `json:"is_public"`
	Questions     []questionItem `json:"questions"`
}

type userPayload struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
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

type leaderboardEntry struct {
	Username string `json:"username"`
	BestTime int    `json:"best_time"`
	Runs     int    `json:"runs"`
}

type leaderboardResponse struct {
	Leaderboard []leaderboardEntry `json:"leaderboard"`
}

type resultItem struct {
	QuizID      int64     `json:"quiz_id"`
	TotalTime   int       `json:"total_time"`
	AvgTime     int       `json:"avg_time"`
	FastestTime int       `json:"fastest_time"`
	SlowestTime int       `json:"slowest_time"`
	CompletedAt time.Time `json:"completed_at"`
}

type myResultsResponse struct {
	Results []resultItem `json:"results"`
}

type quizSummary struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
}

type myActivitiesResponse struct {
	Quizzes []quizSummary `json:"quizzes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (userPayload, error) {
	var payload loginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/login", loginRequest{
		Username: username,
		Password: password,
	}, &payload)
	if err != nil {
		return userPayload{}, err
	}
	c.token = payload.Token
	return payload.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.token = ""
	return err
}

func (c *HTTPClient) GetQuiz(ctx context.Context, quizID int64) (QuizPayload, error) {
	var payload QuizPayload
	err := c.doJSON(ctx, http.MethodGet, "/api/quiz/"+strconv.FormatInt(quizID, 10), nil, &payload)
	return payload, err
}

func (c *HTTPClient) CheckAnswer(ctx context.Context, quizID int64, questionIndex, selectedOption int) (GuessOutcome, error) {
	var payload checkAnswerResponse
	path := "/api/quiz/" + strconv.FormatInt(quizID, 10) + "/check-answer"
	err := c.doJSON(ctx, http.MethodPost, path, checkAnswerRequest{
		QuestionIndex:  questionIndex,
		SelectedOption: selectedOption,
	}, &payload)
	if err != nil {
		return GuessOutcome{}, err
	}
	return GuessOutcome{
		IsCorrect:    payload.IsCorrect,
		CorrectIndex: payload.CorrectIndex,
	}, nil
}

func (c *HTTPClient) SaveResult(ctx context.Context, quizID int64, stats Stats) error {
	return c.doJSON(ctx, http.MethodPost, "/api/save-result", saveResultRequest{
		QuizID:      quizID,
		TotalTime:   stats.TotalTime,
		AvgTime:     stats.AvgTime,
		FastestTime: stats.FastestTime,
		SlowestTime: stats.SlowestTime,
	}, nil)
}

func (c *HTTPClient) GetLeaderboard(ctx context.Context, limit int) ([]leaderboardEntry, error) {
	path := "/api/leaderboard"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var payload leaderboardResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Leaderboard, nil
}

func (c *HTTPClient) MyResults(ctx context.Context) ([]resultItem, error) {
	var payload myResultsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/results", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *HTTPClient) MyActivities(ctx context.Context) ([]quizSummary, error) {
	var payload myActivitiesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/quiz/my-activities", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Quizzes, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
