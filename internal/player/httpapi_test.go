package player

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClientLoginCarriesToken(t *testing.T) {
	var authHeaders []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			var req loginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode login request: %v", err)
			}
			if req.Username != "alice" || req.Password != "secret1" {
				t.Errorf("unexpected login request: %+v", req)
			}
			json.NewEncoder(w).Encode(loginResponse{
				Token: "tok-123",
				User:  userPayload{Username: "alice", Fullname: "Alice Smith"},
			})
		case "/api/quiz/7":
			authHeaders = append(authHeaders, r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(QuizPayload{
				ID:            7,
				Title:         "T",
				QuestionCount: 1,
				Questions:     []questionItem{{Question: "Q1", Options: []optionItem{{Text: "A"}, {Text: "B"}}}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	ctx := context.Background()

	user, err := client.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	payload, err := client.GetQuiz(ctx, 7)
	if err != nil {
		t.Fatalf("GetQuiz failed: %v", err)
	}
	if payload.Title != "T" || len(payload.Questions) != 1 {
		t.Fatalf("unexpected quiz payload: %+v", payload)
	}
	if len(authHeaders) != 1 || authHeaders[0] != "Bearer tok-123" {
		t.Fatalf("session token not attached: %v", authHeaders)
	}
}

func TestHTTPClientCheckAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/quiz/7/check-answer" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req checkAnswerRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(checkAnswerResponse{
			IsCorrect:    req.SelectedOption == 1,
			CorrectIndex: map[bool]int{true: 1, false: -1}[req.SelectedOption == 1],
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	ctx := context.Background()

	outcome, err := client.CheckAnswer(ctx, 7, 0, 1)
	if err != nil {
		t.Fatalf("CheckAnswer failed: %v", err)
	}
	if !outcome.IsCorrect || outcome.CorrectIndex != 1 {
		t.Fatalf("correct guess = %+v, want {true 1}", outcome)
	}

	outcome, err = client.CheckAnswer(ctx, 7, 0, 0)
	if err != nil {
		t.Fatalf("CheckAnswer failed: %v", err)
	}
	if outcome.IsCorrect || outcome.CorrectIndex != -1 {
		t.Fatalf("wrong guess = %+v, want {false -1}", outcome)
	}
}

func TestHTTPClientMyResultsAndLogout(t *testing.T) {
	headers := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers[r.URL.Path] = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/api/login":
			json.NewEncoder(w).Encode(loginResponse{
				Token: "tok-123",
				User:  userPayload{Username: "alice"},
			})
		case "/api/results":
			json.NewEncoder(w).Encode(myResultsResponse{
				Results: []resultItem{
					{QuizID: 7, TotalTime: 42, AvgTime: 21, FastestTime: 10, SlowestTime: 32},
				},
			})
		case "/api/logout":
			json.NewEncoder(w).Encode(struct{}{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	ctx := context.Background()

	if _, err := client.Login(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	results, err := client.MyResults(ctx)
	if err != nil {
		t.Fatalf("MyResults failed: %v", err)
	}
	if len(results) != 1 || results[0].QuizID != 7 || results[0].TotalTime != 42 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if headers["/api/results"] != "Bearer tok-123" {
		t.Fatalf("results call missing session token: %q", headers["/api/results"])
	}

	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if headers["/api/logout"] != "Bearer tok-123" {
		t.Fatalf("logout call missing session token: %q", headers["/api/logout"])
	}
	if client.token != "" {
		t.Fatalf("token not dropped after logout")
	}
}

func TestHTTPClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errorResponse{Error: "quiz not found"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	_, err := client.GetQuiz(context.Background(), 99)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "quiz not found" {
		t.Fatalf("unexpected API error: %+v", apiErr)
	}
}

func TestHTTPClientServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewHTTPClient(server.URL, nil)
	_, err := client.GetQuiz(context.Background(), 1)
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("unreachable server = %v, want ErrServiceUnavailable", err)
	}
}
