package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"quizdeck/internal/auth"
	"quizdeck/internal/quiz"
)

func NewRouter(authService *auth.Service, quizService *quiz.Service) http.Handler {
	api := NewAPI(authService, quizService)

	r := mux.NewRouter()
	s := r.PathPrefix("/api").Subrouter()

	s.HandleFunc("/register", api.HandleRegister).Methods(http.MethodPost)
	s.HandleFunc("/login", api.HandleLogin).Methods(http.MethodPost)
	s.HandleFunc("/forgot-password", api.HandleForgotPassword).Methods(http.MethodPost)
	s.HandleFunc("/reset-password", api.HandleResetPassword).Methods(http.MethodPost)
	s.HandleFunc("/leaderboard", api.HandleLeaderboard).Methods(http.MethodGet)

	s.HandleFunc("/verify", api.requireSession(api.HandleVerify)).Methods(http.MethodGet)
	s.HandleFunc("/logout", api.requireSession(api.HandleLogout)).Methods(http.MethodPost)

	s.HandleFunc("/quiz/create", api.requireSession(api.HandleCreateQuiz)).Methods(http.MethodPost)
	s.HandleFunc("/quiz/import", api.requireSession(api.HandleImportQuiz)).Methods(http.MethodPost)
	s.HandleFunc("/quiz/my-activities", api.requireSession(api.HandleMyActivities)).Methods(http.MethodGet)
	// Reads work for anonymous callers too; visibility filtering happens in
	// the quiz service.
	s.HandleFunc("/quiz/{id:[0-9]+}", api.optionalSession(api.HandleGetQuiz)).Methods(http.MethodGet)
	s.HandleFunc("/quiz/{id:[0-9]+}", api.requireSession(api.HandleUpdateQuiz)).Methods(http.MethodPut)
	s.HandleFunc("/quiz/{id:[0-9]+}", api.requireSession(api.HandleDeleteQuiz)).Methods(http.MethodDelete)
	s.HandleFunc("/quiz/{id:[0-9]+}/duplicate", api.requireSession(api.HandleDuplicateQuiz)).Methods(http.MethodPost)
	s.HandleFunc("/quiz/{id:[0-9]+}/check-answer", api.requireSession(api.HandleCheckAnswer)).Methods(http.MethodPost)

	s.HandleFunc("/save-result", api.requireSession(api.HandleSaveResult)).Methods(http.MethodPost)
	s.HandleFunc("/results", api.requireSession(api.HandleMyResults)).Methods(http.MethodGet)

	return r
}
