package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"quizdeck/internal/auth"
	"quizdeck/internal/quiz"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeServiceError is the single place where domain errors turn into HTTP
// statuses. Anything unmapped is logged and reported generically.
func writeServiceError(w http.ResponseWriter, err error) {
	var quizValidation *quiz.ValidationError
	var authValidation *auth.ValidationError

	switch {
	case errors.As(err, &quizValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: quizValidation.Error()})
	case errors.As(err, &authValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: authValidation.Error()})
	case errors.Is(err, quiz.ErrInvalidQuestion), errors.Is(err, quiz.ErrInvalidOption):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrResetTokenInvalid):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reset token invalid or expired"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "incorrect username or password"})
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	case errors.Is(err, auth.ErrSessionExpired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "session invalid or expired"})
	case errors.Is(err, quiz.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "only the quiz owner may do that"})
	case errors.Is(err, quiz.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "quiz not found"})
	case errors.Is(err, auth.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "username already taken"})
	case errors.Is(err, auth.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
	default:
		log.Printf("unhandled service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func quizIDFromPath(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	return strconv.ParseInt(raw, 10, 64)
}

func parseBoolParam(r *http.Request, key string) bool {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return value == "1" || value == "true" || value == "yes"
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}
