package httpapi

import (
	"net/http"

	"quizdeck/internal/quiz"
)

func (a *API) HandleSaveResult(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var request saveResultRequest
	if !decodeJSONBody(w, r, &request) {
		return
	}

	err := a.quiz.SaveResult(r.Context(), id.session.UserID, id.session.Username, quiz.Result{
		QuizID:      request.QuizID,
		TotalTime:   request.TotalTime,
		AvgTime:     request.AvgTime,
		FastestTime: request.FastestTime,
		SlowestTime: request.SlowestTime,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, successResponse{Success: true})
}

func (a *API) HandleMyResults(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	results, err := a.quiz.MyResults(r.Context(), id.session.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := myResultsResponse{
		Results: make([]resultResponse, 0, len(results)),
	}
	for _, item := range results {
		response.Results = append(response.Results, resultResponse{
			QuizID:      item.QuizID,
			TotalTime:   item.TotalTime,
			AvgTime:     item.AvgTime,
			FastestTime: item.FastestTime,
			SlowestTime: item.SlowestTime,
			CompletedAt: item.CompletedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", 10)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	entries, err := a.quiz.Leaderboard(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{Leaderboard: entries})
}
