package httpapi

import (
	"net/http"

	"quizdeck/internal/quiz"
)

func (a *API) HandleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var request createQuizRequest
	if !decodeJSONBody(w, r, &request) {
		return
	}

	created, err := a.quiz.CreateQuiz(
		r.Context(),
		id.session.UserID,
		id.session.Username,
		request.Title,
		toDomainQuestions(request.Questions),
		request.IsPublic,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFullQuizResponse(created))
}

func (a *API) HandleImportQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var request importQuizRequest
	if !decodeJSONBody(w, r, &request) {
		return
	}

	created, err := a.quiz.ImportQuiz(r.Context(), id.session.UserID, id.session.Username, request.Title, request.QuestionCount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFullQuizResponse(created))
}

func (a *API) HandleMyActivities(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.quiz.ListMyQuizzes(r.Context(), callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := myActivitiesResponse{
		Quizzes: make([]quizSummaryResponse, 0, len(summaries)),
	}
	for _, item := range summaries {
		response.Quizzes = append(response.Quizzes, quizSummaryResponse{
			ID:            item.ID,
			Title:         item.Title,
			QuestionCount: item.QuestionCount,
			IsPublic:      item.IsPublic,
			CreatedAt:     item.CreatedAt,
			UpdatedAt:     item.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quiz id"})
		return
	}

	caller := callerID(r)
	view, serviceErr := a.quiz.ViewQuiz(r.Context(), quizID, caller)
	if serviceErr != nil {
		writeServiceError(w, serviceErr)
		return
	}

	// The edit UI asks for the answer key; only the owner ever gets it.
	if parseBoolParam(r, "full") && view.IsOwner {
		doc, docErr := a.quiz.QuizDocument(r.Context(), quizID, caller)
		if docErr != nil {
			writeServiceError(w, docErr)
			return
		}
		writeJSON(w, http.StatusOK, toFullQuizResponse(doc))
		return
	}

	writeJSON(w, http.StatusOK, quizResponse{
		ID:            view.ID,
		Title:         view.Title,
		Author:        view.Author,
		QuestionCount: view.QuestionCount,
		IsPublic:      view.IsPublic,
		IsOwner:       view.IsOwner,
		Questions:     view.Questions,
		CreatedAt:     view.CreatedAt,
		UpdatedAt:     view.UpdatedAt,
	})
}

func (a *API) HandleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quiz id"})
		return
	}

	var request updateQuizRequest
	if !decodeJSONBody(w, r, &request) {
		return
	}

	update := quiz.QuizUpdate{
		Title:    request.Title,
		IsPublic: request.IsPublic,
	}
	if request.Questions != nil {
		update.Questions = toDomainQuestions(request.Questions)
	}

	updated, err := a.quiz.UpdateQuiz(r.Context(), quizID, callerID(r), update)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFullQuizResponse(updated))
}

func (a *API) HandleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quiz id"})
		return
	}

	if err := a.quiz.DeleteQuiz(r.Context(), quizID, callerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (a *API) HandleDuplicateQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quiz id"})
		return
	}

	duplicate, err := a.quiz.DuplicateQuiz(r.Context(), quizID, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFullQuizResponse(duplicate))
}

func (a *API) HandleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quiz id"})
		return
	}

	var request checkAnswerRequest
	if !decodeJSONBody(w, r, &request) {
		return
	}

	result, err := a.quiz.CheckAnswer(r.Context(), quizID, callerID(r), request.QuestionIndex, request.SelectedOption)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkAnswerResponse{
		IsCorrect:    result.IsCorrect,
		CorrectIndex: result.CorrectIndex,
	})
}

func toDomainQuestions(payload []questionPayload) []quiz.Question {
	questions := make([]quiz.Question, 0, len(payload))
	for _, item := range payload {
		options := make([]quiz.Option, 0, len(item.Options))
		for _, option := range item.Options {
			options = append(options, quiz.Option{
				Text:      option.Text,
				IsCorrect: option.IsCorrect,
			})
		}
		questions = append(questions, quiz.Question{
			Text:    item.Question,
			Options: options,
		})
	}
	return questions
}

func toFullQuizResponse(q quiz.Quiz) fullQuizResponse {
	questions := make([]questionPayload, 0, len(q.Questions))
	for _, question := range q.Questions {
		options := make([]optionPayload, 0, len(question.Options))
		for _, option := range question.Options {
			options = append(options, optionPayload{
				Text:      option.Text,
				IsCorrect: option.IsCorrect,
			})
		}
		questions = append(questions, questionPayload{
			Question: question.Text,
			Options:  options,
		})
	}

	return fullQuizResponse{
		ID:        q.ID,
		Title:     q.Title,
		Author:    q.Author,
		Questions: questions,
		IsPublic:  q.IsPublic,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}
