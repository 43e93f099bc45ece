package httpapi

import (
	"quizdeck/internal/auth"
	"quizdeck/internal/quiz"
)

type API struct {
	auth *auth.Service
	quiz *quiz.Service
}

func NewAPI(authService *auth.Service, quizService *quiz.Service) *API {
	return &API{
		auth: authService,
		quiz: quizService,
	}
}
