package quiz

import (
	"html"
	"math/rand"

	"quizdeck/internal/opentdb"
)

// BuildQuestions converts Open Trivia DB payloads into authored questions.
// The correct answer is shuffled in among the incorrect ones so imported
// quizzes do not leak the key by position.
func BuildQuestions(raw []opentdb.RawQuestion) []Question {
	questions := make([]Question, 0, len(raw))
	for _, item := range raw {
		questions = append(questions, buildQuestion(item))
	}
	return questions
}

func buildQuestion(raw opentdb.RawQuestion) Question {
	options := make([]Option, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		options = append(options, Option{
			Text: html.UnescapeString(incorrect),
		})
	}
	options = append(options, Option{
		Text:      html.UnescapeString(raw.CorrectAnswer),
		IsCorrect: true,
	})

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		Text:    html.UnescapeString(raw.Question),
		Options: options,
	}
}
