package models

import "quiz-live/internal/game"

// QuizSummary is the list-view shape returned by the quiz-store API.
type QuizSummary struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

func (q Quiz) ToSummary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		Title:         q.Title,
		QuestionCount: len(q.Questions),
	}
}

// ToGame materializes a stored quiz into the immutable value the session
// engine consumes. Option order follows OrderNum as loaded from the store.
func (q Quiz) ToGame() game.Quiz {
	questions := make([]game.Question, len(q.Questions))
	for i, question := range q.Questions {
		options := make([]string, len(question.Options))
		for j, opt := range question.Options {
			options[j] = opt.Text
		}
		questions[i] = game.Question{
			Text:          question.Text,
			Options:       options,
			CorrectAnswer: question.CorrectAnswer,
			TimeLimit:     question.TimeLimit,
		}
	}
	return game.Quiz{Title: q.Title, Questions: questions}
}

// FromGame converts an inline quiz payload into storable rows for an owner.
func FromGame(ownerID uint, src game.Quiz) Quiz {
	quiz := Quiz{OwnerID: ownerID, Title: src.Title}
	for i, question := range src.Questions {
		q := Question{
			OrderNum:      i,
			Text:          question.Text,
			CorrectAnswer: question.CorrectAnswer,
			TimeLimit:     question.TimeLimit,
		}
		for j, text := range question.Options {
			q.Options = append(q.Options, Option{OrderNum: j, Text: text})
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}
