package game

// Quiz is the fully-materialized quiz a session plays through. It arrives
// inline on CREATE_GAME (or from the quiz store) and is immutable once a
// session starts.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	TimeLimit     int      `json:"timeLimit"`
}

// QuestionView is the broadcast projection of a Question. The correct-answer
// index is only populated for the host's copy.
type QuestionView struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	TimeLimit     int      `json:"timeLimit"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"`
}

// View builds the host- or player-facing projection of the question.
func (q Question) View(isHost bool) QuestionView {
	view := QuestionView{
		Text:      q.Text,
		Options:   q.Options,
		TimeLimit: q.TimeLimit,
	}
	if isHost {
		correct := q.CorrectAnswer
		view.CorrectAnswer = &correct
	}
	return view
}

// Normalize applies the default time limit to questions that don't carry one.
func (q *Quiz) Normalize(defaultTimeLimit int) {
	for i := range q.Questions {
		if q.Questions[i].TimeLimit <= 0 {
			q.Questions[i].TimeLimit = defaultTimeLimit
		}
	}
}

// Validate checks that the quiz is playable: at least one question, each with
// at least two options and a correct index that points at one of them.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return ErrInvalidPayload
	}
	for _, question := range q.Questions {
		if len(question.Options) < 2 {
			return ErrInvalidPayload
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
			return ErrInvalidPayload
		}
	}
	return nil
}
