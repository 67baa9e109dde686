package game

import (
	"encoding/json"
	"fmt"
)

// Every frame on the wire, in either direction, is {type, payload}.
const (
	cmdCreateGame   = "CREATE_GAME"
	cmdJoinGame     = "JOIN_GAME"
	cmdStartGame    = "START_GAME"
	cmdSubmitAnswer = "SUBMIT_ANSWER"
	cmdNextQuestion = "NEXT_QUESTION"
	cmdEndGame      = "END_GAME"

	evtGameCreated    = "GAME_CREATED"
	evtJoinSuccess    = "JOIN_SUCCESS"
	evtPlayerJoined   = "PLAYER_JOINED"
	evtGameStarted    = "GAME_STARTED"
	evtQuestionStart  = "QUESTION_START"
	evtAnswerReceived = "ANSWER_RECEIVED"
	evtQuestionEnd    = "QUESTION_END"
	evtGameEnd        = "GAME_END"
	evtError          = "ERROR"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Command is the closed set of inbound messages the engine understands.
type Command interface{ isCommand() }

type CreateGame struct {
	Quiz Quiz `json:"quiz"`
}

type JoinGame struct {
	Pin      string `json:"pin"`
	Username string `json:"username"`
}

type StartGame struct {
	Pin string `json:"pin"`
}

type SubmitAnswer struct {
	Pin           string `json:"pin"`
	QuestionIndex int    `json:"questionIndex"`
	Answer        int    `json:"answer"`
	TimeMs        int    `json:"timeMs"`
}

type NextQuestion struct {
	Pin string `json:"pin"`
}

type EndGame struct {
	Pin string `json:"pin"`
}

func (CreateGame) isCommand()   {}
func (JoinGame) isCommand()     {}
func (StartGame) isCommand()    {}
func (SubmitAnswer) isCommand() {}
func (NextQuestion) isCommand() {}
func (EndGame) isCommand()      {}

// ParseCommand decodes a raw frame into a typed command. Undecodable frames
// yield ErrInvalidPayload; recognizable envelopes with an unknown type yield
// ErrUnknownCommand so callers can skip them without erroring the connection.
func ParseCommand(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var cmd Command
	switch env.Type {
	case cmdCreateGame:
		cmd = &CreateGame{}
	case cmdJoinGame:
		cmd = &JoinGame{}
	case cmdStartGame:
		cmd = &StartGame{}
	case cmdSubmitAnswer:
		cmd = &SubmitAnswer{}
	case cmdNextQuestion:
		cmd = &NextQuestion{}
	case cmdEndGame:
		cmd = &EndGame{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Type)
	}

	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, cmd); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}
	return cmd, nil
}

// Event is an outbound frame. Payloads are built once per broadcast and are
// never mutated afterwards.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type questionPayload struct {
	Question      QuestionView `json:"question"`
	QuestionIndex int          `json:"questionIndex"`
	Total         int          `json:"total"`
}

type questionEndPayload struct {
	CorrectAnswer      int            `json:"correctAnswer"`
	Scores             map[string]int `json:"scores"`
	AnswerStats        []int          `json:"answerStats"`
	PointsThisQuestion map[string]int `json:"pointsThisQuestion"`
}

// RankEntry is one row of the final leaderboard.
type RankEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

func gameCreatedEvent(pin string) Event {
	return Event{Type: evtGameCreated, Payload: map[string]string{"pin": pin}}
}

func joinSuccessEvent(pin, username string) Event {
	return Event{Type: evtJoinSuccess, Payload: map[string]string{"pin": pin, "username": username}}
}

func playerJoinedEvent(players []string) Event {
	return Event{Type: evtPlayerJoined, Payload: map[string]interface{}{"players": players}}
}

func questionEvent(eventType string, view QuestionView, index, total int) Event {
	return Event{Type: eventType, Payload: questionPayload{
		Question:      view,
		QuestionIndex: index,
		Total:         total,
	}}
}

func answerReceivedEvent(username string) Event {
	return Event{Type: evtAnswerReceived, Payload: map[string]string{"username": username}}
}

func questionEndEvent(correct int, scores map[string]int, stats []int, points map[string]int) Event {
	return Event{Type: evtQuestionEnd, Payload: questionEndPayload{
		CorrectAnswer:      correct,
		Scores:             scores,
		AnswerStats:        stats,
		PointsThisQuestion: points,
	}}
}

func gameEndEvent(final []RankEntry) Event {
	return Event{Type: evtGameEnd, Payload: map[string]interface{}{"finalScores": final}}
}

func errorEvent(message string) Event {
	return Event{Type: evtError, Payload: map[string]string{"message": message}}
}
