package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandTypes(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"type":"JOIN_GAME","payload":{"pin":"123456","username":"Ana"}}`))
	require.NoError(t, err)
	join, ok := cmd.(*JoinGame)
	require.True(t, ok)
	assert.Equal(t, "123456", join.Pin)
	assert.Equal(t, "Ana", join.Username)

	cmd, err = ParseCommand([]byte(`{"type":"SUBMIT_ANSWER","payload":{"pin":"123456","questionIndex":2,"answer":1,"timeMs":4000}}`))
	require.NoError(t, err)
	submit, ok := cmd.(*SubmitAnswer)
	require.True(t, ok)
	assert.Equal(t, 2, submit.QuestionIndex)
	assert.Equal(t, 1, submit.Answer)
	assert.Equal(t, 4000, submit.TimeMs)
}

func TestParseCommandUnknownType(t *testing.T) {
	_, err := ParseCommand([]byte(`{"type":"SOMETHING_NEW","payload":{}}`))
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestParseCommandMalformed(t *testing.T) {
	_, err := ParseCommand([]byte(`not json at all`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = ParseCommand([]byte(`{"type":"JOIN_GAME","payload":"not an object"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestQuestionViewHidesCorrectAnswerFromPlayers(t *testing.T) {
	q := Question{Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1, TimeLimit: 10}

	playerJSON, err := json.Marshal(q.View(false))
	require.NoError(t, err)
	assert.NotContains(t, string(playerJSON), "correctAnswer")

	hostView := q.View(true)
	require.NotNil(t, hostView.CorrectAnswer)
	assert.Equal(t, 1, *hostView.CorrectAnswer)
}
