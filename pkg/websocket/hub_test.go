package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-live/internal/game"
)

func testGameSettings() game.Settings {
	return game.Settings{
		AdvanceMode:      game.AdvanceHost,
		ResultsDelay:     50 * time.Millisecond,
		AnswerGrace:      500 * time.Millisecond,
		Retention:        time.Second,
		DefaultTimeLimit: 20,
	}
}

func startTestServer(t *testing.T) (*httptest.Server, *game.Registry) {
	t.Helper()
	registry := game.NewRegistry()
	router := NewRouter(game.NewServer(registry, testGameSettings()))
	server := httptest.NewServer(http.HandlerFunc(router.ServeWS))
	t.Cleanup(server.Close)
	return server, registry
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{"type": msgType, "payload": payload})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

type wireEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// readUntil drains frames until one of the wanted type arrives. Frames on a
// single connection are ordered, so skipping intermediates is safe.
func readUntil(t *testing.T, conn *websocket.Conn, eventType string) wireEvent {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", eventType)
		var evt wireEvent
		require.NoError(t, json.Unmarshal(data, &evt))
		if evt.Type == eventType {
			return evt
		}
	}
}

func testQuiz() game.Quiz {
	return game.Quiz{
		Title: "capitals",
		Questions: []game.Question{
			{Text: "Capital of France?", Options: []string{"Berlin", "Paris", "Rome", "Madrid"}, CorrectAnswer: 1, TimeLimit: 20},
		},
	}
}

func TestGameOverWebSocket(t *testing.T) {
	server, _ := startTestServer(t)

	host := dial(t, server)
	player := dial(t, server)

	sendFrame(t, host, "CREATE_GAME", map[string]interface{}{"quiz": testQuiz()})
	created := readUntil(t, host, "GAME_CREATED")
	var createdPayload struct {
		Pin string `json:"pin"`
	}
	require.NoError(t, json.Unmarshal(created.Payload, &createdPayload))
	require.Len(t, createdPayload.Pin, 6)
	pin := createdPayload.Pin

	sendFrame(t, player, "JOIN_GAME", map[string]string{"pin": pin, "username": "Ana"})
	joined := readUntil(t, player, "JOIN_SUCCESS")
	var joinPayload struct {
		Pin      string `json:"pin"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(joined.Payload, &joinPayload))
	assert.Equal(t, "Ana", joinPayload.Username)

	roster := readUntil(t, host, "PLAYER_JOINED")
	var rosterPayload struct {
		Players []string `json:"players"`
	}
	require.NoError(t, json.Unmarshal(roster.Payload, &rosterPayload))
	assert.Equal(t, []string{"Ana"}, rosterPayload.Players)

	sendFrame(t, host, "START_GAME", map[string]string{"pin": pin})

	started := readUntil(t, player, "GAME_STARTED")
	assert.NotContains(t, string(started.Payload), "correctAnswer",
		"players never see the answer key on the wire")
	hostStarted := readUntil(t, host, "GAME_STARTED")
	assert.Contains(t, string(hostStarted.Payload), "correctAnswer")

	sendFrame(t, player, "SUBMIT_ANSWER", map[string]interface{}{
		"pin": pin, "questionIndex": 0, "answer": 1, "timeMs": 4000,
	})
	readUntil(t, host, "ANSWER_RECEIVED")

	end := readUntil(t, player, "QUESTION_END")
	var endPayload struct {
		CorrectAnswer int            `json:"correctAnswer"`
		Scores        map[string]int `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(end.Payload, &endPayload))
	assert.Equal(t, 1, endPayload.CorrectAnswer)
	assert.Equal(t, 1400, endPayload.Scores["Ana"])

	sendFrame(t, host, "NEXT_QUESTION", map[string]string{"pin": pin})
	final := readUntil(t, player, "GAME_END")
	var finalPayload struct {
		FinalScores []game.RankEntry `json:"finalScores"`
	}
	require.NoError(t, json.Unmarshal(final.Payload, &finalPayload))
	require.Len(t, finalPayload.FinalScores, 1)
	assert.Equal(t, game.RankEntry{Rank: 1, Username: "Ana", Score: 1400}, finalPayload.FinalScores[0])
}

func TestBadFrameGetsErrorReply(t *testing.T) {
	server, _ := startTestServer(t)
	conn := dial(t, server)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{{{`)))
	evt := readUntil(t, conn, "ERROR")
	assert.Contains(t, string(evt.Payload), "server error")
}

func TestPlayerDisconnectShrinksRoster(t *testing.T) {
	server, _ := startTestServer(t)

	host := dial(t, server)
	player := dial(t, server)

	sendFrame(t, host, "CREATE_GAME", map[string]interface{}{"quiz": testQuiz()})
	created := readUntil(t, host, "GAME_CREATED")
	var createdPayload struct {
		Pin string `json:"pin"`
	}
	require.NoError(t, json.Unmarshal(created.Payload, &createdPayload))

	sendFrame(t, player, "JOIN_GAME", map[string]string{"pin": createdPayload.Pin, "username": "Ana"})
	readUntil(t, host, "PLAYER_JOINED")

	require.NoError(t, player.Close())

	roster := readUntil(t, host, "PLAYER_JOINED")
	var rosterPayload struct {
		Players []string `json:"players"`
	}
	require.NoError(t, json.Unmarshal(roster.Payload, &rosterPayload))
	assert.Empty(t, rosterPayload.Players)
}

func TestHostDisconnectClosesGame(t *testing.T) {
	server, registry := startTestServer(t)

	host := dial(t, server)
	player := dial(t, server)

	sendFrame(t, host, "CREATE_GAME", map[string]interface{}{"quiz": testQuiz()})
	created := readUntil(t, host, "GAME_CREATED")
	var createdPayload struct {
		Pin string `json:"pin"`
	}
	require.NoError(t, json.Unmarshal(created.Payload, &createdPayload))

	sendFrame(t, player, "JOIN_GAME", map[string]string{"pin": createdPayload.Pin, "username": "Ana"})
	readUntil(t, player, "JOIN_SUCCESS")

	require.NoError(t, host.Close())

	evt := readUntil(t, player, "ERROR")
	assert.Contains(t, string(evt.Payload), "host disconnected")

	require.Eventually(t, func() bool {
		_, err := registry.Get(createdPayload.Pin)
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)
}
