package game

import (
	"log"
	"sort"
	"sync"
	"time"
)

// Conn is the transport-side handle for one participant. Send must not block;
// the websocket layer queues onto a buffered channel.
type Conn interface {
	Send(e Event)
}

// Session lifecycle states.
type State string

const (
	StateLobby      State = "LOBBY"
	StateInProgress State = "IN_PROGRESS"
	StateFinished   State = "FINISHED"
)

// Within IN_PROGRESS a session is either collecting answers for the current
// question or showing its results.
type phase int

const (
	phaseAnswering phase = iota
	phaseResults
)

// AnswerRecord captures a player's submission for one question. Created once,
// immutable afterwards.
type AnswerRecord struct {
	Answer    int  `json:"answer"`
	IsCorrect bool `json:"isCorrect"`
	Points    int  `json:"points"`
	TimeMs    int  `json:"timeMs"`
}

type participant struct {
	conn   Conn
	name   string
	isHost bool
}

// Session is the state machine for one live game. All mutation goes through
// the exported transition methods, which serialize on the session mutex.
// Commands for different sessions run fully in parallel.
type Session struct {
	mu sync.Mutex

	pin      string
	quiz     *Quiz
	settings Settings
	reg      *Registry

	state   State
	phase   phase
	current int
	roster  []*participant
	scores  map[string]int
	answers map[int]map[string]*AnswerRecord

	// At most one pending timer exists at any instant: the answer window,
	// the results delay, or the post-game retention window. Arming a new one
	// always supersedes the old.
	timer *time.Timer
}

func newSession(pin string, quiz *Quiz, host Conn, settings Settings, reg *Registry) *Session {
	quiz.Normalize(settings.DefaultTimeLimit)
	return &Session{
		pin:      pin,
		quiz:     quiz,
		settings: settings,
		reg:      reg,
		state:    StateLobby,
		current:  -1,
		roster:   []*participant{{conn: host, name: "Host", isHost: true}},
		scores:   make(map[string]int),
		answers:  make(map[int]map[string]*AnswerRecord),
	}
}

func (s *Session) Pin() string { return s.pin }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Contains reports whether conn is part of the session's roster.
func (s *Session) Contains(conn Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(conn) != nil
}

// Join adds a player to the lobby and broadcasts the updated player list.
func (s *Session) Join(conn Conn, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLobby {
		return ErrGameAlreadyStarted
	}
	for _, p := range s.roster {
		if p.name == username {
			return ErrNameTaken
		}
	}

	s.roster = append(s.roster, &participant{conn: conn, name: username})
	s.scores[username] = 0

	conn.Send(joinSuccessEvent(s.pin, username))
	s.broadcast(playerJoinedEvent(s.playerNames()))
	log.Printf("game %s: %s joined (%d players)", s.pin, username, len(s.roster)-1)
	return nil
}

// Start begins the game. Host only; a start on a non-lobby session is ignored.
func (s *Session) Start(conn Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(conn)
	if p == nil || !p.isHost {
		return ErrUnauthorized
	}
	if s.state != StateLobby {
		return nil
	}

	s.state = StateInProgress
	log.Printf("game %s: started with %d players", s.pin, len(s.roster)-1)
	s.beginQuestion(0, evtGameStarted)
	return nil
}

// SubmitAnswer records a player's answer for the current question. Index
// mismatches and duplicate submissions are idempotent no-ops; they never
// error the connection.
func (s *Session) SubmitAnswer(conn Conn, questionIndex, answer, timeMs int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(conn)
	if p == nil || p.isHost {
		return
	}
	if s.state != StateInProgress || s.phase != phaseAnswering || questionIndex != s.current {
		return
	}
	if _, answered := s.answers[s.current][p.name]; answered {
		return
	}

	question := s.quiz.Questions[s.current]
	correct := answer >= 0 && answer < len(question.Options) && answer == question.CorrectAnswer
	points := Score(correct, timeMs, question.TimeLimit)

	s.answers[s.current][p.name] = &AnswerRecord{
		Answer:    answer,
		IsCorrect: correct,
		Points:    points,
		TimeMs:    timeMs,
	}
	s.scores[p.name] += points
	s.sendToHost(answerReceivedEvent(p.name))
	log.Printf("game %s: %s answered question %d", s.pin, p.name, questionIndex)

	if s.allAnswered() {
		s.showResults()
	}
}

// NextQuestion is the host's manual driver. During the answer window it cuts
// the question short; during results it advances immediately. Either way the
// pending timer is cancelled, so a racing expiry can't fire the same
// transition twice.
func (s *Session) NextQuestion(conn Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(conn)
	if p == nil || !p.isHost {
		return ErrUnauthorized
	}
	if s.state != StateInProgress {
		return nil
	}

	switch s.phase {
	case phaseAnswering:
		s.showResults()
	case phaseResults:
		s.advance()
	}
	return nil
}

// End tears the session down on the host's explicit request, broadcasting the
// standings accumulated so far.
func (s *Session) End(conn Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(conn)
	if p == nil || !p.isHost {
		return ErrUnauthorized
	}
	if s.state == StateFinished {
		return nil
	}

	s.broadcast(gameEndEvent(s.leaderboard()))
	s.teardown()
	log.Printf("game %s: ended by host", s.pin)
	return nil
}

// Disconnect handles a participant's connection going away. A host disconnect
// is fatal to the whole session; a player disconnect just shrinks the roster
// (and may complete the current answer window).
func (s *Session) Disconnect(conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(conn)
	if p == nil {
		return
	}

	if p.isHost {
		if s.state != StateFinished {
			s.broadcast(errorEvent("host disconnected"))
		}
		s.teardown()
		log.Printf("game %s: host disconnected, session closed", s.pin)
		return
	}

	for i, other := range s.roster {
		if other == p {
			s.roster = append(s.roster[:i], s.roster[i+1:]...)
			break
		}
	}
	delete(s.scores, p.name)
	s.broadcast(playerJoinedEvent(s.playerNames()))
	log.Printf("game %s: %s disconnected (%d players left)", s.pin, p.name, len(s.roster)-1)

	// The denominator of the all-answered check just shrank.
	if s.state == StateInProgress && s.phase == phaseAnswering && s.allAnswered() {
		s.showResults()
	}
}

// beginQuestion opens the answer window for question index and arms its
// expiry timer. Caller holds the lock.
func (s *Session) beginQuestion(index int, eventType string) {
	s.current = index
	s.phase = phaseAnswering
	s.answers[index] = make(map[string]*AnswerRecord)

	question := s.quiz.Questions[index]
	total := len(s.quiz.Questions)
	hostEvent := questionEvent(eventType, question.View(true), index, total)
	playerEvent := questionEvent(eventType, question.View(false), index, total)
	for _, p := range s.roster {
		if p.isHost {
			p.conn.Send(hostEvent)
		} else {
			p.conn.Send(playerEvent)
		}
	}

	window := time.Duration(question.TimeLimit)*time.Second + s.settings.AnswerGrace
	s.armTimer(window, func() { s.answerWindowExpired(index) })
}

// answerWindowExpired is the timer path into showResults. The index and phase
// checks make it a no-op if all-answered (or a host cutoff) won the race while
// this callback waited on the lock.
func (s *Session) answerWindowExpired(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress || s.phase != phaseAnswering || s.current != index {
		return
	}
	log.Printf("game %s: time expired on question %d", s.pin, index)
	s.showResults()
}

// showResults computes and broadcasts the results of the current question
// exactly once, then hands off to the configured advance driver. Caller holds
// the lock and has verified phase == phaseAnswering.
func (s *Session) showResults() {
	s.stopTimer()
	s.phase = phaseResults

	question := s.quiz.Questions[s.current]
	records := s.answers[s.current]

	stats := make([]int, len(question.Options))
	for _, rec := range records {
		if rec.Answer >= 0 && rec.Answer < len(stats) {
			stats[rec.Answer]++
		}
	}

	points := make(map[string]int)
	for _, p := range s.roster {
		if p.isHost {
			continue
		}
		if rec, ok := records[p.name]; ok {
			points[p.name] = rec.Points
		} else {
			points[p.name] = 0
		}
	}

	scores := make(map[string]int, len(s.scores))
	for name, score := range s.scores {
		scores[name] = score
	}

	s.broadcast(questionEndEvent(question.CorrectAnswer, scores, stats, points))

	if s.settings.AdvanceMode == AdvanceAuto {
		index := s.current
		s.armTimer(s.settings.ResultsDelay, func() { s.advanceAfterResults(index) })
	}
}

// advanceAfterResults is the auto-advance timer path. Stale fires (the host
// advanced manually first, or the session ended) are benign no-ops.
func (s *Session) advanceAfterResults(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress || s.phase != phaseResults || s.current != index {
		return
	}
	s.advance()
}

// advance moves to the next question or finishes the game. Caller holds the
// lock and has verified phase == phaseResults.
func (s *Session) advance() {
	s.stopTimer()

	next := s.current + 1
	if next >= len(s.quiz.Questions) {
		s.finish()
		return
	}
	s.beginQuestion(next, evtQuestionStart)
}

// finish transitions to FINISHED, broadcasts the final leaderboard, and keeps
// the session resolvable for the retention window before releasing the pin.
func (s *Session) finish() {
	s.state = StateFinished
	final := s.leaderboard()
	s.broadcast(gameEndEvent(final))
	log.Printf("game %s: finished", s.pin)

	if s.reg != nil {
		if fn := s.reg.OnFinished; fn != nil {
			go fn(s.pin, final)
		}
		pin := s.pin
		reg := s.reg
		s.armTimer(s.settings.Retention, func() { reg.Remove(pin) })
	}
}

// leaderboard ranks players by descending score; ties keep roster join order.
// Caller holds the lock.
func (s *Session) leaderboard() []RankEntry {
	entries := make([]RankEntry, 0, len(s.roster))
	for _, p := range s.roster {
		if p.isHost {
			continue
		}
		entries = append(entries, RankEntry{Username: p.name, Score: s.scores[p.name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// teardown cancels any pending timer synchronously and releases the pin so no
// stale timer can fire against a removed session.
func (s *Session) teardown() {
	s.stopTimer()
	s.state = StateFinished
	if s.reg != nil {
		s.reg.Remove(s.pin)
	}
}

func (s *Session) armTimer(d time.Duration, fn func()) {
	s.stopTimer()
	s.timer = time.AfterFunc(d, fn)
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) find(conn Conn) *participant {
	for _, p := range s.roster {
		if p.conn == conn {
			return p
		}
	}
	return nil
}

func (s *Session) allAnswered() bool {
	players := 0
	for _, p := range s.roster {
		if !p.isHost {
			players++
		}
	}
	return players > 0 && len(s.answers[s.current]) == players
}

func (s *Session) playerNames() []string {
	names := make([]string, 0, len(s.roster))
	for _, p := range s.roster {
		if !p.isHost {
			names = append(names, p.name)
		}
	}
	return names
}

func (s *Session) broadcast(e Event) {
	for _, p := range s.roster {
		p.conn.Send(e)
	}
}

func (s *Session) sendToHost(e Event) {
	for _, p := range s.roster {
		if p.isHost {
			p.conn.Send(e)
		}
	}
}
