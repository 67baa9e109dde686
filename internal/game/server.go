package game

import (
	"errors"
	"log"
	"sync"
)

// Server wires inbound frames to session transitions. It owns the registry
// and the connection → pin bindings; everything per-session lives inside the
// session itself.
type Server struct {
	registry *Registry
	settings Settings

	mu       sync.Mutex
	bindings map[Conn]string
}

func NewServer(registry *Registry, settings Settings) *Server {
	return &Server{
		registry: registry,
		settings: settings,
		bindings: make(map[Conn]string),
	}
}

func (srv *Server) Registry() *Registry { return srv.registry }

// HandleMessage decodes one inbound frame and dispatches it. Unknown command
// types are ignored; everything else that goes wrong is reported to the
// offending connection only.
func (srv *Server) HandleMessage(conn Conn, data []byte) {
	cmd, err := ParseCommand(data)
	if err != nil {
		if errors.Is(err, ErrUnknownCommand) {
			log.Printf("game server: ignoring frame: %v", err)
			return
		}
		log.Printf("game server: bad frame: %v", err)
		conn.Send(errorEvent("server error"))
		return
	}

	switch c := cmd.(type) {
	case *CreateGame:
		srv.handleCreate(conn, c)
	case *JoinGame:
		srv.handleJoin(conn, c)
	case *StartGame:
		srv.reply(conn, srv.withSession(c.Pin, func(s *Session) error {
			return s.Start(conn)
		}))
	case *SubmitAnswer:
		srv.reply(conn, srv.withSession(c.Pin, func(s *Session) error {
			s.SubmitAnswer(conn, c.QuestionIndex, c.Answer, c.TimeMs)
			return nil
		}))
	case *NextQuestion:
		srv.reply(conn, srv.withSession(c.Pin, func(s *Session) error {
			return s.NextQuestion(conn)
		}))
	case *EndGame:
		err := srv.withSession(c.Pin, func(s *Session) error {
			return s.End(conn)
		})
		srv.reply(conn, err)
	}
}

// HandleDisconnect routes a dropped connection to its bound session, if any.
func (srv *Server) HandleDisconnect(conn Conn) {
	pin, ok := srv.binding(conn)
	if !ok {
		return
	}
	srv.unbind(conn)

	s, err := srv.registry.Get(pin)
	if err != nil {
		return
	}
	s.Disconnect(conn)
}

func (srv *Server) handleCreate(conn Conn, c *CreateGame) {
	if srv.bound(conn) {
		conn.Send(errorEvent("connection already in a game"))
		return
	}
	quiz := c.Quiz
	if err := quiz.Validate(); err != nil {
		srv.reply(conn, err)
		return
	}

	s := srv.registry.Create(&quiz, conn, srv.settings)
	srv.bind(conn, s.Pin())
	conn.Send(gameCreatedEvent(s.Pin()))
}

func (srv *Server) handleJoin(conn Conn, c *JoinGame) {
	if srv.bound(conn) {
		conn.Send(errorEvent("connection already in a game"))
		return
	}
	if c.Username == "" {
		srv.reply(conn, ErrInvalidPayload)
		return
	}

	err := srv.withSession(c.Pin, func(s *Session) error {
		if err := s.Join(conn, c.Username); err != nil {
			return err
		}
		srv.bind(conn, c.Pin)
		return nil
	})
	srv.reply(conn, err)
}

func (srv *Server) withSession(pin string, fn func(*Session) error) error {
	s, err := srv.registry.Get(pin)
	if err != nil {
		return err
	}
	return fn(s)
}

// reply reports a failed transition to the issuing connection. Successful and
// no-op transitions stay silent.
func (srv *Server) reply(conn Conn, err error) {
	if err == nil {
		return
	}
	conn.Send(errorEvent(err.Error()))
}

func (srv *Server) bind(conn Conn, pin string) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.bindings[conn] = pin
}

func (srv *Server) unbind(conn Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	delete(srv.bindings, conn)
}

func (srv *Server) binding(conn Conn) (string, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	pin, ok := srv.bindings[conn]
	return pin, ok
}

// bound reports whether conn still belongs to a live session. Bindings whose
// session is gone (host disconnect, retention expiry) are cleared lazily so a
// connection can create or join again.
func (srv *Server) bound(conn Conn) bool {
	pin, ok := srv.binding(conn)
	if !ok {
		return false
	}
	s, err := srv.registry.Get(pin)
	if err != nil || !s.Contains(conn) {
		srv.unbind(conn)
		return false
	}
	return true
}
