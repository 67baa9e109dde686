package game

import (
	"log"
	"sync"
)

// Registry owns the pin → session table. It is the only resource shared
// across sessions: lookups run concurrently, insert and remove are exclusive.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// OnFinished, when set, is invoked (on its own goroutine) with the final
	// standings every time a game completes.
	OnFinished func(pin string, final []RankEntry)

	// generatePin is swappable for tests.
	generatePin func() string
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		generatePin: GeneratePin,
	}
}

// Create allocates a fresh pin, retrying on collision with live sessions, and
// inserts a new lobby session for the quiz.
func (r *Registry) Create(quiz *Quiz, host Conn, settings Settings) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pin string
	for {
		pin = r.generatePin()
		if _, taken := r.sessions[pin]; !taken {
			break
		}
	}

	s := newSession(pin, quiz, host, settings, r)
	r.sessions[pin] = s
	log.Printf("game %s: created", pin)
	return s
}

// Get resolves a pin to its live session.
func (r *Registry) Get(pin string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[pin]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// Remove releases a pin. Removing an already-removed pin is a no-op so the
// teardown path tolerates racing timers.
func (r *Registry) Remove(pin string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[pin]; ok {
		delete(r.sessions, pin)
		log.Printf("game %s: pin released", pin)
	}
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
