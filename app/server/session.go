package server

import (
	"sync"
	"time"

	"mindline/app/service/history"
	"mindline/app/service/router"
)

const (
	sessionTTL    = time.Hour
	sweepInterval = 10 * time.Minute
)

// session owns one conversation. Its mutex serializes turns, so slot filling
// always sees fields in order; independent sessions run concurrently.
type session struct {
	mu         sync.Mutex
	state      router.State
	window     history.Window
	lastActive time.Time
}

type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*session),
	}
}

func (r *sessionRegistry) getOrCreate(id string) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[id]; ok {
		return sess
	}

	sess := &session{lastActive: time.Now()}
	r.sessions[id] = sess

	return sess
}

func (r *sessionRegistry) get(id string) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	return sess, ok
}

// sweep drops sessions idle for longer than sessionTTL.
func (r *sessionRegistry) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-sessionTTL)
	removed := 0

	for id, sess := range r.sessions {
		sess.mu.Lock()
		idle := sess.lastActive.Before(cutoff)
		sess.mu.Unlock()

		if idle {
			delete(r.sessions, id)
			removed++
		}
	}

	return removed
}
