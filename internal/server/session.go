package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// liveSession is one open editor connection.
type liveSession struct {
	ID      string
	Created time.Time
	conn    *websocket.Conn
}

func newLiveSession(conn *websocket.Conn) *liveSession {
	return &liveSession{ID: uuid.NewString(), Created: time.Now(), conn: conn}
}

// registry tracks open sessions so shutdown can close them.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*liveSession
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*liveSession)}
}

func (r *registry) add(s *liveSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// closeAll sends a close frame to every session. Their read loops then end
// and remove them.
func (r *registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, s := range r.sessions {
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, deadline)
	}
}
