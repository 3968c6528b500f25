// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/guessjam/network"
)

// Session is one connected client. The first session to create a match acts
// as its host; later joiners are spectating player surfaces.
type Session struct {
	ID         string
	Conn       network.Connection
	MatchID    string
	IsHost     bool
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) Send(msgID uint16, data []byte) error {
	s.LastActive = time.Now()
	return s.Conn.Send(msgID, data)
}

func (s *Session) GetID() string {
	return s.ID
}

// JoinMatch binds the session to a match.
func (s *Session) JoinMatch(matchID string, host bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.MatchID = matchID
	s.IsHost = host
}

// LeaveMatch unbinds the session from its match.
func (s *Session) LeaveMatch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.MatchID = ""
	s.IsHost = false
}

// GetMatchID returns the match the session is bound to, if any.
func (s *Session) GetMatchID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.MatchID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks all live sessions.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

// GetByMatch returns all sessions bound to the given match.
func (m *Manager) GetByMatch(matchID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.GetMatchID() == matchID {
			result = append(result, session)
		}
	}
	return result
}

// All returns every live session.
func (m *Manager) All() []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
