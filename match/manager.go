// match/manager.go
package match

import (
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/wfunc/guessjam/game"
	"github.com/wfunc/guessjam/persistence"
	"github.com/wfunc/guessjam/playback"
)

// Manager tracks all live matches and owns the shared engine dependencies.
type Manager struct {
	rules       game.Rules
	clock       clockwork.Clock
	store       persistence.Store
	broadcaster Broadcaster
	recorder    Recorder

	matches map[string]*Match
	mutex   sync.RWMutex
}

func NewManager(rules game.Rules, clock clockwork.Clock, store persistence.Store,
	broadcaster Broadcaster, recorder Recorder) *Manager {
	return &Manager{
		rules:       rules,
		clock:       clock,
		store:       store,
		broadcaster: broadcaster,
		recorder:    recorder,
		matches:     make(map[string]*Match),
	}
}

// CreateMatch starts a new match engine. Creating an ID that already exists
// returns the existing match, so a reconnecting host resumes instead of
// resetting.
func (m *Manager) CreateMatch(id string) *Match {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if existing, exists := m.matches[id]; exists {
		return existing
	}

	ctl := playback.NewRemote(id, m.broadcaster)
	created := NewMatch(id, m.rules, m.clock, m.store, m.broadcaster, ctl, m.recorder)
	m.matches[id] = created
	return created
}

func (m *Manager) GetMatch(id string) (*Match, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	mt, exists := m.matches[id]
	return mt, exists
}

// RemoveMatch closes the engine and forgets it. The persisted snapshot is
// left in place so the match can be resumed later under the same ID.
func (m *Manager) RemoveMatch(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if mt, exists := m.matches[id]; exists {
		mt.Close()
		delete(m.matches, id)
	}
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.matches)
}

// MatchIDs lists the live match IDs; used by the ops RPC surface.
func (m *Manager) MatchIDs() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	ids := make([]string, 0, len(m.matches))
	for id := range m.matches {
		ids = append(ids, id)
	}
	return ids
}
