// persistence/memory.go
package persistence

import (
	"sync"

	"github.com/wfunc/guessjam/models"
)

// MemoryStore keeps snapshots in process memory. Used when no database is
// configured and by tests; a crash loses the snapshots, which simply means
// hosts start fresh.
type MemoryStore struct {
	snapshots map[string][]byte
	records   []*models.MatchRecord
	mutex     sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string][]byte),
	}
}

func (m *MemoryStore) SaveSnapshot(matchID string, blob []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	stored := make([]byte, len(blob))
	copy(stored, blob)
	m.snapshots[matchID] = stored
	return nil
}

func (m *MemoryStore) LoadSnapshot(matchID string) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	blob, exists := m.snapshots[matchID]
	if !exists {
		return nil, ErrSnapshotNotFound
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (m *MemoryStore) ClearSnapshot(matchID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.snapshots, matchID)
	return nil
}

func (m *MemoryStore) SaveMatchRecord(record *models.MatchRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.records = append(m.records, record)
	return nil
}

// MatchRecords returns the records saved so far; test helper.
func (m *MemoryStore) MatchRecords() []*models.MatchRecord {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]*models.MatchRecord, len(m.records))
	copy(out, m.records)
	return out
}

func (m *MemoryStore) Close() error {
	return nil
}
