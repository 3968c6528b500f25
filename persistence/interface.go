// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/guessjam/models"
)

// Store persists one opaque state snapshot per match plus the completed
// match records. Callers treat load failures as "nothing to restore" and
// save failures as non-fatal.
type Store interface {
	SaveSnapshot(matchID string, blob []byte) error
	LoadSnapshot(matchID string) ([]byte, error)
	ClearSnapshot(matchID string) error
	SaveMatchRecord(record *models.MatchRecord) error
	Close() error
}

var (
	ErrSnapshotNotFound = fmt.Errorf("snapshot not found")
)
