// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/guessjam/session"
)

// Broadcaster fans messages out to connected clients.
type Broadcaster interface {
	BroadcastToMatch(matchID string, msgID uint16, data []byte) error
	BroadcastToAll(msgID uint16, data []byte) error
}

// MatchBroadcaster delivers to every session bound to a match. A match with
// no connected clients is not an error; the engine keeps running and clients
// catch up from the next state sync.
type MatchBroadcaster struct {
	sessionManager *session.Manager
}

func NewMatchBroadcaster(sessionManager *session.Manager) *MatchBroadcaster {
	return &MatchBroadcaster{sessionManager: sessionManager}
}

func (b *MatchBroadcaster) BroadcastToMatch(matchID string, msgID uint16, data []byte) error {
	for _, s := range b.sessionManager.GetByMatch(matchID) {
		if err := s.Send(msgID, data); err != nil {
			// A dead connection is cleaned up by its own read loop.
			continue
		}
	}
	return nil
}

func (b *MatchBroadcaster) BroadcastToAll(msgID uint16, data []byte) error {
	for _, s := range b.sessionManager.All() {
		if err := s.Send(msgID, data); err != nil {
			continue
		}
	}
	return nil
}
