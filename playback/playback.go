// playback/playback.go
package playback

import (
	"encoding/json"

	"github.com/wfunc/guessjam/network"
)

// Embed-restriction error codes reported by the client's player surface.
const (
	ErrCodeEmbedBlocked       = 101
	ErrCodeEmbedBlockedOrigin = 150
)

// IsEmbedBlocked reports whether a playback error code means the song cannot
// be played at all and the round should be skipped.
func IsEmbedBlocked(code int) bool {
	return code == ErrCodeEmbedBlocked || code == ErrCodeEmbedBlockedOrigin
}

// Controller drives the snippet playback surface for one match. The engine
// only issues commands; completion and failure come back as events through
// the server's message loop.
type Controller interface {
	Play(songID string, durationSeconds int) error
	Stop() error
	Resume() error
}

// Broadcaster is the slice of the broadcast layer the remote controller
// needs.
type Broadcaster interface {
	BroadcastToMatch(matchID string, msgID uint16, data []byte) error
}

// PlayCommand is the payload of a play-snippet command.
type PlayCommand struct {
	SongID          string `json:"song_id"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Remote forwards playback commands to the match's connected clients, where
// the hidden player widget executes them.
type Remote struct {
	matchID     string
	broadcaster Broadcaster
}

func NewRemote(matchID string, broadcaster Broadcaster) *Remote {
	return &Remote{
		matchID:     matchID,
		broadcaster: broadcaster,
	}
}

func (r *Remote) Play(songID string, durationSeconds int) error {
	data, err := json.Marshal(PlayCommand{
		SongID:          songID,
		DurationSeconds: durationSeconds,
	})
	if err != nil {
		return err
	}
	return r.broadcaster.BroadcastToMatch(r.matchID, network.MsgTypePlaySnippet, data)
}

func (r *Remote) Stop() error {
	return r.broadcaster.BroadcastToMatch(r.matchID, network.MsgTypeStopSnippet, nil)
}

func (r *Remote) Resume() error {
	return r.broadcaster.BroadcastToMatch(r.matchID, network.MsgTypeResumeSnippet, nil)
}
