package match

import (
	"time"
)

// Broadcaster pushes state syncs to a match's connected clients. Defined
// here to keep the match package off the broadcast package's dependencies.
type Broadcaster interface {
	BroadcastToMatch(matchID string, msgID uint16, data []byte) error
}

// Recorder is the slice of the monitoring layer the engine reports into.
// All implementations must tolerate being nil-checked by the caller.
type Recorder interface {
	IncActions()
	ObserveActionLatency(duration time.Duration)
	IncSnippetsPlayed()
	IncMatchesCompleted()
}
