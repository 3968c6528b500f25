// game/reconcile.go
package game

import (
	"encoding/json"
)

// roundPhases are the phases during which a round must be live.
var roundPhases = map[Phase]bool{
	PhasePlaying:     true,
	PhaseGuessing:    true,
	PhaseRoundResult: true,
}

// Reconcile parses a persisted snapshot and normalizes it into a state the
// engine can safely resume. It returns nil when there is nothing to restore:
// an absent, unparseable, or invariant-violating snapshot always degrades to
// "start fresh", never to an error.
//
// Phase coercion on restore:
//   - playing  -> guessing: no snippet is in flight after a reload, so the
//     host replays manually instead of trusting a stale auto-play.
//   - countdown: the remaining value is reset to the full configured
//     duration, a half-elapsed countdown has no resumption point.
//   - everything else is restored verbatim.
func Reconcile(blob []byte, r Rules) *State {
	if len(blob) == 0 {
		return nil
	}
	var s State
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil
	}
	if !validState(s, r) {
		return nil
	}
	switch s.Phase {
	case PhasePlaying:
		s.Phase = PhaseGuessing
	case PhaseCountdown:
		s.CountdownRemaining = r.CountdownSeconds
	}
	return &s
}

// validState checks the structural invariants a snapshot must satisfy before
// the engine will accept it.
func validState(s State, r Rules) bool {
	switch s.Phase {
	case PhaseSetup, PhaseCountdown, PhasePlaying, PhaseGuessing, PhaseRoundResult, PhaseGameOver:
	default:
		return false
	}
	if (s.Round != nil) != roundPhases[s.Phase] {
		return false
	}
	if !ValidPlaybackDuration(s.PlaybackDuration) {
		return false
	}
	if s.CountdownRemaining < 0 {
		return false
	}
	teamIDs := make(map[string]bool, len(s.Teams))
	for _, t := range s.Teams {
		if t.ID == "" || t.Score < 0 || teamIDs[t.ID] {
			return false
		}
		teamIDs[t.ID] = true
	}
	if s.Phase != PhaseSetup {
		if s.CurrentRoundIndex < 0 || s.CurrentRoundIndex >= len(s.Songs) {
			return false
		}
		if len(s.Teams) == 0 {
			return false
		}
	}
	if (s.WinnerID != "") != (s.Phase == PhaseGameOver) {
		return false
	}
	if s.WinnerID != "" && !teamIDs[s.WinnerID] {
		return false
	}
	if s.Round != nil {
		if s.Round.SongIndex != s.CurrentRoundIndex {
			return false
		}
		seen := make(map[string]bool, len(s.Round.TeamsAttempted))
		for _, id := range s.Round.TeamsAttempted {
			if !teamIDs[id] || seen[id] {
				return false
			}
			seen[id] = true
		}
		if len(s.Round.TeamsAttempted) > len(s.Teams) {
			return false
		}
		if s.Round.AnsweringTeamID != "" {
			if !teamIDs[s.Round.AnsweringTeamID] || seen[s.Round.AnsweringTeamID] {
				return false
			}
		}
	}
	return true
}
