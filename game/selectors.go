// game/selectors.go
package game

// CurrentSong returns the song for the live round, or nil when no round is
// active.
func CurrentSong(s State) *Song {
	if s.Round == nil {
		return nil
	}
	if s.Round.SongIndex < 0 || s.Round.SongIndex >= len(s.Songs) {
		return nil
	}
	song := s.Songs[s.Round.SongIndex]
	return &song
}

// TeamByID returns the team with the given id, or nil.
func TeamByID(s State, id string) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			team := s.Teams[i]
			return &team
		}
	}
	return nil
}

// TeamsAvailableToGuess returns the teams that have not yet attempted the
// live round.
func TeamsAvailableToGuess(s State) []Team {
	if s.Round == nil {
		return nil
	}
	attempted := make(map[string]bool, len(s.Round.TeamsAttempted))
	for _, id := range s.Round.TeamsAttempted {
		attempted[id] = true
	}
	var out []Team
	for _, t := range s.Teams {
		if !attempted[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// AllTeamsAttempted reports whether every team has attempted (and failed)
// the live round.
func AllTeamsAttempted(s State) bool {
	if s.Round == nil {
		return false
	}
	return len(s.Round.TeamsAttempted) >= len(s.Teams)
}

// AllSongsUsed reports whether the playlist is exhausted.
func AllSongsUsed(s State) bool {
	return s.CurrentRoundIndex >= len(s.Songs)
}

// Leader returns the team with the highest score, ties resolved to the first
// team in roster order. Nil when there are no teams.
func Leader(s State) *Team {
	if len(s.Teams) == 0 {
		return nil
	}
	best := s.Teams[0]
	for _, t := range s.Teams[1:] {
		if t.Score > best.Score {
			best = t
		}
	}
	return &best
}
