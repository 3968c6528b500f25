// game/reducer.go
package game

import (
	"math/rand"
	"strings"
)

// shuffleSongs returns a uniformly shuffled copy of songs. Swappable so tests
// can pin the permutation.
var shuffleSongs = func(songs []Song) []Song {
	out := make([]Song, len(songs))
	copy(out, songs)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func newRound(songIndex int) *Round {
	return &Round{
		SongIndex:      songIndex,
		TeamsAttempted: []string{},
	}
}

func cloneTeams(teams []Team) []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

func cloneRound(r *Round) *Round {
	if r == nil {
		return nil
	}
	attempted := make([]string, len(r.TeamsAttempted))
	copy(attempted, r.TeamsAttempted)
	c := *r
	c.TeamsAttempted = attempted
	return &c
}

// ValidateTeamName checks a proposed team name against the rules and the
// current roster. The returned string is a host-visible rejection reason,
// empty when the name is acceptable.
func ValidateTeamName(r Rules, s State, name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "team name must not be empty"
	}
	if len(trimmed) > r.MaxTeamNameLength {
		return "team name is too long"
	}
	if len(s.Teams) >= r.MaxTeams {
		return "maximum number of teams reached"
	}
	for _, t := range s.Teams {
		if strings.EqualFold(t.Name, trimmed) {
			return "a team with that name already exists"
		}
	}
	return ""
}

// Reduce is the pure transition function of the match state machine. Actions
// whose preconditions are not met return the input state unchanged; out of
// order events from timers, playback, or the UI are expected and absorbed.
func Reduce(r Rules, s State, a Action) State {
	switch a.Type {
	case ActionSetPlaylist:
		// Outside setup the playlist may only grow past the current round,
		// otherwise the round index would dangle.
		if s.Phase != PhaseSetup && len(a.Songs) <= s.CurrentRoundIndex {
			return s
		}
		songs := make([]Song, len(a.Songs))
		copy(songs, a.Songs)
		s.Songs = songs
		return s

	case ActionAddTeam:
		if a.Team == nil || a.Team.ID == "" {
			return s
		}
		if ValidateTeamName(r, s, a.Team.Name) != "" {
			return s
		}
		for _, t := range s.Teams {
			if t.ID == a.Team.ID {
				return s
			}
		}
		team := *a.Team
		team.Name = strings.TrimSpace(team.Name)
		team.Score = 0
		s.Teams = append(cloneTeams(s.Teams), team)
		return s

	case ActionRemoveTeam:
		// Teams are never removed once the match has started.
		if s.Phase != PhaseSetup {
			return s
		}
		teams := make([]Team, 0, len(s.Teams))
		found := false
		for _, t := range s.Teams {
			if t.ID == a.TeamID {
				found = true
				continue
			}
			teams = append(teams, t)
		}
		if !found {
			return s
		}
		s.Teams = teams
		return s

	case ActionSetPlaybackDuration:
		if !ValidPlaybackDuration(a.Duration) {
			return s
		}
		s.PlaybackDuration = a.Duration
		return s

	case ActionStartGame:
		if len(s.Songs) < r.MinSongs || len(s.Teams) < 1 {
			return s
		}
		teams := cloneTeams(s.Teams)
		for i := range teams {
			teams[i].Score = 0
		}
		s.Phase = PhaseCountdown
		s.Teams = teams
		s.Songs = shuffleSongs(s.Songs)
		s.CurrentRoundIndex = 0
		s.Round = nil
		s.CountdownRemaining = r.CountdownSeconds
		s.WinnerID = ""
		return s

	case ActionCountdownTick:
		if s.Phase != PhaseCountdown {
			return s
		}
		if s.CountdownRemaining > 0 {
			s.CountdownRemaining--
		}
		return s

	case ActionCountdownEnd:
		if s.Phase != PhaseCountdown {
			return s
		}
		s.Phase = PhasePlaying
		s.Round = newRound(s.CurrentRoundIndex)
		return s

	case ActionPlaybackEnded:
		// Only meaningful while a round is live and unresolved; a stale
		// snippet-end after the reveal must not reopen guessing.
		if s.Phase != PhasePlaying && s.Phase != PhaseGuessing {
			return s
		}
		s.Phase = PhaseGuessing
		return s

	case ActionSelectAnsweringTeam:
		if s.Phase != PhaseGuessing || s.Round == nil {
			return s
		}
		if TeamByID(s, a.TeamID) == nil {
			return s
		}
		for _, id := range s.Round.TeamsAttempted {
			if id == a.TeamID {
				return s
			}
		}
		round := cloneRound(s.Round)
		round.AnsweringTeamID = a.TeamID
		s.Round = round
		return s

	case ActionMarkCorrect:
		if s.Phase != PhaseGuessing || s.Round == nil || s.Round.AnsweringTeamID == "" {
			return s
		}
		scoringID := s.Round.AnsweringTeamID
		teams := cloneTeams(s.Teams)
		won := false
		for i := range teams {
			if teams[i].ID == scoringID {
				teams[i].Score++
				won = teams[i].Score >= r.WinScore
			}
		}
		s.Teams = teams
		if won {
			s.Phase = PhaseGameOver
			s.WinnerID = scoringID
			s.Round = nil
			return s
		}
		round := cloneRound(s.Round)
		round.Revealed = true
		s.Phase = PhaseRoundResult
		s.Round = round
		return s

	case ActionMarkIncorrect:
		if s.Phase != PhaseGuessing || s.Round == nil || s.Round.AnsweringTeamID == "" {
			return s
		}
		round := cloneRound(s.Round)
		round.TeamsAttempted = append(round.TeamsAttempted, round.AnsweringTeamID)
		round.AnsweringTeamID = ""
		s.Round = round
		if len(round.TeamsAttempted) >= len(s.Teams) {
			round.Revealed = true
			s.Phase = PhaseRoundResult
		}
		return s

	case ActionRevealAnswer:
		if s.Round == nil {
			return s
		}
		round := cloneRound(s.Round)
		round.Revealed = true
		s.Round = round
		return s

	case ActionNextRound:
		if s.Round == nil || len(s.Teams) == 0 {
			return s
		}
		next := s.CurrentRoundIndex + 1
		if next >= len(s.Songs) {
			best := s.Teams[0]
			for _, t := range s.Teams[1:] {
				if t.Score > best.Score {
					best = t
				}
			}
			s.Phase = PhaseGameOver
			s.WinnerID = best.ID
			s.Round = nil
			return s
		}
		s.Phase = PhasePlaying
		s.CurrentRoundIndex = next
		s.Round = newRound(next)
		return s

	case ActionResetGame:
		return InitialState(r)

	case ActionRestoreState:
		if a.Snapshot == nil || !validState(*a.Snapshot, r) {
			return s
		}
		restored := *a.Snapshot
		restored.Teams = cloneTeams(restored.Teams)
		restored.Round = cloneRound(restored.Round)
		return restored

	default:
		return s
	}
}
