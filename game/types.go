// game/types.go
package game

// Phase is the coarse stage of a match.
type Phase string

const (
	PhaseSetup       Phase = "setup"
	PhaseCountdown   Phase = "countdown"
	PhasePlaying     Phase = "playing"
	PhaseGuessing    Phase = "guessing"
	PhaseRoundResult Phase = "round-result"
	PhaseGameOver    Phase = "game-over"
)

// Team is one scoring unit. Created by the host during setup, never removed
// once the match starts.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Song is one playable entry of the match playlist. The playlist is shuffled
// once at START_GAME and never re-ordered afterwards.
type Song struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
}

// Round is the guessing contest for a single song.
type Round struct {
	SongIndex       int      `json:"song_index"`
	AnsweringTeamID string   `json:"answering_team_id,omitempty"`
	TeamsAttempted  []string `json:"teams_attempted"`
	Revealed        bool     `json:"revealed"`
}

// State is the full match state. It evolves only through Reduce, by
// structural replacement, never in-place mutation.
type State struct {
	Phase              Phase  `json:"phase"`
	Teams              []Team `json:"teams"`
	Songs              []Song `json:"songs"`
	CurrentRoundIndex  int    `json:"current_round_index"`
	Round              *Round `json:"round,omitempty"`
	PlaybackDuration   int    `json:"playback_duration"`
	CountdownRemaining int    `json:"countdown_remaining"`
	WinnerID           string `json:"winner_id,omitempty"`
}

// Rules holds the configurable match constants.
type Rules struct {
	MinSongs            int
	MaxTeams            int
	WinScore            int
	CountdownSeconds    int
	AnswerWindowSeconds int
	MaxTeamNameLength   int
}

// DefaultRules returns the rule set used when no configuration overrides them.
func DefaultRules() Rules {
	return Rules{
		MinSongs:            5,
		MaxTeams:            6,
		WinScore:            5,
		CountdownSeconds:    3,
		AnswerWindowSeconds: 15,
		MaxTeamNameLength:   24,
	}
}

// DefaultPlaybackDuration is the snippet length selected before the host
// picks one.
const DefaultPlaybackDuration = 3

// ValidPlaybackDuration reports whether d is one of the selectable snippet
// lengths.
func ValidPlaybackDuration(d int) bool {
	return d == 1 || d == 3 || d == 5
}

// InitialState returns the pristine setup-phase state for a new match.
func InitialState(r Rules) State {
	return State{
		Phase:              PhaseSetup,
		Teams:              []Team{},
		Songs:              []Song{},
		CurrentRoundIndex:  0,
		Round:              nil,
		PlaybackDuration:   DefaultPlaybackDuration,
		CountdownRemaining: r.CountdownSeconds,
	}
}
