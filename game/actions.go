// game/actions.go
package game

// ActionType identifies a reducer action.
type ActionType string

const (
	ActionSetPlaylist         ActionType = "SET_PLAYLIST"
	ActionAddTeam             ActionType = "ADD_TEAM"
	ActionRemoveTeam          ActionType = "REMOVE_TEAM"
	ActionSetPlaybackDuration ActionType = "SET_PLAYBACK_DURATION"
	ActionStartGame           ActionType = "START_GAME"
	ActionCountdownTick       ActionType = "COUNTDOWN_TICK"
	ActionCountdownEnd        ActionType = "COUNTDOWN_END"
	ActionPlaybackEnded       ActionType = "PLAYBACK_ENDED"
	ActionSelectAnsweringTeam ActionType = "SELECT_ANSWERING_TEAM"
	ActionMarkCorrect         ActionType = "MARK_CORRECT"
	ActionMarkIncorrect       ActionType = "MARK_INCORRECT"
	ActionRevealAnswer        ActionType = "REVEAL_ANSWER"
	ActionNextRound           ActionType = "NEXT_ROUND"
	ActionResetGame           ActionType = "RESET_GAME"
	ActionRestoreState        ActionType = "RESTORE_STATE"
)

// Action is the single message type funneled into Reduce. Only the fields
// relevant to the Type are set; the rest stay zero.
type Action struct {
	Type     ActionType `json:"type"`
	Songs    []Song     `json:"songs,omitempty"`
	Team     *Team      `json:"team,omitempty"`
	TeamID   string     `json:"team_id,omitempty"`
	Duration int        `json:"duration,omitempty"`
	Snapshot *State     `json:"snapshot,omitempty"`
}
