// models/models.go
package models

import (
	"time"
)

// TeamResult is a team's final standing in a completed match.
type TeamResult struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Winner bool   `json:"winner"`
}

// MatchRecord is written once per match when it reaches game-over.
type MatchRecord struct {
	MatchID      string       `json:"match_id"`
	WinnerID     string       `json:"winner_id"`
	Teams        []TeamResult `json:"teams"`
	SongsPlayed  int          `json:"songs_played"`
	TotalSongs   int          `json:"total_songs"`
	DurationSecs int          `json:"duration_secs"`
	CreatedAt    time.Time    `json:"created_at"`
}
