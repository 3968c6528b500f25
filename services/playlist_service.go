// services/playlist_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/wfunc/guessjam/game"
	"github.com/wfunc/guessjam/logger"
	"github.com/wfunc/guessjam/songsource"
)

// PlaylistService turns a host-supplied playlist reference into the song
// list a match can be started with, enforcing the minimum-size rule up
// front so the host hears about a too-short playlist before the lobby fills.
type PlaylistService struct {
	source songsource.Source
	rules  game.Rules
}

func NewPlaylistService(source songsource.Source, rules game.Rules) *PlaylistService {
	return &PlaylistService{source: source, rules: rules}
}

// Load resolves the playlist and validates it against the game rules.
// All failures come back as coded songsource errors so transport layers
// can map them to status codes uniformly.
func (s *PlaylistService) Load(ctx context.Context, input string) ([]game.Song, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &songsource.Error{
			Code:    songsource.CodeInvalidInput,
			Message: "playlist reference is empty",
		}
	}

	songs, err := s.source.Resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	if len(songs) < s.rules.MinSongs {
		return nil, &songsource.Error{
			Code: songsource.CodeInvalidInput,
			Message: fmt.Sprintf("playlist has %d playable songs, need at least %d",
				len(songs), s.rules.MinSongs),
		}
	}

	logger.Log.Infof("Loaded playlist with %d playable songs", len(songs))
	return songs, nil
}
