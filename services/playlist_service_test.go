package services

import (
	"context"
	"os"
	"testing"

	"github.com/wfunc/guessjam/game"
	"github.com/wfunc/guessjam/logger"
	"github.com/wfunc/guessjam/songsource"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockSource returns a canned song list or error.
type MockSource struct {
	songs []game.Song
	err   error
}

func (s *MockSource) Resolve(ctx context.Context, input string) ([]game.Song, error) {
	return s.songs, s.err
}

func serviceRules() game.Rules {
	r := game.DefaultRules()
	r.MinSongs = 3
	return r
}

func songList(n int) []game.Song {
	songs := make([]game.Song, n)
	for i := range songs {
		songs[i] = game.Song{ID: "song", Title: "Song"}
	}
	return songs
}

func TestPlaylistService_Load(t *testing.T) {
	service := NewPlaylistService(&MockSource{songs: songList(5)}, serviceRules())

	songs, err := service.Load(context.Background(), "https://youtube.com/playlist?list=PLx")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(songs) != 5 {
		t.Errorf("Expected 5 songs, got %d", len(songs))
	}
}

func TestPlaylistService_RejectsEmptyInput(t *testing.T) {
	service := NewPlaylistService(&MockSource{songs: songList(5)}, serviceRules())

	_, err := service.Load(context.Background(), "   ")
	if err == nil {
		t.Fatal("Expected an error for empty input")
	}
	if songsource.CodeOf(err) != songsource.CodeInvalidInput {
		t.Errorf("Expected INVALID_INPUT, got %v", err)
	}
}

func TestPlaylistService_RejectsTooFewSongs(t *testing.T) {
	service := NewPlaylistService(&MockSource{songs: songList(2)}, serviceRules())

	_, err := service.Load(context.Background(), "https://youtube.com/playlist?list=PLx")
	if err == nil {
		t.Fatal("Expected an error for a too-short playlist")
	}
	if songsource.CodeOf(err) != songsource.CodeInvalidInput {
		t.Errorf("Expected INVALID_INPUT, got %v", err)
	}
}

func TestPlaylistService_PropagatesSourceErrors(t *testing.T) {
	srcErr := &songsource.Error{Code: songsource.CodeQuotaExceeded, Message: "quota"}
	service := NewPlaylistService(&MockSource{err: srcErr}, serviceRules())

	_, err := service.Load(context.Background(), "https://youtube.com/playlist?list=PLx")
	if songsource.CodeOf(err) != songsource.CodeQuotaExceeded {
		t.Errorf("Expected QUOTA_EXCEEDED passed through, got %v", err)
	}
}
