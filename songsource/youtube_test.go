package songsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testPlaylistURL = "https://www.youtube.com/playlist?list=PLtest123"

func playlistItem(videoID, title, privacy string) map[string]interface{} {
	return map[string]interface{}{
		"snippet": map[string]interface{}{
			"title":                  title,
			"videoOwnerChannelTitle": "Some Artist",
			"resourceId":             map[string]interface{}{"videoId": videoID},
		},
		"status": map[string]interface{}{"privacyStatus": privacy},
	}
}

func TestYouTube_ResolveSkipsUnplayable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("playlistId"); got != "PLtest123" {
			t.Errorf("Unexpected playlist ID: %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []interface{}{
				playlistItem("v1", "First Song", "public"),
				playlistItem("v2", "Private video", "private"),
				playlistItem("v3", "Deleted video", "public"),
				playlistItem("v4", "Second Song", "public"),
				playlistItem("v5", "Hidden Song", "private"),
			},
		})
	}))
	defer server.Close()

	yt := NewYouTubeWithBase("test-key", server.URL)
	songs, err := yt.Resolve(context.Background(), testPlaylistURL)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("Expected 2 playable songs, got %d", len(songs))
	}
	if songs[0].ID != "v1" || songs[1].ID != "v4" {
		t.Errorf("Unexpected songs: %+v", songs)
	}
	if songs[0].Artist != "Some Artist" {
		t.Errorf("Expected artist from channel title, got %q", songs[0].Artist)
	}
}

func TestYouTube_ResolvePaginates(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		resp := map[string]interface{}{
			"items": []interface{}{
				playlistItem(fmt.Sprintf("v%d", pages), fmt.Sprintf("Song %d", pages), "public"),
			},
		}
		if pages < 3 {
			resp["nextPageToken"] = fmt.Sprintf("page-%d", pages+1)
		}
		if token := r.URL.Query().Get("pageToken"); pages > 1 && token == "" {
			t.Error("Expected a page token on follow-up requests")
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	yt := NewYouTubeWithBase("test-key", server.URL)
	songs, err := yt.Resolve(context.Background(), testPlaylistURL)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pages != 3 {
		t.Errorf("Expected 3 page fetches, got %d", pages)
	}
	if len(songs) != 3 {
		t.Errorf("Expected 3 songs, got %d", len(songs))
	}
}

func TestYouTube_ResolveErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		reason string
		want   Code
	}{
		{"quota", http.StatusForbidden, "quotaExceeded", CodeQuotaExceeded},
		{"not found", http.StatusNotFound, "playlistNotFound", CodeNotFound},
		{"forbidden", http.StatusForbidden, "playlistForbidden", CodeForbidden},
		{"server error", http.StatusInternalServerError, "backendError", CodeUpstreamError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error": map[string]interface{}{
						"errors": []interface{}{map[string]interface{}{"reason": tc.reason}},
					},
				})
			}))
			defer server.Close()

			yt := NewYouTubeWithBase("test-key", server.URL)
			_, err := yt.Resolve(context.Background(), testPlaylistURL)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if got := CodeOf(err); got != tc.want {
				t.Errorf("Expected code %s, got %s (%v)", tc.want, got, err)
			}
		})
	}
}

func TestYouTube_ResolveInvalidInput(t *testing.T) {
	yt := NewYouTube("test-key")
	_, err := yt.Resolve(context.Background(), "definitely not a playlist")
	if err == nil {
		t.Fatal("Expected an error")
	}
	if CodeOf(err) != CodeInvalidInput {
		t.Errorf("Expected INVALID_INPUT, got %v", err)
	}
}
