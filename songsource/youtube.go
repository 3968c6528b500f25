// songsource/youtube.go
package songsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wfunc/guessjam/game"
)

const defaultAPIBase = "https://www.googleapis.com/youtube/v3"

// maxPages caps pagination: 5 pages of 50 items each.
const maxPages = 5

// YouTube resolves playlist URLs through the YouTube Data API.
type YouTube struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewYouTube(apiKey string) *YouTube {
	return &YouTube{
		apiKey:  apiKey,
		baseURL: defaultAPIBase,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// NewYouTubeWithBase overrides the API endpoint; used by tests.
func NewYouTubeWithBase(apiKey, baseURL string) *YouTube {
	yt := NewYouTube(apiKey)
	yt.baseURL = baseURL
	return yt
}

type playlistResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title                  string `json:"title"`
			VideoOwnerChannelTitle string `json:"videoOwnerChannelTitle"`
			ResourceID             struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
		Status struct {
			PrivacyStatus string `json:"privacyStatus"`
		} `json:"status"`
	} `json:"items"`
}

type apiError struct {
	Error struct {
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func (y *YouTube) Resolve(ctx context.Context, input string) ([]game.Song, error) {
	playlistID, ok := ParsePlaylistURL(input)
	if !ok {
		return nil, &Error{Code: CodeInvalidInput, Message: "invalid playlist link"}
	}
	if y.apiKey == "" {
		return nil, &Error{Code: CodeUpstreamError, Message: "no API key configured"}
	}

	var songs []game.Song
	pageToken := ""

	for page := 0; page < maxPages; page++ {
		resp, err := y.fetchPage(ctx, playlistID, pageToken)
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			title := item.Snippet.Title
			// Deleted and private entries carry placeholder titles.
			if title == "" || title == "Private video" || title == "Deleted video" {
				continue
			}
			if item.Status.PrivacyStatus == "private" {
				continue
			}
			songs = append(songs, game.Song{
				ID:     item.Snippet.ResourceID.VideoID,
				Title:  title,
				Artist: item.Snippet.VideoOwnerChannelTitle,
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return songs, nil
}

func (y *YouTube) fetchPage(ctx context.Context, playlistID, pageToken string) (*playlistResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet,status")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", "50")
	params.Set("key", y.apiKey)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		y.baseURL+"/playlistItems?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Code: CodeUpstreamError, Message: err.Error()}
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, &Error{Code: CodeUpstreamError, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, y.classifyFailure(resp)
	}

	var page playlistResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &Error{Code: CodeUpstreamError, Message: "malformed API response"}
	}
	return &page, nil
}

func (y *YouTube) classifyFailure(resp *http.Response) *Error {
	var body apiError
	reason := fmt.Sprintf("HTTP %d", resp.StatusCode)
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Error.Errors) > 0 {
		reason = body.Error.Errors[0].Reason
	}

	if reason == "quotaExceeded" {
		return &Error{Code: CodeQuotaExceeded, Message: "API quota exceeded, try again later"}
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return &Error{Code: CodeNotFound, Message: "playlist not found"}
	case http.StatusForbidden:
		return &Error{Code: CodeForbidden, Message: "playlist is private or access is denied"}
	}
	return &Error{Code: CodeUpstreamError, Message: reason}
}
