// songsource/url.go
package songsource

import (
	"net/url"
	"regexp"
	"strings"
)

var listParamPattern = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)

// ParsePlaylistURL extracts a YouTube playlist ID from the URL formats hosts
// paste:
//
//	https://www.youtube.com/playlist?list=PLxxxxxx
//	https://www.youtube.com/watch?v=xxxxx&list=PLxxxxxx
//	https://youtu.be/xxxxx?list=PLxxxxxx
//	https://music.youtube.com/playlist?list=PLxxxxxx
//
// The second return value is false when no playlist ID is found.
func ParsePlaylistURL(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)

	if u, err := url.Parse(trimmed); err == nil {
		host := strings.TrimPrefix(u.Hostname(), "www.")
		if host == "youtube.com" || host == "music.youtube.com" || host == "youtu.be" {
			if list := u.Query().Get("list"); len(list) > 2 {
				return list, true
			}
		}
	}

	// Fall back to scraping list= out of the raw string.
	if m := listParamPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1], true
	}
	return "", false
}
