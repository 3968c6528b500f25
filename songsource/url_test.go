package songsource

import (
	"testing"
)

func TestParsePlaylistURL(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"https://www.youtube.com/playlist?list=PLabc123_-", "PLabc123_-", true},
		{"https://youtube.com/watch?v=xyz&list=PLdef456", "PLdef456", true},
		{"https://youtu.be/xyz?list=PLghi789", "PLghi789", true},
		{"https://music.youtube.com/playlist?list=PLjkl012", "PLjkl012", true},
		{"  https://www.youtube.com/playlist?list=PLpad  ", "PLpad", true},
		{"watch?v=abc&list=PLraw999", "PLraw999", true}, // raw fallback
		{"https://www.youtube.com/watch?v=xyz", "", false},
		// Unknown hosts still yield an ID through the raw fallback; the API
		// call decides whether the playlist actually exists.
		{"https://example.com/playlist?list=PLabc123", "PLabc123", true},
		{"not a url at all", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParsePlaylistURL(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParsePlaylistURL(%q) = (%q, %v), want (%q, %v)",
				tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
