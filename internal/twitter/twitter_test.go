package twitter

import (
	"testing"

	apperrors "github.com/openclaw/twitter-media-telegram-bot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostURL(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantMirror string
		wantID     string
		wantUser   string
	}{
		{
			name:       "canonical twitter.com",
			raw:        "https://twitter.com/jack/status/20",
			wantMirror: "https://fixupx.com/jack/status/20",
			wantID:     "20",
			wantUser:   "jack",
		},
		{
			name:       "x.com with query",
			raw:        "https://x.com/NASA/status/1234567890123456789?s=20&t=abc",
			wantMirror: "https://fixupx.com/NASA/status/1234567890123456789",
			wantID:     "1234567890123456789",
			wantUser:   "NASA",
		},
		{
			name:       "mobile host",
			raw:        "http://mobile.twitter.com/someone/status/42",
			wantMirror: "https://fixupx.com/someone/status/42",
			wantID:     "42",
			wantUser:   "someone",
		},
		{
			name:       "already on the mirror",
			raw:        "https://fixupx.com/jack/status/20",
			wantMirror: "https://fixupx.com/jack/status/20",
			wantID:     "20",
			wantUser:   "jack",
		},
		{
			name:       "legacy statuses path",
			raw:        "https://twitter.com/jack/statuses/20",
			wantMirror: "https://fixupx.com/jack/status/20",
			wantID:     "20",
			wantUser:   "jack",
		},
		{
			name:       "trailing photo segment",
			raw:        "https://x.com/jack/status/20/photo/1",
			wantMirror: "https://fixupx.com/jack/status/20",
			wantID:     "20",
			wantUser:   "jack",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParsePostURL(tt.raw, "fixupx.com")
			require.NoError(t, err)
			assert.Equal(t, tt.raw, ref.OriginalURL)
			assert.Equal(t, tt.wantMirror, ref.MirrorURL)
			assert.Equal(t, tt.wantID, ref.ID)
			assert.Equal(t, tt.wantUser, ref.Username)
		})
	}
}

func TestParsePostURLRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown host", "https://example.com/jack/status/20"},
		{"no status segment", "https://twitter.com/jack"},
		{"profile url", "https://x.com/jack/with_replies"},
		{"non-numeric id", "https://twitter.com/jack/status/abc"},
		{"bare scheme", "ftp://twitter.com/jack/status/20"},
		{"empty", ""},
		{"garbage", "not a url at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePostURL(tt.raw, "fixupx.com")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidURL)
		})
	}
}

func TestParsePostURLCustomMirror(t *testing.T) {
	ref, err := ParsePostURL("https://x.com/jack/status/20", "vxtwitter.com")
	require.NoError(t, err)
	assert.Equal(t, "https://vxtwitter.com/jack/status/20", ref.MirrorURL)
}

func TestFindPostURL(t *testing.T) {
	url, ok := FindPostURL("check this out https://x.com/jack/status/20 so cool")
	require.True(t, ok)
	assert.Equal(t, "https://x.com/jack/status/20", url)

	_, ok = FindPostURL("no links here")
	assert.False(t, ok)

	_, ok = FindPostURL("https://example.com/jack/status/20")
	assert.False(t, ok)
}
