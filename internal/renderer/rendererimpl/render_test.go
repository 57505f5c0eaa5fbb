package rendererimpl

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/openclaw/twitter-media-telegram-bot/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassifyNavigationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "goto timeout",
			err:  errors.New(`Timeout 20000ms exceeded. =========================== logs ===========================`),
			want: apperrors.ErrRenderTimeout,
		},
		{
			name: "wait for selector timeout",
			err:  errors.New("playwright: timeout: Timeout 20000ms exceeded"),
			want: apperrors.ErrRenderTimeout,
		},
		{
			name: "dns failure",
			err:  errors.New("net::ERR_NAME_NOT_RESOLVED at https://fixupx.com/jack/status/20"),
			want: apperrors.ErrRenderNavigation,
		},
		{
			name: "connection refused",
			err:  errors.New("net::ERR_CONNECTION_REFUSED"),
			want: apperrors.ErrRenderNavigation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyNavigationError(context.Background(), tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyNavigationErrorCancelledContextWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := classifyNavigationError(ctx, errors.New("Timeout 20000ms exceeded"))
	assert.ErrorIs(t, got, context.Canceled)
	assert.NotErrorIs(t, got, apperrors.ErrRenderTimeout)
}

func TestClassifyRenderedPage(t *testing.T) {
	markerHTML := `<html><body><div class="error-msg">This post is unavailable</div></body></html>`
	postHTML := `<html><body><article role="article"><div lang="en">hello</div></article></body></html>`
	quotingHTML := `<html><body><article role="article"><div lang="en">they said "post not found", wild</div></article></body></html>`

	tests := []struct {
		name           string
		articleVisible bool
		errorVisible   bool
		html           string
		want           error
	}{
		{"served post", true, false, postHTML, nil},
		{"error element visible", false, true, markerHTML, apperrors.ErrContentUnavailable},
		{"marker phrase without error element", false, false, markerHTML, apperrors.ErrContentUnavailable},
		{"post text quoting a marker phrase", true, false, quotingHTML, nil},
		{"empty shell without markers", false, false, "<html><body></body></html>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyRenderedPage(tt.articleVisible, tt.errorVisible, tt.html)
			if tt.want == nil {
				assert.NoError(t, got)
			} else {
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}

func TestIsUnavailablePageMatchesCaseInsensitive(t *testing.T) {
	assert.True(t, isUnavailablePage("<p>This Post Is Unavailable</p>"))
	assert.True(t, isUnavailablePage("<p>this account is private</p>"))
	assert.False(t, isUnavailablePage("<p>just an ordinary page</p>"))
}
