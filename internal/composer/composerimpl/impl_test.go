package composerimpl

import (
	"fmt"
	"testing"
	"time"

	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposer() *ComposerImpl {
	return &ComposerImpl{logger: logger.NewNop()}
}

func photos(n int) []domain.FetchedMedia {
	media := make([]domain.FetchedMedia, n)
	for i := range media {
		media[i] = domain.FetchedMedia{
			Item: domain.MediaItem{
				SourceURL: fmt.Sprintf("https://pbs.twimg.com/media/%d", i),
				Kind:      domain.MediaKindImage,
				Ordinal:   i,
			},
			Payload: []byte{byte(i)},
		}
	}
	return media
}

var testMeta = domain.PostMetadata{
	Handle:      "@jack",
	DisplayName: "Jack",
	Text:        "hello",
	PostedAt:    time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
}

var testRef = domain.PostRef{
	OriginalURL: "https://x.com/jack/status/20",
	ID:          "20",
	Username:    "jack",
}

func TestComposeSplitsLargeAlbums(t *testing.T) {
	plans := newTestComposer().Compose(testMeta, testRef, photos(23), 0)

	require.Len(t, plans, 3)
	assert.Len(t, plans[0].Items, 10)
	assert.Len(t, plans[1].Items, 10)
	assert.Len(t, plans[2].Items, 3)

	// Original order preserved across the split.
	next := 0
	for _, plan := range plans {
		for _, item := range plan.Items {
			assert.Equal(t, next, item.Item.Ordinal)
			next++
		}
	}

	// Caption on the first plan only.
	assert.NotEmpty(t, plans[0].Caption)
	assert.Empty(t, plans[1].Caption)
	assert.Empty(t, plans[2].Caption)
	assert.Contains(t, plans[0].Caption, `*Jack* \(@jack\)`)
	assert.Contains(t, plans[0].Caption, "(https://x.com/jack/status/20)")
}

func TestComposeAnimationBreaksAlbum(t *testing.T) {
	media := photos(4)
	media[2].Item.Kind = domain.MediaKindAnimation

	plans := newTestComposer().Compose(testMeta, testRef, media, 0)

	// [photo photo] [animation] [photo]
	require.Len(t, plans, 3)
	assert.Len(t, plans[0].Items, 2)
	assert.Len(t, plans[1].Items, 1)
	assert.Equal(t, domain.MediaKindAnimation, plans[1].Items[0].Item.Kind)
	assert.Len(t, plans[2].Items, 1)
	assert.Equal(t, 3, plans[2].Items[0].Item.Ordinal)
}

func TestComposeMixedPhotoVideoStaysGrouped(t *testing.T) {
	media := photos(3)
	media[1].Item.Kind = domain.MediaKindVideo

	plans := newTestComposer().Compose(testMeta, testRef, media, 0)

	require.Len(t, plans, 1)
	assert.Len(t, plans[0].Items, 3)
}

func TestComposePartialFailureNote(t *testing.T) {
	plans := newTestComposer().Compose(testMeta, testRef, photos(3), 1)

	require.Len(t, plans, 1)
	assert.Contains(t, plans[0].Caption, `1 media item\(s\) could not be retrieved`)
}

func TestComposeAllDownloadsFailed(t *testing.T) {
	plans := newTestComposer().Compose(testMeta, testRef, nil, 4)

	require.Len(t, plans, 1)
	assert.Empty(t, plans[0].Items)
	assert.Contains(t, plans[0].Caption, "Media unavailable")
	assert.Contains(t, plans[0].Caption, `4 item\(s\)`)
}

func TestComposeTextOnlyPost(t *testing.T) {
	plans := newTestComposer().Compose(testMeta, testRef, nil, 0)

	require.Len(t, plans, 1)
	assert.Empty(t, plans[0].Items)
	assert.Contains(t, plans[0].Caption, "hello")
	assert.NotContains(t, plans[0].Caption, "could not be retrieved")
}

func TestComposeCaptionEscapesPostText(t *testing.T) {
	meta := testMeta
	meta.Text = "50% off! (limited *deal*)"

	plans := newTestComposer().Compose(meta, testRef, photos(1), 0)

	require.Len(t, plans, 1)
	assert.Contains(t, plans[0].Caption, `50% off\! \(limited \*deal\*\)`)
}

func TestComposeCaptionFallsBackToURLUsername(t *testing.T) {
	plans := newTestComposer().Compose(domain.PostMetadata{Text: "x"}, testRef, photos(1), 0)

	require.Len(t, plans, 1)
	assert.Contains(t, plans[0].Caption, "@jack")
}
