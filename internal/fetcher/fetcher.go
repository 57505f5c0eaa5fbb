package fetcher

import (
	"context"

	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
)

type Client interface {
	// FetchAll downloads every item concurrently and returns what succeeded
	// alongside what did not, both re-sequenced by ordinal. A single item's
	// failure never fails the call; the composer decides how to present a
	// partial result.
	FetchAll(ctx context.Context, items []domain.MediaItem) ([]domain.FetchedMedia, []domain.FetchFailure)
}
