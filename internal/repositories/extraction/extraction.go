package extraction

import (
	"context"
	"errors"
	"time"

	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
)

var ErrNotFound = errors.New("extraction not found")
var ErrCannotCreate = errors.New("error create extraction")

// Repository records one row per completed extraction request. Media bytes
// never touch the database; this is history metadata only.
type Repository interface {
	Create(ctx context.Context, extraction domain.Extraction) error
	GetLatestByPostID(ctx context.Context, postID string) (*domain.Extraction, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
