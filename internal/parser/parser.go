package parser

import (
	"context"

	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
)

type Client interface {
	// Extract runs the whole pipeline for one post URL: normalize, render,
	// scrape, fetch, compose. More than one plan comes back when album
	// splitting occurs. Terminal failures are the sentinels in pkg/errors.
	Extract(ctx context.Context, chatID int64, rawURL string) ([]domain.DeliveryPlan, error)

	ScheduleHistoryCleanup(ctx context.Context) error
}
