package composer

import (
	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
)

type Client interface {
	// Compose turns fetched media into one or more delivery plans: albums of
	// at most the platform cap, animations on their own, caption on the
	// first plan only. Zero fetched items still yields a caption-only plan;
	// composition never fails a request.
	Compose(meta domain.PostMetadata, ref domain.PostRef, fetched []domain.FetchedMedia, failedCount int) []domain.DeliveryPlan
}
