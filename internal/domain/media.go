package domain

// MediaKind is a closed set so the composer's grouping logic stays exhaustive.
type MediaKind int

const (
	MediaKindImage MediaKind = iota
	MediaKindVideo
	MediaKindAnimation
)

func (k MediaKind) String() string {
	switch k {
	case MediaKindImage:
		return "image"
	case MediaKindVideo:
		return "video"
	case MediaKindAnimation:
		return "animation"
	default:
		return "unknown"
	}
}

// MediaItem is one media reference discovered on the rendered page.
// Ordinal preserves document order; album order is user-visible.
type MediaItem struct {
	SourceURL string
	Kind      MediaKind
	Ordinal   int
}

// FetchedMedia owns the downloaded payload for one MediaItem. It lives only
// until the delivery for its request completes.
type FetchedMedia struct {
	Item        MediaItem
	Payload     []byte
	ContentType string
	Size        int64
}

// FetchFailure records one media item that could not be retrieved. Failures
// degrade the delivery, they never abort the request.
type FetchFailure struct {
	Item MediaItem
	Err  error
}
