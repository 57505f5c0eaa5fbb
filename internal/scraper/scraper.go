package scraper

import (
	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
	"github.com/openclaw/twitter-media-telegram-bot/internal/renderer"
)

// Result is everything one rendered page yields: post metadata plus the
// ordered media references. Zero items with metadata present is a valid
// text-only post.
type Result struct {
	Metadata domain.PostMetadata
	Items    []domain.MediaItem
}

type Client interface {
	// Scrape walks the rendered document for post text, author markers and
	// media elements. Fails with pkg/errors.ErrNoContentFound only when
	// neither metadata nor media is present.
	Scrape(doc *renderer.RenderedDocument) (*Result, error)
}
