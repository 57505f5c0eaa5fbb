package scraperimpl

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
	"github.com/openclaw/twitter-media-telegram-bot/internal/renderer"
	"github.com/openclaw/twitter-media-telegram-bot/internal/scraper"
	apperrors "github.com/openclaw/twitter-media-telegram-bot/pkg/errors"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Logger logger.Logger
}

// ScraperImpl holds every structural assumption about the mirror's HTML.
// When the mirror changes, this package is the only one that should need to.
type ScraperImpl struct {
	logger logger.Logger
}

func New(opts Opts) *ScraperImpl {
	return &ScraperImpl{logger: opts.Logger}
}

var _ scraper.Client = (*ScraperImpl)(nil)

func (s *ScraperImpl) Scrape(doc *renderer.RenderedDocument) (*scraper.Result, error) {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered document: %w", err)
	}

	meta := s.extractMetadata(root)
	items := s.extractMedia(root)

	if !meta.HasContent() && len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoContentFound, doc.URL)
	}

	return &scraper.Result{Metadata: meta, Items: items}, nil
}

func (s *ScraperImpl) extractMetadata(root *goquery.Document) domain.PostMetadata {
	meta := domain.PostMetadata{}

	// The mirror renders author name and handle as sibling spans inside the
	// User-Name test id container. The handle is whichever span starts with @.
	root.Find(`[data-testid="User-Name"] span`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return true
		}
		if strings.HasPrefix(text, "@") {
			if meta.Handle == "" {
				meta.Handle = text
			}
		} else if meta.DisplayName == "" {
			meta.DisplayName = text
		}
		return meta.Handle == "" || meta.DisplayName == ""
	})

	if textDiv := root.Find("article div[lang]").First(); textDiv.Length() > 0 {
		meta.Text = strings.TrimSpace(textDiv.Text())
	}

	if ts, ok := root.Find("article time").First().Attr("datetime"); ok {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			meta.PostedAt = parsed
		}
	}

	return meta
}

func (s *ScraperImpl) extractMedia(root *goquery.Document) []domain.MediaItem {
	var items []domain.MediaItem
	seen := map[string]struct{}{}

	add := func(url string, kind domain.MediaKind) {
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		items = append(items, domain.MediaItem{
			SourceURL: url,
			Kind:      kind,
			Ordinal:   len(items),
		})
	}

	root.Find("article img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || !strings.HasPrefix(src, "http") {
			return
		}

		// Animated GIFs surface as a thumbnail image; rewrite to the mp4 the
		// platform actually serves for them.
		if mp4, ok := animationURL(src); ok {
			add(mp4, domain.MediaKindAnimation)
			return
		}

		if isNoiseImage(src) {
			return
		}

		if url, ok := postImageURL(src); ok {
			add(url, domain.MediaKindImage)
		}
	})

	root.Find("article video").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok {
			src, _ = sel.Find("source").First().Attr("src")
		}
		if src == "" {
			src, _ = sel.Attr("data-src")
		}
		if !strings.HasPrefix(src, "http") {
			return
		}
		if !isPlatformVideo(src) {
			// Mirror-specific boundary is brittle; log and move on rather
			// than fail the request.
			s.logger.Warn("Skipping unrecognized video source", "src", src)
			return
		}
		add(src, classifyVideoURL(src))
	})

	root.Find("article [data-video-url]").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("data-video-url")
		if !ok || !isPlatformVideo(src) {
			return
		}
		add(src, classifyVideoURL(src))
	})

	return items
}
