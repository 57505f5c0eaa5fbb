package parserimpl

import (
	"context"
	"errors"
	"time"

	"github.com/openclaw/twitter-media-telegram-bot/internal/composer"
	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
	"github.com/openclaw/twitter-media-telegram-bot/internal/fetcher"
	"github.com/openclaw/twitter-media-telegram-bot/internal/parser"
	"github.com/openclaw/twitter-media-telegram-bot/internal/renderer"
	"github.com/openclaw/twitter-media-telegram-bot/internal/repositories/extraction"
	"github.com/openclaw/twitter-media-telegram-bot/internal/scraper"
	"github.com/openclaw/twitter-media-telegram-bot/internal/twitter"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/config"
	apperrors "github.com/openclaw/twitter-media-telegram-bot/pkg/errors"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Renderer       renderer.Client
	Scraper        scraper.Client
	Fetcher        fetcher.Client
	Composer       composer.Client
	ExtractionRepo extraction.Repository
	Logger         logger.Logger
	Config         *config.Config
}

type ParserImpl struct {
	Renderer       renderer.Client
	Scraper        scraper.Client
	Fetcher        fetcher.Client
	Composer       composer.Client
	ExtractionRepo extraction.Repository
	Logger         logger.Logger
	Config         *config.Config
}

func New(opts Opts) *ParserImpl {
	return &ParserImpl{
		Renderer:       opts.Renderer,
		Scraper:        opts.Scraper,
		Fetcher:        opts.Fetcher,
		Composer:       opts.Composer,
		ExtractionRepo: opts.ExtractionRepo,
		Logger:         opts.Logger,
		Config:         opts.Config,
	}
}

var _ parser.Client = (*ParserImpl)(nil)

func (p *ParserImpl) Extract(ctx context.Context, chatID int64, rawURL string) ([]domain.DeliveryPlan, error) {
	ref, err := twitter.ParsePostURL(rawURL, p.Config.Twitter.MirrorHost)
	if err != nil {
		return nil, err
	}

	p.Logger.Info("Extracting post", "post_id", ref.ID, "mirror_url", ref.MirrorURL)

	p.logRecentDuplicate(ctx, ref)

	doc, err := p.renderWithRetry(ctx, ref.MirrorURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "rendering mirror page")
	}

	result, err := p.Scraper.Scrape(doc)
	if err != nil {
		return nil, apperrors.Wrap(err, "scraping rendered page")
	}

	p.Logger.Info("Scraped post",
		"post_id", ref.ID,
		"media_items", len(result.Items),
		"handle", result.Metadata.Handle)

	fetched, failures := p.Fetcher.FetchAll(ctx, result.Items)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plans := p.Composer.Compose(result.Metadata, ref, fetched, len(failures))

	p.recordExtraction(ctx, ref, chatID, len(fetched), len(failures))

	return plans, nil
}

// renderWithRetry retries a timed-out render exactly once with a fresh
// session; wedged headless sessions rarely recover from a reload.
func (p *ParserImpl) renderWithRetry(ctx context.Context, url string) (*renderer.RenderedDocument, error) {
	doc, err := p.Renderer.Render(ctx, url)
	if err == nil || !errors.Is(err, apperrors.ErrRenderTimeout) {
		return doc, err
	}

	p.Logger.Warn("Render timed out, retrying with a fresh session", "url", url)
	return p.Renderer.Render(ctx, url)
}

// logRecentDuplicate flags repeat requests for the same post. The request
// still runs in full; the rendered page may have changed since last time.
func (p *ParserImpl) logRecentDuplicate(ctx context.Context, ref domain.PostRef) {
	latest, err := p.ExtractionRepo.GetLatestByPostID(ctx, ref.ID)
	if err != nil || latest == nil {
		return
	}
	if age := time.Since(latest.CreatedAt); age < time.Hour {
		p.Logger.Info("Post was extracted recently",
			"post_id", ref.ID,
			"age", age.Round(time.Second).String(),
			"previous_chat_id", latest.ChatID)
	}
}

// recordExtraction is best-effort history bookkeeping; a database hiccup
// must not fail a delivery that already succeeded.
func (p *ParserImpl) recordExtraction(ctx context.Context, ref domain.PostRef, chatID int64, mediaCount, failedCount int) {
	record := domain.Extraction{
		PostID:      ref.ID,
		PostURL:     ref.OriginalURL,
		ChatID:      chatID,
		MediaCount:  mediaCount,
		FailedCount: failedCount,
		CreatedAt:   time.Now(),
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.ExtractionRepo.Create(saveCtx, record); err != nil {
		p.Logger.Error("Failed to save extraction history", "post_id", ref.ID, "error", err)
	}
}
