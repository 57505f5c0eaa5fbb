package fetcherimpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
	"github.com/openclaw/twitter-media-telegram-bot/internal/fetcher"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/config"
	apperrors "github.com/openclaw/twitter-media-telegram-bot/pkg/errors"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/logger"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/retry"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type FetcherImpl struct {
	config *config.Config
	logger logger.Logger
	client *http.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func New(opts Opts) *FetcherImpl {
	return &FetcherImpl{
		config: opts.Config,
		logger: opts.Logger,
		client: &http.Client{
			Timeout: opts.Config.Fetcher.Timeout,
		},
		limiters: make(map[string]*rate.Limiter),
	}
}

var _ fetcher.Client = (*FetcherImpl)(nil)

func (f *FetcherImpl) FetchAll(ctx context.Context, items []domain.MediaItem) ([]domain.FetchedMedia, []domain.FetchFailure) {
	if len(items) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(f.config.Fetcher.Concurrency, ants.WithPreAlloc(true))
	if err != nil {
		f.logger.Error("Could not create download pool",
			"concurrency", f.config.Fetcher.Concurrency,
			"error", err)
		failures := make([]domain.FetchFailure, 0, len(items))
		for _, item := range items {
			failures = append(failures, domain.FetchFailure{Item: item, Err: err})
		}
		return nil, failures
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fetched  []domain.FetchedMedia
		failures []domain.FetchFailure
	)

	for _, item := range items {
		wg.Add(1)
		itemToFetch := item

		err := pool.Submit(func() {
			defer wg.Done()

			media, err := f.fetchOne(ctx, itemToFetch)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				f.logger.Warn("Media item could not be fetched",
					"url", itemToFetch.SourceURL,
					"ordinal", itemToFetch.Ordinal,
					"error", err)
				failures = append(failures, domain.FetchFailure{Item: itemToFetch, Err: err})
				return
			}
			fetched = append(fetched, *media)
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			failures = append(failures, domain.FetchFailure{Item: itemToFetch, Err: err})
			mu.Unlock()
		}
	}

	wg.Wait()

	// Downloads finish in arbitrary order; album order is user-visible and
	// must match the source document.
	sort.Slice(fetched, func(i, j int) bool { return fetched[i].Item.Ordinal < fetched[j].Item.Ordinal })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Item.Ordinal < failures[j].Item.Ordinal })

	return fetched, failures
}

func (f *FetcherImpl) fetchOne(ctx context.Context, item domain.MediaItem) (*domain.FetchedMedia, error) {
	var media *domain.FetchedMedia

	operation := func() error {
		if err := f.waitForHost(ctx, item.SourceURL); err != nil {
			return retry.Permanent(err)
		}

		m, err := f.download(ctx, item)
		if err != nil {
			return err
		}
		media = m
		return nil
	}

	cfg := retry.DefaultConfig()
	cfg.MaxRetries = f.config.Fetcher.Retries
	cfg.MaxInterval = 3 * time.Second
	cfg.Multiplier = 2.0

	if err := retry.Do(ctx, f.logger, "MediaDownload", operation, cfg); err != nil {
		return nil, err
	}
	return media, nil
}

func (f *FetcherImpl) download(ctx context.Context, item domain.MediaItem) (*domain.FetchedMedia, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.SourceURL, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Error("Error closing response body", "error", cerr)
		}
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, retry.Permanent(fmt.Errorf("media download failed with status %d", resp.StatusCode))
	default:
		return nil, fmt.Errorf("media download failed with status %d", resp.StatusCode)
	}

	maxBytes := f.config.Fetcher.MaxBytes
	if resp.ContentLength > maxBytes {
		return nil, retry.Permanent(fmt.Errorf("%w: %d bytes", apperrors.ErrMediaTooLarge, resp.ContentLength))
	}

	contentType := resp.Header.Get("Content-Type")
	if !validContentType(contentType) {
		return nil, retry.Permanent(fmt.Errorf("unexpected content type %q", contentType))
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(payload)) > maxBytes {
		return nil, retry.Permanent(fmt.Errorf("%w: over %d bytes", apperrors.ErrMediaTooLarge, maxBytes))
	}

	return &domain.FetchedMedia{
		Item:        item,
		Payload:     payload,
		ContentType: contentType,
		Size:        int64(len(payload)),
	}, nil
}

// waitForHost throttles per media host so concurrent downloads do not
// saturate the render host's network path.
func (f *FetcherImpl) waitForHost(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	f.mu.Lock()
	limiter, ok := f.limiters[u.Hostname()]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(4), 8)
		f.limiters[u.Hostname()] = limiter
	}
	f.mu.Unlock()

	return limiter.Wait(ctx)
}

func validContentType(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "video/") ||
		mediaType == "application/octet-stream"
}
