package rendererimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/openclaw/twitter-media-telegram-bot/internal/renderer"
	apperrors "github.com/openclaw/twitter-media-telegram-bot/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

// Selectors the mirror renders once the post (or its failure state) is known.
// These are the only structural assumptions the render layer makes; everything
// else lives in the scraper.
const (
	readySelector       = `article[role="article"]`
	unavailableSelector = `div.error-msg, div#error, p.error`
)

// Marker phrases the mirror shows for posts that exist but cannot be served.
var unavailableMarkers = []string{
	"this post is unavailable",
	"this tweet is unavailable",
	"post not found",
	"tweet not found",
	"this account is private",
	"age-restricted",
}

// Render acquires a session slot, navigates to url and snapshots the page
// HTML once the post content is present.
func (r *RendererImpl) Render(ctx context.Context, url string) (*renderer.RenderedDocument, error) {
	if err := r.sessions.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for render session: %w", err)
	}
	defer r.sessions.Release(1)

	page, cleanup, err := r.newSessionPage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRenderNavigation, err)
	}
	defer cleanup()

	// The page belongs to this request only; cancelling the request tears the
	// whole context down through cleanup.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = page.Close()
		case <-done:
		}
	}()

	timeoutMs := float64(r.config.Render.Timeout.Milliseconds())

	r.logger.Info("Rendering mirror page", "url", url)
	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(timeoutMs),
	}); err != nil {
		return nil, classifyNavigationError(ctx, err)
	}

	combined := readySelector + ", " + unavailableSelector
	if _, err := page.WaitForSelector(combined, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(timeoutMs),
	}); err != nil {
		return nil, classifyNavigationError(ctx, err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("%w: reading page content: %v", apperrors.ErrRenderNavigation, err)
	}

	ready, _ := page.IsVisible(readySelector)
	errorVisible, _ := page.IsVisible(unavailableSelector)
	if err := classifyRenderedPage(ready, errorVisible, html); err != nil {
		return nil, err
	}

	return &renderer.RenderedDocument{URL: url, HTML: html}, nil
}

// classifyRenderedPage decides whether a snapshot is a served post. The
// failure markers are only consulted when no article rendered, so a post whose
// own text quotes one of the phrases is not misclassified.
func classifyRenderedPage(articleVisible, errorVisible bool, html string) error {
	if articleVisible {
		return nil
	}
	if errorVisible || isUnavailablePage(html) {
		return apperrors.ErrContentUnavailable
	}
	return nil
}

// classifyNavigationError maps playwright failures onto the pipeline's
// terminal outcomes. Timeouts stay distinct because only they are retried.
func classifyNavigationError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	msg := err.Error()
	if strings.Contains(msg, "Timeout") || strings.Contains(msg, "timeout") {
		return fmt.Errorf("%w: %v", apperrors.ErrRenderTimeout, err)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrRenderNavigation, err)
}

func isUnavailablePage(html string) bool {
	lowered := strings.ToLower(html)
	for _, marker := range unavailableMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
