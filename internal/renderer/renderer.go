package renderer

import "context"

// RenderedDocument is the HTML snapshot of a fully loaded mirror page. It
// deliberately carries no browser handle so downstream stages never touch
// playwright.
type RenderedDocument struct {
	URL  string
	HTML string
}

type Client interface {
	// Render navigates a fresh browser context to url and waits until the
	// post content (or a known unavailability marker) is present. Fails with
	// pkg/errors.ErrRenderTimeout, ErrRenderNavigation or
	// ErrContentUnavailable.
	Render(ctx context.Context, url string) (*RenderedDocument, error)
}
