package rendererimpl

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/openclaw/twitter-media-telegram-bot/internal/renderer"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/config"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/logger"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/fx"
	"golang.org/x/sync/semaphore"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

// PlaywrightManager owns the single headless browser process shared by all
// render sessions. Browser contexts are cheap; the browser itself is not.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	logger  logger.Logger
}

// Browser returns the browser instance
func (pm *PlaywrightManager) Browser() playwright.Browser {
	return pm.browser
}

// NewPlaywrightManager creates a new playwright manager
func NewPlaywrightManager(lc fx.Lifecycle, log logger.Logger) (*PlaywrightManager, error) {
	log.Info("Initializing Playwright Manager...")
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage", // Important in Docker/container
			"--disable-accelerated-2d-canvas",
			"--no-first-run",
			"--no-zygote",
			"--disable-gpu",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	manager := &PlaywrightManager{
		pw:      pw,
		browser: browser,
		logger:  log,
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Playwright browser...")
			if err := manager.browser.Close(); err != nil {
				log.Error("Failed to close playwright browser", "error", err)
			}
			if err := manager.pw.Stop(); err != nil {
				log.Error("Failed to stop playwright", "error", err)
				return err
			}
			log.Info("Playwright stopped successfully.")
			return nil
		},
	})
	log.Info("Playwright Manager initialized successfully.")
	return manager, nil
}

type Opts struct {
	fx.In
	Config     *config.Config
	Logger     logger.Logger
	Playwright *PlaywrightManager
}

// RendererImpl renders mirror pages through a bounded pool of browser
// contexts. The semaphore is the only shared mutable state between requests.
type RendererImpl struct {
	config     *config.Config
	logger     logger.Logger
	playwright *PlaywrightManager
	sessions   *semaphore.Weighted
}

func New(opts Opts) *RendererImpl {
	return &RendererImpl{
		config:     opts.Config,
		logger:     opts.Logger,
		playwright: opts.Playwright,
		sessions:   semaphore.NewWeighted(opts.Config.Render.Sessions),
	}
}

var _ renderer.Client = (*RendererImpl)(nil)

// newSessionPage creates an isolated browser context and page. The returned
// cleanup must run on every exit path.
func (r *RendererImpl) newSessionPage() (playwright.Page, func(), error) {
	brContext, err := r.playwright.Browser().NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create browser context: %w", err)
	}

	cleanup := func() {
		if err := brContext.Close(); err != nil {
			r.logger.Error("Failed to close browser context", "error", err)
		}
		debug.FreeOSMemory()
	}

	// Stylesheets and fonts are dead weight; media requests must go through
	// so the mirror resolves the real image and video URLs.
	if err := brContext.Route("**/*", func(route playwright.Route) {
		switch route.Request().ResourceType() {
		case "stylesheet", "font":
			_ = route.Abort()
		default:
			_ = route.Continue()
		}
	}); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to set up request interception: %w", err)
	}

	page, err := brContext.NewPage()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("could not create new page: %w", err)
	}

	return page, cleanup, nil
}
