package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/openclaw/twitter-media-telegram-bot/internal/command"
	"github.com/openclaw/twitter-media-telegram-bot/internal/command/commandimpl"
	"github.com/openclaw/twitter-media-telegram-bot/internal/composer"
	"github.com/openclaw/twitter-media-telegram-bot/internal/composer/composerimpl"
	"github.com/openclaw/twitter-media-telegram-bot/internal/fetcher"
	"github.com/openclaw/twitter-media-telegram-bot/internal/fetcher/fetcherimpl"
	_ "github.com/openclaw/twitter-media-telegram-bot/internal/migrations"
	"github.com/openclaw/twitter-media-telegram-bot/internal/parser"
	"github.com/openclaw/twitter-media-telegram-bot/internal/parser/parserimpl"
	"github.com/openclaw/twitter-media-telegram-bot/internal/ratelimit"
	"github.com/openclaw/twitter-media-telegram-bot/internal/renderer"
	"github.com/openclaw/twitter-media-telegram-bot/internal/renderer/rendererimpl"
	repositories "github.com/openclaw/twitter-media-telegram-bot/internal/repositories/fx"
	"github.com/openclaw/twitter-media-telegram-bot/internal/scraper"
	"github.com/openclaw/twitter-media-telegram-bot/internal/scraper/scraperimpl"
	"github.com/openclaw/twitter-media-telegram-bot/internal/telegram"
	"github.com/openclaw/twitter-media-telegram-bot/internal/telegram/telegramimpl"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/config"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/logger"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/pgx"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		rendererimpl.NewPlaywrightManager,
		newLimiter,
	),
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			rendererimpl.New,
			fx.As(new(renderer.Client)),
		),
		fx.Annotate(
			scraperimpl.New,
			fx.As(new(scraper.Client)),
		),
		fx.Annotate(
			fetcherimpl.New,
			fx.As(new(fetcher.Client)),
		),
		fx.Annotate(
			composerimpl.New,
			fx.As(new(composer.Client)),
		),
		fx.Annotate(
			parserimpl.New,
			fx.As(new(parser.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
	),
	repositories.Module,
	fx.Invoke(runMigrations),
	fx.Invoke(run),
)

// One extraction every 10 seconds per chat, short burst for album threads.
func newLimiter() ratelimit.Limiter {
	return ratelimit.NewInMemoryLimiter(1, 10*time.Second, 3)
}

func runMigrations(cfg *config.Config, log logger.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("pgx", pgx.ConnString(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	// Migrations are compiled in via internal/migrations, no directory scan.
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Migrations applied")
	return nil
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, tgClient telegram.Client,
	pClient parser.Client, cmdClient command.Client) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			go startHttpServer(log, cfg)

			if err := pClient.ScheduleHistoryCleanup(ctx); err != nil {
				log.Error("Failed to schedule history cleanup", "error", err)
				tgClient.SendMessageToUser("History cleanup scheduling error: " + err.Error())
			}

			go func() {
				if err := cmdClient.HandleUpdates(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("Update loop stopped", "error", err)
					tgClient.SendMessageToUser("Update loop error: " + err.Error())
				}
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start", "error", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
