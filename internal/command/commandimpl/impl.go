package commandimpl

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/openclaw/twitter-media-telegram-bot/internal/command"
	"github.com/openclaw/twitter-media-telegram-bot/internal/parser"
	"github.com/openclaw/twitter-media-telegram-bot/internal/ratelimit"
	"github.com/openclaw/twitter-media-telegram-bot/internal/repositories/extraction"
	"github.com/openclaw/twitter-media-telegram-bot/internal/telegram"
	"github.com/openclaw/twitter-media-telegram-bot/internal/twitter"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/config"
	apperrors "github.com/openclaw/twitter-media-telegram-bot/pkg/errors"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram telegram.Client
	Parser   parser.Client
	Limiter  ratelimit.Limiter
	History  extraction.Repository
	Logger   logger.Logger
	Config   *config.Config
}

type CommandImpl struct {
	Telegram telegram.Client
	Parser   parser.Client
	Limiter  ratelimit.Limiter
	History  extraction.Repository
	Logger   logger.Logger
	Config   *config.Config
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram: opts.Telegram,
		Parser:   opts.Parser,
		Limiter:  opts.Limiter,
		History:  opts.History,
		Logger:   opts.Logger,
		Config:   opts.Config,
	}
}

var _ command.Client = (*CommandImpl)(nil)

func (c *CommandImpl) HandleUpdates(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Listening for updates")

	for {
		select {
		case <-ctx.Done():
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			c.handleMessage(ctx, update)
		}
	}
}

func (c *CommandImpl) handleMessage(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			c.handleStart(chatID)
		case "help":
			c.handleHelp(chatID)
		case "post":
			c.handlePostCommand(ctx, chatID, msg.CommandArguments())
		case "stats":
			c.handleStats(ctx, chatID)
		default:
			c.Telegram.SendMessage(chatID, "Unknown command. Try /help.")
		}
		return
	}

	// Bare messages containing a post URL work too.
	if url, ok := twitter.FindPostURL(msg.Text); ok {
		c.extractAndDeliver(ctx, chatID, url)
	}
}

func (c *CommandImpl) handlePostCommand(ctx context.Context, chatID int64, args string) {
	url, ok := twitter.FindPostURL(args)
	if !ok {
		c.Telegram.SendMessage(chatID,
			"Please provide a post URL: /post <twitter_or_x_post_url>")
		return
	}
	c.extractAndDeliver(ctx, chatID, url)
}

func (c *CommandImpl) extractAndDeliver(ctx context.Context, chatID int64, url string) {
	if !c.Limiter.Allow(chatID) {
		c.Telegram.SendMessage(chatID, "Too many requests, please slow down a little.")
		return
	}

	statusMsgID, err := c.Telegram.SendMessage(chatID, "🔍 Extracting media, please wait...")
	if err != nil {
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	plans, err := c.Parser.Extract(reqCtx, chatID, url)
	if err != nil {
		// Terminal outcomes are expected operation, not bot faults.
		if apperrors.IsTerminal(err) {
			c.Logger.Warn("Extraction rejected", "url", url, "error", err)
		} else {
			c.Logger.Error("Extraction failed", "url", url, "error", err)
		}
		c.Telegram.EditMessageText(chatID, statusMsgID, "❌ "+userFacingError(err))
		return
	}

	var sendErrs int
	for _, plan := range plans {
		if err := c.Telegram.SendDeliveryPlan(chatID, plan); err != nil {
			c.Logger.Error("Failed to deliver plan", "url", url, "error", err)
			sendErrs++
		}
	}

	if sendErrs > 0 {
		c.Telegram.EditMessageText(chatID, statusMsgID, "⚠️ Some media could not be delivered.")
		return
	}
	c.Telegram.DeleteMessage(chatID, statusMsgID)

	if c.Config.Telegram.Channel != "" {
		items := 0
		for _, plan := range plans {
			items += len(plan.Items)
		}
		c.Telegram.SendMessageToChannel(fmt.Sprintf("Extracted %d media item(s) from %s", items, url))
	}
}

func (c *CommandImpl) handleStart(chatID int64) {
	c.Telegram.SendMessage(chatID,
		"👋 Hi! Send me a Twitter/X post URL and I'll extract its images, GIFs and videos.\n\n"+
			"Example:\nhttps://x.com/username/status/1234567890")
}

func (c *CommandImpl) handleHelp(chatID int64) {
	c.Telegram.SendMessage(chatID,
		"How to use:\n\n"+
			"1. Send me a Twitter/X post URL (or use /post <url>)\n"+
			"2. I'll extract all images, GIFs and videos\n"+
			"3. Media is sent back here, albums stay in order\n\n"+
			"Commands:\n"+
			"/start - Start the bot\n"+
			"/help - Show this help\n"+
			"/post <url> - Extract a specific post\n"+
			"/stats - Extractions handled in the last 24h")
}

func (c *CommandImpl) handleStats(ctx context.Context, chatID int64) {
	count, err := c.History.CountSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		c.Logger.Error("Failed to count extractions", "error", err)
		c.Telegram.SendMessage(chatID, "Stats are unavailable right now.")
		return
	}
	c.Telegram.SendMessage(chatID, fmt.Sprintf("📊 %d extraction(s) in the last 24 hours.", count))
}
