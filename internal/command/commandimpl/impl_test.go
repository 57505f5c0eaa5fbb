package commandimpl

import (
	"context"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/config"
	apperrors "github.com/openclaw/twitter-media-telegram-bot/pkg/errors"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegram struct {
	sent    []string
	edited  []string
	deleted []int
	channel []string
	plans   []domain.DeliveryPlan
	planErr error
}

func (f *fakeTelegram) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return nil }
func (f *fakeTelegram) StopReceivingUpdates()                                        {}

func (f *fakeTelegram) SendMessage(_ int64, text string) (int, error) {
	f.sent = append(f.sent, text)
	return len(f.sent), nil
}

func (f *fakeTelegram) EditMessageText(_ int64, _ int, newText string) error {
	f.edited = append(f.edited, newText)
	return nil
}

func (f *fakeTelegram) DeleteMessage(_ int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTelegram) SendDeliveryPlan(_ int64, plan domain.DeliveryPlan) error {
	f.plans = append(f.plans, plan)
	return f.planErr
}

func (f *fakeTelegram) SendMessageToUser(string) {}

func (f *fakeTelegram) SendMessageToChannel(msg string) {
	f.channel = append(f.channel, msg)
}

type fakeParser struct {
	urls  []string
	plans []domain.DeliveryPlan
	err   error
}

func (f *fakeParser) Extract(_ context.Context, _ int64, rawURL string) ([]domain.DeliveryPlan, error) {
	f.urls = append(f.urls, rawURL)
	return f.plans, f.err
}

func (f *fakeParser) ScheduleHistoryCleanup(context.Context) error { return nil }

type fakeHistory struct {
	count int64
	err   error
}

func (f *fakeHistory) Create(context.Context, domain.Extraction) error { return nil }

func (f *fakeHistory) GetLatestByPostID(context.Context, string) (*domain.Extraction, error) {
	return nil, nil
}

func (f *fakeHistory) CountSince(context.Context, time.Time) (int64, error) {
	return f.count, f.err
}

func (f *fakeHistory) CleanupOldRecords(context.Context, time.Duration) (int64, error) {
	return 0, nil
}

type allowAll struct{}

func (allowAll) Allow(int64) bool { return true }

type denyAll struct{}

func (denyAll) Allow(int64) bool { return false }

func newTestCommand(tg *fakeTelegram, p *fakeParser) *CommandImpl {
	return New(Opts{
		Telegram: tg,
		Parser:   p,
		Limiter:  allowAll{},
		History:  &fakeHistory{},
		Logger:   logger.NewNop(),
		Config:   &config.Config{},
	})
}

func message(text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: 7},
		},
	}
}

func commandMessage(text string) tgbotapi.Update {
	u := message(text)
	u.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(splitFirstWord(text))},
	}
	return u
}

func splitFirstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}

func TestBareURLMessageTriggersExtraction(t *testing.T) {
	tg := &fakeTelegram{}
	p := &fakeParser{plans: []domain.DeliveryPlan{{Caption: "hi"}}}
	c := newTestCommand(tg, p)

	c.handleMessage(context.Background(), message("check this https://x.com/jack/status/20 out"))

	require.Len(t, p.urls, 1)
	assert.Equal(t, "https://x.com/jack/status/20", p.urls[0])
	require.Len(t, tg.plans, 1)
	assert.Len(t, tg.deleted, 1)
}

func TestNonURLMessageIsIgnored(t *testing.T) {
	tg := &fakeTelegram{}
	p := &fakeParser{}
	c := newTestCommand(tg, p)

	c.handleMessage(context.Background(), message("just chatting"))

	assert.Empty(t, p.urls)
	assert.Empty(t, tg.sent)
}

func TestPostCommandWithoutURLExplains(t *testing.T) {
	tg := &fakeTelegram{}
	p := &fakeParser{}
	c := newTestCommand(tg, p)

	c.handleMessage(context.Background(), commandMessage("/post"))

	assert.Empty(t, p.urls)
	require.Len(t, tg.sent, 1)
	assert.Contains(t, tg.sent[0], "/post")
}

func TestExtractionErrorEditsStatusMessage(t *testing.T) {
	tg := &fakeTelegram{}
	p := &fakeParser{err: fmt.Errorf("render: %w", apperrors.ErrContentUnavailable)}
	c := newTestCommand(tg, p)

	c.handleMessage(context.Background(), message("https://x.com/jack/status/20"))

	require.Len(t, tg.edited, 1)
	assert.Contains(t, tg.edited[0], "unavailable")
	assert.Empty(t, tg.deleted)
}

func TestRateLimitedChatGetsDenied(t *testing.T) {
	tg := &fakeTelegram{}
	p := &fakeParser{}
	c := New(Opts{
		Telegram: tg,
		Parser:   p,
		Limiter:  denyAll{},
		History:  &fakeHistory{},
		Logger:   logger.NewNop(),
		Config:   &config.Config{},
	})

	c.handleMessage(context.Background(), message("https://x.com/jack/status/20"))

	assert.Empty(t, p.urls)
	require.Len(t, tg.sent, 1)
	assert.Contains(t, tg.sent[0], "Too many requests")
}

func TestSuccessfulExtractionAnnouncedToChannel(t *testing.T) {
	tg := &fakeTelegram{}
	p := &fakeParser{plans: []domain.DeliveryPlan{
		{Items: make([]domain.FetchedMedia, 2)},
		{Items: make([]domain.FetchedMedia, 1)},
	}}
	cfg := &config.Config{}
	cfg.Telegram.Channel = "media_log"
	c := New(Opts{
		Telegram: tg,
		Parser:   p,
		Limiter:  allowAll{},
		History:  &fakeHistory{},
		Logger:   logger.NewNop(),
		Config:   cfg,
	})

	c.handleMessage(context.Background(), message("https://x.com/jack/status/20"))

	require.Len(t, tg.channel, 1)
	assert.Contains(t, tg.channel[0], "3 media item(s)")
	assert.Contains(t, tg.channel[0], "https://x.com/jack/status/20")
}

func TestNoChannelConfiguredNoAnnouncement(t *testing.T) {
	tg := &fakeTelegram{}
	p := &fakeParser{plans: []domain.DeliveryPlan{{Caption: "hi"}}}
	c := newTestCommand(tg, p)

	c.handleMessage(context.Background(), message("https://x.com/jack/status/20"))

	assert.Empty(t, tg.channel)
}

func TestStatsCommandReportsCount(t *testing.T) {
	tg := &fakeTelegram{}
	c := New(Opts{
		Telegram: tg,
		Parser:   &fakeParser{},
		Limiter:  allowAll{},
		History:  &fakeHistory{count: 7},
		Logger:   logger.NewNop(),
		Config:   &config.Config{},
	})

	c.handleMessage(context.Background(), commandMessage("/stats"))

	require.Len(t, tg.sent, 1)
	assert.Contains(t, tg.sent[0], "7 extraction(s)")
}

func TestUserFacingErrorMapping(t *testing.T) {
	assert.Contains(t, userFacingError(apperrors.ErrInvalidURL), "post URL")
	assert.Contains(t, userFacingError(apperrors.ErrRenderTimeout), "too long")
	assert.Contains(t, userFacingError(fmt.Errorf("boom")), "Something went wrong")
}
