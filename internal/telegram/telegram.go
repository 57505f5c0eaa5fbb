package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
)

type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	SendMessage(chatID int64, text string) (int, error)
	EditMessageText(chatID int64, messageID int, newText string) error
	DeleteMessage(chatID int64, messageID int) error

	// SendDeliveryPlan dispatches one plan: caption-only message, single
	// media message or grouped album, depending on the item count.
	SendDeliveryPlan(chatID int64, plan domain.DeliveryPlan) error

	SendMessageToUser(msg string)
	SendMessageToChannel(msg string)
}
