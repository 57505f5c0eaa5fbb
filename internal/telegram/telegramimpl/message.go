package telegramimpl

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
)

// SendMessage sends a message to a specific chat ID
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	sentMsg, err := tg.TgBot.Send(msg)
	if err != nil {
		tg.Logger.Error("Error sending message",
			"chatID", chatID,
			"error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	return sentMsg.MessageID, nil
}

// EditMessageText replaces the text of an already sent message
func (tg *TelegramImpl) EditMessageText(chatID int64, messageID int, newText string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, newText)
	if _, err := tg.TgBot.Send(edit); err != nil {
		tg.Logger.Error("Error editing message",
			"chatID", chatID,
			"messageID", messageID,
			"error", err)
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// DeleteMessage removes a previously sent message, e.g. a progress notice
func (tg *TelegramImpl) DeleteMessage(chatID int64, messageID int) error {
	del := tgbotapi.NewDeleteMessage(chatID, messageID)
	if _, err := tg.TgBot.Request(del); err != nil {
		tg.Logger.Error("Error deleting message",
			"chatID", chatID,
			"messageID", messageID,
			"error", err)
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// SendMessageToUser sends a text message to the configured user
func (tg *TelegramImpl) SendMessageToUser(message string) {
	msg := tgbotapi.NewMessage(tg.Config.Telegram.User, message)
	_, err := tg.TgBot.Send(msg)
	if err != nil {
		tg.Logger.Error("Error sending message to user",
			"userID", tg.Config.Telegram.User,
			"error", err)
		return
	}
}

// SendMessageToChannel sends a text message to the configured channel.
// A no-op when no channel is configured.
func (tg *TelegramImpl) SendMessageToChannel(message string) {
	if tg.Config.Telegram.Channel == "" {
		return
	}

	channelName := "@" + tg.Config.Telegram.Channel
	msg := tgbotapi.NewMessageToChannel(channelName, message)
	if _, err := tg.TgBot.Send(msg); err != nil {
		tg.Logger.Error("Error sending message to channel",
			"channel", channelName,
			"error", err)
	}
}

// SendDeliveryPlan dispatches one plan to the chat. Payloads are sent from
// memory; nothing is written to disk. Captions arrive pre-escaped MarkdownV2.
func (tg *TelegramImpl) SendDeliveryPlan(chatID int64, plan domain.DeliveryPlan) error {
	switch len(plan.Items) {
	case 0:
		return tg.sendCaptionMessage(chatID, plan.Caption)
	case 1:
		return tg.sendSingle(chatID, plan.Items[0], plan.Caption)
	default:
		return tg.sendAlbum(chatID, plan.Items, plan.Caption)
	}
}

func (tg *TelegramImpl) sendCaptionMessage(chatID int64, caption string) error {
	msg := tgbotapi.NewMessage(chatID, caption)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := tg.TgBot.Send(msg); err != nil {
		tg.Logger.Error("Error sending caption message",
			"chatID", chatID,
			"error", err)
		return fmt.Errorf("failed to send caption message: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) sendSingle(chatID int64, media domain.FetchedMedia, caption string) error {
	file := fileBytes(media)

	var err error
	switch media.Item.Kind {
	case domain.MediaKindImage:
		msg := tgbotapi.NewPhoto(chatID, file)
		msg.Caption = caption
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		_, err = tg.TgBot.Send(msg)
	case domain.MediaKindVideo:
		msg := tgbotapi.NewVideo(chatID, file)
		msg.Caption = caption
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		_, err = tg.TgBot.Send(msg)
	case domain.MediaKindAnimation:
		msg := tgbotapi.NewAnimation(chatID, file)
		msg.Caption = caption
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		_, err = tg.TgBot.Send(msg)
	default:
		return fmt.Errorf("unsupported media kind: %v", media.Item.Kind)
	}

	if err != nil {
		tg.Logger.Error("Error sending media",
			"chatID", chatID,
			"kind", media.Item.Kind.String(),
			"error", err)
		return fmt.Errorf("failed to send %s: %w", media.Item.Kind, err)
	}
	return nil
}

func (tg *TelegramImpl) sendAlbum(chatID int64, items []domain.FetchedMedia, caption string) error {
	// The composer only ever groups photos and videos; animations arrive as
	// single-item plans.
	group := make([]interface{}, 0, len(items))
	for i, media := range items {
		switch media.Item.Kind {
		case domain.MediaKindVideo:
			video := tgbotapi.NewInputMediaVideo(fileBytes(media))
			if i == 0 {
				video.Caption = caption
				video.ParseMode = tgbotapi.ModeMarkdownV2
			}
			group = append(group, video)
		default:
			photo := tgbotapi.NewInputMediaPhoto(fileBytes(media))
			if i == 0 {
				photo.Caption = caption
				photo.ParseMode = tgbotapi.ModeMarkdownV2
			}
			group = append(group, photo)
		}
	}

	if _, err := tg.TgBot.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, group)); err != nil {
		tg.Logger.Error("Error sending media group",
			"chatID", chatID,
			"items", len(items),
			"error", err)
		return fmt.Errorf("failed to send media group: %w", err)
	}
	return nil
}

func fileBytes(media domain.FetchedMedia) tgbotapi.FileBytes {
	return tgbotapi.FileBytes{
		Name:  fmt.Sprintf("media_%d%s", media.Item.Ordinal, extensionFor(media.ContentType)),
		Bytes: media.Payload,
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	default:
		return ""
	}
}
