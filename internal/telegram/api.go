package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"video-replacer-bot/internal/download"
	"video-replacer-bot/internal/match"
)

// Sender — минимальный интерфейс Telegram API для тестирования
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// Downloader — интерфейс загрузчика видео
type Downloader interface {
	Fetch(ctx context.Context, ref match.Reference) download.Result
}
