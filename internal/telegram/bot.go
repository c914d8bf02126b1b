package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"video-replacer-bot/internal/config"
	"video-replacer-bot/internal/files"
	"video-replacer-bot/internal/match"
	"video-replacer-bot/internal/queue"
	"video-replacer-bot/internal/state"
)

// Bot — приём сообщений и оркестрация замены ссылки на видео

type Bot struct {
	api   Sender
	cfg   *config.Config
	store *state.Store
	q     *queue.Queue
	dl    Downloader
	log   zerolog.Logger
}

// handledTTL — сколько помним обработанные сообщения
const handledTTL = 24 * time.Hour

func NewBot(api Sender, cfg *config.Config, st *state.Store, q *queue.Queue, dl Downloader, log zerolog.Logger) *Bot {
	return &Bot{api: api, cfg: cfg, store: st, q: q, dl: dl, log: log}
}

func (b *Bot) Start(ctx context.Context) error {
	updCfg := tgbotapi.NewUpdate(0)
	updCfg.Timeout = 30

	updates := b.api.GetUpdatesChan(updCfg)
	b.log.Info().Str("download_dir", b.cfg.DownloadDir).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-updates:
			if u.Message != nil {
				b.handleMessage(u.Message)
			}
		}
	}
}

// handleMessage — матчинг ссылок и постановка задачи в очередь
// сообщения без распознанных ссылок не трогаем
func (b *Bot) handleMessage(m *tgbotapi.Message) {
	text := strings.TrimSpace(m.Text)
	if text == "" {
		return
	}

	switch {
	case strings.HasPrefix(text, "/start"):
		b.reply(m.Chat.ID, msgStart, 0)
		return
	case strings.HasPrefix(text, "/help"):
		b.reply(m.Chat.ID, msgHelp, 0)
		return
	}

	refs := match.FindReferences(text)
	if len(refs) == 0 {
		return
	}

	// каждая ссылка обрабатывается не больше одного раза,
	// повторная доставка апдейта не порождает вторую загрузку
	key := state.Key(m.Chat.ID, m.MessageID)
	if !b.store.MarkHandled(key, handledTTL) {
		b.log.Debug().Str("key", key).Msg("message already handled, skipping")
		return
	}

	job := queue.Job{
		ChatID:     m.Chat.ID,
		MessageID:  m.MessageID,
		Sender:     senderName(m),
		Refs:       refs,
		ReceivedAt: time.Now().Unix(),
	}
	b.q.Enqueue(job)
	b.log.Info().Int64("chat", m.Chat.ID).Int("message", m.MessageID).Int("refs", len(refs)).Msg("job enqueued")
}

// Worker — обработчик задачи: ссылки по порядку, затем решение об удалении исходника
func (b *Bot) Worker(ctx context.Context, job queue.Job) {
	succeeded := 0
	for _, ref := range job.Refs {
		if b.processReference(ctx, job, ref) {
			succeeded++
		}
	}

	// исходное сообщение с нерабочей ссылкой должно остаться на виду
	shouldDelete := succeeded > 0
	if b.cfg.DeletePolicy == config.DeleteIfAll {
		shouldDelete = succeeded == len(job.Refs)
	}
	if !shouldDelete {
		return
	}

	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(job.ChatID, job.MessageID)); err != nil {
		// видео уже в чате, падение всего потока здесь только ввело бы в заблуждение
		b.log.Warn().Err(err).Int64("chat", job.ChatID).Int("message", job.MessageID).Msg("delete original message failed")
		return
	}
	b.log.Debug().Int64("chat", job.ChatID).Int("message", job.MessageID).Msg("original message deleted")
}

// processReference — скачать → отправить → убрать временный файл
// возвращает true, если видео доставлено в чат
func (b *Bot) processReference(ctx context.Context, job queue.Job, ref match.Reference) bool {
	progressID := b.reply(job.ChatID, msgProcessing, job.MessageID)

	res := b.dl.Fetch(ctx, ref)
	if !res.OK() {
		b.log.Error().
			Str("platform", string(ref.Platform)).
			Str("url", ref.URL).
			Str("reason", string(res.Reason)).
			Str("detail", res.Detail).
			Msg("download failed")
		b.notify(job, progressID, failureText(res.Reason, b.cfg.MaxFileMB))
		return false
	}

	v := tgbotapi.NewVideo(job.ChatID, tgbotapi.FilePath(res.Path))
	if job.Sender != "" {
		v.Caption = "Прислал: " + job.Sender
	}
	v.SupportsStreaming = true
	_, sendErr := b.api.Send(v)

	// временный файл убираем независимо от исхода отправки
	if err := files.RemoveIfExists(res.Path); err != nil {
		b.log.Warn().Err(err).Str("path", res.Path).Msg("remove temp file failed")
	}

	if sendErr != nil {
		b.log.Error().Err(sendErr).Str("url", ref.URL).Msg("upload failed")
		b.notify(job, progressID, msgUploadFailed)
		return false
	}

	b.log.Info().Str("url", ref.URL).Str("size", files.HumanSize(res.Size)).Msg("video delivered")

	// прогресс-сообщение больше не нужно
	if progressID != 0 {
		_, _ = b.api.Request(tgbotapi.NewDeleteMessage(job.ChatID, progressID))
	}
	return true
}

// notify — показать пользователю текст ошибки
// правим прогресс-сообщение, а если его нет — отвечаем на исходное
func (b *Bot) notify(job queue.Job, progressID int, text string) {
	if progressID != 0 {
		edit := tgbotapi.NewEditMessageText(job.ChatID, progressID, text)
		if _, err := b.api.Request(edit); err == nil {
			return
		}
	}
	b.reply(job.ChatID, text, job.MessageID)
}

func (b *Bot) reply(chatID int64, text string, replyTo int) int {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyTo > 0 { msg.ReplyToMessageID = replyTo }
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Warn().Err(err).Int64("chat", chatID).Msg("send message failed")
		return 0
	}
	return sent.MessageID
}

// senderName — подпись автора для подписи к видео
func senderName(m *tgbotapi.Message) string {
	if m.From != nil {
		switch {
		case m.From.UserName != "":
			return "@" + m.From.UserName
		case m.From.FirstName != "" && m.From.LastName != "":
			return m.From.FirstName + " " + m.From.LastName
		case m.From.FirstName != "":
			return m.From.FirstName
		default:
			return fmt.Sprintf("id %d", m.From.ID)
		}
	}
	if m.SenderChat != nil {
		if m.SenderChat.Title != "" {
			return m.SenderChat.Title
		}
		return fmt.Sprintf("chat %d", m.SenderChat.ID)
	}
	return ""
}
