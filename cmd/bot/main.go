package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"video-replacer-bot/internal/config"
	"video-replacer-bot/internal/download"
	"video-replacer-bot/internal/files"
	"video-replacer-bot/internal/logger"
	"video-replacer-bot/internal/queue"
	"video-replacer-bot/internal/state"
	"video-replacer-bot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.LogLevel)

	if err := files.EnsureDir(cfg.DownloadDir); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure download dir")
	}
	// после перезапуска недокачанные файлы никому не нужны
	if n, err := files.PurgeDir(cfg.DownloadDir, log); err != nil {
		log.Warn().Err(err).Msg("startup purge failed")
	} else if n > 0 {
		log.Info().Int("removed", n).Msg("startup purge done")
	}

	// таймаут HTTP-клиента ограничивает и отправку больших видео
	client := &http.Client{Timeout: time.Duration(cfg.UploadTimeoutSec) * time.Second}
	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init bot api")
	}
	api.Debug = false
	log.Info().Str("account", api.Self.UserName).Msg("authorized")

	st := state.NewStore()
	q := queue.NewQueue(cfg.QueueCapacity, cfg.Concurrency)
	dl := download.NewRunner(cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// GC стора обработанных сообщений и очистка забытых файлов
	st.StartGC(ctx, 5*time.Minute)
	files.StartCleanup(ctx, cfg.DownloadDir, cfg.CleanupTTLHours, log)

	b := telegram.NewBot(api, cfg, st, q, dl, log)

	// запуск воркеров очереди
	q.Start(ctx, b.Worker)

	// graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutting down...")
		cancel()
	}()

	if err := b.Start(ctx); err != nil {
		log.Info().Err(err).Msg("stopped")
	}
}
