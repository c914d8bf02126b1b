package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config — общая конфигурация приложения
// комментарии КРАТКИЕ и на русском; логи — на английском
// заполняется один раз при старте и дальше только читается

type Config struct {
	BotToken    string
	DownloadDir string
	YtDlpPath   string
	FFmpegPath  string
	HTTPProxy   string

	MaxFileMB     int64
	TargetQuality int

	// политика удаления исходного сообщения при нескольких ссылках:
	// "any" — хотя бы одна успешна, "all" — все успешны
	DeletePolicy string

	Concurrency   int
	QueueCapacity int

	DownloadTimeoutSec int
	UploadTimeoutSec   int
	CleanupTTLHours    int

	LogLevel string
}

const (
	DeleteIfAny = "any"
	DeleteIfAll = "all"
)

// Load — загрузка конфигурации из окружения (+ .env если есть)
func Load() (*Config, error) {
	_ = godotenv.Load() // необязательно

	cfg := &Config{
		BotToken:    strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		DownloadDir: getEnv("DOWNLOAD_DIR", "./downloads"),
		YtDlpPath:   strings.TrimSpace(os.Getenv("YTDLP_PATH")),
		FFmpegPath:  strings.TrimSpace(os.Getenv("FFMPEG_PATH")),
		HTTPProxy:   strings.TrimSpace(os.Getenv("HTTP_PROXY")),

		MaxFileMB:     atoi64Default(os.Getenv("MAX_FILE_SIZE"), 50),
		TargetQuality: atoiDefault(os.Getenv("TARGET_QUALITY"), 720),

		DeletePolicy: strings.ToLower(getEnv("DELETE_POLICY", DeleteIfAny)),

		Concurrency:   atoiDefault(os.Getenv("CONCURRENCY"), 2),
		QueueCapacity: atoiDefault(os.Getenv("QUEUE_CAPACITY"), 100),

		DownloadTimeoutSec: atoiDefault(os.Getenv("DOWNLOAD_TIMEOUT_SEC"), 180),
		UploadTimeoutSec:   atoiDefault(os.Getenv("UPLOAD_TIMEOUT_SEC"), 300),
		CleanupTTLHours:    atoiDefault(os.Getenv("CLEANUP_TTL_HOURS"), 12),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}
	if cfg.DeletePolicy != DeleteIfAny && cfg.DeletePolicy != DeleteIfAll {
		return nil, fmt.Errorf("DELETE_POLICY must be %q or %q, got %q", DeleteIfAny, DeleteIfAll, cfg.DeletePolicy)
	}

	// создать директорию загрузок
	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	// нормализуем путь
	if d, err := filepath.Abs(cfg.DownloadDir); err == nil {
		cfg.DownloadDir = d
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	if s == "" { return def }
	if v, err := strconv.Atoi(s); err == nil { return v }
	return def
}

func atoi64Default(s string, def int64) int64 {
	if s == "" { return def }
	if v, err := strconv.ParseInt(s, 10, 64); err == nil { return v }
	return def
}
