package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// EnsureDir — создать директорию, если нет
func EnsureDir(dir string) error { return os.MkdirAll(dir, 0o755) }

// RemoveIfExists — удалить файл, если существует
func RemoveIfExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return os.Remove(path)
	} else if os.IsNotExist(err) {
		return nil
	} else {
		return err
	}
}

// TooLarge — проверка на превышение лимита (в МБ)
func TooLarge(sizeBytes int64, maxMB int64) bool {
	return sizeBytes > maxMB*1024*1024
}

// HumanSize — человекочитаемый размер файла
func HumanSize(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// PurgeDir — удалить все файлы из директории загрузок
// вызывается при старте: после перезапуска временные файлы никому не нужны
func PurgeDir(dir string, log zerolog.Logger) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := os.Remove(p); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("purge: remove failed")
			continue
		}
		removed++
	}
	return removed, nil
}

// StartCleanup — фоновая очистка старых файлов
// страховка на случай, если какой-то поток не убрал за собой
func StartCleanup(ctx context.Context, dir string, ttlHours int, log zerolog.Logger) {
	if ttlHours <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := CleanupOnce(dir, time.Duration(ttlHours)*time.Hour, log); err != nil {
					log.Warn().Err(err).Msg("cleanup failed")
				}
			}
		}
	}()
}

// CleanupOnce — разовая очистка файлов старше заданного возраста
func CleanupOnce(dir string, olderThan time.Duration, log zerolog.Logger) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		fi, err := e.Info()
		if err != nil {
			continue
		}
		if fi.ModTime().Before(cutoff) {
			if err := os.Remove(p); err != nil {
				log.Warn().Err(err).Str("path", p).Msg("cleanup: remove failed")
				continue
			}
			removed++
		}
	}
	return removed, nil
}
