package download

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"video-replacer-bot/internal/config"
	"video-replacer-bot/internal/files"
	"video-replacer-bot/internal/match"
)

// Runner — обёртка над yt-dlp с проверкой размера и разбором ошибок

type Runner struct {
	cfg   *config.Config
	log   zerolog.Logger
	insta *instagramExtractor
}

func NewRunner(cfg *config.Config, log zerolog.Logger) *Runner {
	return &Runner{
		cfg:   cfg,
		log:   log,
		insta: newInstagramExtractor(log),
	}
}

// Fetch — скачать видео по ссылке с учётом политики качества и размера
// всегда возвращает либо файл в пределах лимита, либо причину отказа;
// файл сверх лимита удаляется сразу и наружу не выходит
func (r *Runner) Fetch(ctx context.Context, ref match.Reference) Result {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.DownloadTimeoutSec)*time.Second)
	defer cancel()

	// для Instagram сперва пробуем извлечь прямую ссылку без yt-dlp
	if ref.Platform == match.InstagramReels {
		path := filepath.Join(r.cfg.DownloadDir, fmt.Sprintf("%s_%s.mp4", ref.Platform, uuid.NewString()))
		if err := r.insta.download(ctx, ref.URL, path); err == nil {
			return r.finish(path)
		} else {
			r.log.Debug().Err(err).Str("url", ref.URL).Msg("instagram extractor failed, falling back to yt-dlp")
			_ = files.RemoveIfExists(path)
		}
	}

	return r.runYtDlp(ctx, ref)
}

func (r *Runner) runYtDlp(ctx context.Context, ref match.Reference) Result {
	// уникальное имя на каждую загрузку, чтобы параллельные задачи не пересекались
	base := fmt.Sprintf("%s_%s", ref.Platform, uuid.NewString())
	template := base + ".%(ext)s"

	args := []string{"-q", "--no-warnings", "--no-progress", "--no-playlist"}
	args = append(args, "-o", template, "-P", r.cfg.DownloadDir)

	if r.cfg.FFmpegPath != "" { args = append(args, "--ffmpeg-location", r.cfg.FFmpegPath) }
	if r.cfg.HTTPProxy != "" { args = append(args, "--proxy", r.cfg.HTTPProxy) }

	// качество: целевое или ближайшее ниже
	q := r.cfg.TargetQuality
	args = append(args,
		"-f", fmt.Sprintf("bv*[height<=%d]+ba/b[ext=mp4]/best[height<=%d]", q, q),
		"--merge-output-format", "mp4",
	)

	// хотим получить итоговый путь
	args = append(args, "--print", "after_move:filepath")
	args = append(args, ref.URL)

	bin := r.cfg.YtDlpPath
	if bin == "" { bin = "yt-dlp" }

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.cfg.DownloadDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		r.removeLeftovers(base)
		detail := truncate(stderr.String(), 400)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return failure(ReasonNetwork, fmt.Sprintf("download timed out after %ds", r.cfg.DownloadTimeoutSec))
		}
		if detail == "" { detail = err.Error() }
		return failure(classify(detail), detail)
	}

	path := parsePrintedPath(stdout.Bytes())
	if path == "" {
		r.removeLeftovers(base)
		return failure(ReasonUnknown, "failed to determine output file path")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.cfg.DownloadDir, path)
	}
	return r.finish(path)
}

// finish — финальная проверка скачанного файла против лимита размера
func (r *Runner) finish(path string) Result {
	fi, err := os.Stat(path)
	if err != nil {
		return failure(ReasonUnknown, fmt.Sprintf("downloaded file missing: %v", err))
	}
	if files.TooLarge(fi.Size(), r.cfg.MaxFileMB) {
		_ = os.Remove(path)
		return failure(ReasonTooLarge, fmt.Sprintf("file size %s exceeds limit %d MB", files.HumanSize(fi.Size()), r.cfg.MaxFileMB))
	}
	return Result{Path: path, Size: fi.Size()}
}

// removeLeftovers — убрать частично скачанные файлы этой задачи
func (r *Runner) removeLeftovers(base string) {
	matches, err := filepath.Glob(filepath.Join(r.cfg.DownloadDir, base+"*"))
	if err != nil {
		return
	}
	for _, m := range matches {
		_ = os.Remove(m)
	}
}

func parsePrintedPath(b []byte) string {
	s := bufio.NewScanner(bytes.NewReader(b))
	var last string
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line != "" { last = line }
	}
	return last
}

// срез может попасть на середину многобайтового символа —
// битые байты на границе выбрасываем
func truncate(s string, n int) string {
	if len(s) <= n { return s }
	return strings.ToValidUTF8(s[:n], "")
}
