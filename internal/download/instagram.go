package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// instagramExtractor — извлечение прямой ссылки на видео со страницы поста
// работает без cookies: обычный GET с браузерными заголовками

type instagramExtractor struct {
	client *http.Client
	log    zerolog.Logger
}

const instaUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var videoURLRe = regexp.MustCompile(`"video_url":"([^"]+)"`)

func newInstagramExtractor(log zerolog.Logger) *instagramExtractor {
	return &instagramExtractor{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// download — скачать ролик по ссылке на пост в указанный файл
func (e *instagramExtractor) download(ctx context.Context, pageURL, dest string) error {
	videoURL, err := e.extractVideoURL(ctx, pageURL)
	if err != nil {
		return err
	}
	e.log.Debug().Str("page", pageURL).Str("video", videoURL).Msg("instagram video url extracted")

	resp, err := e.get(ctx, videoURL)
	if err != nil {
		return fmt.Errorf("fetch video: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch video: http %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("write video: %w", err)
	}
	return f.Close()
}

// extractVideoURL — найти прямую ссылку на видео в HTML страницы поста
func (e *instagramExtractor) extractVideoURL(ctx context.Context, pageURL string) (string, error) {
	resp, err := e.get(ctx, cleanInstagramURL(pageURL))
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	// мета-теги og:video — самый надёжный источник
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err == nil {
		for _, sel := range []string{`meta[property="og:video"]`, `meta[property="og:video:url"]`, `meta[property="og:video:secure_url"]`} {
			if u, ok := doc.Find(sel).Attr("content"); ok && u != "" {
				return unescapeJSONURL(u), nil
			}
		}
	}

	// fallback: video_url внутри встроенного JSON
	if m := videoURLRe.FindSubmatch(body); m != nil {
		return unescapeJSONURL(string(m[1])), nil
	}

	return "", fmt.Errorf("no video url found at %s", pageURL)
}

func (e *instagramExtractor) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", instaUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	return e.client.Do(req)
}

// cleanInstagramURL — убрать query-параметры и добавить завершающий слэш
func cleanInstagramURL(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// unescapeJSONURL — ссылка из встроенного JSON приходит с экранированием:
// каждый & закодирован как \u0026, слэши — как \/
func unescapeJSONURL(u string) string {
	return strings.NewReplacer(`\u0026`, "&", `\/`, "/").Replace(u)
}
