package match

import (
	"regexp"
	"sort"
	"strings"
)

// Platform — платформа короткого видео

type Platform string

const (
	YouTubeShorts  Platform = "youtube"
	TikTok         Platform = "tiktok"
	InstagramReels Platform = "instagram"
)

// Reference — распознанная ссылка на видео
// URL — каноническая ссылка, ID — стабильный идентификатор ролика

type Reference struct {
	Platform Platform
	URL      string
	ID       string
}

// хвост ссылки после идентификатора: путь или query до пробела,
// закрывающие скобки/кавычки/запятая считаются границей текста, а не ссылки
const urlTail = `(?:[/?#&][^\s()\[\]<>"',]*)?`

// шаблоны ссылок: хост без учёта регистра, схема и www необязательны,
// ссылка может быть вклеена в текст без пробела
// обычные ссылки youtube.com/watch и youtu.be НЕ считаются Shorts
var (
	ytShortsRe    = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/([0-9A-Za-z_-]{11})` + urlTail)
	tiktokVideoRe = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.|m\.)?tiktok\.com/@[\w.-]+/video/(\d+)` + urlTail)
	tiktokShortRe = regexp.MustCompile(`(?i)\b(?:https?://)?(?:(?:vm|vt)\.tiktok\.com|(?:www\.)?tiktok\.com/t)/([0-9A-Za-z]+)` + urlTail)
	instaReelRe   = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?instagram\.com/reels?/([0-9A-Za-z_-]+)` + urlTail)
)

type pattern struct {
	platform Platform
	re       *regexp.Regexp
}

var patterns = []pattern{
	{YouTubeShorts, ytShortsRe},
	{TikTok, tiktokVideoRe},
	{TikTok, tiktokShortRe},
	{InstagramReels, instaReelRe},
}

// FindReferences — извлечь все распознанные ссылки из текста сообщения
// чистая функция: порядок ссылок соответствует порядку в тексте,
// нераспознанные ссылки пропускаются
func FindReferences(text string) []Reference {
	type hit struct {
		start, end int
		ref        Reference
	}

	var hits []hit
	for _, p := range patterns {
		for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
			// идентификатор оборван на середине — это не ссылка на ролик
			if idx[1] == idx[3] && idx[1] < len(text) && isIDByte(text[idx[1]]) {
				continue
			}
			hits = append(hits, hit{
				start: idx[0],
				end:   idx[1],
				ref: Reference{
					Platform: p.platform,
					URL:      canonicalURL(text[idx[0]:idx[1]]),
					ID:       text[idx[2]:idx[3]],
				},
			})
		}
	}
	if hits == nil {
		return nil
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	// ссылка, «проглоченная» хвостом предыдущей, — часть её query, не отдельный ролик
	var refs []Reference
	lastEnd := -1
	for _, h := range hits {
		if h.start < lastEnd {
			continue
		}
		refs = append(refs, h.ref)
		lastEnd = h.end
	}
	return refs
}

func isIDByte(b byte) bool {
	return b == '_' || b == '-' ||
		('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// canonicalURL — дополнить схему, если её нет
func canonicalURL(u string) string {
	if strings.HasPrefix(strings.ToLower(u), "http://") || strings.HasPrefix(strings.ToLower(u), "https://") {
		return u
	}
	return "https://" + u
}
