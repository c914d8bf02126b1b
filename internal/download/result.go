package download

import "strings"

// FailureReason — структурная причина неудачи загрузки
// по ней выбирается текст для пользователя, сырые ошибки yt-dlp наружу не выходят

type FailureReason string

const (
	ReasonNetwork       FailureReason = "network"
	ReasonGeoRestricted FailureReason = "geo_restricted"
	ReasonUnavailable   FailureReason = "unavailable"
	ReasonTooLarge      FailureReason = "too_large"
	ReasonPlatform      FailureReason = "platform_changed"
	ReasonUnknown       FailureReason = "unknown"
)

// Result — итог одной загрузки: либо файл, либо причина отказа

type Result struct {
	Path string
	Size int64

	Reason FailureReason
	Detail string // сырая диагностика для логов
}

// OK — загрузка завершилась файлом
func (r Result) OK() bool { return r.Reason == "" }

func failure(reason FailureReason, detail string) Result {
	return Result{Reason: reason, Detail: detail}
}

// classify — разбор текста ошибки yt-dlp в причину
// строки-маркеры взяты из реальных ответов yt-dlp
func classify(stderr string) FailureReason {
	s := strings.ToLower(stderr)
	switch {
	case contains(s, "not available in your country", "geo restricted", "geo-restricted"):
		return ReasonGeoRestricted
	case contains(s, "video unavailable", "private video", "has been removed", "no longer available", "account associated with this video has been terminated"):
		return ReasonUnavailable
	case contains(s, "unable to download webpage", "http error", "timed out", "timeout", "connection refused", "connection reset", "network is unreachable", "temporary failure in name resolution", "tls handshake"):
		return ReasonNetwork
	case contains(s, "unsupported url", "unable to extract", "no video formats found", "unable to parse"):
		return ReasonPlatform
	default:
		return ReasonUnknown
	}
}

func contains(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
