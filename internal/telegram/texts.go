package telegram

import (
	"fmt"

	"video-replacer-bot/internal/download"
)

// тексты для пользователя — по-русски и без технических деталей

const (
	msgStart = "Привет! Я слежу за ссылками на YouTube Shorts, TikTok и Instagram Reels: " +
		"скачиваю видео, заливаю его прямо в чат и убираю исходное сообщение со ссылкой."
	msgHelp = "Просто пришлите в чат ссылку на Shorts, TikTok или Reels — остальное я сделаю сам. " +
		"Слишком большие видео отправить не смогу."

	msgProcessing   = "⏳ Обрабатываю видео…"
	msgUploadFailed = "❌ Видео скачалось, но отправить его в чат не получилось."
)

// failureText — текст уведомления по причине отказа загрузки
func failureText(reason download.FailureReason, maxMB int64) string {
	switch reason {
	case download.ReasonNetwork:
		return "❌ Сетевая ошибка при скачивании. Попробуйте ещё раз чуть позже."
	case download.ReasonGeoRestricted:
		return "❌ Это видео недоступно в регионе, где работает бот."
	case download.ReasonUnavailable:
		return "❌ Видео удалено или доступно только его автору."
	case download.ReasonTooLarge:
		return fmt.Sprintf("❌ Видео больше лимита в %d МБ — отправить его не смогу.", maxMB)
	case download.ReasonPlatform:
		return "❌ Не получилось разобрать страницу с видео. Возможно, платформа что-то поменяла."
	default:
		return "❌ Не удалось скачать видео."
	}
}
