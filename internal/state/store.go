package state

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Store — учёт уже обработанных сообщений с TTL
// гарантирует, что ссылка из одного сообщения обрабатывается не больше одного раза,
// даже если Telegram доставит апдейт повторно

type entry struct {
	expiresAt time.Time
}

type Store struct {
	mu   sync.Mutex
	data map[string]entry
}

func NewStore() *Store {
	return &Store{data: make(map[string]entry)}
}

// Key — ключ сообщения в рамках чата
func Key(chatID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}

// MarkHandled — отметить сообщение обработанным
// возвращает false, если оно уже было отмечено раньше
func (s *Store) MarkHandled(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.data[key]; ok && time.Now().Before(e.expiresAt) {
		return false
	}
	s.data[key] = entry{expiresAt: time.Now().Add(ttl)}
	return true
}

func (s *Store) StartGC(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.gc()
			}
		}
	}()
}

func (s *Store) gc() {
	s.mu.Lock(); defer s.mu.Unlock()
	now := time.Now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
