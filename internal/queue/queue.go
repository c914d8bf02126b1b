package queue

import (
	"context"

	"video-replacer-bot/internal/match"
)

// Job — одно входящее сообщение с распознанными ссылками
// ссылки внутри задачи обрабатываются последовательно, задачи между собой — параллельно

type Job struct {
	ChatID     int64
	MessageID  int
	Sender     string
	Refs       []match.Reference
	ReceivedAt int64
}

// Queue — простая очередь с воркерами

type Queue struct {
	ch      chan Job
	workers int
}

func NewQueue(capacity, workers int) *Queue {
	if capacity <= 0 { capacity = 100 }
	if workers <= 0 { workers = 2 }
	return &Queue{ch: make(chan Job, capacity), workers: workers}
}

func (q *Queue) Enqueue(j Job) { q.ch <- j }

func (q *Queue) Start(ctx context.Context, worker func(ctx context.Context, job Job)) {
	for i := 0; i < q.workers; i++ {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case j := <-q.ch:
					worker(ctx, j)
				}
			}
		}()
	}
}
