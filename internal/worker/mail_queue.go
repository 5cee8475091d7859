package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/unirecords-backend/internal/config"
	"github.com/stemsi/unirecords-backend/internal/mailer"
)

type mailPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Attempts int    `json:"attempts"`
}

// MailQueue is a mailer.Mailer that defers delivery to MailWorker by
// pushing messages onto a Redis list.
type MailQueue struct {
	rdb *redis.Client
	key string
}

func NewMailQueue(rdb *redis.Client) *MailQueue {
	return &MailQueue{rdb: rdb, key: config.CacheKey.MailQueueKey()}
}

// Send enqueues msg. Delivery errors surface in the worker log, not here.
func (q *MailQueue) Send(ctx context.Context, msg mailer.Message) error {
	if msg.To == "" {
		return mailer.ErrNoRecipient
	}
	raw, err := json.Marshal(mailPayload{To: msg.To, Subject: msg.Subject, Body: msg.Body})
	if err != nil {
		return err
	}
	if err := q.rdb.RPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}

// Len reports how many messages are waiting.
func (q *MailQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
