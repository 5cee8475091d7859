package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/config"
	"github.com/stemsi/unirecords-backend/internal/mailer"
)

// MailWorker consumes the mail queue and hands each message to a transport.
type MailWorker struct {
	rdb         *redis.Client
	transport   mailer.Mailer
	key         string
	maxAttempts int
	retryDelay  time.Duration
	log         zerolog.Logger
}

// NewMailWorker creates a new MailWorker.
func NewMailWorker(rdb *redis.Client, transport mailer.Mailer, maxAttempts int, log zerolog.Logger) *MailWorker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MailWorker{
		rdb:         rdb,
		transport:   transport,
		key:         config.CacheKey.MailQueueKey(),
		maxAttempts: maxAttempts,
		retryDelay:  5 * time.Second,
		log:         log.With().Str("component", "mail_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine.
func (w *MailWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			w.drain(drainCtx)
			cancel()
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *MailWorker) processNext(ctx context.Context) {
	result, err := w.rdb.BLPop(ctx, time.Second, w.key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
			w.sleep(ctx)
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.deliver(ctx, result[1]); err != nil {
		w.sleep(ctx)
	}
}

// deliver sends one raw payload. A failed send is pushed back with its
// attempt count raised until maxAttempts is reached, then dropped.
func (w *MailWorker) deliver(ctx context.Context, raw string) error {
	var p mailPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping message")
		return nil
	}

	err := w.transport.Send(ctx, mailer.Message{To: p.To, Subject: p.Subject, Body: p.Body})
	if err == nil {
		return nil
	}

	p.Attempts++
	if p.Attempts >= w.maxAttempts || errors.Is(err, mailer.ErrNoRecipient) {
		w.log.Error().Err(err).
			Str("to", p.To).
			Int("attempts", p.Attempts).
			Msg("Mail delivery failed, dropping message")
		return err
	}

	w.log.Warn().Err(err).
		Str("to", p.To).
		Int("attempts", p.Attempts).
		Msg("Mail delivery failed, requeueing")
	next, _ := json.Marshal(p)
	if pushErr := w.rdb.RPush(context.WithoutCancel(ctx), w.key, next).Err(); pushErr != nil {
		w.log.Error().Err(pushErr).Str("to", p.To).Msg("Requeue failed, message lost")
	}
	return err
}

func (w *MailWorker) sleep(ctx context.Context) {
	if w.retryDelay <= 0 {
		return
	}
	t := time.NewTimer(w.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// drain delivers what is left in the queue before shutdown. Failed
// messages stay queued for the next start.
func (w *MailWorker) drain(ctx context.Context) {
	drained := 0
	for ctx.Err() == nil {
		raw, err := w.rdb.LPop(ctx, w.key).Result()
		if err != nil {
			break
		}
		var p mailPayload
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}
		if err := w.transport.Send(ctx, mailer.Message{To: p.To, Subject: p.Subject, Body: p.Body}); err != nil {
			w.log.Error().Err(err).Msg("Drain send error")
			w.rdb.LPush(ctx, w.key, raw)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
