package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueueFixture(t *testing.T) (*redis.Client, *MailQueue) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, NewMailQueue(rdb)
}

func TestMailQueueRejectsMissingRecipient(t *testing.T) {
	_, q := newQueueFixture(t)
	err := q.Send(context.Background(), mailer.Message{Subject: "x"})
	assert.ErrorIs(t, err, mailer.ErrNoRecipient)

	n, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMailWorkerDeliversQueuedMessage(t *testing.T) {
	rdb, q := newQueueFixture(t)
	ctx := context.Background()
	rec := &mailer.Recorder{}
	w := NewMailWorker(rdb, rec, 3, zerolog.Nop())

	msg := mailer.Message{To: "sv001@campus.test", Subject: "Hasil studi", Body: "8.0"}
	require.NoError(t, q.Send(ctx, msg))

	w.processNext(ctx)

	assert.Equal(t, []mailer.Message{msg}, rec.Sent())
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMailWorkerRequeuesUntilMaxAttempts(t *testing.T) {
	rdb, q := newQueueFixture(t)
	ctx := context.Background()
	rec := &mailer.Recorder{Err: errors.New("smtp down")}
	w := NewMailWorker(rdb, rec, 2, zerolog.Nop())
	w.retryDelay = 0

	require.NoError(t, q.Send(ctx, mailer.Message{To: "sv001@campus.test", Subject: "s", Body: "b"}))

	w.processNext(ctx)
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "first failure is requeued")

	w.processNext(ctx)
	n, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "dropped after the last attempt")
	assert.Empty(t, rec.Sent())
}

func TestMailWorkerDropsMalformedPayload(t *testing.T) {
	rdb, q := newQueueFixture(t)
	ctx := context.Background()
	rec := &mailer.Recorder{}
	w := NewMailWorker(rdb, rec, 3, zerolog.Nop())

	require.NoError(t, rdb.RPush(ctx, "queue:mail", "{not json").Err())

	w.processNext(ctx)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, rec.Sent())
}

func TestMailWorkerDrainsOnShutdown(t *testing.T) {
	rdb, q := newQueueFixture(t)
	rec := &mailer.Recorder{}
	w := NewMailWorker(rdb, rec, 3, zerolog.Nop())

	for _, to := range []string{"a@campus.test", "b@campus.test"} {
		require.NoError(t, q.Send(context.Background(), mailer.Message{To: to, Subject: "s", Body: "b"}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Len(t, rec.Sent(), 2)
}
