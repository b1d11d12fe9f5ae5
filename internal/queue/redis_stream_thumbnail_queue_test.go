//go:build integration

package queue_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/internal/queue"
	"go-gin-event-gallery/internal/testutil"
	"go-gin-event-gallery/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testRdb *redis.Client

func TestMain(m *testing.M) {
	rdb, cleanup, err := testutil.SetupRedis(context.Background())
	if err != nil {
		log.Fatalf("setup redis: %v", err)
	}
	testRdb = rdb
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func cleanupStream(ctx context.Context, t *testing.T) {
	t.Helper()
	_ = testRdb.Del(ctx, queue.StreamKey).Err()
}

// observeLogs swaps the global logger for an in-memory one until the test ends.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logger.L
	logger.L = zap.New(core)
	t.Cleanup(func() { logger.L = prev })
	return logs
}

func TestNewRedisStreamThumbnailQueue(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	t.Run("success", func(t *testing.T) {
		q, err := queue.NewRedisStreamThumbnailQueue(testRdb, "test-consumer", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})

	t.Run("existing group is reused", func(t *testing.T) {
		q, err := queue.NewRedisStreamThumbnailQueue(testRdb, "", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})
}

func TestRedisStreamThumbnailQueue_deliversPublishedJob(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := queue.NewRedisStreamThumbnailQueue(testRdb, "deliver-test", nil)
	require.NoError(t, err)

	job := &model.ThumbnailJob{ImageID: 10, EventID: 20, Filename: "abc.png"}
	require.NoError(t, q.PublishJob(ctx, job))

	entries, err := testRdb.XRange(ctx, queue.StreamKey, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "10", entries[0].Values["image_id"])
	assert.Equal(t, "20", entries[0].Values["event_id"])

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeJobs(subCtx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		assert.Equal(t, job, d.Data)
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timeout waiting for job")
	}

	cancel()
	_, ok := <-delCh
	assert.False(t, ok, "acked job must not come back")
}

func TestRedisStreamThumbnailQueue_NackDiscard(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	cfg := &queue.RedisStreamThumbnailQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 200 * time.Millisecond,
	}
	q, err := queue.NewRedisStreamThumbnailQueue(testRdb, "nack-discard-test", cfg)
	require.NoError(t, err)
	require.NoError(t, q.PublishJob(ctx, &model.ThumbnailJob{ImageID: 1, Filename: "x.png"}))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeJobs(subCtx)
	require.NoError(t, err)

	select {
	case d := <-delCh:
		d.Nack(false)
	case <-subCtx.Done():
		t.Fatal("timeout waiting for job")
	}

	select {
	case d, ok := <-delCh:
		if ok {
			t.Fatalf("discarded job delivered again: %+v", d.Data)
		}
	case <-time.After(time.Second):
	}
}

func TestRedisStreamThumbnailQueue_NackRequeue_redeliversAfterIdle(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	cfg := &queue.RedisStreamThumbnailQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 500 * time.Millisecond,
	}
	q, err := queue.NewRedisStreamThumbnailQueue(testRdb, "nack-requeue-test", cfg)
	require.NoError(t, err)

	job := &model.ThumbnailJob{ImageID: 3, Filename: "retry.png"}
	require.NoError(t, q.PublishJob(ctx, job))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeJobs(subCtx)
	require.NoError(t, err)

	select {
	case d := <-delCh:
		d.Nack(true)
	case <-subCtx.Done():
		t.Fatal("timeout waiting for job")
	}

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		assert.Equal(t, job, d.Data)
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("requeued job was not redelivered")
	}
}

func TestRedisStreamThumbnailQueue_poisonJobDiscarded(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	cfg := &queue.RedisStreamThumbnailQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		MaxRetryCount:      3,
		ReadGroupBlockTime: 200 * time.Millisecond,
	}
	q, err := queue.NewRedisStreamThumbnailQueue(testRdb, "poison-test", cfg)
	require.NoError(t, err)
	logs := observeLogs(t)
	require.NoError(t, q.PublishJob(ctx, &model.ThumbnailJob{ImageID: 99, EventID: 7, Filename: "poison.png"}))

	subCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	delCh, err := q.SubscribeJobs(subCtx)
	require.NoError(t, err)

	received := 0
loop:
	for {
		select {
		case d, ok := <-delCh:
			require.True(t, ok)
			received++
			d.Nack(true)
		case <-time.After(time.Second):
			break loop
		case <-subCtx.Done():
			t.Fatalf("test timeout after %d deliveries", received)
		}
	}

	assert.GreaterOrEqual(t, received, 1)
	assert.LessOrEqual(t, received, cfg.MaxRetryCount)

	pending, err := testRdb.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)

	cancel()
	for range delCh {
	}
	discarded := logs.FilterMessage("discard poison thumbnail job").All()
	require.Len(t, discarded, 1)
	assert.Equal(t, int64(99), discarded[0].ContextMap()["image_id"])
	assert.Equal(t, int64(7), discarded[0].ContextMap()["event_id"])
	assert.Equal(t, "poison.png", discarded[0].ContextMap()["filename"])

	retried := logs.FilterMessage("thumbnail job nacked, will retry").All()
	require.Len(t, retried, received)
	assert.Equal(t, int64(99), retried[0].ContextMap()["image_id"])
}

func TestRedisStreamThumbnailQueue_malformedEntryIsSkipped(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := queue.NewRedisStreamThumbnailQueue(testRdb, "malformed-test", nil)
	require.NoError(t, err)

	require.NoError(t, testRdb.XAdd(ctx, &redis.XAddArgs{
		Stream: queue.StreamKey,
		Values: map[string]any{"job": "{not json"},
	}).Err())
	good := &model.ThumbnailJob{ImageID: 5, Filename: "good.png"}
	require.NoError(t, q.PublishJob(ctx, good))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeJobs(subCtx)
	require.NoError(t, err)

	select {
	case d := <-delCh:
		assert.Equal(t, good, d.Data)
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timeout waiting for job")
	}
}

func TestRedisStreamThumbnailQueue_ctxCancelClosesChannel(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := queue.NewRedisStreamThumbnailQueue(testRdb, "cancel-test", nil)
	require.NoError(t, err)

	subCtx, cancel := context.WithCancel(ctx)
	delCh, err := q.SubscribeJobs(subCtx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-delCh:
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
