package queue_test

import (
	"context"
	"testing"
	"time"

	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan queue.Delivery) (queue.Delivery, bool) {
	t.Helper()
	select {
	case d, ok := <-ch:
		return d, ok
	case <-time.After(200 * time.Millisecond):
		return queue.Delivery{}, false
	}
}

func TestMemoryThumbnailQueue(t *testing.T) {
	t.Run("delivers published job", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewMemoryThumbnailQueue(4)
		job := &model.ThumbnailJob{ImageID: 1, EventID: 2, Filename: "a.png"}
		require.NoError(t, q.PublishJob(ctx, job))

		ch, err := q.SubscribeJobs(ctx)
		require.NoError(t, err)

		d, ok := receive(t, ch)
		require.True(t, ok)
		assert.Equal(t, job, d.Data)
		d.Ack()

		_, ok = receive(t, ch)
		assert.False(t, ok, "acked job must not be redelivered")
	})

	t.Run("full buffer", func(t *testing.T) {
		ctx := context.Background()
		q := queue.NewMemoryThumbnailQueue(1)

		require.NoError(t, q.PublishJob(ctx, &model.ThumbnailJob{ImageID: 1}))
		assert.ErrorIs(t, q.PublishJob(ctx, &model.ThumbnailJob{ImageID: 2}), queue.ErrQueueFull)
	})

	t.Run("requeue is bounded", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewMemoryThumbnailQueue(4)
		require.NoError(t, q.PublishJob(ctx, &model.ThumbnailJob{ImageID: 7}))

		ch, err := q.SubscribeJobs(ctx)
		require.NoError(t, err)

		deliveries := 0
		for {
			d, ok := receive(t, ch)
			if !ok {
				break
			}
			deliveries++
			d.Nack(true)
		}
		assert.Equal(t, queue.MemoryMaxAttempts, deliveries)
	})

	t.Run("nack without requeue drops the job", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewMemoryThumbnailQueue(4)
		require.NoError(t, q.PublishJob(ctx, &model.ThumbnailJob{ImageID: 8}))

		ch, err := q.SubscribeJobs(ctx)
		require.NoError(t, err)

		d, ok := receive(t, ch)
		require.True(t, ok)
		d.Nack(false)

		_, ok = receive(t, ch)
		assert.False(t, ok)
	})

	t.Run("subscription closes with context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		q := queue.NewMemoryThumbnailQueue(1)

		ch, err := q.SubscribeJobs(ctx)
		require.NoError(t, err)
		cancel()

		require.Eventually(t, func() bool {
			select {
			case _, ok := <-ch:
				return !ok
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)
	})
}
