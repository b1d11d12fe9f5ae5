package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "thumbnails:stream"
	ConsumerGroupName  = "thumbnail-workers"
	ConsumerNamePrefix = "worker"

	jobField = "job"
)

// RedisStreamThumbnailQueueConfig holds timeouts and retry limits; zero values fall back to defaults.
type RedisStreamThumbnailQueueConfig struct {
	ClaimMinIdleTime   time.Duration // pending entries idle this long are reclaimed with XAUTOCLAIM
	MaxRetryCount      int           // deliveries beyond this are treated as poison and acked
	ReadGroupBlockTime time.Duration // XReadGroup block time
}

func defaultRedisStreamConfig() RedisStreamThumbnailQueueConfig {
	return RedisStreamThumbnailQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

type RedisStreamThumbnailQueue struct {
	client       *redis.Client
	streamKey    string
	groupName    string
	consumerName string
	cfg          RedisStreamThumbnailQueueConfig
}

// NewRedisStreamThumbnailQueue creates the consumer group if needed. config may be nil.
func NewRedisStreamThumbnailQueue(client *redis.Client, consumerID string, config *RedisStreamThumbnailQueueConfig) (ThumbnailQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
	}
	q := &RedisStreamThumbnailQueue{
		client:       client,
		streamKey:    StreamKey,
		groupName:    ConsumerGroupName,
		consumerName: fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID),
		cfg:          cfg,
	}
	if err := q.ensureConsumerGroup(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamThumbnailQueue) ensureConsumerGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.streamKey, q.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// PublishJob appends the job as JSON. image_id and event_id are also stored as plain entry fields so
// the stream can be inspected with XRANGE.
func (q *RedisStreamThumbnailQueue) PublishJob(ctx context.Context, job *model.ThumbnailJob) error {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	_, err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey,
		ID:     "*",
		Values: map[string]interface{}{
			jobField:   string(jobJSON),
			"image_id": job.ImageID,
			"event_id": job.EventID,
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd image %d: %w", job.ImageID, err)
	}
	return nil
}

func (q *RedisStreamThumbnailQueue) SubscribeJobs(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		q.runAutoClaim(ctx, out)
	}()
	go func() {
		defer wg.Done()
		q.runReadLoop(ctx, out)
	}()
	go func() {
		wg.Wait()
		close(out)
	}()
	return out, nil
}

func (q *RedisStreamThumbnailQueue) runReadLoop(ctx context.Context, out chan<- Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			q.readAndDeliver(ctx, out)
		}
	}
}

// readAndDeliver reads only new entries (">"). Entries already handed to this consumer stay pending
// and come back through XAUTOCLAIM once they have been idle long enough.
func (q *RedisStreamThumbnailQueue) readAndDeliver(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.groupName,
		Consumer: q.consumerName,
		Streams:  []string{q.streamKey, ">"},
		Count:    10,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()

	if err == redis.Nil {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.WithComponent("mq").Error("XReadGroup failed", zap.Error(err))
		time.Sleep(time.Second)
		return
	}

	for _, stream := range streams {
		if stream.Stream != q.streamKey {
			continue
		}
		for _, msg := range stream.Messages {
			job, ok := q.decodeJob(ctx, msg)
			if !ok {
				continue
			}
			if !q.deliver(ctx, out, q.newDelivery(ctx, msg.ID, job)) {
				return
			}
		}
	}
}

// runAutoClaim periodically reclaims entries that stayed pending past ClaimMinIdleTime.
func (q *RedisStreamThumbnailQueue) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	startID := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, nextID, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   q.streamKey,
				Group:    q.groupName,
				Consumer: q.consumerName,
				MinIdle:  q.cfg.ClaimMinIdleTime,
				Count:    10,
				Start:    startID,
			}).Result()

			if err != nil && err != redis.Nil {
				if ctx.Err() != nil {
					return
				}
				logger.WithComponent("mq").Error("XAutoClaim failed", zap.Error(err))
				continue
			}
			if nextID != "" && nextID != "0-0" {
				startID = nextID
			} else {
				startID = "0-0"
			}

			for _, msg := range claimed {
				job, ok := q.decodeJob(ctx, msg)
				if !ok {
					continue
				}
				if !q.shouldProcessJob(ctx, msg.ID, job) {
					continue
				}
				if !q.deliver(ctx, out, q.newDelivery(ctx, msg.ID, job)) {
					return
				}
			}
		}
	}
}

func (q *RedisStreamThumbnailQueue) deliver(ctx context.Context, out chan<- Delivery, d Delivery) bool {
	select {
	case out <- d:
		return true
	case <-ctx.Done():
		return false
	}
}

func jobFields(messageID string, job *model.ThumbnailJob) []zap.Field {
	return []zap.Field{
		zap.String("message_id", messageID),
		zap.Int("image_id", job.ImageID),
		zap.Int("event_id", job.EventID),
		zap.String("filename", job.Filename),
	}
}

// decodeJob parses the job field of an entry. Malformed entries are acked and reported as not ok.
func (q *RedisStreamThumbnailQueue) decodeJob(ctx context.Context, msg redis.XMessage) (*model.ThumbnailJob, bool) {
	log := logger.WithComponent("mq").With(zap.String("message_id", msg.ID))

	raw, ok := msg.Values[jobField].(string)
	if !ok {
		log.Warn("invalid thumbnail entry: missing job field", zap.Any("image_id", msg.Values["image_id"]))
		_ = q.client.XAck(ctx, q.streamKey, q.groupName, msg.ID).Err()
		return nil, false
	}
	var job model.ThumbnailJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Warn("unmarshal thumbnail job failed", zap.Any("image_id", msg.Values["image_id"]), zap.Error(err))
		_ = q.client.XAck(ctx, q.streamKey, q.groupName, msg.ID).Err()
		return nil, false
	}
	return &job, true
}

// shouldProcessJob drops jobs whose entry exceeded the retry limit. The image keeps its original
// file and simply has no thumbnail.
func (q *RedisStreamThumbnailQueue) shouldProcessJob(ctx context.Context, messageID string, job *model.ThumbnailJob) bool {
	log := logger.WithComponent("mq").With(jobFields(messageID, job)...)

	n, err := q.getMessageRetryCount(ctx, messageID)
	if err != nil {
		log.Warn("getMessageRetryCount failed", zap.Error(err))
		return true
	}
	if n >= q.cfg.MaxRetryCount {
		log.Warn("discard poison thumbnail job", zap.Int("retries", n), zap.Int("max_retries", q.cfg.MaxRetryCount))
		_ = q.client.XAck(ctx, q.streamKey, q.groupName, messageID).Err()
		return false
	}
	return true
}

func (q *RedisStreamThumbnailQueue) getMessageRetryCount(ctx context.Context, messageID string) (int, error) {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.streamKey,
		Group:  q.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return int(pending[0].RetryCount), nil
}

func (q *RedisStreamThumbnailQueue) newDelivery(ctx context.Context, messageID string, job *model.ThumbnailJob) Delivery {
	log := logger.WithComponent("mq").With(jobFields(messageID, job)...)

	return Delivery{
		Data: job,
		Ack: func() {
			if err := q.client.XAck(ctx, q.streamKey, q.groupName, messageID).Err(); err != nil {
				log.Error("XAck failed", zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if requeue {
				// stays in the PEL; XAUTOCLAIM picks it up after ClaimMinIdleTime
				log.Info("thumbnail job nacked, will retry", zap.Duration("claim_min_idle", q.cfg.ClaimMinIdleTime))
				return
			}
			log.Info("thumbnail job dropped")
			if err := q.client.XAck(ctx, q.streamKey, q.groupName, messageID).Err(); err != nil {
				log.Error("XAck discard failed", zap.Error(err))
			}
		},
	}
}
