package queue

import (
	"context"
	"errors"

	"go-gin-event-gallery/internal/model"
)

var ErrQueueFull = errors.New("thumbnail queue is full")

type Delivery struct {
	Data *model.ThumbnailJob
	Ack  func()
	Nack func(requeue bool)
}

type ThumbnailQueue interface {
	// PublishJob enqueues a job for the thumbnail worker
	PublishJob(ctx context.Context, job *model.ThumbnailJob) error
	// SubscribeJobs streams deliveries until ctx is done
	SubscribeJobs(ctx context.Context) (<-chan Delivery, error)
}

// MemoryMaxAttempts bounds how often a requeued job is delivered by the in-memory queue.
const MemoryMaxAttempts = 3

type memoryEntry struct {
	job      *model.ThumbnailJob
	attempts int
}

// MemoryThumbnailQueue is the in-process queue used when Redis is disabled. Jobs are lost on restart.
type MemoryThumbnailQueue struct {
	ch chan memoryEntry
}

func NewMemoryThumbnailQueue(bufferSize int) ThumbnailQueue {
	return &MemoryThumbnailQueue{
		ch: make(chan memoryEntry, bufferSize),
	}
}

// PublishJob never blocks the request path; a full buffer is reported as ErrQueueFull.
func (q *MemoryThumbnailQueue) PublishJob(ctx context.Context, job *model.ThumbnailJob) error {
	select {
	case q.ch <- memoryEntry{job: job}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryThumbnailQueue) SubscribeJobs(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-q.ch:
				if !ok {
					return
				}

				entry.attempts++
				d := Delivery{
					Data: entry.job,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if !requeue || entry.attempts >= MemoryMaxAttempts {
							return
						}
						select {
						case q.ch <- entry:
						default:
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
