package worker

import (
	"context"
	"errors"

	"go-gin-event-gallery/internal/queue"
	"go-gin-event-gallery/internal/storage"
	"go-gin-event-gallery/internal/thumbnail"
	"go-gin-event-gallery/pkg/logger"

	"go.uber.org/zap"
)

type ThumbnailWorker interface {
	// Start subscribes to the queue and processes jobs until ctx is done
	Start(ctx context.Context) error
}

type ThumbnailRenderer interface {
	Generate(src, dst string) error
}

type ThumbnailWorkerImpl struct {
	queue      queue.ThumbnailQueue
	renderer   ThumbnailRenderer
	images     *storage.LocalStore
	thumbnails *storage.LocalStore
	done       chan struct{}
}

func NewThumbnailWorker(q queue.ThumbnailQueue, renderer ThumbnailRenderer, images, thumbnails *storage.LocalStore) *ThumbnailWorkerImpl {
	return &ThumbnailWorkerImpl{
		queue:      q,
		renderer:   renderer,
		images:     images,
		thumbnails: thumbnails,
		done:       make(chan struct{}),
	}
}

func (w *ThumbnailWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeJobs(ctx)
	if err != nil {
		return err
	}

	go func() {
		defer close(w.done)
		for msg := range msgs {
			w.handle(msg)
		}
	}()
	return nil
}

// Done is closed once the subscription ends and the last job has been handled.
func (w *ThumbnailWorkerImpl) Done() <-chan struct{} {
	return w.done
}

func (w *ThumbnailWorkerImpl) handle(msg queue.Delivery) {
	job := msg.Data
	log := logger.WithComponent("worker").With(zap.Int("image_id", job.ImageID), zap.String("filename", job.Filename))

	src, err := w.images.Path(job.Filename)
	if err != nil || !w.images.Exists(job.Filename) {
		// the event was deleted, or the name is bogus
		log.Warn("source image missing, dropping job")
		msg.Nack(false)
		return
	}
	dst, err := w.thumbnails.Path(storage.ThumbnailName(job.Filename))
	if err != nil {
		log.Warn("invalid thumbnail name, dropping job", zap.Error(err))
		msg.Nack(false)
		return
	}

	if err := w.renderer.Generate(src, dst); err != nil {
		if errors.Is(err, thumbnail.ErrUndecodable) {
			log.Warn("cannot decode image, dropping job", zap.Error(err))
			msg.Nack(false)
			return
		}
		log.Error("generate thumbnail failed, will retry", zap.Error(err))
		msg.Nack(true)
		return
	}

	log.Debug("thumbnail generated")
	msg.Ack()
}
