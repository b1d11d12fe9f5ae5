package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-gin-event-gallery/config"
	"go-gin-event-gallery/internal/database"
	"go-gin-event-gallery/internal/handler"
	"go-gin-event-gallery/internal/queue"
	"go-gin-event-gallery/internal/repository"
	"go-gin-event-gallery/internal/service"
	"go-gin-event-gallery/internal/storage"
	"go-gin-event-gallery/internal/thumbnail"
	"go-gin-event-gallery/internal/worker"
	"go-gin-event-gallery/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	memoryQueueSize = 256
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the thumbnail worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger.SetLevel(cfg.Server.LogLevel)
	gin.SetMode(cfg.Server.GinMode)
	log := logger.WithComponent("server")
	defer logger.L.Sync()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	uploads, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		return err
	}
	thumbnails, err := storage.NewLocalStore(cfg.Storage.ThumbnailDir)
	if err != nil {
		return err
	}

	checks := map[string]handler.ReadinessCheck{"database": pool.Ping}

	var jobs queue.ThumbnailQueue
	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()

		jobs, err = queue.NewRedisStreamThumbnailQueue(rdb, uuid.NewString(), nil)
		if err != nil {
			return fmt.Errorf("failed to create thumbnail queue: %w", err)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("Thumbnail queue backed by redis stream", zap.String("stream", queue.StreamKey))
	} else {
		jobs = queue.NewMemoryThumbnailQueue(memoryQueueSize)
		log.Info("Thumbnail queue in memory")
	}

	tx := database.NewTransactor(pool)
	eventRepo := repository.NewEventRepository(pool)
	imageRepo := repository.NewImageRepository(pool)
	typeRepo := repository.NewEventTypeRepository(pool)
	files := storage.ImageFiles{Images: uploads, Thumbnails: thumbnails}

	queryService := service.NewQueryService(eventRepo, imageRepo)
	eventService := service.NewEventService(tx, eventRepo, imageRepo, typeRepo, files)
	imageService := service.NewImageService(tx, eventRepo, imageRepo, uploads, jobs)
	typeService := service.NewEventTypeService(typeRepo)

	thumbnailWorker := worker.NewThumbnailWorker(jobs, thumbnail.NewGenerator(cfg.Storage.ThumbnailSize), uploads, thumbnails)
	if err := thumbnailWorker.Start(ctx); err != nil {
		return fmt.Errorf("failed to start thumbnail worker: %w", err)
	}

	router := handler.NewRouter(cfg.Storage.MaxUploadBytes,
		handler.NewSystemHandler(version, checks),
		handler.NewEventHandler(queryService, eventService),
		handler.NewImageHandler(imageService, cfg.Storage.MaxUploadBytes),
		handler.NewEventTypeHandler(typeService),
		handler.NewFileHandler(uploads, thumbnails),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		<-thumbnailWorker.Done()
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	select {
	case <-thumbnailWorker.Done():
	case <-shutdownCtx.Done():
		log.Warn("Thumbnail worker did not stop in time")
	}
	return nil
}
