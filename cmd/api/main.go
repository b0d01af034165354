package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"portfoliohub/internal/handler"
	"portfoliohub/internal/httpserver"
	"portfoliohub/internal/repository"
	"portfoliohub/internal/service/auth"
	"portfoliohub/internal/service/phases"
	"portfoliohub/internal/service/progress"
	"portfoliohub/internal/service/project"
	"portfoliohub/internal/service/schedule"
	"portfoliohub/internal/service/storage"
	"portfoliohub/internal/service/timeline"
	"portfoliohub/pkg/config"
	"portfoliohub/pkg/db"
	"portfoliohub/pkg/logger"
	"portfoliohub/pkg/mq"
	"portfoliohub/pkg/outbox"
	redisclient "portfoliohub/pkg/redis"
)

func main() {
	log := logger.New()
	defer log.Sync()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer publisher.Close()

	outboxRepo := outbox.NewRepository(pool)
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, log)
	go dispatcher.Start(ctx)

	phaseRepo := repository.NewPhaseRepository(pool, log)
	scheduleRepo := repository.NewScheduleRepository(pool, log)
	projectRepo := repository.NewProjectRepository(pool, log)
	deliverableRepo := repository.NewDeliverableRepository(pool, log)
	progressRepo := repository.NewProgressRepository(pool, log)
	documentRepo := repository.NewDocumentRepository(pool, log)
	taskRepo := repository.NewTaskRepository(pool, log)
	userRepo := repository.NewUserRepository(pool, log)

	storageClient := storage.NewClient(cfg.Storage, log)

	authSvc := auth.NewService(userRepo, cfg.JWT.Secret, log)
	phaseSvc := phases.NewService(phaseRepo, rdb, log)
	scheduleSvc := schedule.NewService(scheduleRepo, log)
	projectSvc := project.NewService(pool, projectRepo, outboxRepo, log)
	progressSvc := progress.NewService(pool, deliverableRepo, progressRepo, documentRepo, outboxRepo, log)
	timelineSvc := timeline.NewService(projectRepo, scheduleRepo, deliverableRepo, progressRepo, documentRepo, log)

	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, log),
		Phase:       handler.NewPhaseHandler(phaseSvc, log),
		Schedule:    handler.NewScheduleHandler(scheduleSvc, log),
		Project:     handler.NewProjectHandler(projectSvc, log),
		Timeline:    handler.NewTimelineHandler(timelineSvc, log),
		Deliverable: handler.NewDeliverableHandler(progressSvc, documentRepo, storageClient, log),
		Task:        handler.NewTaskHandler(taskRepo, log),
	}, cfg.JWT.Secret)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("API server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}
