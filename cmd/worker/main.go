package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"portfoliohub/internal/mqhandler"
	"portfoliohub/internal/repository"
	"portfoliohub/internal/service/worker"
	"portfoliohub/internal/util"
	"portfoliohub/pkg/config"
	"portfoliohub/pkg/db"
	"portfoliohub/pkg/logger"
	"portfoliohub/pkg/mq"
	redisclient "portfoliohub/pkg/redis"
)

const dedupTTL = 24 * time.Hour

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

	taskRepo := repository.NewTaskRepository(pool, log)
	userRepo := repository.NewUserRepository(pool, log)

	creator := worker.NewTaskCreator(taskRepo, userRepo, log)
	deduper := util.NewDeduper(rdb, dedupTTL)

	consumers := []struct {
		queue      string
		routingKey string
		handler    mq.MessageHandler
	}{
		{
			queue:      "workflow.approval_requested.q",
			routingKey: mq.RoutingKeyApprovalRequested,
			handler:    mqhandler.NewApprovalRequestedHandler(creator, deduper, log).HandleApprovalRequested,
		},
		{
			queue:      "workflow.project_approved.q",
			routingKey: mq.RoutingKeyProjectApproved,
			handler:    mqhandler.NewProjectApprovedHandler(creator, deduper, log).HandleProjectApproved,
		},
		{
			queue:      "workflow.document_submitted.q",
			routingKey: mq.RoutingKeyDocumentSubmitted,
			handler:    mqhandler.NewDocumentSubmittedHandler(creator, deduper, log).HandleDocumentSubmitted,
		},
	}

	for _, c := range consumers {
		consumer, err := mq.NewConsumer(cfg.MQ.URL, c.queue, c.routingKey, log)
		if err != nil {
			log.Fatal("Failed to create consumer",
				zap.String("queue", c.queue),
				zap.Error(err),
			)
		}
		defer consumer.Close()

		consumer.SetHandler(c.handler)
		go func(consumer *mq.Consumer, queue string) {
			if err := consumer.StartConsuming(); err != nil {
				log.Error("Consumer stopped", zap.String("queue", queue), zap.Error(err))
			}
		}(consumer, c.queue)
	}

	sweeper := worker.NewSweeper(taskRepo, time.Duration(cfg.Worker.SweepIntervalHours)*time.Hour, log)
	go sweeper.Start(ctx)

	log.Info("Worker started")
	<-ctx.Done()
	log.Info("Worker shutting down")
}
