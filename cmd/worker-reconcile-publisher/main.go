package main

import (
	"context"
	"time"

	"github.com/roomvista/decor-services/visualizer/internal/config"
	"github.com/roomvista/decor-services/visualizer/internal/publishers"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/roomvista/decor-services/visualizer/pkg/mq"
	"github.com/roomvista/decor-services/visualizer/pkg/mysql"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,

			repository.NewGenerationRepository,

			service.NewReconcileQueueService,

			NewReconcilePublisher,
		),
		fx.Invoke(runReconcilePublisher),
	).Run()
}

func runReconcilePublisher(cfg *config.Config, publisher publishers.ReconcilePublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.QueueReconcile}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			logger.Info("queue declared", zap.String("queue", publishers.QueueReconcile))

			go func() {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish reconcile commands", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("reconcile publisher started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping reconcile publisher")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewReconcilePublisher(queue service.ReconcileQueueService, publisher mq.Publisher,
	cfg *config.Config, logger *zap.Logger) publishers.ReconcilePublisher {
	return publishers.NewReconcilePublisher(queue, publisher, cfg.Reconcile.BatchSize, logger)
}
