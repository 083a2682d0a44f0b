package main

import (
	"context"

	"github.com/roomvista/decor-services/visualizer/internal/config"
	"github.com/roomvista/decor-services/visualizer/internal/consumers"
	"github.com/roomvista/decor-services/visualizer/internal/metrics"
	"github.com/roomvista/decor-services/visualizer/internal/publishers"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/roomvista/decor-services/visualizer/pkg/blobstore"
	"github.com/roomvista/decor-services/visualizer/pkg/httpclient"
	"github.com/roomvista/decor-services/visualizer/pkg/imagejob"
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
			NewMQConsumer,
			metrics.NewMetrics,

			repository.NewGenerationRepository,
			repository.NewCreditTransactionRepository,
			repository.NewUserAccountRepository,
			repository.NewTransactionManager,

			NewImageJobClient,
			NewBlobStore,

			service.NewLedgerService,
			service.NewProviderService,
			service.NewReconcilerService,

			consumers.NewReconcileConsumer,
		),
		fx.Invoke(runReconcileConsumer),
	).Run()
}

func runReconcileConsumer(cfg *config.Config, reconcileConsumer consumers.ReconcileConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.QueueReconcile}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("queue declared", zap.String("queue", publishers.QueueReconcile))

			go func() {
				if err := reconcileConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("reconcile consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping reconcile consumer")
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

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewImageJobClient(cfg *config.Config) imagejob.Client {
	client := httpclient.NewHTTPClient(cfg.Provider.Timeout)
	return imagejob.NewClient(cfg.Provider, client)
}

func NewBlobStore(cfg *config.Config) blobstore.Store {
	client := httpclient.NewHTTPClient(cfg.BlobStore.Timeout)
	return blobstore.NewStore(cfg.BlobStore, client)
}
