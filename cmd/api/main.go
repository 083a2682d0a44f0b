package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/roomvista/decor-services/visualizer/internal/api"
	v1 "github.com/roomvista/decor-services/visualizer/internal/api/v1"
	"github.com/roomvista/decor-services/visualizer/internal/config"
	"github.com/roomvista/decor-services/visualizer/internal/database"
	apperrors "github.com/roomvista/decor-services/visualizer/internal/errors"
	"github.com/roomvista/decor-services/visualizer/internal/metrics"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/roomvista/decor-services/visualizer/pkg/blobstore"
	"github.com/roomvista/decor-services/visualizer/pkg/httpclient"
	"github.com/roomvista/decor-services/visualizer/pkg/imagejob"
	"github.com/roomvista/decor-services/visualizer/pkg/paymentgw"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewFiberApp,
			database.NewConnection,
			metrics.NewMetrics,

			repository.NewGenerationRepository,
			repository.NewCreditTransactionRepository,
			repository.NewUserAccountRepository,
			repository.NewTransactionManager,

			NewImageJobClient,
			NewPaymentGateway,
			NewBlobStore,

			service.NewCatalogService,
			service.NewLedgerService,
			service.NewProviderService,
			NewGenerationService,
			service.NewReconcilerService,
			service.NewCheckoutService,
			service.NewPaymentHookService,

			v1.NewHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	logger *zap.Logger, lc fx.Lifecycle) {
	app.Use(metrics.HealthCheckMiddleware())
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))

	api.SetupRoutes(app, handler, cfg, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("server stopped", zap.Error(err))
				}
			}()

			logger.Info("api listening", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: apperrors.ErrorHandler(),
		BodyLimit:    12 << 20,
	})
}

func NewImageJobClient(cfg *config.Config) imagejob.Client {
	client := httpclient.NewHTTPClient(cfg.Provider.Timeout)
	return imagejob.NewClient(cfg.Provider, client)
}

func NewPaymentGateway(cfg *config.Config) paymentgw.Gateway {
	client := httpclient.NewHTTPClient(cfg.Payment.Timeout)
	return paymentgw.NewGateway(cfg.Payment, client)
}

func NewBlobStore(cfg *config.Config) blobstore.Store {
	client := httpclient.NewHTTPClient(cfg.BlobStore.Timeout)
	return blobstore.NewStore(cfg.BlobStore, client)
}

func NewGenerationService(generationRepo repository.GenerationRepository, ledger service.LedgerService,
	catalog service.CatalogService, provider service.ProviderService, blobs blobstore.Store,
	txManager repository.TxManager, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) service.GenerationService {
	return service.NewGenerationService(generationRepo, ledger, catalog, provider, blobs,
		txManager, cfg.Provider.WebhookURL, m, logger)
}
