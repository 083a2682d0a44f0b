package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	v1 "github.com/roomvista/decor-services/visualizer/internal/api/v1"
	"github.com/roomvista/decor-services/visualizer/internal/config"
	"github.com/roomvista/decor-services/visualizer/internal/middleware"
	"go.uber.org/zap"
)

func SetupRoutes(app *fiber.App, handler *v1.Handler, cfg *config.Config, logger *zap.Logger) {
	app.Get("/ping", handler.Pong)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/v1/catalog", handler.GetCatalog)

	app.Post("/webhooks/payment", handler.PaymentWebhook)
	app.Post("/webhooks/provider",
		middleware.WebhookToken(cfg.Auth.ProviderWebhookToken), handler.ProviderWebhook)

	auth := middleware.Auth(cfg.Auth.JWTSecret, logger)

	app.Post("/v1/generations", auth, handler.CreateGeneration)
	app.Get("/v1/generations", auth, handler.ListGenerations)
	app.Get("/v1/generations/:id", auth, handler.GetGeneration)
	app.Get("/v1/generations/:id/result", auth, handler.AwaitGeneration)
	app.Post("/v1/generations/:id/cancel", auth, handler.CancelGeneration)
	app.Post("/v1/generations/:id/unlock", auth, handler.RequestHDUnlock)

	app.Get("/v1/credits", auth, handler.GetCredits)
	app.Get("/v1/credits/history", auth, handler.GetCreditHistory)
	app.Get("/v1/credits/audit", auth, handler.AuditCredits)

	app.Post("/v1/checkout/credits", auth, handler.BuyCredits)
	app.Get("/v1/checkout/sessions/:session_id", auth, handler.ConfirmHDUnlock)
}
