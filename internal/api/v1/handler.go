package v1

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/roomvista/decor-services/visualizer/internal/constants"
	"github.com/roomvista/decor-services/visualizer/internal/middleware"
	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/roomvista/decor-services/visualizer/pkg/imagejob"
	"go.uber.org/zap"
)

const maxImageBytes = 10 << 20

type Handler struct {
	logger      *zap.Logger
	generations service.GenerationService
	reconciler  service.ReconcilerService
	ledger      service.LedgerService
	checkout    service.CheckoutService
	paymentHook service.PaymentHookService
	catalog     service.CatalogService
}

func NewHandler(logger *zap.Logger, generations service.GenerationService, reconciler service.ReconcilerService,
	ledger service.LedgerService, checkout service.CheckoutService, paymentHook service.PaymentHookService,
	catalog service.CatalogService) *Handler {
	return &Handler{
		logger:      logger,
		generations: generations,
		reconciler:  reconciler,
		ledger:      ledger,
		checkout:    checkout,
		paymentHook: paymentHook,
		catalog:     catalog,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) CreateGeneration(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	var request CreateGenerationRequest
	if err := c.BodyParser(&request); err != nil {
		h.logger.Warn("Failed to parse generation form", zap.Error(err))
		return badRequest(c)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.logger.Warn("Generation request without image", zap.Error(err))
		return badRequest(c)
	}

	if fileHeader.Size > maxImageBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"code":    constants.ErrCodeValidation,
			"message": "image exceeds the size limit",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c)
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		return badRequest(c)
	}

	cmd := service.CreateGenerationCommand{
		UserID:        userID,
		StyleSlug:     request.Style,
		RoomType:      request.RoomType,
		TransformMode: request.TransformMode,
		ImageData:     imageData,
		ContentType:   fileHeader.Header.Get("Content-Type"),
	}

	resp, err := h.generations.Create(ctx, cmd)
	if err != nil {
		h.logger.Warn("Generation request rejected",
			zap.String("userID", userID),
			zap.String("style", request.Style),
			zap.Error(err))
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// GetGeneration reconciles on read: a poll for a PROCESSING generation asks
// the provider before answering, so the client sees the settled state as soon
// as it exists.
func (h *Handler) GetGeneration(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	generationID := c.Params("id")

	record, err := h.generations.GetForUser(ctx, userID, generationID)
	if err != nil {
		return err
	}

	if !record.Status.Terminal() {
		reconciled, err := h.reconciler.Reconcile(ctx, generationID)
		if err == nil {
			record = reconciled
		} else {
			h.logger.Warn("Reconcile on read failed",
				zap.String("generationID", generationID),
				zap.Error(err))
		}
	}

	return c.JSON(service.ToGenerationView(*record))
}

// AwaitGeneration blocks until the generation settles or the poll budget is
// spent.
func (h *Handler) AwaitGeneration(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	generationID := c.Params("id")

	if _, err := h.generations.GetForUser(ctx, userID, generationID); err != nil {
		return err
	}

	record, err := h.reconciler.AwaitTerminal(ctx, generationID)
	if err != nil {
		return err
	}

	return c.JSON(service.ToGenerationView(*record))
}

func (h *Handler) ListGenerations(c *fiber.Ctx) error {
	ctx := c.UserContext()

	query := service.GetGenerationsQuery{
		UserID: middleware.UserID(c),
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}

	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}

	if query.Offset < 0 {
		query.Offset = 0
	}

	resp, err := h.generations.GetHistory(ctx, query)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *Handler) CancelGeneration(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	generationID := c.Params("id")

	if err := h.reconciler.Cancel(ctx, userID, generationID); err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "cancel_requested"})
}

func (h *Handler) GetCredits(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	if err := h.ledger.EnsureAccount(ctx, userID); err != nil {
		return err
	}

	balance, err := h.ledger.GetBalance(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(CreditsResponse{Balance: balance})
}

func (h *Handler) GetCreditHistory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	txs, err := h.ledger.GetHistory(ctx, userID, limit, offset)
	if err != nil {
		return err
	}

	resp := CreditHistoryResponse{Transactions: make([]TransactionResponse, 0, len(txs))}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, TransactionResponse{
			Amount:       tx.Amount,
			TxType:       string(tx.TxType),
			GenerationID: tx.GenerationID,
			Reason:       tx.Reason,
			CreatedAt:    tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return c.JSON(resp)
}

func (h *Handler) AuditCredits(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	sum, cached, err := h.ledger.AuditBalance(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(AuditResponse{LedgerSum: sum, Cached: cached, Consistent: sum == cached})
}

func (h *Handler) GetCatalog(c *fiber.Ctx) error {
	packages := make([]PackageResponse, 0, len(constants.CreditPackages))
	for _, pkg := range constants.CreditPackages {
		packages = append(packages, PackageResponse{Slug: pkg.Slug, Credits: pkg.Credits})
	}

	return c.JSON(CatalogResponse{
		Styles:    h.catalog.ListStyles(),
		RoomTypes: h.catalog.ListRoomTypes(),
		TransformModes: []string{
			constants.TransformModeRedesign,
			constants.TransformModeStaging,
			constants.TransformModeDeclutter,
		},
		Packages: packages,
	})
}

func (h *Handler) BuyCredits(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	var request BuyCreditsRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c)
	}

	resp, err := h.checkout.BuyCredits(ctx, userID, request.Package)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) RequestHDUnlock(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	generationID := c.Params("id")

	resp, err := h.checkout.RequestHDUnlock(ctx, userID, generationID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) ConfirmHDUnlock(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	sessionID := c.Params("session_id")

	resp, err := h.checkout.ConfirmHDUnlock(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// PaymentWebhook handles at-least-once deliveries from the payment platform.
// Replays come back 200 so the platform stops retrying.
func (h *Handler) PaymentWebhook(c *fiber.Ctx) error {
	ctx := c.UserContext()

	signature := c.Get("X-Payment-Signature")

	if err := h.paymentHook.Handle(ctx, c.Body(), signature); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"received": true})
}

func (h *Handler) ProviderWebhook(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var result imagejob.Result
	if err := c.BodyParser(&result); err != nil {
		h.logger.Warn("Failed to parse provider callback", zap.Error(err))
		return badRequest(c)
	}

	if err := h.reconciler.HandleProviderResult(ctx, result); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"received": true})
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    constants.ErrCodeInvalidRequestBody,
		"message": constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
	})
}
