package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roomvista/decor-services/visualizer/internal/constants"
	"github.com/roomvista/decor-services/visualizer/internal/metrics"
	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"github.com/roomvista/decor-services/visualizer/pkg/blobstore"
	"github.com/roomvista/decor-services/visualizer/pkg/imagejob"
	"go.uber.org/zap"
)

// GenerationService accepts a generation request, charges the user, uploads
// the input photo and submits the provider job. The charge happens first and
// is compensated with a refund if anything downstream fails, so credits are
// never lost to a request that produced nothing.
type GenerationService interface {
	Create(ctx context.Context, cmd CreateGenerationCommand) (CreateGenerationResponse, error)
	GetForUser(ctx context.Context, userID, generationID string) (*model.Generation, error)
	GetHistory(ctx context.Context, query GetGenerationsQuery) (GetGenerationsResponse, error)
}

type generation struct {
	generationRepo repository.GenerationRepository
	ledger         LedgerService
	catalog        CatalogService
	provider       ProviderService
	blobs          blobstore.Store
	txManager      repository.TxManager
	webhookURL     string
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewGenerationService(generationRepo repository.GenerationRepository, ledger LedgerService,
	catalog CatalogService, provider ProviderService, blobs blobstore.Store,
	txManager repository.TxManager, webhookURL string, m *metrics.Metrics, logger *zap.Logger) GenerationService {
	return &generation{
		generationRepo: generationRepo,
		ledger:         ledger,
		catalog:        catalog,
		provider:       provider,
		blobs:          blobs,
		txManager:      txManager,
		webhookURL:     webhookURL,
		metrics:        m,
		logger:         logger,
	}
}

func (g *generation) Create(ctx context.Context, cmd CreateGenerationCommand) (CreateGenerationResponse, error) {
	if err := g.catalog.Validate(cmd.StyleSlug, cmd.RoomType, cmd.TransformMode); err != nil {
		return CreateGenerationResponse{}, NewServiceError(constants.ErrCodeStyleNotFound, err)
	}

	prompt, err := g.catalog.BuildPrompt(cmd.StyleSlug, cmd.RoomType, cmd.TransformMode)
	if err != nil {
		return CreateGenerationResponse{}, NewServiceError(constants.ErrCodeStyleNotFound, err)
	}

	if err := g.ledger.EnsureAccount(ctx, cmd.UserID); err != nil {
		return CreateGenerationResponse{}, err
	}

	generationID := uuid.NewString()

	deductCmd := DeductCreditsCommand{
		UserID:       cmd.UserID,
		GenerationID: generationID,
		Amount:       constants.GenerationCost,
		Reason:       "generation",
	}

	if err := g.ledger.Deduct(ctx, deductCmd); err != nil {
		return CreateGenerationResponse{}, err
	}

	response, err := g.start(ctx, generationID, cmd, prompt)
	if err != nil {
		g.compensate(ctx, cmd.UserID, generationID)
		return CreateGenerationResponse{}, err
	}

	g.metrics.RecordGenerationCreated(cmd.StyleSlug)

	return response, nil
}

// start runs everything after the charge. The row insert, provider
// submission and the PROCESSING update share one transaction: a failed
// submission rolls the row back so no orphan generation survives.
func (g *generation) start(ctx context.Context, generationID string, cmd CreateGenerationCommand, prompt string) (CreateGenerationResponse, error) {
	inputKey := fmt.Sprintf("inputs/%s/%s", cmd.UserID, generationID)

	inputURL, err := g.blobs.Put(ctx, inputKey, cmd.ImageData, cmd.ContentType)
	if err != nil {
		g.logger.Error("Input upload failed",
			zap.String("generationID", generationID),
			zap.Error(err))
		return CreateGenerationResponse{}, NewServiceError(ErrCodeStorage, err)
	}

	record := model.Generation{
		ID:            generationID,
		UserID:        cmd.UserID,
		StyleSlug:     cmd.StyleSlug,
		RoomType:      cmd.RoomType,
		TransformMode: cmd.TransformMode,
		InputImageURL: inputURL,
		Status:        model.GenerationStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	err = g.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := g.generationRepo.Create(ctx, &record); err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}

		submitReq := imagejob.SubmitRequest{
			Prompt:         prompt,
			SourceImageURL: inputURL,
			TransformMode:  cmd.TransformMode,
			WebhookURL:     g.webhookURL,
		}

		submitted, err := g.provider.SubmitWithRetry(ctx, submitReq)
		if err != nil {
			g.logger.Error("Provider submission failed",
				zap.String("generationID", generationID),
				zap.Error(err))
			return NewServiceError(constants.ErrCodeProviderSubmission, err)
		}

		record.Status = model.GenerationStatusProcessing
		record.ProviderJobID = &submitted.JobID
		record.UpdatedAt = time.Now()

		if err := g.generationRepo.Update(ctx, &record); err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}

		return nil
	})

	if err != nil {
		return CreateGenerationResponse{}, err
	}

	balance, err := g.ledger.GetBalance(ctx, cmd.UserID)
	if err != nil {
		balance = 0
	}

	g.logger.Info("Generation accepted",
		zap.String("generationID", generationID),
		zap.String("userID", cmd.UserID),
		zap.String("style", cmd.StyleSlug),
		zap.Stringp("jobID", record.ProviderJobID))

	return CreateGenerationResponse{
		GenerationID: generationID,
		Status:       string(record.Status),
		Balance:      balance,
	}, nil
}

// compensate refunds the upfront charge after a failed start. The refund is
// itself idempotent, so a retried request cannot be refunded twice for the
// same generation id.
func (g *generation) compensate(ctx context.Context, userID, generationID string) {
	refundCmd := RefundCreditsCommand{
		UserID:       userID,
		GenerationID: generationID,
		Amount:       constants.GenerationCost,
		Reason:       "submission_failed",
	}

	err := g.ledger.Refund(ctx, refundCmd)
	if err != nil && !errors.Is(err, ErrRefundAlreadyIssued) {
		// The charge is still recorded in the ledger, so support can
		// replay the refund from the USAGE row.
		g.logger.Error("Compensating refund failed",
			zap.String("userID", userID),
			zap.String("generationID", generationID),
			zap.Error(err))
	}
}

func (g *generation) GetForUser(ctx context.Context, userID, generationID string) (*model.Generation, error) {
	record, err := g.generationRepo.GetByID(generationID)
	if err != nil {
		if errors.Is(err, repository.ErrGenerationNotFound) {
			return nil, ErrGenerationNotFound
		}

		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	if record.UserID != userID {
		// Hide other users' generations entirely.
		return nil, ErrGenerationNotFound
	}

	return record, nil
}

func (g *generation) GetHistory(ctx context.Context, query GetGenerationsQuery) (GetGenerationsResponse, error) {
	records, err := g.generationRepo.GetByUserID(query.UserID, query.Limit, query.Offset)
	if err != nil {
		return GetGenerationsResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	total, err := g.generationRepo.CountByUserID(query.UserID)
	if err != nil {
		return GetGenerationsResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	views := make([]GenerationView, 0, len(records))
	for _, record := range records {
		views = append(views, ToGenerationView(record))
	}

	return GetGenerationsResponse{Generations: views, Total: total}, nil
}

func ToGenerationView(record model.Generation) GenerationView {
	return GenerationView{
		GenerationID:  record.ID,
		StyleSlug:     record.StyleSlug,
		RoomType:      record.RoomType,
		TransformMode: record.TransformMode,
		Status:        string(record.Status),
		InputImageURL: record.InputImageURL,
		OutputURL:     record.OutputImageURL,
		FailureReason: record.FailureReason,
		HDUnlocked:    record.HDUnlocked,
		CreatedAt:     record.CreatedAt.Format(time.RFC3339),
	}
}
