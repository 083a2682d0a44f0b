package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roomvista/decor-services/visualizer/internal/config"
	"github.com/roomvista/decor-services/visualizer/internal/constants"
	"github.com/roomvista/decor-services/visualizer/internal/metrics"
	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"github.com/roomvista/decor-services/visualizer/pkg/blobstore"
	"github.com/roomvista/decor-services/visualizer/pkg/imagejob"
	"go.uber.org/zap"
)

// ReconcilerService settles in-flight generations against the provider. The
// provider webhook, the status poll endpoint and the background worker all
// converge here; the conditional terminal write in the repository decides the
// single winner, and only the winner of a FAILED transition issues the
// refund.
type ReconcilerService interface {
	Reconcile(ctx context.Context, generationID string) (*model.Generation, error)
	HandleProviderResult(ctx context.Context, result imagejob.Result) error
	AwaitTerminal(ctx context.Context, generationID string) (*model.Generation, error)
	Cancel(ctx context.Context, userID, generationID string) error
}

type reconciler struct {
	generationRepo repository.GenerationRepository
	ledger         LedgerService
	provider       ProviderService
	blobs          blobstore.Store
	txManager      repository.TxManager
	config         config.Reconcile
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewReconcilerService(generationRepo repository.GenerationRepository, ledger LedgerService,
	provider ProviderService, blobs blobstore.Store, txManager repository.TxManager,
	cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) ReconcilerService {
	return &reconciler{
		generationRepo: generationRepo,
		ledger:         ledger,
		provider:       provider,
		blobs:          blobs,
		txManager:      txManager,
		config:         cfg.Reconcile,
		metrics:        m,
		logger:         logger,
	}
}

func (r *reconciler) Reconcile(ctx context.Context, generationID string) (*model.Generation, error) {
	record, err := r.generationRepo.GetByID(generationID)
	if err != nil {
		if errors.Is(err, repository.ErrGenerationNotFound) {
			return nil, ErrGenerationNotFound
		}

		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	if record.Status.Terminal() {
		return record, nil
	}

	if record.ProviderJobID == nil {
		// PENDING without a job id means the submission transaction is
		// still open or rolled back; nothing to reconcile yet.
		return record, nil
	}

	result, err := r.provider.Poll(ctx, *record.ProviderJobID)
	if err != nil {
		if errors.Is(err, imagejob.ErrJobNotFound) {
			// The provider no longer knows the job. It will never
			// complete, so settle it as failed.
			return r.finalize(ctx, record, imagejob.Result{
				JobID:  *record.ProviderJobID,
				Status: imagejob.StatusFailed,
				Reason: "job not found at provider",
			})
		}

		return nil, err
	}

	return r.finalize(ctx, record, result)
}

// HandleProviderResult is the webhook entry point. Deliveries for unknown
// jobs are dropped: acking them stops the provider from retrying something
// this service can never match.
func (r *reconciler) HandleProviderResult(ctx context.Context, result imagejob.Result) error {
	record, err := r.generationRepo.GetByProviderJobID(result.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrGenerationNotFound) {
			r.logger.Warn("Provider result for unknown job", zap.String("jobID", result.JobID))
			r.metrics.RecordWebhookEvent("provider", "unknown_job")
			return nil
		}

		return NewServiceError(ErrCodeDatabase, err)
	}

	if _, err := r.finalize(ctx, record, result); err != nil {
		r.metrics.RecordWebhookEvent("provider", "error")
		return err
	}

	r.metrics.RecordWebhookEvent("provider", "applied")

	return nil
}

// finalize applies a provider result. A record that already settled is
// returned untouched no matter which entry point delivered the result: a
// replayed webhook must not fetch, upload or write anything again.
// Non-terminal results are a no-op. The conditional status write makes racing
// finalizers safe: the loser sees ErrNoRowsAffected, reloads and returns
// whatever the winner wrote.
func (r *reconciler) finalize(ctx context.Context, record *model.Generation, result imagejob.Result) (*model.Generation, error) {
	if record.Status.Terminal() {
		return record, nil
	}

	if !result.Status.Terminal() {
		return record, nil
	}

	switch result.Status {
	case imagejob.StatusSucceeded:
		return r.finalizeSucceeded(ctx, record, result)
	default:
		return r.finalizeFailed(ctx, record, result)
	}
}

func (r *reconciler) finalizeSucceeded(ctx context.Context, record *model.Generation, result imagejob.Result) (*model.Generation, error) {
	outputURL, err := r.archiveOutput(ctx, record, result.OutputURL)
	if err != nil {
		return nil, err
	}

	update := model.Generation{
		ID:             record.ID,
		Status:         model.GenerationStatusCompleted,
		OutputImageURL: &outputURL,
		UpdatedAt:      time.Now(),
	}

	err = r.generationRepo.FinalizeStatus(ctx, &update)
	if errors.Is(err, repository.ErrNoRowsAffected) {
		return r.reload(record.ID)
	}

	if err != nil {
		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	r.logger.Info("Generation completed",
		zap.String("generationID", record.ID),
		zap.String("jobID", result.JobID))

	r.metrics.RecordGenerationFinished(string(model.GenerationStatusCompleted))

	return r.reload(record.ID)
}

// finalizeFailed writes FAILED and refunds the charge in one transaction.
// Only the caller whose conditional write lands runs the refund; everyone
// else lost the race to a finalizer that already did, or will. The unique
// refund index in the ledger backstops even that.
func (r *reconciler) finalizeFailed(ctx context.Context, record *model.Generation, result imagejob.Result) (*model.Generation, error) {
	reason := result.Reason
	if reason == "" {
		reason = "provider reported failure"
	}

	update := model.Generation{
		ID:            record.ID,
		Status:        model.GenerationStatusFailed,
		FailureReason: &reason,
		UpdatedAt:     time.Now(),
	}

	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		err := r.generationRepo.FinalizeStatus(ctx, &update)
		if err != nil {
			return err
		}

		refundCmd := RefundCreditsCommand{
			UserID:       record.UserID,
			GenerationID: record.ID,
			Amount:       constants.GenerationCost,
			Reason:       "generation_failed",
		}

		err = r.ledger.Refund(ctx, refundCmd)
		if err != nil && !errors.Is(err, ErrRefundAlreadyIssued) {
			return err
		}

		return nil
	})

	if errors.Is(err, repository.ErrNoRowsAffected) {
		return r.reload(record.ID)
	}

	if err != nil {
		return nil, err
	}

	r.logger.Info("Generation failed, charge refunded",
		zap.String("generationID", record.ID),
		zap.String("userID", record.UserID),
		zap.String("reason", reason))

	r.metrics.RecordGenerationFinished(string(model.GenerationStatusFailed))

	return r.reload(record.ID)
}

// archiveOutput copies the provider output into owned storage. Provider URLs
// expire; the archived copy is what users keep.
func (r *reconciler) archiveOutput(ctx context.Context, record *model.Generation, providerURL string) (string, error) {
	data, err := r.provider.FetchOutput(ctx, providerURL)
	if err != nil {
		r.logger.Error("Failed to fetch provider output",
			zap.String("generationID", record.ID),
			zap.Error(err))
		return "", err
	}

	outputKey := fmt.Sprintf("outputs/%s/%s", record.UserID, record.ID)

	outputURL, err := r.blobs.Put(ctx, outputKey, data, "image/png")
	if err != nil {
		r.logger.Error("Failed to archive output",
			zap.String("generationID", record.ID),
			zap.Error(err))
		return "", NewServiceError(ErrCodeStorage, err)
	}

	return outputURL, nil
}

func (r *reconciler) reload(generationID string) (*model.Generation, error) {
	record, err := r.generationRepo.GetByID(generationID)
	if err != nil {
		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	return record, nil
}

// AwaitTerminal blocks until the generation settles, polling the provider on
// each tick. The attempt budget bounds how long a caller can hang; beyond it
// the generation keeps processing and the background worker takes over.
func (r *reconciler) AwaitTerminal(ctx context.Context, generationID string) (*model.Generation, error) {
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		record, err := r.Reconcile(ctx, generationID)
		if err != nil {
			if errors.Is(err, ErrGenerationNotFound) {
				return nil, err
			}

			r.logger.Warn("Reconcile attempt failed",
				zap.String("generationID", generationID),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}

		if err == nil && record.Status.Terminal() {
			return record, nil
		}

		if attempt < r.config.MaxAttempts {
			select {
			case <-time.After(r.config.PollInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, NewServiceError(constants.ErrCodeReconcileTimeout,
		fmt.Errorf("generation %s still processing after %d attempts", generationID, r.config.MaxAttempts))
}

// Cancel is best effort. The provider may finish the job anyway, so the
// status is left untouched and reconciliation settles whatever the provider
// reports.
func (r *reconciler) Cancel(ctx context.Context, userID, generationID string) error {
	record, err := r.generationRepo.GetByID(generationID)
	if err != nil {
		if errors.Is(err, repository.ErrGenerationNotFound) {
			return ErrGenerationNotFound
		}

		return NewServiceError(ErrCodeDatabase, err)
	}

	if record.UserID != userID {
		return ErrGenerationNotFound
	}

	if record.Status.Terminal() {
		return ErrAlreadyFinalized
	}

	if record.ProviderJobID == nil {
		return nil
	}

	_ = r.provider.Cancel(ctx, *record.ProviderJobID)

	return nil
}
