package service

import (
	"context"
	"time"

	"github.com/roomvista/decor-services/visualizer/internal/config"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"go.uber.org/zap"
)

// ReconcileQueueService feeds the background worker. Generations stuck in
// PROCESSING past the stale threshold get queued for reconciliation; the
// requeue window keeps a generation from being queued again while an earlier
// delivery is still in flight.
type ReconcileQueueService interface {
	FindGenerationsToQueue(ctx context.Context, limit int) ([]ReconcileGenerationCommand, error)
	MarkGenerationAsQueued(ctx context.Context, generationID string) error
}

type reconcileQueue struct {
	generationRepo repository.GenerationRepository
	config         config.Reconcile
	logger         *zap.Logger
}

func NewReconcileQueueService(generationRepo repository.GenerationRepository, cfg *config.Config,
	logger *zap.Logger) ReconcileQueueService {
	return &reconcileQueue{generationRepo: generationRepo, config: cfg.Reconcile, logger: logger}
}

func (r *reconcileQueue) FindGenerationsToQueue(ctx context.Context, limit int) ([]ReconcileGenerationCommand, error) {
	staleBefore := time.Now().Add(-r.config.StaleAfter)
	requeueBefore := time.Now().Add(-r.config.RequeueAfter)

	records, err := r.generationRepo.FindStaleProcessing(staleBefore, requeueBefore, limit)
	if err != nil {
		r.logger.Error("Failed to find stale generations", zap.Error(err))
		return nil, err
	}

	if len(records) == 0 {
		r.logger.Debug("No stale generations to queue")
		return nil, nil
	}

	commands := make([]ReconcileGenerationCommand, 0, len(records))
	for _, record := range records {
		commands = append(commands, ReconcileGenerationCommand{GenerationID: record.ID})
	}

	return commands, nil
}

func (r *reconcileQueue) MarkGenerationAsQueued(ctx context.Context, generationID string) error {
	if err := r.generationRepo.MarkReconcileQueued(ctx, generationID); err != nil {
		r.logger.Error("Failed to mark generation as queued",
			zap.Error(err),
			zap.String("generationID", generationID))
		return err
	}

	return nil
}
