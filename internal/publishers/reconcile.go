package publishers

import (
	"context"
	"encoding/json"

	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/roomvista/decor-services/visualizer/pkg/mq"
	"go.uber.org/zap"
)

const QueueReconcile = "visualizer.reconcile"

type ReconcilePublisher interface {
	Publish(ctx context.Context) error
}

type reconcilePublisher struct {
	service   service.ReconcileQueueService
	publisher mq.Publisher
	batchSize int
	logger    *zap.Logger
}

func NewReconcilePublisher(service service.ReconcileQueueService, publisher mq.Publisher,
	batchSize int, logger *zap.Logger) ReconcilePublisher {
	return &reconcilePublisher{service: service, publisher: publisher, batchSize: batchSize, logger: logger}
}

func (r *reconcilePublisher) Publish(ctx context.Context) error {
	commands, err := r.service.FindGenerationsToQueue(ctx, r.batchSize)
	if err != nil {
		return err
	}

	if len(commands) == 0 {
		return nil
	}

	r.logger.Info("Publishing stale generations", zap.Int("count", len(commands)))

	successCount := 0
	for _, cmd := range commands {
		body, _ := json.Marshal(cmd)
		if err := r.publisher.Publish(ctx, "", QueueReconcile, body); err != nil {
			r.logger.Error("Failed to publish reconcile command",
				zap.Error(err),
				zap.String("generationID", cmd.GenerationID))
			continue
		}

		if err := r.service.MarkGenerationAsQueued(ctx, cmd.GenerationID); err != nil {
			continue
		}

		successCount++
	}

	if successCount > 0 {
		r.logger.Info("Successfully published reconcile commands",
			zap.Int("published", successCount),
			zap.Int("total", len(commands)))
	}

	return nil
}
