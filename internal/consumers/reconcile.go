package consumers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/roomvista/decor-services/visualizer/internal/publishers"
	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/roomvista/decor-services/visualizer/pkg/mq"
	"go.uber.org/zap"
)

type ReconcileConsumer interface {
	Consume(ctx context.Context) error
}

type reconcileConsumer struct {
	service  service.ReconcilerService
	consumer mq.Consumer
	logger   *zap.Logger
}

func NewReconcileConsumer(service service.ReconcilerService, consumer mq.Consumer, logger *zap.Logger) ReconcileConsumer {
	return &reconcileConsumer{
		service:  service,
		consumer: consumer,
		logger:   logger,
	}
}

func (r *reconcileConsumer) Consume(ctx context.Context) error {
	return r.consumer.Consume(ctx, 1, publishers.QueueReconcile, r.handleMessage)
}

func (r *reconcileConsumer) handleMessage(ctx context.Context, body []byte) error {
	r.logger.Info("received reconcile command", zap.ByteString("body", body))

	var cmd service.ReconcileGenerationCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		r.logger.Warn("invalid reconcile command", zap.Error(err))
		return err
	}

	record, err := r.service.Reconcile(ctx, cmd.GenerationID)
	if err != nil {
		if errors.Is(err, service.ErrGenerationNotFound) {
			r.logger.Warn("Generation disappeared before reconcile",
				zap.String("generationID", cmd.GenerationID))
			return nil
		}

		// Provider or database hiccup; redeliver and try again.
		return mq.Temporary(err)
	}

	if !record.Status.Terminal() {
		// Still processing at the provider. Ack and let the publisher
		// requeue it after the requeue window.
		r.logger.Debug("Generation still in flight",
			zap.String("generationID", cmd.GenerationID),
			zap.String("status", string(record.Status)))
	}

	return nil
}
