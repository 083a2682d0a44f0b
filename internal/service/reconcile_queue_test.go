package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/roomvista/decor-services/visualizer/internal/config"
	"github.com/roomvista/decor-services/visualizer/internal/mocks"
	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestReconcileQueue_FindGenerationsToQueue(t *testing.T) {
	cfg := &config.Config{Reconcile: config.Reconcile{
		StaleAfter:   2 * time.Minute,
		RequeueAfter: 5 * time.Minute,
		BatchSize:    100,
	}}

	t.Run("maps stale generations to commands", func(t *testing.T) {
		mockRepo := &mocks.GenerationRepository{}
		svc := service.NewReconcileQueueService(mockRepo, cfg, zap.NewNop())

		mockRepo.On("FindStaleProcessing",
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), 100).
			Return([]model.Generation{{ID: "gen-1"}, {ID: "gen-2"}}, nil)

		commands, err := svc.FindGenerationsToQueue(context.Background(), 100)

		assert.NoError(t, err)
		assert.Len(t, commands, 2)
		assert.Equal(t, "gen-1", commands[0].GenerationID)
		assert.Equal(t, "gen-2", commands[1].GenerationID)
	})

	t.Run("no stale generations yields nothing", func(t *testing.T) {
		mockRepo := &mocks.GenerationRepository{}
		svc := service.NewReconcileQueueService(mockRepo, cfg, zap.NewNop())

		mockRepo.On("FindStaleProcessing",
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), 100).
			Return([]model.Generation{}, nil)

		commands, err := svc.FindGenerationsToQueue(context.Background(), 100)

		assert.NoError(t, err)
		assert.Nil(t, commands)
	})
}

func TestReconcileQueue_MarkGenerationAsQueued(t *testing.T) {
	cfg := &config.Config{Reconcile: config.Reconcile{BatchSize: 100}}

	mockRepo := &mocks.GenerationRepository{}
	svc := service.NewReconcileQueueService(mockRepo, cfg, zap.NewNop())

	mockRepo.On("MarkReconcileQueued", mock.Anything, "gen-1").Return(nil)

	err := svc.MarkGenerationAsQueued(context.Background(), "gen-1")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
