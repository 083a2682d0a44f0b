package mocks

import (
	"context"
	"time"

	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/stretchr/testify/mock"
)

type GenerationRepository struct {
	mock.Mock
}

func (m *GenerationRepository) Create(ctx context.Context, generation *model.Generation) error {
	args := m.Called(ctx, generation)
	return args.Error(0)
}

func (m *GenerationRepository) Update(ctx context.Context, generation *model.Generation) error {
	args := m.Called(ctx, generation)
	return args.Error(0)
}

func (m *GenerationRepository) GetByID(id string) (*model.Generation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Generation), args.Error(1)
}

func (m *GenerationRepository) GetByProviderJobID(jobID string) (*model.Generation, error) {
	args := m.Called(jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Generation), args.Error(1)
}

func (m *GenerationRepository) GetByPaymentSessionID(sessionID string) (*model.Generation, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Generation), args.Error(1)
}

func (m *GenerationRepository) GetByUserID(userID string, limit, offset int) ([]model.Generation, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Generation), args.Error(1)
}

func (m *GenerationRepository) CountByUserID(userID string) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *GenerationRepository) FinalizeStatus(ctx context.Context, generation *model.Generation) error {
	args := m.Called(ctx, generation)
	return args.Error(0)
}

func (m *GenerationRepository) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}

func (m *GenerationRepository) UnlockHD(ctx context.Context, id, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}

func (m *GenerationRepository) FindStaleProcessing(olderThan time.Time, requeueBefore time.Time, limit int) ([]model.Generation, error) {
	args := m.Called(olderThan, requeueBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Generation), args.Error(1)
}

func (m *GenerationRepository) MarkReconcileQueued(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
