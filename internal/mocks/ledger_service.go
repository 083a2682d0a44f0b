package mocks

import (
	"context"

	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/stretchr/testify/mock"
)

type LedgerService struct {
	mock.Mock
}

func (m *LedgerService) EnsureAccount(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *LedgerService) GetBalance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LedgerService) HasEnoughCredits(ctx context.Context, userID string, amount int64) (bool, error) {
	args := m.Called(ctx, userID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *LedgerService) AuditBalance(ctx context.Context, userID string) (int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *LedgerService) Deduct(ctx context.Context, cmd service.DeductCreditsCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *LedgerService) Refund(ctx context.Context, cmd service.RefundCreditsCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *LedgerService) TopUp(ctx context.Context, cmd service.TopUpCreditsCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *LedgerService) GetHistory(ctx context.Context, userID string, limit, offset int) ([]model.CreditTransaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CreditTransaction), args.Error(1)
}
