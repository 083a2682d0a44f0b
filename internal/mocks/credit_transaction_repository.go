package mocks

import (
	"context"

	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/stretchr/testify/mock"
)

type CreditTransactionRepository struct {
	mock.Mock
}

func (m *CreditTransactionRepository) Create(ctx context.Context, tx *model.CreditTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *CreditTransactionRepository) GetByPaymentSessionID(txType model.TxType, sessionID string) (*model.CreditTransaction, error) {
	args := m.Called(txType, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditTransaction), args.Error(1)
}

func (m *CreditTransactionRepository) GetByGenerationID(txType model.TxType, generationID string) (*model.CreditTransaction, error) {
	args := m.Called(txType, generationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditTransaction), args.Error(1)
}

func (m *CreditTransactionRepository) ListByUserID(userID string, limit, offset int) ([]model.CreditTransaction, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CreditTransaction), args.Error(1)
}

func (m *CreditTransactionRepository) SumByUserID(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}
