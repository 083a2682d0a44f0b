package mocks

import (
	"context"

	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/stretchr/testify/mock"
)

type UserAccountRepository struct {
	mock.Mock
}

func (m *UserAccountRepository) Create(ctx context.Context, account *model.UserAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *UserAccountRepository) GetByUserID(userID string) (model.UserAccount, error) {
	args := m.Called(userID)
	return args.Get(0).(model.UserAccount), args.Error(1)
}

func (m *UserAccountRepository) AddCredits(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *UserAccountRepository) DeductCredits(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}
