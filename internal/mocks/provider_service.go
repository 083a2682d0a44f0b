package mocks

import (
	"context"

	"github.com/roomvista/decor-services/visualizer/pkg/imagejob"
	"github.com/stretchr/testify/mock"
)

type ProviderService struct {
	mock.Mock
}

func (m *ProviderService) SubmitWithRetry(ctx context.Context, request imagejob.SubmitRequest) (imagejob.SubmitResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(imagejob.SubmitResponse), args.Error(1)
}

func (m *ProviderService) Poll(ctx context.Context, jobID string) (imagejob.Result, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(imagejob.Result), args.Error(1)
}

func (m *ProviderService) FetchOutput(ctx context.Context, outputURL string) ([]byte, error) {
	args := m.Called(ctx, outputURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *ProviderService) Cancel(ctx context.Context, jobID string) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}
