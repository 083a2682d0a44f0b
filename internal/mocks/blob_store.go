package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Put(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, objectKey, data, contentType)
	return args.String(0), args.Error(1)
}
