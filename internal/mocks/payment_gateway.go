package mocks

import (
	"context"

	"github.com/roomvista/decor-services/visualizer/pkg/paymentgw"
	"github.com/stretchr/testify/mock"
)

type PaymentGateway struct {
	mock.Mock
}

func (m *PaymentGateway) CreateCheckoutSession(ctx context.Context, request paymentgw.CheckoutRequest) (paymentgw.CheckoutSession, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(paymentgw.CheckoutSession), args.Error(1)
}

func (m *PaymentGateway) GetCheckoutSession(ctx context.Context, sessionID string) (paymentgw.SessionStatus, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(paymentgw.SessionStatus), args.Error(1)
}

func (m *PaymentGateway) VerifyWebhook(payload []byte, signature string) (paymentgw.Event, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(paymentgw.Event), args.Error(1)
}
