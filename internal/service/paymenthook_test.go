package service_test

import (
	"context"
	"testing"

	"github.com/roomvista/decor-services/visualizer/internal/constants"
	"github.com/roomvista/decor-services/visualizer/internal/mocks"
	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/roomvista/decor-services/visualizer/pkg/paymentgw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newPaymentHookFixture() (*mocks.PaymentGateway, *mocks.LedgerService, *mocks.GenerationRepository,
	service.PaymentHookService) {
	mockGateway := &mocks.PaymentGateway{}
	mockLedger := &mocks.LedgerService{}
	mockRepo := &mocks.GenerationRepository{}

	svc := service.NewPaymentHookService(mockGateway, mockLedger, mockRepo, testMetrics, zap.NewNop())

	return mockGateway, mockLedger, mockRepo, svc
}

func TestPaymentHook_Handle(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)

	t.Run("rejects invalid signature", func(t *testing.T) {
		mockGateway, mockLedger, mockRepo, svc := newPaymentHookFixture()

		mockGateway.On("VerifyWebhook", payload, "bad-sig").
			Return(paymentgw.Event{}, paymentgw.ErrVerificationFailed)

		err := svc.Handle(context.Background(), payload, "bad-sig")

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodePaymentVerification, serviceErr.Code)

		mockLedger.AssertNotCalled(t, "TopUp", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "UnlockHD", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ignores events other than checkout completion", func(t *testing.T) {
		mockGateway, mockLedger, mockRepo, svc := newPaymentHookFixture()

		mockGateway.On("VerifyWebhook", payload, "sig").Return(paymentgw.Event{
			ID:   "evt_1",
			Type: "checkout.session.expired",
		}, nil)

		err := svc.Handle(context.Background(), payload, "sig")

		assert.NoError(t, err)
		mockLedger.AssertNotCalled(t, "TopUp", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "UnlockHD", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("credits purchase applies the package amount", func(t *testing.T) {
		mockGateway, mockLedger, _, svc := newPaymentHookFixture()

		mockGateway.On("VerifyWebhook", payload, "sig").Return(paymentgw.Event{
			ID:        "evt_1",
			Type:      paymentgw.EventCheckoutCompleted,
			SessionID: "cs_123",
			UserID:    "user-1",
			Metadata:  map[string]string{"purpose": "credits", "package": "decor"},
		}, nil)

		mockLedger.On("TopUp", mock.Anything,
			mock.MatchedBy(func(cmd service.TopUpCreditsCommand) bool {
				return cmd.UserID == "user-1" &&
					cmd.PaymentSessionID == "cs_123" &&
					cmd.Amount == 50
			})).Return(nil)

		err := svc.Handle(context.Background(), payload, "sig")

		assert.NoError(t, err)
		mockLedger.AssertExpectations(t)
	})

	t.Run("redelivered purchase event acks without error", func(t *testing.T) {
		mockGateway, mockLedger, _, svc := newPaymentHookFixture()

		mockGateway.On("VerifyWebhook", payload, "sig").Return(paymentgw.Event{
			ID:        "evt_1",
			Type:      paymentgw.EventCheckoutCompleted,
			SessionID: "cs_123",
			UserID:    "user-1",
			Metadata:  map[string]string{"purpose": "credits", "package": "decor"},
		}, nil)

		mockLedger.On("TopUp", mock.Anything, mock.AnythingOfType("service.TopUpCreditsCommand")).
			Return(service.ErrTopUpAlreadyApplied)

		err := svc.Handle(context.Background(), payload, "sig")

		assert.NoError(t, err)
	})

	t.Run("unknown package falls back to metadata credit amount", func(t *testing.T) {
		mockGateway, mockLedger, _, svc := newPaymentHookFixture()

		mockGateway.On("VerifyWebhook", payload, "sig").Return(paymentgw.Event{
			ID:        "evt_1",
			Type:      paymentgw.EventCheckoutCompleted,
			SessionID: "cs_456",
			UserID:    "user-1",
			Metadata:  map[string]string{"purpose": "credits", "package": "legacy", "credits": "25"},
		}, nil)

		mockLedger.On("TopUp", mock.Anything,
			mock.MatchedBy(func(cmd service.TopUpCreditsCommand) bool {
				return cmd.Amount == 25
			})).Return(nil)

		err := svc.Handle(context.Background(), payload, "sig")

		assert.NoError(t, err)
		mockLedger.AssertExpectations(t)
	})

	t.Run("hd unlock flips the flag once", func(t *testing.T) {
		mockGateway, _, mockRepo, svc := newPaymentHookFixture()

		mockGateway.On("VerifyWebhook", payload, "sig").Return(paymentgw.Event{
			ID:        "evt_1",
			Type:      paymentgw.EventCheckoutCompleted,
			SessionID: "cs_789",
			UserID:    "user-1",
			Metadata:  map[string]string{"purpose": "hd_unlock", "generation_id": "gen-1"},
		}, nil)

		mockRepo.On("UnlockHD", mock.Anything, "gen-1", "cs_789").Return(nil)

		err := svc.Handle(context.Background(), payload, "sig")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("replayed hd unlock is idempotent", func(t *testing.T) {
		mockGateway, _, mockRepo, svc := newPaymentHookFixture()

		mockGateway.On("VerifyWebhook", payload, "sig").Return(paymentgw.Event{
			ID:        "evt_1",
			Type:      paymentgw.EventCheckoutCompleted,
			SessionID: "cs_789",
			UserID:    "user-1",
			Metadata:  map[string]string{"purpose": "hd_unlock", "generation_id": "gen-1"},
		}, nil)

		mockRepo.On("UnlockHD", mock.Anything, "gen-1", "cs_789").
			Return(repository.ErrNoRowsAffected)
		mockRepo.On("GetByID", "gen-1").Return(&model.Generation{
			ID:         "gen-1",
			UserID:     "user-1",
			HDUnlocked: true,
		}, nil)

		err := svc.Handle(context.Background(), payload, "sig")

		assert.NoError(t, err)
	})

	t.Run("unknown purpose is acked without side effects", func(t *testing.T) {
		mockGateway, mockLedger, mockRepo, svc := newPaymentHookFixture()

		mockGateway.On("VerifyWebhook", payload, "sig").Return(paymentgw.Event{
			ID:       "evt_1",
			Type:     paymentgw.EventCheckoutCompleted,
			Metadata: map[string]string{"purpose": "gift_card"},
		}, nil)

		err := svc.Handle(context.Background(), payload, "sig")

		assert.NoError(t, err)
		mockLedger.AssertNotCalled(t, "TopUp", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "UnlockHD", mock.Anything, mock.Anything, mock.Anything)
	})
}
