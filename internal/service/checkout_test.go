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

func newCheckoutFixture() (*mocks.PaymentGateway, *mocks.GenerationRepository, service.CheckoutService) {
	mockGateway := &mocks.PaymentGateway{}
	mockRepo := &mocks.GenerationRepository{}

	svc := service.NewCheckoutService(mockGateway, mockRepo, zap.NewNop())

	return mockGateway, mockRepo, svc
}

func TestCheckout_BuyCredits(t *testing.T) {
	t.Run("opens a session with package metadata", func(t *testing.T) {
		mockGateway, _, svc := newCheckoutFixture()

		mockGateway.On("CreateCheckoutSession", mock.Anything,
			mock.MatchedBy(func(req paymentgw.CheckoutRequest) bool {
				return req.UserID == "user-1" &&
					req.PriceRef == "price_decor_50" &&
					req.Metadata["purpose"] == "credits" &&
					req.Metadata["package"] == "decor" &&
					req.Metadata["credits"] == "50"
			})).Return(paymentgw.CheckoutSession{
			SessionID: "cs_123",
			URL:       "https://pay.test/cs_123",
		}, nil)

		resp, err := svc.BuyCredits(context.Background(), "user-1", "decor")

		assert.NoError(t, err)
		assert.Equal(t, "cs_123", resp.SessionID)
		assert.Equal(t, "https://pay.test/cs_123", resp.CheckoutURL)
	})

	t.Run("unknown package never reaches the gateway", func(t *testing.T) {
		mockGateway, _, svc := newCheckoutFixture()

		_, err := svc.BuyCredits(context.Background(), "user-1", "mega")

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodePackageNotFound, serviceErr.Code)

		mockGateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	})

	t.Run("gateway failure maps to checkout error", func(t *testing.T) {
		mockGateway, _, svc := newCheckoutFixture()

		mockGateway.On("CreateCheckoutSession", mock.Anything, mock.AnythingOfType("paymentgw.CheckoutRequest")).
			Return(paymentgw.CheckoutSession{}, paymentgw.ErrServerError)

		_, err := svc.BuyCredits(context.Background(), "user-1", "starter")

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeCheckoutFailed, serviceErr.Code)
	})
}

func TestCheckout_RequestHDUnlock(t *testing.T) {
	completed := func() *model.Generation {
		return &model.Generation{
			ID:     "gen-1",
			UserID: "user-1",
			Status: model.GenerationStatusCompleted,
		}
	}

	t.Run("opens session and remembers it on the generation", func(t *testing.T) {
		mockGateway, mockRepo, svc := newCheckoutFixture()

		mockRepo.On("GetByID", "gen-1").Return(completed(), nil)

		mockGateway.On("CreateCheckoutSession", mock.Anything,
			mock.MatchedBy(func(req paymentgw.CheckoutRequest) bool {
				return req.PriceRef == constants.HDUnlockPriceRef &&
					req.Metadata["purpose"] == "hd_unlock" &&
					req.Metadata["generation_id"] == "gen-1"
			})).Return(paymentgw.CheckoutSession{SessionID: "cs_789", URL: "https://pay.test/cs_789"}, nil)

		mockRepo.On("SetPaymentSession", mock.Anything, "gen-1", "cs_789").Return(nil)

		resp, err := svc.RequestHDUnlock(context.Background(), "user-1", "gen-1")

		assert.NoError(t, err)
		assert.Equal(t, "cs_789", resp.SessionID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unfinished generation cannot be unlocked", func(t *testing.T) {
		mockGateway, mockRepo, svc := newCheckoutFixture()

		record := completed()
		record.Status = model.GenerationStatusProcessing
		mockRepo.On("GetByID", "gen-1").Return(record, nil)

		_, err := svc.RequestHDUnlock(context.Background(), "user-1", "gen-1")

		assert.ErrorIs(t, err, service.ErrGenerationNotFinished)
		mockGateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	})

	t.Run("already unlocked generation is rejected", func(t *testing.T) {
		mockGateway, mockRepo, svc := newCheckoutFixture()

		record := completed()
		record.HDUnlocked = true
		mockRepo.On("GetByID", "gen-1").Return(record, nil)

		_, err := svc.RequestHDUnlock(context.Background(), "user-1", "gen-1")

		assert.ErrorIs(t, err, service.ErrUnlockAlreadyApplied)
		mockGateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	})

	t.Run("other users cannot buy an unlock", func(t *testing.T) {
		_, mockRepo, svc := newCheckoutFixture()

		mockRepo.On("GetByID", "gen-1").Return(completed(), nil)

		_, err := svc.RequestHDUnlock(context.Background(), "intruder", "gen-1")

		assert.ErrorIs(t, err, service.ErrGenerationNotFound)
	})
}

func TestCheckout_ConfirmHDUnlock(t *testing.T) {
	t.Run("already unlocked generation answers without the gateway", func(t *testing.T) {
		mockGateway, mockRepo, svc := newCheckoutFixture()

		mockRepo.On("GetByPaymentSessionID", "cs_789").Return(&model.Generation{
			ID:         "gen-1",
			UserID:     "user-1",
			HDUnlocked: true,
		}, nil)

		resp, err := svc.ConfirmHDUnlock(context.Background(), "user-1", "cs_789")

		assert.NoError(t, err)
		assert.True(t, resp.HDUnlocked)
		assert.Equal(t, "gen-1", resp.GenerationID)
		mockGateway.AssertNotCalled(t, "GetCheckoutSession", mock.Anything, mock.Anything)
	})

	t.Run("paid session lands the unlock even without the webhook", func(t *testing.T) {
		mockGateway, mockRepo, svc := newCheckoutFixture()

		mockRepo.On("GetByPaymentSessionID", "cs_789").Return(&model.Generation{
			ID:     "gen-1",
			UserID: "user-1",
		}, nil)

		mockGateway.On("GetCheckoutSession", mock.Anything, "cs_789").
			Return(paymentgw.SessionStatus{
				SessionID:     "cs_789",
				PaymentStatus: paymentgw.PaymentStatusPaid,
			}, nil)

		mockRepo.On("UnlockHD", mock.Anything, "gen-1", "cs_789").Return(nil)

		resp, err := svc.ConfirmHDUnlock(context.Background(), "user-1", "cs_789")

		assert.NoError(t, err)
		assert.True(t, resp.HDUnlocked)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unpaid session never writes the unlock", func(t *testing.T) {
		mockGateway, mockRepo, svc := newCheckoutFixture()

		mockRepo.On("GetByPaymentSessionID", "cs_789").Return(&model.Generation{
			ID:     "gen-1",
			UserID: "user-1",
		}, nil)

		mockGateway.On("GetCheckoutSession", mock.Anything, "cs_789").
			Return(paymentgw.SessionStatus{
				SessionID:     "cs_789",
				PaymentStatus: paymentgw.PaymentStatusUnpaid,
			}, nil)

		resp, err := svc.ConfirmHDUnlock(context.Background(), "user-1", "cs_789")

		assert.NoError(t, err)
		assert.False(t, resp.HDUnlocked)
		mockRepo.AssertNotCalled(t, "UnlockHD", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("webhook winning the write race is tolerated", func(t *testing.T) {
		mockGateway, mockRepo, svc := newCheckoutFixture()

		mockRepo.On("GetByPaymentSessionID", "cs_789").Return(&model.Generation{
			ID:     "gen-1",
			UserID: "user-1",
		}, nil)

		mockGateway.On("GetCheckoutSession", mock.Anything, "cs_789").
			Return(paymentgw.SessionStatus{
				SessionID:     "cs_789",
				PaymentStatus: paymentgw.PaymentStatusPaid,
			}, nil)

		mockRepo.On("UnlockHD", mock.Anything, "gen-1", "cs_789").
			Return(repository.ErrNoRowsAffected)

		resp, err := svc.ConfirmHDUnlock(context.Background(), "user-1", "cs_789")

		assert.NoError(t, err)
		assert.True(t, resp.HDUnlocked)
	})

	t.Run("session of another user resolves to not found", func(t *testing.T) {
		_, mockRepo, svc := newCheckoutFixture()

		mockRepo.On("GetByPaymentSessionID", "cs_789").Return(&model.Generation{
			ID:     "gen-1",
			UserID: "someone-else",
		}, nil)

		_, err := svc.ConfirmHDUnlock(context.Background(), "user-1", "cs_789")

		assert.ErrorIs(t, err, service.ErrGenerationNotFound)
	})
}
