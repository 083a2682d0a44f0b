package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/roomvista/decor-services/visualizer/internal/constants"
	"github.com/roomvista/decor-services/visualizer/internal/mocks"
	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/roomvista/decor-services/visualizer/pkg/imagejob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newGenerationFixture() (*mocks.GenerationRepository, *mocks.LedgerService, *mocks.ProviderService,
	*mocks.BlobStore, *mocks.TxManager, service.GenerationService) {
	mockRepo := &mocks.GenerationRepository{}
	mockLedger := &mocks.LedgerService{}
	mockProvider := &mocks.ProviderService{}
	mockBlobs := &mocks.BlobStore{}
	mockTxManager := &mocks.TxManager{}

	svc := service.NewGenerationService(mockRepo, mockLedger, service.NewCatalogService(),
		mockProvider, mockBlobs, mockTxManager, "https://api.test/webhooks/provider", testMetrics, zap.NewNop())

	return mockRepo, mockLedger, mockProvider, mockBlobs, mockTxManager, svc
}

func TestGeneration_Create(t *testing.T) {
	cmd := service.CreateGenerationCommand{
		UserID:        "user-1",
		StyleSlug:     "scandinavian",
		RoomType:      "living-room",
		TransformMode: "redesign",
		ImageData:     []byte("photo-bytes"),
		ContentType:   "image/jpeg",
	}

	t.Run("charges, uploads and submits in order", func(t *testing.T) {
		mockRepo, mockLedger, mockProvider, mockBlobs, mockTxManager, svc := newGenerationFixture()

		mockLedger.On("EnsureAccount", mock.Anything, "user-1").Return(nil)

		var chargedGeneration string
		mockLedger.On("Deduct", mock.Anything,
			mock.MatchedBy(func(cmd service.DeductCreditsCommand) bool {
				return cmd.UserID == "user-1" && cmd.Amount == constants.GenerationCost
			})).Run(func(args mock.Arguments) {
			chargedGeneration = args.Get(1).(service.DeductCreditsCommand).GenerationID
		}).Return(nil)

		mockBlobs.On("Put", mock.Anything, mock.AnythingOfType("string"),
			[]byte("photo-bytes"), "image/jpeg").Return("https://cdn.test/inputs/user-1/gen", nil)

		mockTxManager.On("WithTx", mock.Anything,
			mock.AnythingOfType("func(context.Context) error")).Return(nil)

		mockRepo.On("Create", mock.Anything,
			mock.MatchedBy(func(record *model.Generation) bool {
				return record.UserID == "user-1" &&
					record.Status == model.GenerationStatusPending &&
					record.InputImageURL == "https://cdn.test/inputs/user-1/gen"
			})).Return(nil)

		mockProvider.On("SubmitWithRetry", mock.Anything,
			mock.MatchedBy(func(req imagejob.SubmitRequest) bool {
				return req.SourceImageURL == "https://cdn.test/inputs/user-1/gen" &&
					req.TransformMode == "redesign" &&
					req.WebhookURL == "https://api.test/webhooks/provider" &&
					req.Prompt != ""
			})).Return(imagejob.SubmitResponse{JobID: "job-77"}, nil)

		mockRepo.On("Update", mock.Anything,
			mock.MatchedBy(func(record *model.Generation) bool {
				return record.Status == model.GenerationStatusProcessing &&
					record.ProviderJobID != nil && *record.ProviderJobID == "job-77"
			})).Return(nil)

		mockLedger.On("GetBalance", mock.Anything, "user-1").Return(int64(9), nil)

		resp, err := svc.Create(context.Background(), cmd)

		assert.NoError(t, err)
		assert.Equal(t, chargedGeneration, resp.GenerationID)
		assert.Equal(t, string(model.GenerationStatusProcessing), resp.Status)
		assert.Equal(t, int64(9), resp.Balance)

		mockLedger.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
	})

	t.Run("unknown style is rejected before any charge", func(t *testing.T) {
		_, mockLedger, mockProvider, mockBlobs, _, svc := newGenerationFixture()

		badCmd := cmd
		badCmd.StyleSlug = "brutalist"

		_, err := svc.Create(context.Background(), badCmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeStyleNotFound, serviceErr.Code)

		mockLedger.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything)
		mockBlobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockProvider.AssertNotCalled(t, "SubmitWithRetry", mock.Anything, mock.Anything)
	})

	t.Run("insufficient credits stop the request before upload", func(t *testing.T) {
		_, mockLedger, mockProvider, mockBlobs, _, svc := newGenerationFixture()

		mockLedger.On("EnsureAccount", mock.Anything, "user-1").Return(nil)
		mockLedger.On("Deduct", mock.Anything, mock.AnythingOfType("service.DeductCreditsCommand")).
			Return(service.InsufficientCreditsError{Current: 0, Required: 1})

		_, err := svc.Create(context.Background(), cmd)

		var insufficient service.InsufficientCreditsError
		assert.ErrorAs(t, err, &insufficient)

		mockBlobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockProvider.AssertNotCalled(t, "SubmitWithRetry", mock.Anything, mock.Anything)
		mockLedger.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
	})

	t.Run("failed submission refunds the charge", func(t *testing.T) {
		mockRepo, mockLedger, mockProvider, mockBlobs, mockTxManager, svc := newGenerationFixture()

		mockLedger.On("EnsureAccount", mock.Anything, "user-1").Return(nil)
		mockLedger.On("Deduct", mock.Anything, mock.AnythingOfType("service.DeductCreditsCommand")).Return(nil)

		mockBlobs.On("Put", mock.Anything, mock.AnythingOfType("string"),
			[]byte("photo-bytes"), "image/jpeg").Return("https://cdn.test/input", nil)

		mockTxManager.On("WithTx", mock.Anything,
			mock.AnythingOfType("func(context.Context) error")).Return(nil)

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Generation")).Return(nil)

		mockProvider.On("SubmitWithRetry", mock.Anything, mock.AnythingOfType("imagejob.SubmitRequest")).
			Return(imagejob.SubmitResponse{}, imagejob.ErrServerError)

		mockLedger.On("Refund", mock.Anything,
			mock.MatchedBy(func(cmd service.RefundCreditsCommand) bool {
				return cmd.UserID == "user-1" &&
					cmd.Amount == constants.GenerationCost &&
					cmd.Reason == "submission_failed"
			})).Return(nil)

		_, err := svc.Create(context.Background(), cmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeProviderSubmission, serviceErr.Code)

		mockLedger.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("failed upload refunds the charge without touching the provider", func(t *testing.T) {
		_, mockLedger, mockProvider, mockBlobs, _, svc := newGenerationFixture()

		mockLedger.On("EnsureAccount", mock.Anything, "user-1").Return(nil)
		mockLedger.On("Deduct", mock.Anything, mock.AnythingOfType("service.DeductCreditsCommand")).Return(nil)

		mockBlobs.On("Put", mock.Anything, mock.AnythingOfType("string"),
			[]byte("photo-bytes"), "image/jpeg").Return("", errors.New("bucket down"))

		mockLedger.On("Refund", mock.Anything, mock.AnythingOfType("service.RefundCreditsCommand")).Return(nil)

		_, err := svc.Create(context.Background(), cmd)

		assert.Error(t, err)
		mockProvider.AssertNotCalled(t, "SubmitWithRetry", mock.Anything, mock.Anything)
		mockLedger.AssertExpectations(t)
	})
}

func TestGeneration_GetForUser(t *testing.T) {
	t.Run("hides generations owned by someone else", func(t *testing.T) {
		mockRepo, _, _, _, _, svc := newGenerationFixture()

		mockRepo.On("GetByID", "gen-1").
			Return(&model.Generation{ID: "gen-1", UserID: "someone-else"}, nil)

		_, err := svc.GetForUser(context.Background(), "user-1", "gen-1")

		assert.ErrorIs(t, err, service.ErrGenerationNotFound)
	})

	t.Run("missing generation maps to not found", func(t *testing.T) {
		mockRepo, _, _, _, _, svc := newGenerationFixture()

		mockRepo.On("GetByID", "gen-1").Return(nil, repository.ErrGenerationNotFound)

		_, err := svc.GetForUser(context.Background(), "user-1", "gen-1")

		assert.ErrorIs(t, err, service.ErrGenerationNotFound)
	})
}
