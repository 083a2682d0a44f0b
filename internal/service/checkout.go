package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/roomvista/decor-services/visualizer/internal/constants"
	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"github.com/roomvista/decor-services/visualizer/pkg/paymentgw"
	"go.uber.org/zap"
)

// CheckoutService opens payment sessions. Credits land only through the
// verified webhook; the HD unlock can additionally land through
// ConfirmHDUnlock, which races the webhook safely on the same conditional
// write.
type CheckoutService interface {
	BuyCredits(ctx context.Context, userID, packageSlug string) (CheckoutResponse, error)
	RequestHDUnlock(ctx context.Context, userID, generationID string) (CheckoutResponse, error)
	ConfirmHDUnlock(ctx context.Context, userID, sessionID string) (UnlockStatusResponse, error)
}

type checkout struct {
	gateway        paymentgw.Gateway
	generationRepo repository.GenerationRepository
	logger         *zap.Logger
}

func NewCheckoutService(gateway paymentgw.Gateway, generationRepo repository.GenerationRepository,
	logger *zap.Logger) CheckoutService {
	return &checkout{gateway: gateway, generationRepo: generationRepo, logger: logger}
}

func (c *checkout) BuyCredits(ctx context.Context, userID, packageSlug string) (CheckoutResponse, error) {
	pkg, ok := constants.CreditPackages[packageSlug]
	if !ok {
		return CheckoutResponse{}, NewServiceError(constants.ErrCodePackageNotFound,
			errors.New("unknown package "+packageSlug))
	}

	request := paymentgw.CheckoutRequest{
		UserID:   userID,
		PriceRef: pkg.PriceRef,
		Metadata: map[string]string{
			"purpose": PurposeCredits,
			"package": pkg.Slug,
			"credits": strconv.FormatInt(pkg.Credits, 10),
		},
	}

	session, err := c.gateway.CreateCheckoutSession(ctx, request)
	if err != nil {
		c.logger.Error("Checkout session creation failed",
			zap.String("userID", userID),
			zap.String("package", packageSlug),
			zap.Error(err))
		return CheckoutResponse{}, NewServiceError(constants.ErrCodeCheckoutFailed, err)
	}

	c.logger.Info("Checkout session opened",
		zap.String("userID", userID),
		zap.String("package", packageSlug),
		zap.String("sessionID", session.SessionID))

	return CheckoutResponse{SessionID: session.SessionID, CheckoutURL: session.URL}, nil
}

func (c *checkout) RequestHDUnlock(ctx context.Context, userID, generationID string) (CheckoutResponse, error) {
	record, err := c.generationRepo.GetByID(generationID)
	if err != nil {
		if errors.Is(err, repository.ErrGenerationNotFound) {
			return CheckoutResponse{}, ErrGenerationNotFound
		}

		return CheckoutResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	if record.UserID != userID {
		return CheckoutResponse{}, ErrGenerationNotFound
	}

	if record.Status != model.GenerationStatusCompleted {
		return CheckoutResponse{}, ErrGenerationNotFinished
	}

	if record.HDUnlocked {
		return CheckoutResponse{}, ErrUnlockAlreadyApplied
	}

	request := paymentgw.CheckoutRequest{
		UserID:   userID,
		PriceRef: constants.HDUnlockPriceRef,
		Metadata: map[string]string{
			"purpose":       PurposeHDUnlock,
			"generation_id": generationID,
		},
	}

	session, err := c.gateway.CreateCheckoutSession(ctx, request)
	if err != nil {
		c.logger.Error("HD unlock session creation failed",
			zap.String("generationID", generationID),
			zap.Error(err))
		return CheckoutResponse{}, NewServiceError(constants.ErrCodeCheckoutFailed, err)
	}

	// Remember which session pays for this unlock so the confirm endpoint
	// can resolve it without trusting client input.
	if err := c.generationRepo.SetPaymentSession(ctx, generationID, session.SessionID); err != nil {
		if !errors.Is(err, repository.ErrNoRowsAffected) {
			return CheckoutResponse{}, NewServiceError(ErrCodeDatabase, err)
		}
	}

	return CheckoutResponse{SessionID: session.SessionID, CheckoutURL: session.URL}, nil
}

// ConfirmHDUnlock answers the success-page callback. It applies the same
// conditional unlock write as the webhook path, gated on the gateway
// confirming the session is paid, so a lost webhook still lands the unlock
// and a redundant confirm changes nothing.
func (c *checkout) ConfirmHDUnlock(ctx context.Context, userID, sessionID string) (UnlockStatusResponse, error) {
	record, err := c.generationRepo.GetByPaymentSessionID(sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrGenerationNotFound) {
			return UnlockStatusResponse{}, ErrGenerationNotFound
		}

		return UnlockStatusResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	if record.UserID != userID {
		return UnlockStatusResponse{}, ErrGenerationNotFound
	}

	if record.HDUnlocked {
		return UnlockStatusResponse{GenerationID: record.ID, HDUnlocked: true}, nil
	}

	session, err := c.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		c.logger.Error("Checkout session lookup failed",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		return UnlockStatusResponse{}, NewServiceError(constants.ErrCodeCheckoutFailed, err)
	}

	if session.PaymentStatus != paymentgw.PaymentStatusPaid {
		return UnlockStatusResponse{GenerationID: record.ID, HDUnlocked: false}, nil
	}

	err = c.generationRepo.UnlockHD(ctx, record.ID, sessionID)
	if err != nil && !errors.Is(err, repository.ErrNoRowsAffected) {
		return UnlockStatusResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	// ErrNoRowsAffected means the webhook won the write; either way the
	// generation is unlocked now.
	c.logger.Info("HD unlock confirmed",
		zap.String("generationID", record.ID),
		zap.String("sessionID", sessionID))

	return UnlockStatusResponse{GenerationID: record.ID, HDUnlocked: true}, nil
}
