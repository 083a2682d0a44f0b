package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/roomvista/decor-services/visualizer/internal/constants"
	"github.com/roomvista/decor-services/visualizer/internal/metrics"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"github.com/roomvista/decor-services/visualizer/pkg/paymentgw"
	"go.uber.org/zap"
)

const (
	PurposeCredits  = "credits"
	PurposeHDUnlock = "hd_unlock"
)

// PaymentHookService applies verified payment events. Delivery is at least
// once, so every apply path is keyed on the payment session id: replays
// succeed without touching the balance or the unlock flag a second time.
type PaymentHookService interface {
	Handle(ctx context.Context, payload []byte, signature string) error
}

type paymentHook struct {
	gateway        paymentgw.Gateway
	ledger         LedgerService
	generationRepo repository.GenerationRepository
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewPaymentHookService(gateway paymentgw.Gateway, ledger LedgerService,
	generationRepo repository.GenerationRepository, m *metrics.Metrics, logger *zap.Logger) PaymentHookService {
	return &paymentHook{gateway: gateway, ledger: ledger, generationRepo: generationRepo, metrics: m, logger: logger}
}

func (p *paymentHook) Handle(ctx context.Context, payload []byte, signature string) error {
	event, err := p.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		p.logger.Warn("Payment webhook signature rejected", zap.Error(err))
		p.metrics.RecordWebhookEvent("payment", "rejected")
		return NewServiceError(constants.ErrCodePaymentVerification, err)
	}

	if event.Type != paymentgw.EventCheckoutCompleted {
		p.logger.Info("Ignoring payment event",
			zap.String("eventID", event.ID),
			zap.String("type", event.Type))
		p.metrics.RecordWebhookEvent("payment", "ignored")
		return nil
	}

	switch event.Metadata["purpose"] {
	case PurposeCredits:
		err = p.applyTopUp(ctx, event)
	case PurposeHDUnlock:
		err = p.applyHDUnlock(ctx, event)
	default:
		p.logger.Warn("Payment event with unknown purpose",
			zap.String("eventID", event.ID),
			zap.String("purpose", event.Metadata["purpose"]))
		p.metrics.RecordWebhookEvent("payment", "unknown_purpose")
		return nil
	}

	if err != nil {
		p.metrics.RecordWebhookEvent("payment", "error")
		return err
	}

	p.metrics.RecordWebhookEvent("payment", "applied")

	return nil
}

func (p *paymentHook) applyTopUp(ctx context.Context, event paymentgw.Event) error {
	pkg, ok := constants.CreditPackages[event.Metadata["package"]]
	if !ok {
		// Credits were charged for a package this build does not know.
		// Fall back to the metadata amount so the user is not shorted.
		amount, err := strconv.ParseInt(event.Metadata["credits"], 10, 64)
		if err != nil || amount <= 0 {
			p.logger.Error("Top-up event without a resolvable amount",
				zap.String("eventID", event.ID),
				zap.String("package", event.Metadata["package"]))
			return NewServiceError(constants.ErrCodePackageNotFound, errors.New("unresolvable credit amount"))
		}

		pkg = constants.CreditPackage{Slug: event.Metadata["package"], Credits: amount}
	}

	cmd := TopUpCreditsCommand{
		UserID:           event.UserID,
		PaymentSessionID: event.SessionID,
		Amount:           pkg.Credits,
		Reason:           "package_" + pkg.Slug,
	}

	err := p.ledger.TopUp(ctx, cmd)
	if errors.Is(err, ErrTopUpAlreadyApplied) {
		return nil
	}

	return err
}

func (p *paymentHook) applyHDUnlock(ctx context.Context, event paymentgw.Event) error {
	generationID := event.Metadata["generation_id"]
	if generationID == "" {
		p.logger.Error("HD unlock event without generation id", zap.String("eventID", event.ID))
		return NewServiceError(constants.ErrCodeGenerationNotFound, errors.New("missing generation_id metadata"))
	}

	err := p.generationRepo.UnlockHD(ctx, generationID, event.SessionID)
	if errors.Is(err, repository.ErrNoRowsAffected) {
		// Either a replay after the unlock landed, or a session for a
		// generation that no longer exists. Confirm which.
		record, getErr := p.generationRepo.GetByID(generationID)
		if getErr != nil {
			if errors.Is(getErr, repository.ErrGenerationNotFound) {
				return NewServiceError(constants.ErrCodeGenerationNotFound, getErr)
			}

			return NewServiceError(ErrCodeDatabase, getErr)
		}

		if record.HDUnlocked {
			p.logger.Info("HD unlock already applied",
				zap.String("generationID", generationID),
				zap.String("sessionID", event.SessionID))
			return nil
		}

		return NewServiceError(ErrCodeDatabase, err)
	}

	if err != nil {
		return NewServiceError(ErrCodeDatabase, err)
	}

	p.logger.Info("HD unlocked",
		zap.String("generationID", generationID),
		zap.String("sessionID", event.SessionID))

	return nil
}
