package service

import (
	"context"
	"errors"

	"github.com/roomvista/decor-services/visualizer/internal/constants"
	"github.com/roomvista/decor-services/visualizer/internal/metrics"
	"github.com/roomvista/decor-services/visualizer/internal/model"
	"github.com/roomvista/decor-services/visualizer/internal/repository"
	"go.uber.org/zap"
)

// LedgerService owns every credit balance mutation. Each mutation writes an
// append-only ledger row and applies a conditional update to the cached
// balance inside one transaction, so the ledger sum and the cached column can
// never drift.
type LedgerService interface {
	EnsureAccount(ctx context.Context, userID string) error
	GetBalance(ctx context.Context, userID string) (int64, error)
	HasEnoughCredits(ctx context.Context, userID string, amount int64) (bool, error)
	AuditBalance(ctx context.Context, userID string) (ledgerSum int64, cached int64, err error)
	Deduct(ctx context.Context, cmd DeductCreditsCommand) error
	Refund(ctx context.Context, cmd RefundCreditsCommand) error
	TopUp(ctx context.Context, cmd TopUpCreditsCommand) error
	GetHistory(ctx context.Context, userID string, limit, offset int) ([]model.CreditTransaction, error)
}

type ledger struct {
	accountRepo repository.UserAccountRepository
	txRepo      repository.CreditTransactionRepository
	txManager   repository.TxManager
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewLedgerService(accountRepo repository.UserAccountRepository, txRepo repository.CreditTransactionRepository,
	txManager repository.TxManager, m *metrics.Metrics, logger *zap.Logger) LedgerService {
	return &ledger{accountRepo: accountRepo, txRepo: txRepo, txManager: txManager, metrics: m, logger: logger}
}

// EnsureAccount creates the account row on first contact and grants the
// signup bonus exactly once. A concurrent creator loses on the primary key
// and simply skips the bonus.
func (l *ledger) EnsureAccount(ctx context.Context, userID string) error {
	err := l.txManager.WithTx(ctx, func(ctx context.Context) error {
		account := model.UserAccount{UserID: userID, Credits: constants.SignupBonusCredits}

		err := l.accountRepo.Create(ctx, &account)
		if errors.Is(err, repository.ErrUserAccountExists) {
			return nil
		}

		if err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}

		bonus := model.CreditTransaction{
			UserID: userID,
			Amount: constants.SignupBonusCredits,
			TxType: model.TxTypeBonus,
			Reason: "signup_bonus",
		}

		if err := l.txRepo.Create(ctx, &bonus); err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}

		l.logger.Info("User account created",
			zap.String("userID", userID),
			zap.Int64("bonus", constants.SignupBonusCredits))

		l.metrics.RecordCreditsAdded(string(model.TxTypeBonus), constants.SignupBonusCredits)

		return nil
	})

	return err
}

func (l *ledger) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := l.accountRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserAccountNotFound) {
			return 0, ErrUserNotFound
		}

		return 0, NewServiceError(ErrCodeDatabase, err)
	}

	return account.Credits, nil
}

// HasEnoughCredits is a read-only preflight for callers that want to fail
// early. Deduct's conditional decrement remains the actual overdraft guard.
func (l *ledger) HasEnoughCredits(ctx context.Context, userID string, amount int64) (bool, error) {
	balance, err := l.GetBalance(ctx, userID)
	if err != nil {
		return false, err
	}

	return balance >= amount, nil
}

// AuditBalance returns the ledger sum next to the cached balance. The two
// must be equal; a mismatch means a mutation bypassed this service.
func (l *ledger) AuditBalance(ctx context.Context, userID string) (int64, int64, error) {
	cached, err := l.GetBalance(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	sum, err := l.txRepo.SumByUserID(userID)
	if err != nil {
		return 0, 0, NewServiceError(ErrCodeDatabase, err)
	}

	if sum != cached {
		l.logger.Error("Ledger sum does not match cached balance",
			zap.String("userID", userID),
			zap.Int64("ledgerSum", sum),
			zap.Int64("cached", cached))
	}

	return sum, cached, nil
}

// Deduct charges the user for one generation. The conditional decrement is
// the overdraft guard; the unique (USAGE, generation_id) ledger index makes a
// replayed deduct for the same generation fail instead of double charging.
func (l *ledger) Deduct(ctx context.Context, cmd DeductCreditsCommand) error {
	err := l.txManager.WithTx(ctx, func(ctx context.Context) error {
		err := l.accountRepo.DeductCredits(ctx, cmd.UserID, cmd.Amount)
		if errors.Is(err, repository.ErrNoRowsAffected) {
			account, getErr := l.accountRepo.GetByUserID(cmd.UserID)
			if getErr != nil {
				if errors.Is(getErr, repository.ErrUserAccountNotFound) {
					return ErrUserNotFound
				}

				return NewServiceError(ErrCodeDatabase, getErr)
			}

			return InsufficientCreditsError{Current: account.Credits, Required: cmd.Amount}
		}

		if err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}

		usage := model.CreditTransaction{
			UserID:       cmd.UserID,
			Amount:       -cmd.Amount,
			TxType:       model.TxTypeUsage,
			GenerationID: &cmd.GenerationID,
			Reason:       cmd.Reason,
		}

		err = l.txRepo.Create(ctx, &usage)
		if errors.Is(err, repository.ErrTransactionExists) {
			l.logger.Warn("Duplicate charge blocked by ledger",
				zap.String("userID", cmd.UserID),
				zap.String("generationID", cmd.GenerationID))
			return ErrChargeAlreadyApplied
		}

		if err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	l.metrics.RecordCreditsDeducted(cmd.Amount)

	return nil
}

// Refund compensates a failed generation. The ledger row is written first so
// the unique (REFUND, generation_id) index rejects a second refund before any
// balance change happens.
func (l *ledger) Refund(ctx context.Context, cmd RefundCreditsCommand) error {
	err := l.txManager.WithTx(ctx, func(ctx context.Context) error {
		refund := model.CreditTransaction{
			UserID:       cmd.UserID,
			Amount:       cmd.Amount,
			TxType:       model.TxTypeRefund,
			GenerationID: &cmd.GenerationID,
			Reason:       cmd.Reason,
		}

		err := l.txRepo.Create(ctx, &refund)
		if errors.Is(err, repository.ErrTransactionExists) {
			l.logger.Info("Refund already issued",
				zap.String("userID", cmd.UserID),
				zap.String("generationID", cmd.GenerationID))
			return ErrRefundAlreadyIssued
		}

		if err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}

		if err := l.accountRepo.AddCredits(ctx, cmd.UserID, cmd.Amount); err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	l.logger.Info("Credits refunded",
		zap.String("userID", cmd.UserID),
		zap.String("generationID", cmd.GenerationID),
		zap.Int64("amount", cmd.Amount),
		zap.String("reason", cmd.Reason))

	l.metrics.RecordCreditsAdded(string(model.TxTypeRefund), cmd.Amount)
	l.metrics.RecordRefundIssued()

	return nil
}

// TopUp applies a verified payment. The payment session id is the dedup key:
// the unique (PURCHASE, payment_session_id) index turns webhook redelivery
// into ErrTopUpAlreadyApplied with no balance change.
func (l *ledger) TopUp(ctx context.Context, cmd TopUpCreditsCommand) error {
	err := l.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := l.EnsureAccount(ctx, cmd.UserID); err != nil {
			return err
		}

		purchase := model.CreditTransaction{
			UserID:           cmd.UserID,
			Amount:           cmd.Amount,
			TxType:           model.TxTypePurchase,
			PaymentSessionID: &cmd.PaymentSessionID,
			Reason:           cmd.Reason,
		}

		err := l.txRepo.Create(ctx, &purchase)
		if errors.Is(err, repository.ErrTransactionExists) {
			l.logger.Info("Top-up already applied for payment session",
				zap.String("userID", cmd.UserID),
				zap.String("sessionID", cmd.PaymentSessionID))
			return ErrTopUpAlreadyApplied
		}

		if err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}

		if err := l.accountRepo.AddCredits(ctx, cmd.UserID, cmd.Amount); err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	l.logger.Info("Credits purchased",
		zap.String("userID", cmd.UserID),
		zap.String("sessionID", cmd.PaymentSessionID),
		zap.Int64("amount", cmd.Amount))

	l.metrics.RecordCreditsAdded(string(model.TxTypePurchase), cmd.Amount)

	return nil
}

func (l *ledger) GetHistory(ctx context.Context, userID string, limit, offset int) ([]model.CreditTransaction, error) {
	txs, err := l.txRepo.ListByUserID(userID, limit, offset)
	if err != nil {
		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	return txs, nil
}
