package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/roomvista/decor-services/visualizer/internal/model"
	"gorm.io/gorm"
)

var ErrTransactionExists = errors.New("TRANSACTION_EXISTS")
var ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")

type CreditTransactionRepository interface {
	Create(ctx context.Context, tx *model.CreditTransaction) error
	GetByPaymentSessionID(txType model.TxType, sessionID string) (*model.CreditTransaction, error)
	GetByGenerationID(txType model.TxType, generationID string) (*model.CreditTransaction, error)
	ListByUserID(userID string, limit, offset int) ([]model.CreditTransaction, error)
	SumByUserID(userID string) (int64, error)
}

type CreditTransaction struct {
	db *gorm.DB
}

func NewCreditTransactionRepository(db *gorm.DB) CreditTransactionRepository {
	return &CreditTransaction{db: db}
}

func (t *CreditTransaction) Create(ctx context.Context, tx *model.CreditTransaction) error {
	db := GetTx(ctx, t.db)
	err := db.Create(tx).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrTransactionExists
	}

	return err
}

func (t *CreditTransaction) GetByPaymentSessionID(txType model.TxType, sessionID string) (*model.CreditTransaction, error) {
	var tx model.CreditTransaction

	err := t.db.Where("tx_type = ? AND payment_session_id = ?", txType, sessionID).First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

func (t *CreditTransaction) GetByGenerationID(txType model.TxType, generationID string) (*model.CreditTransaction, error) {
	var tx model.CreditTransaction

	err := t.db.Where("tx_type = ? AND generation_id = ?", txType, generationID).First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

func (t *CreditTransaction) ListByUserID(userID string, limit, offset int) ([]model.CreditTransaction, error) {
	var txs []model.CreditTransaction

	err := t.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

// SumByUserID totals the ledger for a user. The result must always equal the
// cached user_accounts.credits column; it is exposed for balance audits.
func (t *CreditTransaction) SumByUserID(userID string) (int64, error) {
	var sum *int64

	err := t.db.Model(&model.CreditTransaction{}).
		Select("SUM(amount)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}

	if sum == nil {
		return 0, nil
	}

	return *sum, nil
}
