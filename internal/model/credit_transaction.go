package model

import "time"

type TxType string

const (
	TxTypePurchase TxType = "PURCHASE"
	TxTypeUsage    TxType = "USAGE"
	TxTypeRefund   TxType = "REFUND"
	TxTypeBonus    TxType = "BONUS"
)

// CreditTransaction is an append-only ledger row. Amount is negative for
// usage and positive for purchase/refund/bonus. The unique indexes on
// (tx_type, generation_id) and (tx_type, payment_session_id) are what make
// refunds and webhook top-ups idempotent at the storage layer.
type CreditTransaction struct {
	ID               int64     `gorm:"primaryKey;autoIncrement;<-:create"`
	UserID           string    `gorm:"column:user_id;type:varchar(64);not null;index"`
	Amount           int64     `gorm:"column:amount;not null"`
	TxType           TxType    `gorm:"column:tx_type;type:enum('PURCHASE','USAGE','REFUND','BONUS');not null;index:idx_tx_type_generation,unique;index:idx_tx_type_session,unique"`
	GenerationID     *string   `gorm:"column:generation_id;type:char(36);index:idx_tx_type_generation,unique"`
	PaymentSessionID *string   `gorm:"column:payment_session_id;type:varchar(128);index:idx_tx_type_session,unique"`
	Reason           string    `gorm:"column:reason;type:varchar(64)"`
	CreatedAt        time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}
