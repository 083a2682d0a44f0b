package model

import "time"

// UserAccount caches the credit balance as a projection of the
// credit_transactions ledger. The column is only ever mutated through the
// conditional increment/decrement in the repository, never read-modify-write.
type UserAccount struct {
	UserID            string    `gorm:"column:user_id;primaryKey;type:varchar(64)"`
	Credits           int64     `gorm:"column:credits;not null;default:0"`
	PaymentCustomerID *string   `gorm:"column:payment_customer_id;type:varchar(128)"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (UserAccount) TableName() string {
	return "user_accounts"
}
