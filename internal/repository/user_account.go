package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/roomvista/decor-services/visualizer/internal/model"
	"gorm.io/gorm"
)

var ErrUserAccountNotFound = errors.New("USER_ACCOUNT_NOT_FOUND")
var ErrUserAccountExists = errors.New("USER_ACCOUNT_EXISTS")

type UserAccountRepository interface {
	Create(ctx context.Context, account *model.UserAccount) error
	GetByUserID(userID string) (model.UserAccount, error)
	AddCredits(ctx context.Context, userID string, amount int64) error
	DeductCredits(ctx context.Context, userID string, amount int64) error
}

type UserAccount struct {
	db *gorm.DB
}

func NewUserAccountRepository(db *gorm.DB) UserAccountRepository {
	return &UserAccount{db: db}
}

func (r *UserAccount) Create(ctx context.Context, account *model.UserAccount) error {
	db := GetTx(ctx, r.db)
	err := db.Create(account).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrUserAccountExists
	}

	return err
}

func (r *UserAccount) GetByUserID(userID string) (model.UserAccount, error) {
	var account model.UserAccount

	err := r.db.Where("user_id = ?", userID).First(&account).Error
	if err == nil {
		return account, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserAccount{}, ErrUserAccountNotFound
	}

	return model.UserAccount{}, err
}

func (r *UserAccount) AddCredits(ctx context.Context, userID string, amount int64) error {
	db := GetTx(ctx, r.db)
	result := db.Model(&model.UserAccount{}).
		Where("user_id = ?", userID).
		Update("credits", gorm.Expr("credits + ?", amount))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserAccountNotFound
	}

	return nil
}

// DeductCredits is the overdraft guard: the decrement only applies when the
// current balance covers the amount, in one conditional UPDATE. Callers must
// never compute the new balance in application code.
func (r *UserAccount) DeductCredits(ctx context.Context, userID string, amount int64) error {
	db := GetTx(ctx, r.db)
	result := db.Model(&model.UserAccount{}).
		Where("user_id = ? AND credits >= ?", userID, amount).
		Update("credits", gorm.Expr("credits - ?", amount))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}
