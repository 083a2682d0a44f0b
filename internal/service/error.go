package service

import (
	"errors"
	"fmt"
)

const (
	ErrCodeDatabase = "DATABASE_ERROR"
	ErrCodeStorage  = "STORAGE_ERROR"
)

var (
	ErrGenerationNotFound    = errors.New("GENERATION_NOT_FOUND")
	ErrGenerationNotOwned    = errors.New("GENERATION_NOT_OWNED")
	ErrGenerationNotFinished = errors.New("GENERATION_NOT_FINISHED")
	ErrAlreadyFinalized      = errors.New("GENERATION_ALREADY_FINALIZED")
	ErrChargeAlreadyApplied  = errors.New("CHARGE_ALREADY_APPLIED")
	ErrRefundAlreadyIssued   = errors.New("REFUND_ALREADY_ISSUED")
	ErrTopUpAlreadyApplied   = errors.New("TOPUP_ALREADY_APPLIED")
	ErrUnlockAlreadyApplied  = errors.New("HD_UNLOCK_ALREADY_APPLIED")
	ErrUserNotFound          = errors.New("USER_NOT_FOUND")
	ErrUnknownEventType      = errors.New("UNKNOWN_EVENT_TYPE")
	ErrDatabase              = errors.New("DATABASE_ERROR")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// InsufficientCreditsError carries the balance the user actually has so the
// API can tell them how far short they are.
type InsufficientCreditsError struct {
	Current  int64
	Required int64
}

func (e InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: have %d, need %d", e.Current, e.Required)
}
