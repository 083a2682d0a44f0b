package paymentgw

import "errors"

const (
	StatusOK                  = 200
	StatusNotFound            = 404
	StatusUnprocessableEntity = 422
)

const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeSessionNotFound    = "SESSION_NOT_FOUND"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeServerError        = "SERVER_ERROR"
	ErrCodeVerificationFailed = "VERIFICATION_FAILED"
)

var (
	ErrValidationFailed   = errors.New(ErrCodeValidationFailed)
	ErrSessionNotFound    = errors.New(ErrCodeSessionNotFound)
	ErrTimeout            = errors.New(ErrCodeTimeout)
	ErrServerError        = errors.New(ErrCodeServerError)
	ErrVerificationFailed = errors.New(ErrCodeVerificationFailed)
)

var statusErrorMap = map[int]error{
	StatusNotFound:            ErrSessionNotFound,
	StatusUnprocessableEntity: ErrValidationFailed,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
