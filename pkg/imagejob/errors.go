package imagejob

import "errors"

const (
	ErrCodeInvalidInput = "INVALID_INPUT"  // 400/422, fail fast, never retried
	ErrCodeJobNotFound  = "JOB_NOT_FOUND"  // unknown job id
	ErrCodeTimeout      = "TIMEOUT"        // context deadline
	ErrCodeServerError  = "SERVER_ERROR"   // 5xx
	ErrCodeNetworkError = "NETWORK_ERROR"  // connection failures
)

var (
	ErrInvalidInput = errors.New(ErrCodeInvalidInput)
	ErrJobNotFound  = errors.New(ErrCodeJobNotFound)
	ErrTimeout      = errors.New(ErrCodeTimeout)
	ErrServerError  = errors.New(ErrCodeServerError)
	ErrNetworkError = errors.New(ErrCodeNetworkError)
)

var statusErrorMap = map[int]error{
	400: ErrInvalidInput,
	404: ErrJobNotFound,
	422: ErrInvalidInput,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
