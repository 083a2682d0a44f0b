package errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/roomvista/decor-services/visualizer/internal/constants"
	"github.com/roomvista/decor-services/visualizer/internal/service"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var insufficient service.InsufficientCreditsError
		if errors.As(err, &insufficient) {
			return c.Status(constants.GetHTTPStatus(constants.ErrCodeInsufficientCredits)).JSON(
				InsufficientCreditsResponse{
					Code:     constants.ErrCodeInsufficientCredits,
					Message:  constants.GetErrorMessage(constants.ErrCodeInsufficientCredits),
					Current:  insufficient.Current,
					Required: insufficient.Required,
				})
		}

		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		if code, ok := sentinelCode(err); ok {
			return c.Status(constants.GetHTTPStatus(code)).JSON(Response{
				Code:    code,
				Message: constants.GetErrorMessage(code),
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Response{
				Code:    constants.ErrCodeInternalError,
				Message: fiberErr.Message,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(Response{
			Code:    constants.ErrCodeInternalError,
			Message: constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status == 500 && err.Code != constants.ErrCodeInternalError {
		errorCode = constants.ErrCodeInternalError
	}

	return c.Status(status).JSON(Response{
		Code:    errorCode,
		Message: constants.GetErrorMessage(errorCode),
	})
}

func sentinelCode(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrGenerationNotFound):
		return constants.ErrCodeGenerationNotFound, true
	case errors.Is(err, service.ErrUserNotFound):
		return constants.ErrCodeUserNotFound, true
	case errors.Is(err, service.ErrGenerationNotFinished):
		return constants.ErrCodeNotFinished, true
	case errors.Is(err, service.ErrUnlockAlreadyApplied):
		return constants.ErrCodeAlreadyUnlocked, true
	case errors.Is(err, service.ErrAlreadyFinalized):
		return constants.ErrCodeAlreadyFinalized, true
	default:
		return "", false
	}
}
