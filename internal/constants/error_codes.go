package constants

const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeStyleNotFound       = "STYLE_NOT_FOUND"
	ErrCodeGenerationNotFound  = "GENERATION_NOT_FOUND"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	ErrCodeProviderSubmission  = "PROVIDER_SUBMISSION_FAILED"
	ErrCodeReconcileTimeout    = "RECONCILE_TIMEOUT"
	ErrCodePaymentVerification = "PAYMENT_VERIFICATION_FAILED"
	ErrCodePackageNotFound     = "PACKAGE_NOT_FOUND"
	ErrCodeCheckoutFailed      = "CHECKOUT_FAILED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeNotFinished         = "GENERATION_NOT_FINISHED"
	ErrCodeAlreadyUnlocked     = "HD_ALREADY_UNLOCKED"
	ErrCodeAlreadyFinalized    = "GENERATION_ALREADY_FINALIZED"
)

const (
	ErrMsgValidation          = "invalid request parameters"
	ErrMsgStyleNotFound       = "unknown style, room type or transform mode"
	ErrMsgGenerationNotFound  = "generation not found"
	ErrMsgUserNotFound        = "user account not found"
	ErrMsgInsufficientCredits = "not enough credits"
	ErrMsgProviderSubmission  = "image generation could not be submitted"
	ErrMsgReconcileTimeout    = "generation still processing, try again later"
	ErrMsgPaymentVerification = "webhook signature verification failed"
	ErrMsgPackageNotFound     = "unknown credit package"
	ErrMsgCheckoutFailed      = "checkout session could not be created"
	ErrMsgInternalError       = "Internal server error"
	ErrMsgInvalidRequestBody  = "failed to parse request body"
	ErrMsgUnauthorized        = "missing or invalid credentials"
	ErrMsgNotFinished         = "generation has not completed yet"
	ErrMsgAlreadyUnlocked     = "HD version already unlocked"
	ErrMsgAlreadyFinalized    = "generation already reached a final status"
)

var errorMessages = map[string]string{
	ErrCodeValidation:          ErrMsgValidation,
	ErrCodeStyleNotFound:       ErrMsgStyleNotFound,
	ErrCodeGenerationNotFound:  ErrMsgGenerationNotFound,
	ErrCodeUserNotFound:        ErrMsgUserNotFound,
	ErrCodeInsufficientCredits: ErrMsgInsufficientCredits,
	ErrCodeProviderSubmission:  ErrMsgProviderSubmission,
	ErrCodeReconcileTimeout:    ErrMsgReconcileTimeout,
	ErrCodePaymentVerification: ErrMsgPaymentVerification,
	ErrCodePackageNotFound:     ErrMsgPackageNotFound,
	ErrCodeCheckoutFailed:      ErrMsgCheckoutFailed,
	ErrCodeInternalError:       ErrMsgInternalError,
	ErrCodeInvalidRequestBody:  ErrMsgInvalidRequestBody,
	ErrCodeUnauthorized:        ErrMsgUnauthorized,
	ErrCodeNotFinished:         ErrMsgNotFinished,
	ErrCodeAlreadyUnlocked:     ErrMsgAlreadyUnlocked,
	ErrCodeAlreadyFinalized:    ErrMsgAlreadyFinalized,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidRequestBody, ErrCodePaymentVerification:
		return 400
	case ErrCodeUnauthorized:
		return 401
	case ErrCodeInsufficientCredits:
		return 402
	case ErrCodeStyleNotFound, ErrCodeGenerationNotFound, ErrCodeUserNotFound, ErrCodePackageNotFound:
		return 404
	case ErrCodeNotFinished, ErrCodeAlreadyUnlocked, ErrCodeAlreadyFinalized:
		return 409
	case ErrCodeReconcileTimeout:
		return 504
	case ErrCodeProviderSubmission, ErrCodeCheckoutFailed, ErrCodeInternalError:
		return 500
	default:
		return 500
	}
}
