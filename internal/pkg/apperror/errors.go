package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeLockedOut    ErrorCode = "LOCKED_OUT"
	ErrCodeThrottled    ErrorCode = "THROTTLED"
	ErrCodePersistence  ErrorCode = "PERSISTENCE_FAILURE"
	ErrCodeDispatch     ErrorCode = "DISPATCH_FAILURE"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error

	// RetryAfterSeconds заполняется только для THROTTLED: сколько секунд
	// осталось ждать до повторной отправки. Не security-sensitive.
	RetryAfterSeconds int
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// NewThrottled создаёт ошибку повторной отправки с оставшимся временем ожидания.
func NewThrottled(message string, retryAfterSeconds int) *AppError {
	e := New(ErrCodeThrottled, message)
	e.RetryAfterSeconds = retryAfterSeconds
	return e
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	// Все отказы логина неразличимы по статусу: 401 и для неверных
	// учётных данных, и для блокировки — защита от перечисления аккаунтов.
	case ErrCodeUnauthorized, ErrCodeLockedOut:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeThrottled:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

func IsThrottled(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeThrottled
}

func IsLockedOut(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeLockedOut
}

func IsNotFound(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeNotFound
}

func IsValidation(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeValidation
}
