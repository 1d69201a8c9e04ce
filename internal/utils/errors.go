package utils

import "net/http"

// AppError carries an HTTP status alongside a user-facing message.
// Handlers map it to a response; anything else becomes a 500.
type AppError struct {
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequestError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: msg}
}

func NewUnauthorizedError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Message: msg}
}

func NewPaymentRequiredError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusPaymentRequired, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: msg}
}

func NewConflictError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Message: msg}
}

func NewRateLimitError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusTooManyRequests, Message: msg}
}

func NewInternalError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: msg}
}

func NewBadGatewayError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusBadGateway, Message: msg}
}
