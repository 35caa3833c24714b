package utils

import (
	"net/http"
)

// AppError carries an HTTP status and a message that is safe to show to clients.
type AppError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

func NewUnsupportedMediaError(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnsupportedMediaType, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}

// WrapInternalError keeps the cause for logging while exposing only message.
func WrapInternalError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

func NewBadGatewayError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusBadGateway, Message: message, Err: err}
}

func NewUnprocessableError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusUnprocessableEntity, Message: message, Err: err}
}
