package services

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Виды ошибок бизнес-логики. Контроллеры переводят их в HTTP статусы.
type ErrorKind string

const (
	ErrorKindValidation    ErrorKind = "validation"
	ErrorKindNotFound      ErrorKind = "not_found"
	ErrorKindConflict      ErrorKind = "conflict"
	ErrorKindAuthorization ErrorKind = "authorization"
)

type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) HTTPStatus() int {
	switch e.Kind {
	case ErrorKindValidation:
		return http.StatusBadRequest
	case ErrorKindNotFound:
		return http.StatusNotFound
	case ErrorKindConflict:
		return http.StatusConflict
	case ErrorKindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(msg string) *ServiceError {
	return &ServiceError{Kind: ErrorKindValidation, Message: msg}
}

func NewNotFoundError(msg string) *ServiceError {
	return &ServiceError{Kind: ErrorKindNotFound, Message: msg}
}

func NewConflictError(msg string) *ServiceError {
	return &ServiceError{Kind: ErrorKindConflict, Message: msg}
}

func NewAuthorizationError(msg string) *ServiceError {
	return &ServiceError{Kind: ErrorKindAuthorization, Message: msg}
}

// AsServiceError извлекает ServiceError из цепочки ошибок
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// isUniqueViolation распознает нарушение уникального индекса.
// Тексты ошибок у postgres и sqlite разные, gorm.ErrDuplicatedKey
// приходит только с включенным TranslateError.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
