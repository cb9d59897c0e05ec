package domain

import (
	"errors"
	"fmt"
)

// Ошибки доменного уровня. ErrNotFound возвращается и для чужих ресурсов:
// вызывающий не может отличить "не существует" от "принадлежит другому".
var (
	ErrNotFound   = errors.New("resource not found")
	ErrEmailTaken = errors.New("email already registered")

	// ErrLogExists — внутренняя ошибка гонки: конкурентная вставка успела
	// раньше. Обрабатывается повторным чтением и переключением найденной
	// записи, наружу не выходит.
	ErrLogExists = errors.New("habit log already exists for this date")
)

// ValidationError описывает нарушение ограничения на поле входных данных.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError создает ошибку валидации для конкретного поля
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation сообщает, является ли ошибка ошибкой валидации
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
