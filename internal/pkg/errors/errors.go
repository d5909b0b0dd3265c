package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (неверный токен, неверные учетные данные).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, повторное завершение сессии).
	ErrConflict = errors.New("resource state conflict")
)

// kindError - ошибка с собственным сообщением, относящаяся к одной из общих категорий
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// New создает ошибку категории kind с сообщением msg.
// errors.Is(err, kind) возвращает true, а Error() отдает только msg, без префикса категории.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}
