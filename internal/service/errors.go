package service

import (
	"github.com/yourusername/cars-practice-api/internal/domain/repository"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

// Ошибки сервисов. Каждая оборачивает общую категорию из apperrors,
// по которой обработчики выбирают HTTP статус.
var (
	ErrDuplicateEmail = apperrors.New(apperrors.ErrConflict, "user with this email already exists")
	// Одинаковое сообщение для неизвестного email и неверного пароля
	ErrInvalidCredentials = apperrors.New(apperrors.ErrUnauthorized, "invalid email or password")

	ErrUserNotFound    = apperrors.New(apperrors.ErrNotFound, "user not found")
	ErrPassageNotFound = apperrors.New(apperrors.ErrNotFound, "passage not found")
	ErrSessionNotFound = apperrors.New(apperrors.ErrNotFound, "session not found")

	ErrQuestionNotInSession = apperrors.New(apperrors.ErrValidation, "question not found in this session")
	ErrInvalidChoice        = apperrors.New(apperrors.ErrValidation, "answer choice does not belong to this question")
	ErrEmptyAnswerUpdate    = apperrors.New(apperrors.ErrValidation, "selectedChoiceId or isFlagged is required")

	ErrSessionAlreadyCompleted = repository.ErrSessionAlreadyCompleted
	ErrSessionNotCompleted     = apperrors.New(apperrors.ErrConflict, "session not completed yet")
)
