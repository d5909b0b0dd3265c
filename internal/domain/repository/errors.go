package repository

import (
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

// ErrSessionAlreadyCompleted возвращается, когда условное завершение не нашло незавершенной сессии
var ErrSessionAlreadyCompleted = apperrors.New(apperrors.ErrConflict, "session already completed")
