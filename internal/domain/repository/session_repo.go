package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
)

// SessionRepository определяет методы для работы с сессиями практики и ответами
type SessionRepository interface {
	// CreateWithAnswers создает сессию и по одной заготовке ответа на каждый вопрос в одной транзакции
	CreateWithAnswers(ctx context.Context, session *entity.PracticeSession, questionIDs []uint) error
	// GetByIDForUser возвращает сессию только если она принадлежит пользователю
	GetByIDForUser(ctx context.Context, sessionID, userID uint) (*entity.PracticeSession, error)
	ListByUser(ctx context.Context, userID uint) ([]entity.PracticeSession, error)
	ListCompletedByUser(ctx context.Context, userID uint) ([]entity.PracticeSession, error)

	GetAnswers(ctx context.Context, sessionID uint) ([]entity.SessionAnswer, error)
	GetAnswer(ctx context.Context, sessionID, questionID uint) (*entity.SessionAnswer, error)
	// UpdateAnswer меняет ответ только в незавершенной сессии, иначе ErrSessionAlreadyCompleted
	UpdateAnswer(ctx context.Context, sessionID, answerID uint, updates map[string]interface{}) error

	// MarkCompleted завершает сессию, если она еще не завершена, и одним UPDATE
	// фиксирует score по верным ответам. Возвращает ErrSessionAlreadyCompleted, если строка не обновилась.
	MarkCompleted(tx *gorm.DB, sessionID uint, completedAt time.Time, timeSpent *int) (int, error)
	// ListCompletedByUserTx - то же, что ListCompletedByUser, но внутри транзакции
	ListCompletedByUserTx(tx *gorm.DB, userID uint) ([]entity.PracticeSession, error)
}
