package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	"github.com/yourusername/cars-practice-api/internal/domain/repository"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

// SessionRepo реализует repository.SessionRepository
type SessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo создает новый репозиторий сессий
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// CreateWithAnswers создает сессию и заготовки ответов (без выбора, без флага)
func (r *SessionRepo) CreateWithAnswers(ctx context.Context, session *entity.PracticeSession, questionIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Passage", "Answers", "User").Create(session).Error; err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		if len(questionIDs) == 0 {
			return nil
		}
		answers := make([]entity.SessionAnswer, 0, len(questionIDs))
		for _, qID := range questionIDs {
			answers = append(answers, entity.SessionAnswer{
				SessionID:  session.ID,
				QuestionID: qID,
			})
		}
		if err := tx.Create(&answers).Error; err != nil {
			return fmt.Errorf("create session answers: %w", err)
		}
		return nil
	})
}

// GetByIDForUser возвращает сессию пользователя вместе с кратким пассажем
func (r *SessionRepo) GetByIDForUser(ctx context.Context, sessionID, userID uint) (*entity.PracticeSession, error) {
	var session entity.PracticeSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListByUser возвращает все сессии пользователя, новые первыми
func (r *SessionRepo) ListByUser(ctx context.Context, userID uint) ([]entity.PracticeSession, error) {
	var sessions []entity.PracticeSession
	err := r.db.WithContext(ctx).
		Preload("Passage").
		Where("user_id = ?", userID).
		Order("started_at DESC, id DESC").
		Find(&sessions).Error
	return sessions, err
}

// ListCompletedByUser возвращает завершенные сессии пользователя, новые первыми
func (r *SessionRepo) ListCompletedByUser(ctx context.Context, userID uint) ([]entity.PracticeSession, error) {
	var sessions []entity.PracticeSession
	err := r.db.WithContext(ctx).
		Preload("Passage").
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("completed_at DESC, id DESC").
		Find(&sessions).Error
	return sessions, err
}

// ListCompletedByUserTx читает завершенные сессии внутри транзакции
func (r *SessionRepo) ListCompletedByUserTx(tx *gorm.DB, userID uint) ([]entity.PracticeSession, error) {
	var sessions []entity.PracticeSession
	err := tx.Where("user_id = ? AND completed_at IS NOT NULL", userID).Find(&sessions).Error
	return sessions, err
}

// GetAnswers возвращает все ответы сессии
func (r *SessionRepo) GetAnswers(ctx context.Context, sessionID uint) ([]entity.SessionAnswer, error) {
	var answers []entity.SessionAnswer
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id ASC").Find(&answers).Error
	return answers, err
}

// GetAnswer возвращает ответ сессии на конкретный вопрос
func (r *SessionRepo) GetAnswer(ctx context.Context, sessionID, questionID uint) (*entity.SessionAnswer, error) {
	var answer entity.SessionAnswer
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&answer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &answer, nil
}

// UpdateAnswer частично обновляет строку ответа, пока сессия не завершена.
// Отсутствующие ключи не трогаются. Для завершенной сессии возвращает ErrSessionAlreadyCompleted.
func (r *SessionRepo) UpdateAnswer(ctx context.Context, sessionID, answerID uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.SessionAnswer{}).
		Where("id = ? AND session_id = ?", answerID, sessionID).
		Where("EXISTS (SELECT 1 FROM practice_sessions WHERE practice_sessions.id = ? AND practice_sessions.completed_at IS NULL)", sessionID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: session #%d", repository.ErrSessionAlreadyCompleted, sessionID)
	}
	return nil
}

// MarkCompleted условно завершает сессию (WHERE completed_at IS NULL) и в том же UPDATE
// записывает score как число верных ответов. Возвращает записанный score.
// Проигравший в гонке вызов получает ErrSessionAlreadyCompleted.
func (r *SessionRepo) MarkCompleted(tx *gorm.DB, sessionID uint, completedAt time.Time, timeSpent *int) (int, error) {
	result := tx.Model(&entity.PracticeSession{}).
		Where("id = ? AND completed_at IS NULL", sessionID).
		Updates(map[string]interface{}{
			"completed_at": completedAt,
			"score": gorm.Expr(
				"(SELECT COUNT(*) FROM session_answers WHERE session_answers.session_id = ? AND session_answers.is_correct = ?)",
				sessionID, true,
			),
			"time_spent": timeSpent,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("complete session #%d failed: %w", sessionID, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: session #%d", repository.ErrSessionAlreadyCompleted, sessionID)
	}

	var completed entity.PracticeSession
	if err := tx.Select("id", "score").First(&completed, sessionID).Error; err != nil {
		return 0, fmt.Errorf("read score of session #%d: %w", sessionID, err)
	}
	if completed.Score == nil {
		return 0, nil
	}
	return *completed.Score, nil
}
