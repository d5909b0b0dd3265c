package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

// ProgressRepo реализует repository.ProgressRepository
type ProgressRepo struct {
	db *gorm.DB
}

// NewProgressRepo создает новый репозиторий статистики
func NewProgressRepo(db *gorm.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// GetByUserID возвращает статистику пользователя
func (r *ProgressRepo) GetByUserID(ctx context.Context, userID uint) (*entity.UserProgress, error) {
	var progress entity.UserProgress
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// Init создает нулевую строку статистики; существующая строка не меняется
func (r *ProgressRepo) Init(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit("User").
		Create(&entity.UserProgress{UserID: userID}).Error
}

// Upsert вставляет или полностью перезаписывает агрегаты по user_id
func (r *ProgressRepo) Upsert(tx *gorm.DB, progress *entity.UserProgress) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_sessions",
			"total_questions_answered",
			"total_correct",
			"average_score",
			"total_time_spent",
			"last_practice_at",
			"updated_at",
		}),
	}).Omit("User").Create(progress).Error
}
