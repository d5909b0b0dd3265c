package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
)

// ProgressRepository определяет методы для работы со статистикой пользователя
type ProgressRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*entity.UserProgress, error)
	// Init создает пустую строку статистики, если ее еще нет
	Init(ctx context.Context, userID uint) error
	// Upsert вставляет или перезаписывает статистику по user_id
	Upsert(tx *gorm.DB, progress *entity.UserProgress) error
}
