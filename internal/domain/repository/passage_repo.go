package repository

import (
	"context"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
)

// PassageRepository определяет методы для чтения пассажей
type PassageRepository interface {
	// Create сохраняет пассаж вместе с вложенными вопросами и вариантами (используется сидером)
	Create(ctx context.Context, passage *entity.Passage) error
	List(ctx context.Context) ([]entity.Passage, error)
	GetByID(ctx context.Context, id uint) (*entity.Passage, error)
	// GetWithQuestions возвращает пассаж с вопросами по номеру и вариантами по букве
	GetWithQuestions(ctx context.Context, id uint) (*entity.Passage, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}
