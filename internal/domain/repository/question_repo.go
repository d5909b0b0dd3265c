package repository

import (
	"context"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами и вариантами ответов
type QuestionRepository interface {
	// GetByPassageID возвращает вопросы по номеру, с вариантами по букве
	GetByPassageID(ctx context.Context, passageID uint) ([]entity.Question, error)
	GetChoiceByID(ctx context.Context, id uint) (*entity.AnswerChoice, error)
}
