package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// GetByPassageID возвращает вопросы пассажа по порядку номеров, с вариантами
func (r *QuestionRepo) GetByPassageID(ctx context.Context, passageID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choice_letter ASC")
		}).
		Where("passage_id = ?", passageID).
		Order("question_number ASC").
		Find(&questions).Error
	return questions, err
}

// GetChoiceByID возвращает вариант ответа по ID
func (r *QuestionRepo) GetChoiceByID(ctx context.Context, id uint) (*entity.AnswerChoice, error) {
	var choice entity.AnswerChoice
	err := r.db.WithContext(ctx).First(&choice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &choice, nil
}
