package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

// PassageRepo реализует repository.PassageRepository
type PassageRepo struct {
	db *gorm.DB
}

// NewPassageRepo создает новый репозиторий пассажей
func NewPassageRepo(db *gorm.DB) *PassageRepo {
	return &PassageRepo{db: db}
}

// Create сохраняет пассаж со всеми вложенными вопросами и вариантами
func (r *PassageRepo) Create(ctx context.Context, passage *entity.Passage) error {
	return r.db.WithContext(ctx).Create(passage).Error
}

// List возвращает краткие данные всех пассажей без вопросов
func (r *PassageRepo) List(ctx context.Context) ([]entity.Passage, error) {
	var passages []entity.Passage
	err := r.db.WithContext(ctx).Order("id ASC").Find(&passages).Error
	return passages, err
}

// GetByID возвращает пассаж без вопросов
func (r *PassageRepo) GetByID(ctx context.Context, id uint) (*entity.Passage, error) {
	var passage entity.Passage
	err := r.db.WithContext(ctx).First(&passage, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &passage, nil
}

// GetWithQuestions возвращает пассаж с упорядоченными вопросами и вариантами ответов
func (r *PassageRepo) GetWithQuestions(ctx context.Context, id uint) (*entity.Passage, error) {
	var passage entity.Passage
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choice_letter ASC")
		}).
		First(&passage, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &passage, nil
}

// ExistsByTitle проверяет, есть ли уже пассаж с таким заголовком
func (r *PassageRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Passage{}).Where("title = ?", title).Count(&count).Error
	return count > 0, err
}
