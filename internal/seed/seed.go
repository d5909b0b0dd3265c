// Package seed загружает учебные пассажи из YAML и добавляет в базу отсутствующие.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	"github.com/yourusername/cars-practice-api/internal/domain/repository"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

// File - корень YAML-файла с пассажами
type File struct {
	Passages []PassageFixture `yaml:"passages"`
}

// PassageFixture - пассаж в YAML
type PassageFixture struct {
	Title         string            `yaml:"title"`
	Category      string            `yaml:"category"`
	Difficulty    string            `yaml:"difficulty"`
	EstimatedTime int               `yaml:"estimated_time"`
	Content       string            `yaml:"content"`
	Questions     []QuestionFixture `yaml:"questions"`
}

// QuestionFixture - вопрос в YAML
type QuestionFixture struct {
	Number  int             `yaml:"number"`
	Text    string          `yaml:"text"`
	Choices []ChoiceFixture `yaml:"choices"`
}

// ChoiceFixture - вариант ответа в YAML
type ChoiceFixture struct {
	Letter      string `yaml:"letter"`
	Text        string `yaml:"text"`
	Correct     bool   `yaml:"correct"`
	Explanation string `yaml:"explanation"`
}

var validLetters = map[string]bool{"A": true, "B": true, "C": true, "D": true}

// LoadFile читает и валидирует файл с пассажами
func LoadFile(path string) ([]entity.Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse разбирает YAML, проверяет каждый пассаж и возвращает готовые к вставке сущности.
// Неизвестные поля считаются ошибкой.
func Parse(data []byte) ([]entity.Passage, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.New(apperrors.ErrValidation, "seed file is empty")
		}
		return nil, fmt.Errorf("%w: decode seed yaml: %v", apperrors.ErrValidation, err)
	}
	if len(file.Passages) == 0 {
		return nil, apperrors.New(apperrors.ErrValidation, "seed file has no passages")
	}

	titles := make(map[string]bool, len(file.Passages))
	passages := make([]entity.Passage, 0, len(file.Passages))
	for i := range file.Passages {
		fx := &file.Passages[i]
		if err := fx.Validate(); err != nil {
			return nil, fmt.Errorf("passage #%d: %w", i+1, err)
		}
		title := strings.TrimSpace(fx.Title)
		if titles[title] {
			return nil, fmt.Errorf("%w: duplicate passage title %q", apperrors.ErrValidation, title)
		}
		titles[title] = true
		passages = append(passages, fx.ToEntity())
	}
	return passages, nil
}

// Validate проверяет инварианты пассажа, которые не обеспечивает схема БД
func (p *PassageFixture) Validate() error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return apperrors.New(apperrors.ErrValidation, "title is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: %q: content is required", apperrors.ErrValidation, title)
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%w: %q: category is required", apperrors.ErrValidation, title)
	}
	if !entity.Difficulty(p.Difficulty).Valid() {
		return fmt.Errorf("%w: %q: unknown difficulty %q", apperrors.ErrValidation, title, p.Difficulty)
	}
	if p.EstimatedTime <= 0 {
		return fmt.Errorf("%w: %q: estimated_time must be positive", apperrors.ErrValidation, title)
	}
	if len(p.Questions) == 0 {
		return fmt.Errorf("%w: %q: at least one question is required", apperrors.ErrValidation, title)
	}

	numbers := make(map[int]bool, len(p.Questions))
	for _, q := range p.Questions {
		if q.Number <= 0 {
			return fmt.Errorf("%w: %q: question number must be positive", apperrors.ErrValidation, title)
		}
		if numbers[q.Number] {
			return fmt.Errorf("%w: %q: duplicate question number %d", apperrors.ErrValidation, title, q.Number)
		}
		numbers[q.Number] = true
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: %q: question %d has no text", apperrors.ErrValidation, title, q.Number)
		}

		letters := make(map[string]bool, len(q.Choices))
		correct := 0
		for _, c := range q.Choices {
			letter := strings.ToUpper(strings.TrimSpace(c.Letter))
			if !validLetters[letter] {
				return fmt.Errorf("%w: %q: question %d: invalid letter %q", apperrors.ErrValidation, title, q.Number, c.Letter)
			}
			if letters[letter] {
				return fmt.Errorf("%w: %q: question %d: duplicate letter %s", apperrors.ErrValidation, title, q.Number, letter)
			}
			letters[letter] = true
			if c.Correct {
				correct++
			}
		}
		if len(q.Choices) < 2 {
			return fmt.Errorf("%w: %q: question %d needs at least two choices", apperrors.ErrValidation, title, q.Number)
		}
		if correct != 1 {
			return fmt.Errorf("%w: %q: question %d must have exactly one correct choice, got %d", apperrors.ErrValidation, title, q.Number, correct)
		}
	}
	return nil
}

// ToEntity переводит проверенный пассаж в сущность с вложенными вопросами
func (p *PassageFixture) ToEntity() entity.Passage {
	passage := entity.Passage{
		Title:         strings.TrimSpace(p.Title),
		Content:       strings.TrimSpace(p.Content),
		Category:      strings.TrimSpace(p.Category),
		Difficulty:    entity.Difficulty(p.Difficulty),
		EstimatedTime: p.EstimatedTime,
		Questions:     make([]entity.Question, 0, len(p.Questions)),
	}
	for _, q := range p.Questions {
		question := entity.Question{
			QuestionNumber: q.Number,
			QuestionText:   strings.TrimSpace(q.Text),
			Choices:        make([]entity.AnswerChoice, 0, len(q.Choices)),
		}
		for _, c := range q.Choices {
			question.Choices = append(question.Choices, entity.AnswerChoice{
				ChoiceLetter: strings.ToUpper(strings.TrimSpace(c.Letter)),
				ChoiceText:   strings.TrimSpace(c.Text),
				IsCorrect:    c.Correct,
				Explanation:  strings.TrimSpace(c.Explanation),
			})
		}
		passage.Questions = append(passage.Questions, question)
	}
	return passage
}

// Report - итог загрузки
type Report struct {
	Inserted []string
	Skipped  []string
}

// Seeder вставляет пассажи, которых еще нет в базе
type Seeder struct {
	passageRepo repository.PassageRepository
	cache       repository.CacheRepository
}

// NewSeeder создает сидер; cache может быть nil
func NewSeeder(passageRepo repository.PassageRepository, cache repository.CacheRepository) *Seeder {
	return &Seeder{passageRepo: passageRepo, cache: cache}
}

// Run добавляет пассажи, пропуская уже существующие по заголовку.
// После вставки сбрасывается кеш списка пассажей.
func (s *Seeder) Run(ctx context.Context, passages []entity.Passage, listCacheKey string) (*Report, error) {
	report := &Report{}
	for i := range passages {
		p := passages[i]
		exists, err := s.passageRepo.ExistsByTitle(ctx, p.Title)
		if err != nil {
			return report, fmt.Errorf("check passage %q: %w", p.Title, err)
		}
		if exists {
			log.Printf("[Seed] Пассаж %q уже существует, пропускаем", p.Title)
			report.Skipped = append(report.Skipped, p.Title)
			continue
		}
		if err := s.passageRepo.Create(ctx, &p); err != nil {
			return report, fmt.Errorf("create passage %q: %w", p.Title, err)
		}
		log.Printf("[Seed] Создан пассаж ID=%d %q (%d вопросов)", p.ID, p.Title, len(p.Questions))
		report.Inserted = append(report.Inserted, p.Title)
	}

	if len(report.Inserted) > 0 && s.cache != nil && listCacheKey != "" {
		if err := s.cache.Delete(ctx, listCacheKey); err != nil {
			log.Printf("[Seed] Не удалось сбросить кеш %s: %v", listCacheKey, err)
		}
	}
	return report, nil
}
