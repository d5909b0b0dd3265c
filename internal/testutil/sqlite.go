// Package testutil поднимает in-memory SQLite с полной схемой для тестов репозиториев, сервисов и HTTP.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
)

// NewTestDB создает изолированную in-memory базу и применяет AutoMigrate ко всем сущностям.
// Одно соединение: внутри транзакции обращаться к БД можно только через tx.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Passage{},
		&entity.Question{},
		&entity.AnswerChoice{},
		&entity.PracticeSession{},
		&entity.SessionAnswer{},
		&entity.UserProgress{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// CreateUser сохраняет пользователя с паролем "password123"
func CreateUser(t testing.TB, db *gorm.DB, email string) *entity.User {
	t.Helper()
	user := &entity.User{Email: email, Password: "password123", Name: "Test Reader"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreatePassage сохраняет пассаж с questionCount вопросами по четыре варианта (A-D).
// Правильный вариант в каждом вопросе - B.
func CreatePassage(t testing.TB, db *gorm.DB, title string, questionCount int) *entity.Passage {
	t.Helper()
	passage := &entity.Passage{
		Title:         title,
		Content:       "Первый абзац.\n\nВторой абзац.",
		Category:      "Humanities",
		Difficulty:    entity.DifficultyMedium,
		EstimatedTime: 600,
	}
	// Вопросы добавляем в обратном порядке, чтобы проверять сортировку по номеру
	for n := questionCount; n >= 1; n-- {
		q := entity.Question{
			QuestionNumber: n,
			QuestionText:   fmt.Sprintf("Вопрос %d", n),
		}
		for _, letter := range []string{"D", "C", "B", "A"} {
			q.Choices = append(q.Choices, entity.AnswerChoice{
				ChoiceLetter: letter,
				ChoiceText:   fmt.Sprintf("Вариант %s к вопросу %d", letter, n),
				IsCorrect:    letter == "B",
				Explanation:  fmt.Sprintf("Пояснение %s", letter),
			})
		}
		passage.Questions = append(passage.Questions, q)
	}
	if err := db.Create(passage).Error; err != nil {
		t.Fatalf("create passage: %v", err)
	}
	return passage
}

// ChoiceID возвращает ID варианта по букве в вопросе с заданным номером
func ChoiceID(t testing.TB, passage *entity.Passage, questionNumber int, letter string) uint {
	t.Helper()
	for _, q := range passage.Questions {
		if q.QuestionNumber != questionNumber {
			continue
		}
		for _, c := range q.Choices {
			if c.ChoiceLetter == letter {
				return c.ID
			}
		}
	}
	t.Fatalf("choice %s of question %d not found", letter, questionNumber)
	return 0
}

// QuestionID возвращает ID вопроса по номеру
func QuestionID(t testing.TB, passage *entity.Passage, questionNumber int) uint {
	t.Helper()
	for _, q := range passage.Questions {
		if q.QuestionNumber == questionNumber {
			return q.ID
		}
	}
	t.Fatalf("question %d not found", questionNumber)
	return 0
}
