package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	"github.com/yourusername/cars-practice-api/internal/domain/repository"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

// ProgressService читает и пересчитывает статистику пользователя
type ProgressService struct {
	progressRepo repository.ProgressRepository
	sessionRepo  repository.SessionRepository
}

// NewProgressService создает сервис статистики
func NewProgressService(progressRepo repository.ProgressRepository, sessionRepo repository.SessionRepository) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		sessionRepo:  sessionRepo,
	}
}

// GetProgress возвращает статистику пользователя или нулевые значения, если строки нет
func (s *ProgressService) GetProgress(ctx context.Context, userID uint) (*entity.UserProgress, error) {
	progress, err := s.progressRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &entity.UserProgress{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return progress, nil
}

// ListHistory возвращает завершенные сессии пользователя с пассажами, новые первыми
func (s *ProgressService) ListHistory(ctx context.Context, userID uint) ([]entity.PracticeSession, error) {
	sessions, err := s.sessionRepo.ListCompletedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return sessions, nil
}

// Recompute пересчитывает статистику по всем завершенным сессиям и сохраняет ее в рамках tx
func (s *ProgressService) Recompute(tx *gorm.DB, userID uint, now time.Time) (*entity.UserProgress, error) {
	sessions, err := s.sessionRepo.ListCompletedByUserTx(tx, userID)
	if err != nil {
		return nil, fmt.Errorf("list completed sessions: %w", err)
	}

	progress := ComputeProgress(userID, sessions)
	progress.UpdatedAt = now
	if err := s.progressRepo.Upsert(tx, &progress); err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return &progress, nil
}

// ComputeProgress сворачивает завершенные сессии в агрегаты.
// Незавершенные сессии пропускаются, null в score/timeSpent считается нулем.
func ComputeProgress(userID uint, sessions []entity.PracticeSession) entity.UserProgress {
	p := entity.UserProgress{UserID: userID}
	for i := range sessions {
		sess := &sessions[i]
		if !sess.IsCompleted() {
			continue
		}
		p.TotalSessions++
		p.TotalQuestionsAnswered += sess.TotalQuestions
		if sess.Score != nil {
			p.TotalCorrect += *sess.Score
		}
		if sess.TimeSpent != nil {
			p.TotalTimeSpent += *sess.TimeSpent
		}
		if p.LastPracticeAt == nil || sess.CompletedAt.After(*p.LastPracticeAt) {
			last := *sess.CompletedAt
			p.LastPracticeAt = &last
		}
	}
	if p.TotalQuestionsAnswered > 0 {
		p.AverageScore = round2(float64(p.TotalCorrect) * 100 / float64(p.TotalQuestionsAnswered))
	}
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
