package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestComputeProgress(t *testing.T) {
	older := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	sessions := []entity.PracticeSession{
		// порядок намеренно не по времени
		{CompletedAt: timePtr(newer), Score: intPtr(2), TotalQuestions: 3, TimeSpent: intPtr(100)},
		{CompletedAt: timePtr(older), Score: intPtr(1), TotalQuestions: 3, TimeSpent: nil},
		{CompletedAt: nil, Score: nil, TotalQuestions: 5},
	}

	p := ComputeProgress(42, sessions)

	assert.Equal(t, uint(42), p.UserID)
	assert.Equal(t, 2, p.TotalSessions)
	assert.Equal(t, 6, p.TotalQuestionsAnswered)
	assert.Equal(t, 3, p.TotalCorrect)
	assert.Equal(t, 50.0, p.AverageScore)
	assert.Equal(t, 100, p.TotalTimeSpent)
	require.NotNil(t, p.LastPracticeAt)
	assert.True(t, newer.Equal(*p.LastPracticeAt), "берется максимальное время завершения")
}

func TestComputeProgress_RoundsToTwoDecimals(t *testing.T) {
	done := time.Now()
	p := ComputeProgress(1, []entity.PracticeSession{
		{CompletedAt: &done, Score: intPtr(2), TotalQuestions: 3},
	})
	assert.Equal(t, 66.67, p.AverageScore)
}

func TestComputeProgress_Empty(t *testing.T) {
	p := ComputeProgress(1, nil)
	assert.Equal(t, 0, p.TotalSessions)
	assert.Equal(t, 0.0, p.AverageScore)
	assert.Nil(t, p.LastPracticeAt)
}

func TestProgressService_GetProgress_DefaultsWhenMissing(t *testing.T) {
	repo := new(MockProgressRepository)
	repo.On("GetByUserID", mock.Anything, uint(9)).Return(nil, apperrors.ErrNotFound)

	s := NewProgressService(repo, nil)
	p, err := s.GetProgress(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, uint(9), p.UserID)
	assert.Equal(t, 0, p.TotalSessions)
	assert.Equal(t, 0.0, p.AverageScore)
	assert.Nil(t, p.LastPracticeAt)
}

func TestProgressService_GetProgress_PropagatesErrors(t *testing.T) {
	repo := new(MockProgressRepository)
	repo.On("GetByUserID", mock.Anything, uint(9)).Return(nil, assert.AnError)

	s := NewProgressService(repo, nil)
	_, err := s.GetProgress(context.Background(), 9)
	assert.ErrorIs(t, err, assert.AnError)
}
