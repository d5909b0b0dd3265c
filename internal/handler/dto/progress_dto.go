package dto

import (
	"time"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
)

// ProgressResponse - агрегированная статистика пользователя
type ProgressResponse struct {
	UserID                 uint       `json:"userId"`
	TotalSessions          int        `json:"totalSessions"`
	TotalQuestionsAnswered int        `json:"totalQuestionsAnswered"`
	TotalCorrect           int        `json:"totalCorrect"`
	AverageScore           float64    `json:"averageScore"`
	TotalTimeSpent         int        `json:"totalTimeSpent"`
	LastPracticeAt         *time.Time `json:"lastPracticeAt"`
}

// NewProgressResponse создает DTO статистики
func NewProgressResponse(p *entity.UserProgress) ProgressResponse {
	return ProgressResponse{
		UserID:                 p.UserID,
		TotalSessions:          p.TotalSessions,
		TotalQuestionsAnswered: p.TotalQuestionsAnswered,
		TotalCorrect:           p.TotalCorrect,
		AverageScore:           p.AverageScore,
		TotalTimeSpent:         p.TotalTimeSpent,
		LastPracticeAt:         p.LastPracticeAt,
	}
}
