package entity

import "time"

// UserProgress - агрегированная статистика пользователя по завершенным сессиям.
// Пересчитывается целиком при каждом завершении сессии.
type UserProgress struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	UserID                 uint       `gorm:"not null;uniqueIndex" json:"userId"`
	TotalSessions          int        `gorm:"not null;default:0" json:"totalSessions"`
	TotalQuestionsAnswered int        `gorm:"not null;default:0" json:"totalQuestionsAnswered"`
	TotalCorrect           int        `gorm:"not null;default:0" json:"totalCorrect"`
	AverageScore           float64    `gorm:"type:decimal(5,2);not null;default:0" json:"averageScore"`
	TotalTimeSpent         int        `gorm:"not null;default:0" json:"totalTimeSpent"`
	LastPracticeAt         *time.Time `json:"lastPracticeAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName определяет имя таблицы для GORM
func (UserProgress) TableName() string {
	return "user_progress"
}
