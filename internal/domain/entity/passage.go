package entity

import "time"

// Difficulty - уровень сложности пассажа
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid сообщает, является ли значение одним из допустимых уровней
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Passage - текст для чтения с набором вопросов.
// Через API доступен только на чтение, наполняется сидером.
type Passage struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Category      string     `gorm:"size:100;not null" json:"category"`
	Difficulty    Difficulty `gorm:"size:20;not null" json:"difficulty"`
	EstimatedTime int        `gorm:"not null" json:"estimatedTime"` // секунды
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	Questions []Question `gorm:"foreignKey:PassageID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Passage) TableName() string {
	return "passages"
}
