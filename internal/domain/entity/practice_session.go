package entity

import "time"

// PracticeSession - одна попытка пройти пассаж.
// Сессия в процессе, пока CompletedAt == nil; завершается ровно один раз.
type PracticeSession struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"userId"`
	PassageID      uint       `gorm:"not null;index" json:"passageId"`
	StartedAt      time.Time  `gorm:"not null" json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
	TimedSession   bool       `gorm:"not null;default:false" json:"timedSession"`
	TimeSpent      *int       `json:"timeSpent"` // секунды
	Score          *int       `json:"score"`
	TotalQuestions int        `gorm:"not null" json:"totalQuestions"`

	User    *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Passage *Passage        `gorm:"foreignKey:PassageID" json:"passage,omitempty"`
	Answers []SessionAnswer `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName определяет имя таблицы для GORM
func (PracticeSession) TableName() string {
	return "practice_sessions"
}

// IsCompleted сообщает, завершена ли сессия
func (s *PracticeSession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// SessionAnswer - ответ пользователя на вопрос в рамках сессии.
// Строки создаются заготовками при старте сессии, по одной на вопрос.
type SessionAnswer struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	SessionID        uint       `gorm:"not null;uniqueIndex:idx_session_answers_session_question" json:"sessionId"`
	QuestionID       uint       `gorm:"not null;uniqueIndex:idx_session_answers_session_question" json:"questionId"`
	SelectedChoiceID *uint      `json:"selectedChoiceId"`
	IsFlagged        bool       `gorm:"not null;default:false" json:"isFlagged"`
	IsCorrect        *bool      `json:"isCorrect"`
	AnsweredAt       *time.Time `json:"answeredAt"`

	Question       *Question     `gorm:"foreignKey:QuestionID" json:"-"`
	SelectedChoice *AnswerChoice `gorm:"foreignKey:SelectedChoiceID" json:"-"`
}

// TableName определяет имя таблицы для GORM
func (SessionAnswer) TableName() string {
	return "session_answers"
}

// IsAnswered сообщает, выбран ли вариант ответа
func (a *SessionAnswer) IsAnswered() bool {
	return a.SelectedChoiceID != nil
}
