package entity

import "time"

// Question - вопрос к пассажу. Порядок задается QuestionNumber.
type Question struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PassageID      uint      `gorm:"not null;uniqueIndex:idx_questions_passage_number" json:"passageId"`
	QuestionNumber int       `gorm:"not null;uniqueIndex:idx_questions_passage_number" json:"questionNumber"`
	QuestionText   string    `gorm:"type:text;not null" json:"questionText"`
	CreatedAt      time.Time `json:"createdAt"`

	Choices []AnswerChoice `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"choices,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// CorrectChoice возвращает правильный вариант ответа, если он загружен
func (q *Question) CorrectChoice() *AnswerChoice {
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			return &q.Choices[i]
		}
	}
	return nil
}

// ChoiceByID ищет вариант среди загруженных вариантов вопроса
func (q *Question) ChoiceByID(id uint) *AnswerChoice {
	for i := range q.Choices {
		if q.Choices[i].ID == id {
			return &q.Choices[i]
		}
	}
	return nil
}

// AnswerChoice - вариант ответа (A-D). Ровно один вариант в вопросе помечен как правильный.
type AnswerChoice struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	QuestionID   uint   `gorm:"not null;index" json:"questionId"`
	ChoiceLetter string `gorm:"size:1;not null" json:"choiceLetter"`
	ChoiceText   string `gorm:"type:text;not null" json:"choiceText"`
	IsCorrect    bool   `gorm:"not null;default:false" json:"isCorrect"`
	Explanation  string `gorm:"type:text" json:"explanation,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (AnswerChoice) TableName() string {
	return "answer_choices"
}
