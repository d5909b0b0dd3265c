package helper

import (
	"github.com/yourusername/cars-practice-api/internal/domain/entity"
)

// ChoiceView - вариант ответа для фронтенда.
// IsCorrect и Explanation заполняются только при раскрытии ответов.
type ChoiceView struct {
	ID           uint    `json:"id"`
	QuestionID   uint    `json:"questionId"`
	ChoiceLetter string  `json:"choiceLetter"`
	ChoiceText   string  `json:"choiceText"`
	IsCorrect    *bool   `json:"isCorrect,omitempty"`
	Explanation  *string `json:"explanation,omitempty"`
}

// ConvertChoice преобразует вариант ответа; reveal=false скрывает правильность и пояснение
func ConvertChoice(c *entity.AnswerChoice, reveal bool) *ChoiceView {
	if c == nil {
		return nil
	}
	view := &ChoiceView{
		ID:           c.ID,
		QuestionID:   c.QuestionID,
		ChoiceLetter: c.ChoiceLetter,
		ChoiceText:   c.ChoiceText,
	}
	if reveal {
		isCorrect := c.IsCorrect
		explanation := c.Explanation
		view.IsCorrect = &isCorrect
		view.Explanation = &explanation
	}
	return view
}

// ConvertChoices преобразует список вариантов с сохранением порядка
func ConvertChoices(choices []entity.AnswerChoice, reveal bool) []ChoiceView {
	converted := make([]ChoiceView, len(choices))
	for i := range choices {
		converted[i] = *ConvertChoice(&choices[i], reveal)
	}
	return converted
}
