package dto

import (
	"time"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	"github.com/yourusername/cars-practice-api/internal/handler/helper"
)

// QuestionResponse - вопрос с вариантами ответа
type QuestionResponse struct {
	ID             uint                `json:"id"`
	PassageID      uint                `json:"passageId"`
	QuestionNumber int                 `json:"questionNumber"`
	QuestionText   string              `json:"questionText"`
	Choices        []helper.ChoiceView `json:"choices"`
}

// PassageResponse - пассаж; Questions присутствуют только в детальном ответе
type PassageResponse struct {
	ID            uint               `json:"id"`
	Title         string             `json:"title"`
	Content       string             `json:"content"`
	Category      string             `json:"category"`
	Difficulty    entity.Difficulty  `json:"difficulty"`
	EstimatedTime int                `json:"estimatedTime"`
	CreatedAt     time.Time          `json:"createdAt"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
}

// NewQuestionResponse создает DTO вопроса.
// reveal=false скрывает правильный вариант и пояснения.
func NewQuestionResponse(q *entity.Question, reveal bool) QuestionResponse {
	return QuestionResponse{
		ID:             q.ID,
		PassageID:      q.PassageID,
		QuestionNumber: q.QuestionNumber,
		QuestionText:   q.QuestionText,
		Choices:        helper.ConvertChoices(q.Choices, reveal),
	}
}

// NewPassageSummary создает DTO пассажа без вопросов
func NewPassageSummary(p *entity.Passage) PassageResponse {
	return PassageResponse{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		Category:      p.Category,
		Difficulty:    p.Difficulty,
		EstimatedTime: p.EstimatedTime,
		CreatedAt:     p.CreatedAt,
	}
}

// NewPassageResponse создает DTO пассажа с вопросами
func NewPassageResponse(p *entity.Passage, reveal bool) *PassageResponse {
	resp := NewPassageSummary(p)
	resp.Questions = make([]QuestionResponse, len(p.Questions))
	for i := range p.Questions {
		resp.Questions[i] = NewQuestionResponse(&p.Questions[i], reveal)
	}
	return &resp
}

// NewPassageList создает список кратких DTO
func NewPassageList(passages []entity.Passage) []PassageResponse {
	list := make([]PassageResponse, len(passages))
	for i := range passages {
		list[i] = NewPassageSummary(&passages[i])
	}
	return list
}
