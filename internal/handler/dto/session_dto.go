package dto

import (
	"time"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	"github.com/yourusername/cars-practice-api/internal/handler/helper"
	"github.com/yourusername/cars-practice-api/internal/service"
)

// CreateSessionRequest - тело запроса создания сессии
type CreateSessionRequest struct {
	PassageID    uint `json:"passageId" binding:"required,gt=0"`
	TimedSession bool `json:"timedSession"`
}

// SubmitAnswerRequest - частичное обновление ответа
type SubmitAnswerRequest struct {
	QuestionID       uint  `json:"questionId" binding:"required,gt=0"`
	SelectedChoiceID *uint `json:"selectedChoiceId" binding:"omitempty,gt=0"`
	IsFlagged        *bool `json:"isFlagged"`
}

// CompleteSessionRequest - тело запроса завершения, может отсутствовать
type CompleteSessionRequest struct {
	TimeSpent *int `json:"timeSpent" binding:"omitempty,min=0"`
}

// SessionResponse - данные сессии
type SessionResponse struct {
	ID             uint             `json:"id"`
	UserID         uint             `json:"userId"`
	PassageID      uint             `json:"passageId"`
	StartedAt      time.Time        `json:"startedAt"`
	CompletedAt    *time.Time       `json:"completedAt"`
	TimedSession   bool             `json:"timedSession"`
	TimeSpent      *int             `json:"timeSpent"`
	Score          *int             `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Passage        *PassageResponse `json:"passage,omitempty"`
}

// AnswerResponse - ответ пользователя на вопрос
type AnswerResponse struct {
	ID               uint       `json:"id"`
	SessionID        uint       `json:"sessionId"`
	QuestionID       uint       `json:"questionId"`
	SelectedChoiceID *uint      `json:"selectedChoiceId"`
	IsFlagged        bool       `json:"isFlagged"`
	IsCorrect        *bool      `json:"isCorrect"`
	AnsweredAt       *time.Time `json:"answeredAt"`
}

// SessionWithPassageResponse - ответ создания сессии
type SessionWithPassageResponse struct {
	Session SessionResponse  `json:"session"`
	Passage *PassageResponse `json:"passage"`
}

// SessionDetailsResponse - ответ GET /sessions/:id
type SessionDetailsResponse struct {
	Session SessionResponse  `json:"session"`
	Passage *PassageResponse `json:"passage"`
	Answers []AnswerResponse `json:"answers"`
}

// CompleteSessionResponse - итог завершения
type CompleteSessionResponse struct {
	Session        SessionResponse `json:"session"`
	Score          int             `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
}

// QuestionResultResponse - разбор одного вопроса
type QuestionResultResponse struct {
	Question      QuestionResponse       `json:"question"`
	Outcome       entity.QuestionOutcome `json:"outcome"`
	UserAnswer    *helper.ChoiceView     `json:"userAnswer"`
	CorrectAnswer *helper.ChoiceView     `json:"correctAnswer"`
	IsCorrect     bool                   `json:"isCorrect"`
	IsFlagged     bool                   `json:"isFlagged"`
	AllChoices    []helper.ChoiceView    `json:"allChoices"`
}

// SessionResultsResponse - ответ GET /sessions/:id/results
type SessionResultsResponse struct {
	Session        SessionResponse          `json:"session"`
	Score          int                      `json:"score"`
	TotalQuestions int                      `json:"totalQuestions"`
	TimeSpent      *int                     `json:"timeSpent"`
	Questions      []QuestionResultResponse `json:"questions"`
}

// NewSessionResponse создает DTO сессии; краткий пассаж добавляется, если он загружен
func NewSessionResponse(s *entity.PracticeSession) SessionResponse {
	resp := SessionResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		PassageID:      s.PassageID,
		StartedAt:      s.StartedAt,
		CompletedAt:    s.CompletedAt,
		TimedSession:   s.TimedSession,
		TimeSpent:      s.TimeSpent,
		Score:          s.Score,
		TotalQuestions: s.TotalQuestions,
	}
	if s.Passage != nil {
		summary := NewPassageSummary(s.Passage)
		resp.Passage = &summary
	}
	return resp
}

// NewSessionList создает список DTO сессий
func NewSessionList(sessions []entity.PracticeSession) []SessionResponse {
	list := make([]SessionResponse, len(sessions))
	for i := range sessions {
		list[i] = NewSessionResponse(&sessions[i])
	}
	return list
}

// NewAnswerResponse создает DTO ответа
func NewAnswerResponse(a *entity.SessionAnswer) AnswerResponse {
	return AnswerResponse{
		ID:               a.ID,
		SessionID:        a.SessionID,
		QuestionID:       a.QuestionID,
		SelectedChoiceID: a.SelectedChoiceID,
		IsFlagged:        a.IsFlagged,
		IsCorrect:        a.IsCorrect,
		AnsweredAt:       a.AnsweredAt,
	}
}

// NewSessionWithPassageResponse создает ответ создания сессии; ответы в пассаже скрыты
func NewSessionWithPassageResponse(r *service.SessionWithPassage) SessionWithPassageResponse {
	return SessionWithPassageResponse{
		Session: NewSessionResponse(r.Session),
		Passage: NewPassageResponse(r.Passage, false),
	}
}

// NewSessionDetailsResponse создает ответ GET /sessions/:id.
// Правильные варианты раскрываются только для завершенной сессии.
func NewSessionDetailsResponse(d *service.SessionDetails) SessionDetailsResponse {
	answers := make([]AnswerResponse, len(d.Answers))
	for i := range d.Answers {
		answers[i] = NewAnswerResponse(&d.Answers[i])
	}
	return SessionDetailsResponse{
		Session: NewSessionResponse(d.Session),
		Passage: NewPassageResponse(d.Passage, d.Session.IsCompleted()),
		Answers: answers,
	}
}

// NewCompleteSessionResponse создает ответ завершения
func NewCompleteSessionResponse(r *service.CompletionResult) CompleteSessionResponse {
	return CompleteSessionResponse{
		Session:        NewSessionResponse(r.Session),
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
	}
}

// NewSessionResultsResponse создает разбор сессии с раскрытыми ответами
func NewSessionResultsResponse(r *service.SessionResults) SessionResultsResponse {
	questions := make([]QuestionResultResponse, len(r.Questions))
	for i := range r.Questions {
		qr := &r.Questions[i]
		questions[i] = QuestionResultResponse{
			Question:      NewQuestionResponse(&qr.Question, true),
			Outcome:       qr.Outcome,
			UserAnswer:    helper.ConvertChoice(qr.UserAnswer, true),
			CorrectAnswer: helper.ConvertChoice(qr.CorrectAnswer, true),
			IsCorrect:     qr.IsCorrect(),
			IsFlagged:     qr.IsFlagged,
			AllChoices:    helper.ConvertChoices(qr.AllChoices, true),
		}
	}
	return SessionResultsResponse{
		Session:        NewSessionResponse(r.Session),
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		TimeSpent:      r.TimeSpent,
		Questions:      questions,
	}
}
