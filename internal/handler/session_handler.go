package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/cars-practice-api/internal/handler/dto"
	"github.com/yourusername/cars-practice-api/internal/middleware"
	"github.com/yourusername/cars-practice-api/internal/service"
)

// SessionHandler обрабатывает жизненный цикл сессии практики
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSession начинает сессию по пассажу
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.sessionService.CreateSession(c.Request.Context(), currentUserID(c), req.PassageID, req.TimedSession)
	if err != nil {
		respondError(c, "SessionHandler", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSessionWithPassageResponse(result))
}

// ListSessions возвращает сессии текущего пользователя
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessionService.ListSessions(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, "SessionHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": dto.NewSessionList(sessions)})
}

// GetSession возвращает сессию с пассажем и ответами
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := middleware.ParamID(c, middleware.ContextSessionID)

	details, err := h.sessionService.GetSession(c.Request.Context(), sessionID, currentUserID(c))
	if err != nil {
		respondError(c, "SessionHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionDetailsResponse(details))
}

// SubmitAnswer частично обновляет ответ на вопрос
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	sessionID := middleware.ParamID(c, middleware.ContextSessionID)

	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	answer, err := h.sessionService.SubmitAnswer(c.Request.Context(), sessionID, currentUserID(c), service.SubmitAnswerInput{
		QuestionID:       req.QuestionID,
		SelectedChoiceID: req.SelectedChoiceID,
		IsFlagged:        req.IsFlagged,
	})
	if err != nil {
		respondError(c, "SessionHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": dto.NewAnswerResponse(answer)})
}

// CompleteSession завершает сессию; тело запроса необязательно
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	sessionID := middleware.ParamID(c, middleware.ContextSessionID)

	var req dto.CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	result, err := h.sessionService.CompleteSession(c.Request.Context(), sessionID, currentUserID(c), req.TimeSpent)
	if err != nil {
		respondError(c, "SessionHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCompleteSessionResponse(result))
}

// GetSessionResults возвращает разбор завершенной сессии
func (h *SessionHandler) GetSessionResults(c *gin.Context) {
	sessionID := middleware.ParamID(c, middleware.ContextSessionID)

	results, err := h.sessionService.GetSessionResults(c.Request.Context(), sessionID, currentUserID(c))
	if err != nil {
		respondError(c, "SessionHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResultsResponse(results))
}
