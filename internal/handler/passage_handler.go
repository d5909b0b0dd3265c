package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/cars-practice-api/internal/handler/dto"
	"github.com/yourusername/cars-practice-api/internal/middleware"
	"github.com/yourusername/cars-practice-api/internal/service"
)

// PassageHandler отдает пассажи
type PassageHandler struct {
	passageService *service.PassageService
}

// NewPassageHandler создает новый обработчик пассажей
func NewPassageHandler(passageService *service.PassageService) *PassageHandler {
	return &PassageHandler{passageService: passageService}
}

// ListPassages возвращает краткий список пассажей
func (h *PassageHandler) ListPassages(c *gin.Context) {
	passages, err := h.passageService.ListPassages(c.Request.Context())
	if err != nil {
		respondError(c, "PassageHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"passages": dto.NewPassageList(passages)})
}

// GetPassage возвращает пассаж с вопросами; правильные ответы скрыты
func (h *PassageHandler) GetPassage(c *gin.Context) {
	passageID := middleware.ParamID(c, middleware.ContextPassageID)

	passage, err := h.passageService.GetPassageWithQuestions(c.Request.Context(), passageID)
	if err != nil {
		respondError(c, "PassageHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"passage": dto.NewPassageResponse(passage, false)})
}
