package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

// respondError переводит ошибку сервиса в HTTP статус и JSON {error, message}.
// Конфликты состояния (повторное завершение, результаты до завершения) отдаются как 400.
func respondError(c *gin.Context, component string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": err.Error()})
	default:
		log.Printf("[%s] Внутренняя ошибка: %v", component, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": err.Error()})
	}
}

// respondBindError отдает 400 для невалидного тела запроса
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
}

// currentUserID достает ID пользователя, выставленный RequireAuth
func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
