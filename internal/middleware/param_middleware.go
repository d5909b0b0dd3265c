package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Ключи контекста для ID из пути
const (
	ContextPassageID = "passageID"
	ContextSessionID = "sessionID"
)

// ExtractUintParam проверяет, что параметр пути - положительное целое, и кладет его в контекст
// под contextKey как uint. Иначе 400.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parsePositiveID(c.Param(paramName))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": fmt.Sprintf("Invalid %s: must be a positive integer", paramName),
			})
			return
		}
		c.Set(contextKey, id)
		c.Next()
	}
}

// ParamID возвращает ID, сохраненный ExtractUintParam (0, если его нет)
func ParamID(c *gin.Context, contextKey string) uint {
	return c.GetUint(contextKey)
}

func parsePositiveID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("id must be positive")
	}
	return uint(id), nil
}
