package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/cars-practice-api/internal/middleware"
)

// APIVersion отдается health check'ом
const APIVersion = "1.0.0"

// RouterDeps - все, что нужно для сборки маршрутов
type RouterDeps struct {
	AuthHandler     *AuthHandler
	PassageHandler  *PassageHandler
	SessionHandler  *SessionHandler
	ProgressHandler *ProgressHandler
	AuthMiddleware  *middleware.AuthMiddleware
	// RateLimiter может быть nil - тогда лимиты отключены
	RateLimiter *middleware.RateLimiter
	// AuthRateLimit - лимит для signup/login, нулевое значение заменяется строгим по умолчанию
	AuthRateLimit  middleware.RateLimitConfig
	AllowedOrigins []string
	TrustedProxies []string
}

// SetupRouter собирает gin.Engine со всеми маршрутами /api/v1
func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("[Router] Panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": fmt.Sprint(recovered),
		})
	}))

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "Route not found"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "MCAT CARS Practice API",
				"version": APIVersion,
				"status":  "healthy",
			})
		})

		limitCfg := deps.AuthRateLimit
		if limitCfg.MaxRequests <= 0 || limitCfg.Window <= 0 {
			limitCfg = middleware.StrictAuthRateLimitConfig()
		}
		strict := deps.RateLimiter.Limit(limitCfg)
		requireAuth := deps.AuthMiddleware.RequireAuth()

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", strict, deps.AuthHandler.Signup)
			authGroup.POST("/login", strict, deps.AuthHandler.Login)
			authGroup.GET("/me", requireAuth, deps.AuthHandler.Me)
		}

		passages := api.Group("/passages", requireAuth)
		{
			passages.GET("", deps.PassageHandler.ListPassages)
			passages.GET("/:id", middleware.ExtractUintParam("id", middleware.ContextPassageID), deps.PassageHandler.GetPassage)
		}

		sessions := api.Group("/sessions", requireAuth)
		{
			sessions.POST("", deps.SessionHandler.CreateSession)
			sessions.GET("", deps.SessionHandler.ListSessions)

			sessionByID := sessions.Group("/:id", middleware.ExtractUintParam("id", middleware.ContextSessionID))
			{
				sessionByID.GET("", deps.SessionHandler.GetSession)
				sessionByID.PATCH("/answer", deps.SessionHandler.SubmitAnswer)
				sessionByID.POST("/complete", deps.SessionHandler.CompleteSession)
				sessionByID.GET("/results", deps.SessionHandler.GetSessionResults)
			}
		}

		progress := api.Group("/progress", requireAuth)
		{
			progress.GET("", deps.ProgressHandler.GetProgress)
			progress.GET("/export", deps.ProgressHandler.ExportHistory)
		}
	}

	return router
}
