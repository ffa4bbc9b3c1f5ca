package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/me-api/pkg/logger"
)

type RouterConfig struct {
	APIKey      string
	ServiceName string
}

type Handlers struct {
	Profile *ProfileHandler
	Query   *QueryHandler
	Search  *SearchHandler
}

func NewRouter(cfg RouterConfig, h Handlers, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		TracingMiddleware(cfg.ServiceName),
		RequestLoggerMiddleware(log),
		CORSMiddleware(),
		ErrorMiddleware(log),
	)

	requireKey := APIKeyMiddleware(cfg.APIKey, log)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Me-API Playground"})
	})
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	router.GET("/profile", h.Profile.GetProfile)
	router.POST("/profile", requireKey, h.Profile.CreateProfile)
	router.PUT("/profile", requireKey, h.Profile.UpdateProfile)

	router.GET("/projects", h.Query.ProjectsBySkill)
	router.GET("/skills/top", h.Query.TopSkills)
	router.GET("/search", h.Search.Search)

	return router
}
