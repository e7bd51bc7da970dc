package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/answergrid/answergrid-backend/internal/http/handlers"
)

type RouterConfig struct {
	AllowOrigins []string

	AnswerHandler   *handlers.AnswerHandler
	SessionHandler  *handlers.SessionHandler
	DocumentHandler *handlers.DocumentHandler
	TenantHandler   *handlers.TenantHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/answers", cfg.AnswerHandler.GenerateAnswer)

		api.POST("/sessions", cfg.SessionHandler.CreateSession)
		api.GET("/sessions/:id/messages", cfg.SessionHandler.GetMessages)
		api.DELETE("/sessions/:id", cfg.SessionHandler.DeleteSession)

		api.POST("/documents", cfg.DocumentHandler.Ingest)
		api.DELETE("/documents", cfg.DocumentHandler.Delete)

		api.POST("/tenants", cfg.TenantHandler.CreateTenant)
		api.GET("/tenants/:id", cfg.TenantHandler.GetTenant)
	}

	return router
}

// SplitOrigins parses a comma-separated origin list from the environment.
func SplitOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
