package app

import (
	"time"

	"github.com/answergrid/answergrid-backend/internal/engine"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
	"github.com/answergrid/answergrid-backend/internal/server"
	"github.com/answergrid/answergrid-backend/internal/utils"
)

type Config struct {
	Port         string
	AllowOrigins []string
	RedisAddr    string

	Engine engine.Options
}

func LoadConfig(log *logger.Logger) Config {
	// ANSWER_MAX_RETRIES=0 is a valid "no self-correction" setting, so the
	// value is carried as a pointer rather than relying on the engine default.
	maxRetries := utils.GetEnvAsInt("ANSWER_MAX_RETRIES", 2, log)
	return Config{
		Port:         utils.GetEnv("PORT", "8080", log),
		AllowOrigins: server.SplitOrigins(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log)),
		RedisAddr:    utils.GetEnv("REDIS_ADDR", "", log),
		Engine: engine.Options{
			AssistantName:       utils.GetEnv("ASSISTANT_NAME", "the support assistant", log),
			MaxRetries:          &maxRetries,
			ResultLimit:         utils.GetEnvAsInt("RETRIEVAL_RESULT_LIMIT", 5, log),
			HistoryLimit:        utils.GetEnvAsInt("HISTORY_LIMIT", 10, log),
			RerankPreview:       utils.GetEnvAsInt("RERANK_PREVIEW_CHARS", 1000, log),
			ComplexityThreshold: utils.GetEnvAsInt("COMPLEXITY_THRESHOLD", 7, log),
			GenerateTimeout:     time.Duration(utils.GetEnvAsInt("GENERATE_TIMEOUT_SECONDS", 60, log)) * time.Second,
		},
	}
}
