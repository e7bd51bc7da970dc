package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/answergrid/answergrid-backend/internal/clients/gemini"
	"github.com/answergrid/answergrid-backend/internal/clients/openai"
	"github.com/answergrid/answergrid-backend/internal/engine"
	"github.com/answergrid/answergrid-backend/internal/llm"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
	"github.com/answergrid/answergrid-backend/internal/services"
)

type Services struct {
	Registry *llm.Registry
	Memory   services.MemoryService
	Tenant   services.TenantService
	Document services.DocumentService
	External services.ExternalContextService
	Engine   *engine.Engine
}

func wireServices(log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	llmCfg, err := llm.LoadConfig(log)
	if err != nil {
		return Services{}, err
	}
	registry := llm.NewRegistry(log, llmCfg, map[string]llm.Constructor{
		"openai": openai.NewClient,
		"gemini": gemini.NewClient,
	})
	// Missing credentials should surface at boot, not as a permanent
	// apology fallback mid-request. Resolving one step forces the default
	// provider's construction.
	if _, err := registry.ForStep(llm.StepGeneration, "", ""); err != nil {
		return Services{}, fmt.Errorf("resolve model provider: %w", err)
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unreachable, history caching disabled", "addr", cfg.RedisAddr, "error", err.Error())
			cache = nil
		}
	}

	memory := services.NewMemoryService(log, repos.Session, repos.Message, cache)
	tenants := services.NewTenantService(log, repos.Tenant)
	documents := services.NewDocumentService(log, repos.Chunk, registry)
	external := services.NewExternalContextService(log)

	var fetcher engine.ExternalFetcher
	if external != nil {
		fetcher = external
	}
	eng := engine.New(log, registry, memory, repos.Chunk, tenants, fetcher, cfg.Engine)

	return Services{
		Registry: registry,
		Memory:   memory,
		Tenant:   tenants,
		Document: documents,
		External: external,
		Engine:   eng,
	}, nil
}
