package llm

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
	"github.com/answergrid/answergrid-backend/internal/utils"
)

// Route names the provider and model a pipeline step should use.
type Route struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

type Config struct {
	DefaultProvider string         `yaml:"default_provider"`
	Routes          map[Step]Route `yaml:"routes"`
}

// LoadConfig builds the routing table from the environment. When
// MODEL_ROUTES_FILE points at a YAML file its routes are loaded first,
// then per-step MODEL_ROUTE_* variables override individual entries.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		DefaultProvider: utils.GetEnv("MODEL_DEFAULT_PROVIDER", "gemini", log),
		Routes:          map[Step]Route{},
	}

	if path := strings.TrimSpace(os.Getenv("MODEL_ROUTES_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read model routes file: %w", err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse model routes file: %w", err)
		}
		if fileCfg.DefaultProvider != "" {
			cfg.DefaultProvider = fileCfg.DefaultProvider
		}
		for step, route := range fileCfg.Routes {
			cfg.Routes[step] = route
		}
	}

	steps := []Step{
		StepContextualize,
		StepIntent,
		StepSearch,
		StepGeneration,
		StepComplexReasoning,
		StepGrading,
		StepRewrite,
		StepEmbedding,
	}
	for _, step := range steps {
		key := "MODEL_ROUTE_" + strings.ToUpper(string(step))
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			continue
		}
		route, err := parseRoute(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", key, err)
		}
		cfg.Routes[step] = route
	}

	return cfg, nil
}

// parseRoute accepts "provider" or "provider:model".
func parseRoute(raw string) (Route, error) {
	parts := strings.SplitN(raw, ":", 2)
	provider := strings.TrimSpace(parts[0])
	if provider == "" {
		return Route{}, fmt.Errorf("empty provider in route %q", raw)
	}
	route := Route{Provider: provider}
	if len(parts) == 2 {
		route.Model = strings.TrimSpace(parts[1])
	}
	return route, nil
}

// Resolve picks the route for a step, applying optional per-request
// overrides on top of the configured table.
func (c Config) Resolve(step Step, providerOverride, modelOverride string) Route {
	route, ok := c.Routes[step]
	if !ok {
		route = Route{Provider: c.DefaultProvider}
	}
	if strings.TrimSpace(providerOverride) != "" {
		route.Provider = strings.TrimSpace(providerOverride)
		if strings.TrimSpace(modelOverride) == "" {
			route.Model = ""
		}
	}
	if strings.TrimSpace(modelOverride) != "" {
		route.Model = strings.TrimSpace(modelOverride)
	}
	if route.Provider == "" {
		route.Provider = c.DefaultProvider
	}
	return route
}
