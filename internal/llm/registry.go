package llm

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/answergrid/answergrid-backend/internal/pkg/errors"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

// Constructor builds a provider client from the environment. It fails
// when the provider's credentials are not configured.
type Constructor func(log *logger.Logger) (Provider, error)

// Model is a provider bound to a concrete model name. An empty model
// name means the provider's own default.
type Model struct {
	provider Provider
	name     string
}

func (m *Model) ProviderName() string { return m.provider.Name() }
func (m *Model) ModelName() string    { return m.name }

func (m *Model) Complete(ctx context.Context, system, user string) (string, error) {
	return m.provider.Complete(ctx, CompletionRequest{Model: m.name, System: system, User: user})
}

func (m *Model) Embed(ctx context.Context, text string) ([]float32, error) {
	return m.provider.Embed(ctx, text)
}

// Registry hands out model handles per pipeline step. Provider clients
// are constructed lazily, at most once per provider name, and reused
// across steps. A provider whose construction fails falls back to the
// configured default provider so the same inputs always resolve to the
// same handle.
type Registry struct {
	log          *logger.Logger
	cfg          Config
	constructors map[string]Constructor

	mu        sync.RWMutex
	providers map[string]Provider
	sf        singleflight.Group
}

func NewRegistry(log *logger.Logger, cfg Config, constructors map[string]Constructor) *Registry {
	return &Registry{
		log:          log.With("service", "ModelRegistry"),
		cfg:          cfg,
		constructors: constructors,
		providers:    map[string]Provider{},
	}
}

// ForStep resolves the route for a step and returns a bound model
// handle. Overrides take precedence over the configured route.
func (r *Registry) ForStep(step Step, providerOverride, modelOverride string) (*Model, error) {
	route := r.cfg.Resolve(step, providerOverride, modelOverride)

	provider, err := r.provider(route.Provider)
	if err != nil && route.Provider != r.cfg.DefaultProvider {
		r.log.Warn("Provider unavailable, falling back to default",
			"step", string(step),
			"provider", route.Provider,
			"default", r.cfg.DefaultProvider,
			"error", err.Error(),
		)
		provider, err = r.provider(r.cfg.DefaultProvider)
		route.Model = ""
	}
	if err != nil {
		return nil, fmt.Errorf("%w: step %s: %v", errors.ErrNoProvider, step, err)
	}
	return &Model{provider: provider, name: route.Model}, nil
}

// Complete resolves the step's route and runs a completion on it.
func (r *Registry) Complete(ctx context.Context, step Step, provider, model, system, user string) (string, error) {
	m, err := r.ForStep(step, provider, model)
	if err != nil {
		return "", err
	}
	return m.Complete(ctx, system, user)
}

// Embed resolves the step's route and embeds the text on it.
func (r *Registry) Embed(ctx context.Context, step Step, provider, model, text string) ([]float32, error) {
	m, err := r.ForStep(step, provider, model)
	if err != nil {
		return nil, err
	}
	return m.Embed(ctx, text)
}

func (r *Registry) provider(name string) (Provider, error) {
	r.mu.RLock()
	if p, ok := r.providers[name]; ok {
		r.mu.RUnlock()
		return p, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.sf.Do(name, func() (any, error) {
		r.mu.RLock()
		if p, ok := r.providers[name]; ok {
			r.mu.RUnlock()
			return p, nil
		}
		r.mu.RUnlock()

		ctor, ok := r.constructors[name]
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", name)
		}
		p, err := ctor(r.log)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.providers[name] = p
		r.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Provider), nil
}
