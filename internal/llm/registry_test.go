package llm

import (
	"context"
	"errors"
	"sync"
	"testing"

	pkgerrors "github.com/answergrid/answergrid-backend/internal/pkg/errors"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

type stubProvider struct {
	name string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return "ok:" + req.Model, nil
}

func (s *stubProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 2, 3}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestRegistryReusesProviderAcrossSteps(t *testing.T) {
	var calls int
	var mu sync.Mutex
	reg := NewRegistry(testLogger(t), Config{
		DefaultProvider: "stub",
		Routes: map[Step]Route{
			StepGeneration: {Provider: "stub", Model: "big"},
			StepGrading:    {Provider: "stub", Model: "small"},
		},
	}, map[string]Constructor{
		"stub": func(log *logger.Logger) (Provider, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return &stubProvider{name: "stub"}, nil
		},
	})

	gen, err := reg.ForStep(StepGeneration, "", "")
	if err != nil {
		t.Fatalf("ForStep generation: %v", err)
	}
	grade, err := reg.ForStep(StepGrading, "", "")
	if err != nil {
		t.Fatalf("ForStep grading: %v", err)
	}
	if calls != 1 {
		t.Fatalf("constructor calls = %d, want 1", calls)
	}
	if gen.ModelName() != "big" || grade.ModelName() != "small" {
		t.Fatalf("models = %q, %q", gen.ModelName(), grade.ModelName())
	}
}

func TestRegistryFallsBackToDefault(t *testing.T) {
	reg := NewRegistry(testLogger(t), Config{
		DefaultProvider: "fallback",
		Routes: map[Step]Route{
			StepGeneration: {Provider: "broken", Model: "big"},
		},
	}, map[string]Constructor{
		"broken": func(log *logger.Logger) (Provider, error) {
			return nil, errors.New("missing credentials")
		},
		"fallback": func(log *logger.Logger) (Provider, error) {
			return &stubProvider{name: "fallback"}, nil
		},
	})

	for i := 0; i < 3; i++ {
		m, err := reg.ForStep(StepGeneration, "", "")
		if err != nil {
			t.Fatalf("ForStep: %v", err)
		}
		if m.ProviderName() != "fallback" {
			t.Fatalf("provider = %q, want fallback", m.ProviderName())
		}
		if m.ModelName() != "" {
			t.Fatalf("model = %q, want default sentinel on fallback", m.ModelName())
		}
	}
}

func TestRegistryNoUsableProvider(t *testing.T) {
	reg := NewRegistry(testLogger(t), Config{DefaultProvider: "missing"}, map[string]Constructor{})

	_, err := reg.ForStep(StepGeneration, "", "")
	if !errors.Is(err, pkgerrors.ErrNoProvider) {
		t.Fatalf("err = %v, want ErrNoProvider", err)
	}
}

func TestRegistryOverrides(t *testing.T) {
	reg := NewRegistry(testLogger(t), Config{
		DefaultProvider: "a",
		Routes: map[Step]Route{
			StepGeneration: {Provider: "a", Model: "a-default"},
		},
	}, map[string]Constructor{
		"a": func(log *logger.Logger) (Provider, error) { return &stubProvider{name: "a"}, nil },
		"b": func(log *logger.Logger) (Provider, error) { return &stubProvider{name: "b"}, nil },
	})

	m, err := reg.ForStep(StepGeneration, "b", "b-custom")
	if err != nil {
		t.Fatalf("ForStep: %v", err)
	}
	if m.ProviderName() != "b" || m.ModelName() != "b-custom" {
		t.Fatalf("got %q/%q, want b/b-custom", m.ProviderName(), m.ModelName())
	}

	// A provider switch without a model drops the old route's model.
	m, err = reg.ForStep(StepGeneration, "b", "")
	if err != nil {
		t.Fatalf("ForStep: %v", err)
	}
	if m.ModelName() != "" {
		t.Fatalf("model = %q, want provider default", m.ModelName())
	}
}
