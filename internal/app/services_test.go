package app

import (
	"errors"
	"testing"

	pkgerrors "github.com/answergrid/answergrid-backend/internal/pkg/errors"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

func TestWireServicesFailsFastWithoutProviderCredentials(t *testing.T) {
	t.Setenv("MODEL_DEFAULT_PROVIDER", "gemini")
	t.Setenv("MODEL_ROUTES_FILE", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	cfg := LoadConfig(log)

	_, err = wireServices(log, cfg, Repos{})
	if !errors.Is(err, pkgerrors.ErrNoProvider) {
		t.Fatalf("err = %v, want ErrNoProvider at startup", err)
	}
}

func TestWireServicesBootsWithDefaultProviderCredentials(t *testing.T) {
	t.Setenv("MODEL_DEFAULT_PROVIDER", "gemini")
	t.Setenv("MODEL_ROUTES_FILE", "")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("REDIS_ADDR", "")

	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	cfg := LoadConfig(log)

	svcs, err := wireServices(log, cfg, Repos{})
	if err != nil {
		t.Fatalf("wireServices: %v", err)
	}
	if svcs.Engine == nil || svcs.Registry == nil {
		t.Fatalf("services incomplete: %+v", svcs)
	}
}
