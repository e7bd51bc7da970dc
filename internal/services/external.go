package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
	"github.com/answergrid/answergrid-backend/internal/utils"
)

// ExternalContextService fetches supplemental live data, such as a
// pricing feed, from a tenant-agnostic HTTP endpoint configured by
// EXTERNAL_CONTEXT_URL. Unset URL disables the service.
type ExternalContextService interface {
	Fetch(ctx context.Context, tenantID uuid.UUID, query string) (string, error)
}

type externalContextService struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

// NewExternalContextService returns nil when no endpoint is configured,
// which callers treat as "no supplemental data available".
func NewExternalContextService(log *logger.Logger) ExternalContextService {
	baseURL := strings.TrimSpace(utils.GetEnv("EXTERNAL_CONTEXT_URL", "", log))
	if baseURL == "" {
		return nil
	}
	timeoutSec := utils.GetEnvAsInt("EXTERNAL_CONTEXT_TIMEOUT_SECONDS", 5, log)
	return &externalContextService{
		log:        log.With("service", "ExternalContextService"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

func (s *externalContextService) Fetch(ctx context.Context, tenantID uuid.UUID, query string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("external context url: %w", err)
	}
	q := u.Query()
	q.Set("tenant_id", tenantID.String())
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("external context http %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
