package services

import (
	"context"

	"github.com/google/uuid"

	tenantrepo "github.com/answergrid/answergrid-backend/internal/data/repos/tenant"
	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/pkg/dbctx"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

type TenantService interface {
	Create(ctx context.Context, name, preferredLanguages string) (*domain.Tenant, error)
	Get(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	Languages(ctx context.Context, tenantID uuid.UUID) (string, error)
}

type tenantService struct {
	log     *logger.Logger
	tenants tenantrepo.TenantRepo
}

func NewTenantService(log *logger.Logger, tenants tenantrepo.TenantRepo) TenantService {
	return &tenantService{
		log:     log.With("service", "TenantService"),
		tenants: tenants,
	}
}

func (s *tenantService) Create(ctx context.Context, name, preferredLanguages string) (*domain.Tenant, error) {
	return s.tenants.Create(dbctx.Context{Ctx: ctx}, name, preferredLanguages)
}

func (s *tenantService) Get(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	return s.tenants.Get(dbctx.Context{Ctx: ctx}, tenantID)
}

func (s *tenantService) Languages(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return s.tenants.PreferredLanguages(dbctx.Context{Ctx: ctx}, tenantID)
}
