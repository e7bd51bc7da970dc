package tenant

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/pkg/dbctx"
	pkgerrors "github.com/answergrid/answergrid-backend/internal/pkg/errors"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

type TenantRepo interface {
	Create(dbc dbctx.Context, name, preferredLanguages string) (*domain.Tenant, error)
	Get(dbc dbctx.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	// PreferredLanguages returns the tenant's language hint, or "" when the
	// tenant is missing (the engine treats that as no preference).
	PreferredLanguages(dbc dbctx.Context, tenantID uuid.UUID) (string, error)
}

type tenantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTenantRepo(db *gorm.DB, log *logger.Logger) TenantRepo {
	return &tenantRepo{db: db, log: log.With("repo", "TenantRepo")}
}

func (r *tenantRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *tenantRepo) Create(dbc dbctx.Context, name, preferredLanguages string) (*domain.Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("missing name")
	}
	t := &domain.Tenant{Name: name, PreferredLanguages: preferredLanguages}
	if err := r.handle(dbc).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tenantRepo) Get(dbc dbctx.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("missing tenant_id")
	}
	var t domain.Tenant
	if err := r.handle(dbc).Where("id = ?", tenantID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *tenantRepo) PreferredLanguages(dbc dbctx.Context, tenantID uuid.UUID) (string, error) {
	t, err := r.Get(dbc, tenantID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return t.PreferredLanguages, nil
}
