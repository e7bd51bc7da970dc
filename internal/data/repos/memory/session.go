package memory

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

type SessionRepo interface {
	Create(dbc dbctx.Context, tenantID uuid.UUID) (*domain.ChatSession, error)
	Get(dbc dbctx.Context, sessionID uuid.UUID) (*domain.ChatSession, error)
	Delete(dbc dbctx.Context, sessionID uuid.UUID) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, log *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: log.With("repo", "SessionRepo")}
}

func (r *sessionRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *sessionRepo) Create(dbc dbctx.Context, tenantID uuid.UUID) (*domain.ChatSession, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("missing tenant_id")
	}
	s := &domain.ChatSession{TenantID: tenantID}
	if err := r.handle(dbc).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sessionRepo) Get(dbc dbctx.Context, sessionID uuid.UUID) (*domain.ChatSession, error) {
	if sessionID == uuid.Nil {
		return nil, fmt.Errorf("missing session_id")
	}
	var s domain.ChatSession
	if err := r.handle(dbc).Where("id = ?", sessionID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Delete(dbc dbctx.Context, sessionID uuid.UUID) error {
	if sessionID == uuid.Nil {
		return fmt.Errorf("missing session_id")
	}
	return r.handle(dbc).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&domain.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", sessionID).Delete(&domain.ChatSession{}).Error
	})
}
