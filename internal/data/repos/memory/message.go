package memory

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/pkg/dbctx"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

type MessageRepo interface {
	Append(dbc dbctx.Context, sessionID uuid.UUID, role, content string) (*domain.ChatMessage, error)
	// ListRecent returns the most recent turns in chronological order.
	ListRecent(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
	// ListAll returns the full ordered transcript, oldest first.
	ListAll(dbc dbctx.Context, sessionID uuid.UUID) ([]*domain.ChatMessage, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "MessageRepo")}
}

func (r *messageRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *messageRepo) Append(dbc dbctx.Context, sessionID uuid.UUID, role, content string) (*domain.ChatMessage, error) {
	if sessionID == uuid.Nil {
		return nil, fmt.Errorf("missing session_id")
	}
	if role != domain.RoleUser && role != domain.RoleAI {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	m := &domain.ChatMessage{SessionID: sessionID, Role: role, Content: content}
	if err := r.handle(dbc).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *messageRepo) ListRecent(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	if sessionID == uuid.Nil {
		return nil, fmt.Errorf("missing session_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 10
	}
	var out []*domain.ChatMessage
	if err := r.handle(dbc).
		Model(&domain.ChatMessage{}).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	// Rows come newest-first; normalize to chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *messageRepo) ListAll(dbc dbctx.Context, sessionID uuid.UUID) ([]*domain.ChatMessage, error) {
	if sessionID == uuid.Nil {
		return nil, fmt.Errorf("missing session_id")
	}
	var out []*domain.ChatMessage
	if err := r.handle(dbc).
		Model(&domain.ChatMessage{}).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
