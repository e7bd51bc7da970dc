package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	memrepo "github.com/answergrid/answergrid-backend/internal/data/repos/memory"
	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/pkg/dbctx"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

const historyCacheTTL = 60 * time.Second

// MemoryService owns conversation transcripts. Recent-turn reads go
// through an optional redis cache; every cache failure falls back to
// Postgres silently.
type MemoryService interface {
	CreateSession(ctx context.Context, tenantID uuid.UUID) (*domain.ChatSession, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
	AppendTurn(ctx context.Context, sessionID uuid.UUID, role, content string) error
	AppendExchange(ctx context.Context, sessionID uuid.UUID, question, answer string) error
	RecentTurns(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
	FullTranscript(ctx context.Context, sessionID uuid.UUID) ([]*domain.ChatMessage, error)
}

type memoryService struct {
	log      *logger.Logger
	sessions memrepo.SessionRepo
	messages memrepo.MessageRepo
	cache    *redis.Client // nil disables caching
}

func NewMemoryService(log *logger.Logger, sessions memrepo.SessionRepo, messages memrepo.MessageRepo, cache *redis.Client) MemoryService {
	return &memoryService{
		log:      log.With("service", "MemoryService"),
		sessions: sessions,
		messages: messages,
		cache:    cache,
	}
}

func (s *memoryService) CreateSession(ctx context.Context, tenantID uuid.UUID) (*domain.ChatSession, error) {
	return s.sessions.Create(dbctx.Context{Ctx: ctx}, tenantID)
}

func (s *memoryService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessions.Delete(dbctx.Context{Ctx: ctx}, sessionID); err != nil {
		return err
	}
	s.bumpVersion(ctx, sessionID)
	return nil
}

func (s *memoryService) AppendTurn(ctx context.Context, sessionID uuid.UUID, role, content string) error {
	if _, err := s.messages.Append(dbctx.Context{Ctx: ctx}, sessionID, role, content); err != nil {
		return err
	}
	s.bumpVersion(ctx, sessionID)
	return nil
}

// AppendExchange stores a user turn and its answer back to back so the
// transcript stays in question-answer order.
func (s *memoryService) AppendExchange(ctx context.Context, sessionID uuid.UUID, question, answer string) error {
	if err := s.AppendTurn(ctx, sessionID, domain.RoleUser, question); err != nil {
		return err
	}
	return s.AppendTurn(ctx, sessionID, domain.RoleAI, answer)
}

func (s *memoryService) RecentTurns(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	if cached, ok := s.cacheGet(ctx, sessionID, limit); ok {
		return cached, nil
	}
	turns, err := s.messages.ListRecent(dbctx.Context{Ctx: ctx}, sessionID, limit)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, sessionID, limit, turns)
	return turns, nil
}

func (s *memoryService) FullTranscript(ctx context.Context, sessionID uuid.UUID) ([]*domain.ChatMessage, error) {
	return s.messages.ListAll(dbctx.Context{Ctx: ctx}, sessionID)
}

// Cache invalidation works by version counter: writes bump the
// per-session version and data keys embed it, so stale entries simply
// stop being addressed and age out via TTL.

func (s *memoryService) versionKey(sessionID uuid.UUID) string {
	return "chat:hist:ver:" + sessionID.String()
}

func (s *memoryService) dataKey(sessionID uuid.UUID, version int64, limit int) string {
	return fmt.Sprintf("chat:hist:%s:%d:%d", sessionID.String(), version, limit)
}

func (s *memoryService) bumpVersion(ctx context.Context, sessionID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, s.versionKey(sessionID)).Err(); err != nil {
		s.log.Warn("History cache invalidation failed", "session_id", sessionID.String(), "error", err.Error())
	}
	s.cache.Expire(ctx, s.versionKey(sessionID), 24*time.Hour)
}

func (s *memoryService) cacheGet(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, bool) {
	if s.cache == nil {
		return nil, false
	}
	version, err := s.cache.Get(ctx, s.versionKey(sessionID)).Int64()
	if err != nil && err != redis.Nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.dataKey(sessionID, version, limit)).Bytes()
	if err != nil {
		return nil, false
	}
	var turns []*domain.ChatMessage
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, false
	}
	return turns, true
}

func (s *memoryService) cacheSet(ctx context.Context, sessionID uuid.UUID, limit int, turns []*domain.ChatMessage) {
	if s.cache == nil {
		return
	}
	version, err := s.cache.Get(ctx, s.versionKey(sessionID)).Int64()
	if err != nil && err != redis.Nil {
		return
	}
	raw, err := json.Marshal(turns)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.dataKey(sessionID, version, limit), raw, historyCacheTTL).Err(); err != nil {
		s.log.Debug("History cache write failed", "session_id", sessionID.String(), "error", err.Error())
	}
}
