package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/pkg/dbctx"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

type stubSessionRepo struct {
	created []uuid.UUID
	deleted []uuid.UUID
}

func (s *stubSessionRepo) Create(dbc dbctx.Context, tenantID uuid.UUID) (*domain.ChatSession, error) {
	s.created = append(s.created, tenantID)
	return &domain.ChatSession{ID: uuid.New(), TenantID: tenantID}, nil
}

func (s *stubSessionRepo) Get(dbc dbctx.Context, sessionID uuid.UUID) (*domain.ChatSession, error) {
	return &domain.ChatSession{ID: sessionID}, nil
}

func (s *stubSessionRepo) Delete(dbc dbctx.Context, sessionID uuid.UUID) error {
	s.deleted = append(s.deleted, sessionID)
	return nil
}

type appendedTurn struct {
	role    string
	content string
}

type stubMessageRepo struct {
	appended []appendedTurn
	recent   []*domain.ChatMessage
}

func (s *stubMessageRepo) Append(dbc dbctx.Context, sessionID uuid.UUID, role, content string) (*domain.ChatMessage, error) {
	s.appended = append(s.appended, appendedTurn{role: role, content: content})
	return &domain.ChatMessage{SessionID: sessionID, Role: role, Content: content}, nil
}

func (s *stubMessageRepo) ListRecent(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	return s.recent, nil
}

func (s *stubMessageRepo) ListAll(dbc dbctx.Context, sessionID uuid.UUID) ([]*domain.ChatMessage, error) {
	return s.recent, nil
}

func newTestMemory(t *testing.T, sessions *stubSessionRepo, messages *stubMessageRepo) MemoryService {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewMemoryService(log, sessions, messages, nil)
}

func TestAppendExchangeWritesQuestionThenAnswer(t *testing.T) {
	messages := &stubMessageRepo{}
	svc := newTestMemory(t, &stubSessionRepo{}, messages)

	if err := svc.AppendExchange(context.Background(), uuid.New(), "the question", "the answer"); err != nil {
		t.Fatalf("AppendExchange: %v", err)
	}
	if len(messages.appended) != 2 {
		t.Fatalf("appended %d turns, want 2", len(messages.appended))
	}
	if messages.appended[0] != (appendedTurn{role: domain.RoleUser, content: "the question"}) {
		t.Fatalf("first turn = %+v", messages.appended[0])
	}
	if messages.appended[1] != (appendedTurn{role: domain.RoleAI, content: "the answer"}) {
		t.Fatalf("second turn = %+v", messages.appended[1])
	}
}

func TestRecentTurnsWithoutCacheHitsRepo(t *testing.T) {
	messages := &stubMessageRepo{recent: []*domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAI, Content: "hello"},
	}}
	svc := newTestMemory(t, &stubSessionRepo{}, messages)

	turns, err := svc.RecentTurns(context.Background(), uuid.New(), 10)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(turns) != 2 || turns[0].Content != "hi" || turns[1].Content != "hello" {
		t.Fatalf("turns = %v, want chronological order", turns)
	}
}

func TestDeleteSessionDelegates(t *testing.T) {
	sessions := &stubSessionRepo{}
	svc := newTestMemory(t, sessions, &stubMessageRepo{})

	id := uuid.New()
	if err := svc.DeleteSession(context.Background(), id); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != id {
		t.Fatalf("deleted = %v, want [%s]", sessions.deleted, id)
	}
}
