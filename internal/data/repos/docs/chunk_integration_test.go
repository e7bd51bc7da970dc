package docs

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/db"
	"github.com/answergrid/answergrid-backend/internal/pkg/dbctx"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

// These tests run against a live Postgres with the pgvector extension, using
// the POSTGRES_* connection env vars. Superusers bypass row-level security no
// matter what the policies say, so run them as a regular role.

func TestTenantIsolationHidesOtherTenantsChunks(t *testing.T) {
	if !postgresRLSSmokeEnabled() {
		t.Skip("set AG_RUN_POSTGRES_RLS_SMOKE=true to run postgres row-level security smoke tests")
	}

	repo, cleanup := mustConnectChunkRepo(t)
	tenantA := uuid.New()
	tenantB := uuid.New()
	defer cleanup(tenantA, tenantB)

	dbc := dbctx.Context{Ctx: context.Background()}
	embedding := smokeEmbedding(0.25)
	if err := repo.Insert(dbc, tenantA, "policies.txt", "Our refund window is 30 days.", embedding); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	own, err := repo.SemanticSearch(dbc, tenantA, embedding, 5)
	if err != nil {
		t.Fatalf("SemanticSearch as owner: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("owner semantic search: got %d hits, want 1", len(own))
	}

	other, err := repo.SemanticSearch(dbc, tenantB, embedding, 5)
	if err != nil {
		t.Fatalf("SemanticSearch as other tenant: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other tenant semantic search: got %d hits, want 0", len(other))
	}

	lexical, err := repo.LexicalSearch(dbc, tenantB, "refund window", 5)
	if err != nil {
		t.Fatalf("LexicalSearch as other tenant: %v", err)
	}
	if len(lexical) != 0 {
		t.Fatalf("other tenant lexical search: got %d hits, want 0", len(lexical))
	}
}

func TestTenantIsolationScopesDeletes(t *testing.T) {
	if !postgresRLSSmokeEnabled() {
		t.Skip("set AG_RUN_POSTGRES_RLS_SMOKE=true to run postgres row-level security smoke tests")
	}

	repo, cleanup := mustConnectChunkRepo(t)
	tenantA := uuid.New()
	tenantB := uuid.New()
	defer cleanup(tenantA, tenantB)

	dbc := dbctx.Context{Ctx: context.Background()}
	if err := repo.Insert(dbc, tenantA, "shared-name.txt", "tenant A content", smokeEmbedding(0.1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	deleted, err := repo.DeleteByFilename(dbc, tenantB, "shared-name.txt")
	if err != nil {
		t.Fatalf("DeleteByFilename as other tenant: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("other tenant deleted %d rows, want 0", deleted)
	}

	own, err := repo.SemanticSearch(dbc, tenantA, smokeEmbedding(0.1), 5)
	if err != nil {
		t.Fatalf("SemanticSearch after foreign delete: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("owner lost its chunk to a foreign delete: got %d hits, want 1", len(own))
	}
}

func mustConnectChunkRepo(t *testing.T) (ChunkRepo, func(tenants ...uuid.UUID)) {
	t.Helper()

	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	pg, err := db.NewPostgresService(log)
	if err != nil {
		t.Fatalf("NewPostgresService: %v", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}

	var superuser string
	if err := pg.DB().Raw(`SELECT current_setting('is_superuser')`).Scan(&superuser).Error; err != nil {
		t.Fatalf("check is_superuser: %v", err)
	}
	if strings.EqualFold(superuser, "on") {
		t.Skipf("connected as a superuser, which bypasses row-level security; use a regular role")
	}

	repo := NewChunkRepo(pg.DB(), log)
	cleanup := func(tenants ...uuid.UUID) {
		for _, id := range tenants {
			if _, err := repo.DeleteByTenant(dbctx.Context{Ctx: context.Background()}, id); err != nil {
				t.Logf("cleanup tenant %s: %v", id, err)
			}
		}
	}
	return repo, cleanup
}

func postgresRLSSmokeEnabled() bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv("AG_RUN_POSTGRES_RLS_SMOKE")))
	return raw == "1" || raw == "true" || raw == "yes"
}

func smokeEmbedding(fill float32) []float32 {
	v := make([]float32, 768)
	for i := range v {
		v[i] = fill
	}
	return v
}
