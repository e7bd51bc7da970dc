package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
	"github.com/answergrid/answergrid-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "answergrid", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	for _, ext := range []string{`"uuid-ossp"`, "vector"} {
		if err := gdb.Exec(fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS %s;`, ext)).Error; err != nil {
			return nil, fmt.Errorf("enable extension %s: %w", ext, err)
		}
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(
		&domain.Tenant{},
		&domain.DocumentChunk{},
		&domain.ChatSession{},
		&domain.ChatMessage{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	// Lexical index column derived from content. Generated columns keep the
	// tsvector in lockstep with the (immutable) chunk text.
	if err := s.db.Exec(`
		ALTER TABLE document_chunk
		ADD COLUMN IF NOT EXISTS fts tsvector
		GENERATED ALWAYS AS (to_tsvector('english', content)) STORED
	`).Error; err != nil {
		return fmt.Errorf("add fts column: %w", err)
	}
	if err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_document_chunk_fts ON document_chunk USING GIN (fts);`).Error; err != nil {
		return fmt.Errorf("create fts index: %w", err)
	}
	if err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_document_chunk_embedding
		ON document_chunk USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
	`).Error; err != nil {
		// ivfflat needs rows to build from on some pgvector versions; the
		// planner falls back to a sequential scan without it.
		s.log.Warn("Failed to create ivfflat index, continuing without it", "error", err)
	}

	return s.enableRowLevelSecurity()
}

// enableRowLevelSecurity installs tenant-isolation policies keyed on the
// app.current_tenant GUC. Repos set the GUC inside each transaction, so a
// malformed WHERE clause in application code cannot leak cross-tenant rows.
func (s *PostgresService) enableRowLevelSecurity() error {
	s.log.Info("Configuring row level security policies...")
	stmts := []string{
		`ALTER TABLE document_chunk ENABLE ROW LEVEL SECURITY;`,
		`ALTER TABLE document_chunk FORCE ROW LEVEL SECURITY;`,
		`DROP POLICY IF EXISTS tenant_isolation ON document_chunk;`,
		`CREATE POLICY tenant_isolation ON document_chunk
		   USING (tenant_id = current_setting('app.current_tenant', true)::uuid);`,
	}
	for _, stmt := range stmts {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("row level security: %w", err)
		}
	}
	return nil
}
