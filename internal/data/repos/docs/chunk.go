package docs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/pkg/dbctx"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

// SemanticHit is a chunk ranked by ascending cosine distance.
type SemanticHit struct {
	Chunk    *domain.DocumentChunk
	Distance float64
}

// LexicalHit is a chunk ranked by descending full-text rank.
type LexicalHit struct {
	Chunk *domain.DocumentChunk
	Rank  float64
}

type ChunkRepo interface {
	Insert(dbc dbctx.Context, tenantID uuid.UUID, filename, content string, embedding []float32) error
	// InsertBatch stores all chunks of one file in a single transaction;
	// any failure rolls back the whole file.
	InsertBatch(dbc dbctx.Context, tenantID uuid.UUID, filename string, contents []string, embeddings [][]float32) error
	SemanticSearch(dbc dbctx.Context, tenantID uuid.UUID, embedding []float32, limit int) ([]SemanticHit, error)
	LexicalSearch(dbc dbctx.Context, tenantID uuid.UUID, query string, limit int) ([]LexicalHit, error)
	DeleteByFilename(dbc dbctx.Context, tenantID uuid.UUID, filename string) (int64, error)
	DeleteByTenant(dbc dbctx.Context, tenantID uuid.UUID) (int64, error)
}

type chunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChunkRepo(db *gorm.DB, log *logger.Logger) ChunkRepo {
	return &chunkRepo{db: db, log: log.With("repo", "ChunkRepo")}
}

// withTenant runs fn in a transaction whose app.current_tenant GUC is set so
// row-level security scopes every statement. Isolation lives here, not in the
// WHERE clauses of individual queries.
func (r *chunkRepo) withTenant(dbc dbctx.Context, tenantID uuid.UUID, fn func(tx *gorm.DB) error) error {
	if tenantID == uuid.Nil {
		return fmt.Errorf("missing tenant_id")
	}
	handle := dbc.Tx
	if handle == nil {
		handle = r.db
	}
	return handle.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`SELECT set_config('app.current_tenant', ?, true)`, tenantID.String()).Error; err != nil {
			return fmt.Errorf("set tenant context: %w", err)
		}
		return fn(tx)
	})
}

func (r *chunkRepo) Insert(dbc dbctx.Context, tenantID uuid.UUID, filename, content string, embedding []float32) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("missing filename")
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("missing content")
	}
	return r.withTenant(dbc, tenantID, func(tx *gorm.DB) error {
		return tx.Exec(`
			INSERT INTO document_chunk (tenant_id, filename, content, embedding)
			VALUES (?, ?, ?, ?::vector)
		`, tenantID, filename, content, FormatVector(embedding)).Error
	})
}

func (r *chunkRepo) InsertBatch(dbc dbctx.Context, tenantID uuid.UUID, filename string, contents []string, embeddings [][]float32) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("missing filename")
	}
	if len(contents) != len(embeddings) {
		return fmt.Errorf("contents/embeddings length mismatch: %d vs %d", len(contents), len(embeddings))
	}
	if len(contents) == 0 {
		return nil
	}
	return r.withTenant(dbc, tenantID, func(tx *gorm.DB) error {
		for i, content := range contents {
			if strings.TrimSpace(content) == "" {
				return fmt.Errorf("missing content at chunk %d", i)
			}
			if err := tx.Exec(`
				INSERT INTO document_chunk (tenant_id, filename, content, embedding)
				VALUES (?, ?, ?, ?::vector)
			`, tenantID, filename, content, FormatVector(embeddings[i])).Error; err != nil {
				return fmt.Errorf("insert chunk %d: %w", i, err)
			}
		}
		return nil
	})
}

func (r *chunkRepo) SemanticSearch(dbc dbctx.Context, tenantID uuid.UUID, embedding []float32, limit int) ([]SemanticHit, error) {
	if len(embedding) == 0 {
		return []SemanticHit{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	type row struct {
		domain.DocumentChunk
		Distance float64 `gorm:"column:distance"`
	}
	var rows []row
	err := r.withTenant(dbc, tenantID, func(tx *gorm.DB) error {
		return tx.Raw(`
			SELECT id, tenant_id, filename, content, embedding <=> ?::vector AS distance
			FROM document_chunk
			WHERE tenant_id = ?
			ORDER BY distance ASC
			LIMIT ?
		`, FormatVector(embedding), tenantID, limit).Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	out := make([]SemanticHit, 0, len(rows))
	for i := range rows {
		c := rows[i].DocumentChunk
		out = append(out, SemanticHit{Chunk: &c, Distance: rows[i].Distance})
	}
	return out, nil
}

func (r *chunkRepo) LexicalSearch(dbc dbctx.Context, tenantID uuid.UUID, query string, limit int) ([]LexicalHit, error) {
	if strings.TrimSpace(query) == "" {
		return []LexicalHit{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	type row struct {
		domain.DocumentChunk
		Rank float64 `gorm:"column:rank"`
	}
	var rows []row
	err := r.withTenant(dbc, tenantID, func(tx *gorm.DB) error {
		return tx.Raw(`
			SELECT id, tenant_id, filename, content,
			       ts_rank_cd(fts, websearch_to_tsquery('english', ?)) AS rank
			FROM document_chunk
			WHERE tenant_id = ?
			  AND fts @@ websearch_to_tsquery('english', ?)
			ORDER BY rank DESC
			LIMIT ?
		`, query, tenantID, query, limit).Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	out := make([]LexicalHit, 0, len(rows))
	for i := range rows {
		c := rows[i].DocumentChunk
		out = append(out, LexicalHit{Chunk: &c, Rank: rows[i].Rank})
	}
	return out, nil
}

func (r *chunkRepo) DeleteByFilename(dbc dbctx.Context, tenantID uuid.UUID, filename string) (int64, error) {
	if strings.TrimSpace(filename) == "" {
		return 0, fmt.Errorf("missing filename")
	}
	var deleted int64
	err := r.withTenant(dbc, tenantID, func(tx *gorm.DB) error {
		res := tx.Where("tenant_id = ? AND filename = ?", tenantID, filename).Delete(&domain.DocumentChunk{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

func (r *chunkRepo) DeleteByTenant(dbc dbctx.Context, tenantID uuid.UUID) (int64, error) {
	var deleted int64
	err := r.withTenant(dbc, tenantID, func(tx *gorm.DB) error {
		res := tx.Where("tenant_id = ?", tenantID).Delete(&domain.DocumentChunk{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

// FormatVector renders an embedding as pgvector input text, e.g. "[0.1,0.2]".
func FormatVector(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
