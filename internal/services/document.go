package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/data/repos/docs"
	"github.com/answergrid/answergrid-backend/internal/engine"
	"github.com/answergrid/answergrid-backend/internal/llm"
	"github.com/answergrid/answergrid-backend/internal/pkg/dbctx"
	"github.com/answergrid/answergrid-backend/internal/pkg/errors"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// DocumentService ingests knowledge-base text for a tenant: split into
// overlapping chunks, embed each, and store them for retrieval.
type DocumentService interface {
	Ingest(ctx context.Context, tenantID uuid.UUID, filename, content string) (int, error)
	DeleteFile(ctx context.Context, tenantID uuid.UUID, filename string) (int64, error)
	DeleteTenantDocuments(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type documentService struct {
	log          *logger.Logger
	chunks       docs.ChunkRepo
	models       engine.ModelCaller
	chunkSize    int
	chunkOverlap int
}

func NewDocumentService(log *logger.Logger, chunks docs.ChunkRepo, models engine.ModelCaller) DocumentService {
	return &documentService{
		log:          log.With("service", "DocumentService"),
		chunks:       chunks,
		models:       models,
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
	}
}

func (s *documentService) Ingest(ctx context.Context, tenantID uuid.UUID, filename, content string) (int, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return 0, fmt.Errorf("%w: filename required", errors.ErrInvalidArgument)
	}
	pieces := ChunkText(content, s.chunkSize, s.chunkOverlap)
	if len(pieces) == 0 {
		return 0, fmt.Errorf("%w: empty document", errors.ErrInvalidArgument)
	}

	// Embed everything before touching the database, then store the whole
	// document in one transaction. A failure anywhere leaves no partial file.
	embeddings := make([][]float32, len(pieces))
	for i, piece := range pieces {
		embedding, err := s.models.Embed(ctx, llm.StepEmbedding, "", "", piece)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d/%d of %s: %w", i+1, len(pieces), filename, err)
		}
		embeddings[i] = embedding
	}
	if err := s.chunks.InsertBatch(dbctx.Context{Ctx: ctx}, tenantID, filename, pieces, embeddings); err != nil {
		return 0, fmt.Errorf("store %d chunks of %s: %w", len(pieces), filename, err)
	}

	s.log.Info("Document ingested", "tenant_id", tenantID.String(), "filename", filename, "chunks", len(pieces))
	return len(pieces), nil
}

func (s *documentService) DeleteFile(ctx context.Context, tenantID uuid.UUID, filename string) (int64, error) {
	return s.chunks.DeleteByFilename(dbctx.Context{Ctx: ctx}, tenantID, filename)
}

func (s *documentService) DeleteTenantDocuments(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.chunks.DeleteByTenant(dbctx.Context{Ctx: ctx}, tenantID)
}

// ChunkText splits text into rune-bounded windows of at most size runes
// with the given overlap between consecutive windows. Whitespace-only
// input yields no chunks.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	runes := []rune(trimmed)
	if len(runes) <= size {
		return []string{trimmed}
	}

	step := size - overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			out = append(out, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
