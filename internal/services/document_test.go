package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/data/repos/docs"
	"github.com/answergrid/answergrid-backend/internal/llm"
	"github.com/answergrid/answergrid-backend/internal/pkg/dbctx"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

type stubChunkRepo struct {
	inserted     int
	batches      int
	batchErr     error
	lastContents []string
}

func (s *stubChunkRepo) Insert(dbc dbctx.Context, tenantID uuid.UUID, filename, content string, embedding []float32) error {
	s.inserted++
	return nil
}

func (s *stubChunkRepo) InsertBatch(dbc dbctx.Context, tenantID uuid.UUID, filename string, contents []string, embeddings [][]float32) error {
	s.batches++
	s.lastContents = contents
	if s.batchErr != nil {
		return s.batchErr
	}
	s.inserted += len(contents)
	return nil
}

func (s *stubChunkRepo) SemanticSearch(dbc dbctx.Context, tenantID uuid.UUID, embedding []float32, limit int) ([]docs.SemanticHit, error) {
	return nil, nil
}

func (s *stubChunkRepo) LexicalSearch(dbc dbctx.Context, tenantID uuid.UUID, query string, limit int) ([]docs.LexicalHit, error) {
	return nil, nil
}

func (s *stubChunkRepo) DeleteByFilename(dbc dbctx.Context, tenantID uuid.UUID, filename string) (int64, error) {
	return 0, nil
}

func (s *stubChunkRepo) DeleteByTenant(dbc dbctx.Context, tenantID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubEmbedder struct {
	calls  int
	failOn int // 1-based call number that errors; 0 never fails
}

func (s *stubEmbedder) Complete(ctx context.Context, step llm.Step, provider, model, system, user string) (string, error) {
	return "", nil
}

func (s *stubEmbedder) Embed(ctx context.Context, step llm.Step, provider, model, text string) ([]float32, error) {
	s.calls++
	if s.failOn != 0 && s.calls == s.failOn {
		return nil, fmt.Errorf("embedding backend unavailable")
	}
	return []float32{0.1, 0.2}, nil
}

func newTestDocuments(t *testing.T, chunks *stubChunkRepo, models *stubEmbedder) DocumentService {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewDocumentService(log, chunks, models)
}

func TestIngestStoresAllChunksInOneBatch(t *testing.T) {
	chunks := &stubChunkRepo{}
	svc := newTestDocuments(t, chunks, &stubEmbedder{})

	text := strings.Repeat("abcdefghij", 300) // 3000 runes, 4 chunks at 1000/200
	n, err := svc.Ingest(context.Background(), uuid.New(), "kb.txt", text)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if n != 4 {
		t.Fatalf("got %d chunks, want 4", n)
	}
	if chunks.batches != 1 {
		t.Fatalf("got %d batch inserts, want 1", chunks.batches)
	}
	if len(chunks.lastContents) != 4 {
		t.Fatalf("batch carried %d chunks, want 4", len(chunks.lastContents))
	}
}

func TestIngestEmbedFailureStoresNothing(t *testing.T) {
	chunks := &stubChunkRepo{}
	svc := newTestDocuments(t, chunks, &stubEmbedder{failOn: 3})

	text := strings.Repeat("abcdefghij", 300)
	n, err := svc.Ingest(context.Background(), uuid.New(), "kb.txt", text)
	if err == nil {
		t.Fatalf("expected an error from the failing embedder")
	}
	if n != 0 {
		t.Fatalf("got %d stored chunks on failure, want 0", n)
	}
	if chunks.batches != 0 || chunks.inserted != 0 {
		t.Fatalf("repo was written to despite the embedding failure: batches=%d inserted=%d", chunks.batches, chunks.inserted)
	}
}

func TestIngestStoreFailureReportsZeroChunks(t *testing.T) {
	chunks := &stubChunkRepo{batchErr: fmt.Errorf("connection reset")}
	svc := newTestDocuments(t, chunks, &stubEmbedder{})

	n, err := svc.Ingest(context.Background(), uuid.New(), "kb.txt", strings.Repeat("abcdefghij", 300))
	if err == nil {
		t.Fatalf("expected the store error to propagate")
	}
	if n != 0 {
		t.Fatalf("got %d, want 0 when the batch insert fails", n)
	}
}

func TestChunkTextShortInputSingleChunk(t *testing.T) {
	out := ChunkText("short document", 1000, 200)
	if len(out) != 1 || out[0] != "short document" {
		t.Fatalf("got %v, want the input as one chunk", out)
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	if out := ChunkText("   \n\t  ", 1000, 200); out != nil {
		t.Fatalf("got %v, want nil for whitespace-only input", out)
	}
}

func TestChunkTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 30) // 300 runes
	out := ChunkText(text, 100, 20)

	if len(out) != 4 {
		t.Fatalf("got %d chunks, want 4 (step 80 over 300 runes)", len(out))
	}
	for i := 0; i < len(out)-1; i++ {
		tail := out[i][len(out[i])-20:]
		if !strings.HasPrefix(out[i+1], tail) {
			t.Fatalf("chunk %d does not start with chunk %d's 20-rune tail", i+1, i)
		}
	}
	var rebuilt strings.Builder
	rebuilt.WriteString(out[0])
	for i := 1; i < len(out); i++ {
		rebuilt.WriteString(out[i][20:])
	}
	if rebuilt.String() != text {
		t.Fatalf("chunks do not reassemble to the input")
	}
}

func TestChunkTextBadOverlapIgnored(t *testing.T) {
	text := strings.Repeat("z", 250)
	out := ChunkText(text, 100, 100) // overlap >= size would never advance
	if len(out) != 3 {
		t.Fatalf("got %d chunks, want 3 with overlap reset to 0", len(out))
	}
}

func TestChunkTextMultibyte(t *testing.T) {
	text := strings.Repeat("é", 150)
	out := ChunkText(text, 100, 0)
	if len(out) != 2 {
		t.Fatalf("got %d chunks, want 2", len(out))
	}
	for _, c := range out {
		if strings.ContainsRune(c, '�') {
			t.Fatalf("chunk split inside a rune")
		}
	}
}
