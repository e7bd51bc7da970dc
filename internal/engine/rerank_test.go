package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/llm"
)

func TestRerankOrdersByScoreAndDemotesGarbage(t *testing.T) {
	models := &stubModels{responses: map[llm.Step][]string{
		llm.StepSearch: {`{"score": 2}`, "i cannot score this", `{"score": 9}`},
	}}
	eng := newTestEngine(t, models, &stubMemory{}, &stubChunks{})

	candidates := []domain.RetrievalCandidate{
		{ChunkID: uuid.New(), Filename: "a.md", Content: "a"},
		{ChunkID: uuid.New(), Filename: "b.md", Content: "b"},
		{ChunkID: uuid.New(), Filename: "c.md", Content: "c"},
	}
	out := eng.rerank(context.Background(), Request{}, "query", candidates)

	if out[0].Filename != "c.md" {
		t.Fatalf("top = %s, want the 9-scored candidate", out[0].Filename)
	}
	if out[1].Filename != "a.md" || out[1].RerankScore != 2 {
		t.Fatalf("second = %s score %v, want a.md with 2", out[1].Filename, out[1].RerankScore)
	}
	if out[2].Filename != "b.md" || out[2].RerankScore != 0 {
		t.Fatalf("unparseable candidate %s score %v, want b.md demoted to 0, not dropped", out[2].Filename, out[2].RerankScore)
	}
}

func TestRerankTruncatesContentPreview(t *testing.T) {
	models := &stubModels{responses: map[llm.Step][]string{
		llm.StepSearch: {`{"score": 5}`},
	}}
	eng := newTestEngine(t, models, &stubMemory{}, &stubChunks{})

	long := strings.Repeat("x", 5000)
	eng.rerank(context.Background(), Request{}, "query", []domain.RetrievalCandidate{
		{ChunkID: uuid.New(), Filename: "big.md", Content: long},
	})

	calls := models.stepCalls(llm.StepSearch)
	if len(calls) != 1 {
		t.Fatalf("rerank calls = %d, want 1", len(calls))
	}
	if strings.Count(calls[0].user, "x") > 1000 {
		t.Fatalf("preview exceeded the bounded length")
	}
}

func TestRerankScoreClamped(t *testing.T) {
	models := &stubModels{responses: map[llm.Step][]string{
		llm.StepSearch: {`{"score": 42}`},
	}}
	eng := newTestEngine(t, models, &stubMemory{}, &stubChunks{})

	out := eng.rerank(context.Background(), Request{}, "q", []domain.RetrievalCandidate{
		{ChunkID: uuid.New(), Filename: "a.md", Content: "a"},
	})
	if out[0].RerankScore != 10 {
		t.Fatalf("score = %v, want clamped to 10", out[0].RerankScore)
	}
}
