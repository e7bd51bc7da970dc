package engine

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/llm"
)

type rerankVerdict struct {
	Score int `json:"score"`
}

// rerank scores each candidate against the original query with one
// model call per candidate and reorders descending. A failed or
// unparseable call scores that candidate 0: demoted, never discarded.
func (e *Engine) rerank(ctx context.Context, req Request, query string, candidates []domain.RetrievalCandidate) []domain.RetrievalCandidate {
	out := make([]domain.RetrievalCandidate, len(candidates))
	copy(out, candidates)

	for i := range out {
		out[i].RerankScore = float64(e.scoreCandidate(ctx, req, query, out[i]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RerankScore > out[j].RerankScore
	})
	return out
}

func (e *Engine) scoreCandidate(ctx context.Context, req Request, query string, c domain.RetrievalCandidate) int {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.FastTimeout)
	defer cancel()

	system, user := promptRerank(query, truncate(c.Content, e.opts.RerankPreview))
	raw, err := e.models.Complete(callCtx, llm.StepSearch, req.Provider, req.Model, system, user)
	if err != nil {
		e.log.Warn("Rerank call failed, demoting candidate", "chunk_id", c.ChunkID.String(), "error", err.Error())
		return 0
	}

	var verdict rerankVerdict
	if err := json.Unmarshal([]byte(extractJSON(raw)), &verdict); err != nil {
		e.log.Warn("Rerank output unparseable, demoting candidate", "chunk_id", c.ChunkID.String(), "output", truncate(raw, 200))
		return 0
	}
	if verdict.Score < 0 {
		return 0
	}
	if verdict.Score > 10 {
		return 10
	}
	return verdict.Score
}
