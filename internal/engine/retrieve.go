package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/data/repos/docs"
	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/llm"
	"github.com/answergrid/answergrid-backend/internal/pkg/dbctx"
)

// retrieve runs hybrid search for one query. The embedded text is the
// HyDE expansion when enabled, while lexical search and reranking always
// use the real query. Every failure degrades to fewer (possibly zero)
// candidates instead of an error.
func (e *Engine) retrieve(ctx context.Context, req Request, query, original string) []domain.RetrievalCandidate {
	candidateLimit := e.opts.ResultLimit
	if req.UseRerank {
		candidateLimit = 4 * e.opts.ResultLimit
	}

	embedText := query
	if req.UseHyDE {
		if expanded := e.hyde(ctx, req, query); expanded != "" {
			embedText = expanded
		}
	}

	semantic := e.semanticHits(ctx, req, embedText, candidateLimit)
	lexical := e.lexicalHits(ctx, req.TenantID, query, candidateLimit)

	fused := fuseRRF(semantic, lexical, e.opts.RRFConstant, candidateLimit)

	if req.UseRerank && len(fused) > 0 {
		fused = e.rerank(ctx, req, original, fused)
	}
	if len(fused) > e.opts.ResultLimit {
		fused = fused[:e.opts.ResultLimit]
	}
	return fused
}

// hyde writes a hypothetical answer passage whose embedding tends to sit
// closer to real documentation than the raw question's. Empty string on
// failure means no expansion.
func (e *Engine) hyde(ctx context.Context, req Request, query string) string {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.FastTimeout)
	defer cancel()

	system, user := promptHyDE(query)
	out, err := e.models.Complete(callCtx, llm.StepSearch, req.Provider, req.Model, system, user)
	if err != nil {
		e.log.Warn("HyDE expansion failed, embedding the raw query", "error", err.Error())
		return ""
	}
	return strings.TrimSpace(out)
}

func (e *Engine) semanticHits(ctx context.Context, req Request, text string, limit int) []docs.SemanticHit {
	embedCtx, cancel := context.WithTimeout(ctx, e.opts.EmbedTimeout)
	defer cancel()

	embedding, err := e.models.Embed(embedCtx, llm.StepEmbedding, req.Provider, "", text)
	if err != nil {
		e.log.Warn("Query embedding failed, skipping semantic search", "error", err.Error())
		return nil
	}

	searchCtx, cancel2 := context.WithTimeout(ctx, e.opts.SearchTimeout)
	defer cancel2()

	hits, err := e.chunks.SemanticSearch(dbctx.Context{Ctx: searchCtx}, req.TenantID, embedding, limit)
	if err != nil {
		e.log.Warn("Semantic search failed, continuing lexical-only", "error", err.Error())
		return nil
	}
	return hits
}

func (e *Engine) lexicalHits(ctx context.Context, tenantID uuid.UUID, query string, limit int) []docs.LexicalHit {
	searchCtx, cancel := context.WithTimeout(ctx, e.opts.SearchTimeout)
	defer cancel()

	hits, err := e.chunks.LexicalSearch(dbctx.Context{Ctx: searchCtx}, tenantID, query, limit)
	if err != nil {
		e.log.Warn("Lexical search failed, continuing semantic-only", "error", err.Error())
		return nil
	}
	return hits
}

// fuseRRF merges the two ranked lists with reciprocal rank fusion:
// score(d) = sum over lists of 1/(rank+k), rank starting at 1. Ties
// break on chunk id so the merged order is deterministic.
func fuseRRF(semantic []docs.SemanticHit, lexical []docs.LexicalHit, k, limit int) []domain.RetrievalCandidate {
	type scored struct {
		candidate domain.RetrievalCandidate
		score     float64
	}
	byID := map[uuid.UUID]*scored{}

	add := func(chunk *domain.DocumentChunk, rank int) {
		s, ok := byID[chunk.ID]
		if !ok {
			s = &scored{candidate: domain.RetrievalCandidate{
				ChunkID:  chunk.ID,
				Filename: chunk.Filename,
				Content:  chunk.Content,
			}}
			byID[chunk.ID] = s
		}
		s.score += 1.0 / float64(rank+k)
	}

	for i, hit := range semantic {
		add(hit.Chunk, i+1)
	}
	for i, hit := range lexical {
		add(hit.Chunk, i+1)
	}

	merged := make([]*scored, 0, len(byID))
	for _, s := range byID {
		s.candidate.Score = s.score
		merged = append(merged, s)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].score != merged[j].score {
			return merged[i].score > merged[j].score
		}
		return merged[i].candidate.ChunkID.String() < merged[j].candidate.ChunkID.String()
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	out := make([]domain.RetrievalCandidate, len(merged))
	for i, s := range merged {
		out[i] = s.candidate
	}
	return out
}
