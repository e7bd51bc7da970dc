package domain

import "github.com/google/uuid"

// RetrievalCandidate is an ephemeral search hit. Candidates never outlive a
// single query invocation and are not cached across turns.
type RetrievalCandidate struct {
	ChunkID  uuid.UUID `json:"chunk_id"`
	Filename string    `json:"filename"`
	Content  string    `json:"content"`

	// Score is the fused RRF score (or the raw rank signal before fusion).
	Score float64 `json:"score"`

	// RerankScore is set only when the LLM reranker ran for this candidate.
	RerankScore float64 `json:"rerank_score,omitempty"`
}
