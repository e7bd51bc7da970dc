package llm

import "context"

// Step names one model-calling stage of the answer pipeline. Routing is
// configured per step so cheap stages can run on cheap models.
type Step string

const (
	StepContextualize    Step = "contextualize"
	StepIntent           Step = "intent"
	StepSearch           Step = "rag_search" // HyDE + rerank
	StepGeneration       Step = "generation"
	StepComplexReasoning Step = "complex_reasoning"
	StepGrading          Step = "grading"
	StepRewrite          Step = "rewrite"
	StepEmbedding        Step = "embedding"
)

// CompletionRequest is a single-shot prompt. Model overrides the provider's
// configured default when non-empty.
type CompletionRequest struct {
	Model  string
	System string
	User   string
}

// Provider is a callable completion/embedding client for one model vendor.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}
