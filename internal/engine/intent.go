package engine

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/answergrid/answergrid-backend/internal/llm"
)

type intentDecision struct {
	RequiresRAG     bool   `json:"requires_rag"`
	RequiresHuman   bool   `json:"requires_human"`
	ComplexityScore int    `json:"complexity_score"`
	PricingIntent   bool   `json:"pricing_intent"`
	Reason          string `json:"reason"`
}

// classify asks the routing model what kind of request this is. Any
// failure, model or parse, yields the conservative default of running
// full retrieval so a real question is never silently dropped.
func (e *Engine) classify(ctx context.Context, req Request, standalone string) intentDecision {
	fallback := intentDecision{RequiresRAG: true, ComplexityScore: 5, Reason: "classifier unavailable"}

	callCtx, cancel := context.WithTimeout(ctx, e.opts.FastTimeout)
	defer cancel()

	system, user := promptIntent(standalone)
	out, err := e.models.Complete(callCtx, llm.StepIntent, req.Provider, req.Model, system, user)
	if err != nil {
		e.log.Warn("Intent classification failed, defaulting to retrieval", "error", err.Error())
		return fallback
	}

	var decision intentDecision
	if err := json.Unmarshal([]byte(extractJSON(out)), &decision); err != nil {
		e.log.Warn("Intent classification unparseable, defaulting to retrieval", "output", truncate(out, 200), "error", err.Error())
		return fallback
	}
	return decision
}

// extractJSON peels markdown code fences and any prose surrounding the
// first JSON object so lenient model output still parses.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
