package engine

import (
	"context"
	"strings"

	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/llm"
)

// synthesize produces the user-facing answer. High complexity routes to
// the complex-reasoning model. The second return value reports whether a
// real model answer came back; false means the apology fallback.
func (e *Engine) synthesize(ctx context.Context, req Request, decision intentDecision, external, contextText string, history []*domain.ChatMessage, question string) (string, bool) {
	step := llm.StepGeneration
	if decision.ComplexityScore >= e.opts.ComplexityThreshold {
		step = llm.StepComplexReasoning
	}

	languages := e.preferredLanguages(ctx, req)

	callCtx, cancel := context.WithTimeout(ctx, e.opts.GenerateTimeout)
	defer cancel()

	system, user := promptAnswer(e.opts.AssistantName, languages, external, contextText, historyText(history), question)
	out, err := e.models.Complete(callCtx, step, req.Provider, req.Model, system, user)
	if err != nil {
		e.log.Error("Answer synthesis failed, returning fallback", "step", string(step), "error", err.Error())
		return fallbackAnswer, false
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return fallbackAnswer, false
	}
	return out, true
}

func (e *Engine) smallTalk(ctx context.Context, req Request, history []*domain.ChatMessage, question string) string {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.GenerateTimeout)
	defer cancel()

	system, user := promptSmallTalk(e.opts.AssistantName, historyText(history), question)
	out, err := e.models.Complete(callCtx, llm.StepGeneration, req.Provider, req.Model, system, user)
	if err != nil {
		e.log.Warn("Small-talk reply failed, returning fallback", "error", err.Error())
		return fallbackAnswer
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return fallbackAnswer
	}
	return out
}

func (e *Engine) handoffMessage(ctx context.Context, req Request, question string) string {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.FastTimeout)
	defer cancel()

	system, user := promptHandoff(e.opts.AssistantName, question)
	out, err := e.models.Complete(callCtx, llm.StepGeneration, req.Provider, req.Model, system, user)
	if err != nil {
		e.log.Warn("Handoff message generation failed, returning fixed text", "error", err.Error())
		return fallbackHandoff
	}
	// The model sometimes echoes the tag it was taught elsewhere.
	_, stripped := detectHandoff(out)
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return fallbackHandoff
	}
	return stripped
}

func (e *Engine) preferredLanguages(ctx context.Context, req Request) string {
	if e.tenants == nil {
		return ""
	}
	languages, err := e.tenants.Languages(ctx, req.TenantID)
	if err != nil {
		e.log.Warn("Preferred languages lookup failed", "tenant_id", req.TenantID.String(), "error", err.Error())
		return ""
	}
	return languages
}
