package engine

import (
	"context"
	"strings"

	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/llm"
)

// contextualize rewrites a follow-up question into a standalone one
// using the conversation history. With no history the question passes
// through untouched; any model failure falls back to the original
// question.
func (e *Engine) contextualize(ctx context.Context, req Request, history []*domain.ChatMessage) string {
	question := strings.TrimSpace(req.Query)
	if len(history) == 0 {
		return question
	}

	callCtx, cancel := context.WithTimeout(ctx, e.opts.FastTimeout)
	defer cancel()

	system, user := promptContextualize(historyText(history), question)
	out, err := e.models.Complete(callCtx, llm.StepContextualize, req.Provider, req.Model, system, user)
	if err != nil {
		e.log.Warn("Contextualization failed, using original question", "error", err.Error())
		return question
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return question
	}
	return out
}
