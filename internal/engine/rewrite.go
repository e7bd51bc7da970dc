package engine

import (
	"context"
	"strings"

	"github.com/answergrid/answergrid-backend/internal/llm"
)

// rewrite reformulates the question as a better retrieval query using
// the grader's rejection reason. ok=false means no usable rewrite came
// back; retrying the same query would only reproduce the rejected
// answer, so the caller stops there.
func (e *Engine) rewrite(ctx context.Context, req Request, question, failureReason string) (string, bool) {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.FastTimeout)
	defer cancel()

	system, user := promptRewrite(question, failureReason)
	out, err := e.models.Complete(callCtx, llm.StepRewrite, req.Provider, req.Model, system, user)
	if err != nil {
		e.log.Warn("Query rewrite failed, keeping the last answer", "error", err.Error())
		return "", false
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", false
	}
	return out, true
}
