package engine

import (
	"context"
	"encoding/json"

	"github.com/answergrid/answergrid-backend/internal/llm"
)

type gradeVerdict struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// grade audits the answer against the retrieved context and the
// question: 1 accept, 0 reject, with the grader's stated reason for a
// rejection. Grading is fail-open; if the grader errors or returns
// garbage the answer is accepted rather than burning a retry on a
// broken judge.
func (e *Engine) grade(ctx context.Context, req Request, question, contextText, answer string) (int, string) {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.FastTimeout)
	defer cancel()

	system, user := promptGrade(question, contextText, answer)
	raw, err := e.models.Complete(callCtx, llm.StepGrading, req.Provider, req.Model, system, user)
	if err != nil {
		e.log.Warn("Grading failed, accepting answer", "error", err.Error())
		return 1, ""
	}

	var verdict gradeVerdict
	if err := json.Unmarshal([]byte(extractJSON(raw)), &verdict); err != nil {
		e.log.Warn("Grader output unparseable, accepting answer", "output", truncate(raw, 200))
		return 1, ""
	}
	if verdict.Score <= 0 {
		return 0, verdict.Reason
	}
	return 1, verdict.Reason
}
