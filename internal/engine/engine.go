package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/data/repos/docs"
	"github.com/answergrid/answergrid-backend/internal/domain"
	"github.com/answergrid/answergrid-backend/internal/llm"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

// fallbackAnswer is returned when answer synthesis itself fails. The
// pipeline never surfaces a hard error to the end user.
const fallbackAnswer = "I'm sorry, I'm having trouble answering right now. Please try again in a moment."

// fallbackHandoff covers the case where even the handoff message could
// not be generated.
const fallbackHandoff = "I'll connect you with a support agent who can help you further."

const handoffTag = "[HANDOFF]"

// ModelCaller invokes a routed model for one pipeline step.
type ModelCaller interface {
	Complete(ctx context.Context, step llm.Step, provider, model, system, user string) (string, error)
	Embed(ctx context.Context, step llm.Step, provider, model, text string) ([]float32, error)
}

// Memory reads and writes conversation history for a session.
type Memory interface {
	RecentTurns(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
	AppendExchange(ctx context.Context, sessionID uuid.UUID, question, answer string) error
}

// LanguageSource resolves a tenant's preferred-language hint. A missing
// tenant yields the empty string.
type LanguageSource interface {
	Languages(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// ExternalFetcher pulls supplemental live data (e.g. a pricing feed)
// injected above retrieved context in the synthesis prompt.
type ExternalFetcher interface {
	Fetch(ctx context.Context, tenantID uuid.UUID, query string) (string, error)
}

type Options struct {
	AssistantName string
	// MaxRetries bounds rewrite-and-retry cycles after the first attempt.
	// nil means the default of 2; an explicit 0 disables self-correction.
	MaxRetries  *int
	ResultLimit int // final candidate count handed to synthesis
	HistoryLimit  int // recent turns fed to contextualization
	RerankPreview int // candidate content chars shown to the rerank model
	RRFConstant   int

	// complexity_score at or above this routes synthesis to the
	// complex-reasoning model route.
	ComplexityThreshold int
	// complexity_score strictly below this, with no pricing intent and
	// no retrieval need, is treated as small talk.
	SmallTalkBelow int

	EmbedTimeout    time.Duration
	SearchTimeout   time.Duration
	FastTimeout     time.Duration // classification, rerank, grading, rewrite
	GenerateTimeout time.Duration
}

func (o *Options) normalize() {
	if o.AssistantName == "" {
		o.AssistantName = "the support assistant"
	}
	if o.MaxRetries == nil {
		v := 2
		o.MaxRetries = &v
	} else if *o.MaxRetries < 0 {
		v := 0
		o.MaxRetries = &v
	}
	if o.ResultLimit <= 0 {
		o.ResultLimit = 5
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = 10
	}
	if o.RerankPreview <= 0 {
		o.RerankPreview = 1000
	}
	if o.RRFConstant <= 0 {
		o.RRFConstant = 60
	}
	if o.ComplexityThreshold <= 0 {
		o.ComplexityThreshold = 7
	}
	if o.SmallTalkBelow <= 0 {
		o.SmallTalkBelow = 2
	}
	if o.EmbedTimeout <= 0 {
		o.EmbedTimeout = 8 * time.Second
	}
	if o.SearchTimeout <= 0 {
		o.SearchTimeout = 8 * time.Second
	}
	if o.FastTimeout <= 0 {
		o.FastTimeout = 15 * time.Second
	}
	if o.GenerateTimeout <= 0 {
		o.GenerateTimeout = 60 * time.Second
	}
}

// Engine runs the retrieve-synthesize-grade loop for one question.
type Engine struct {
	log     *logger.Logger
	models  ModelCaller
	memory  Memory
	chunks  docs.ChunkRepo
	tenants LanguageSource
	fetcher ExternalFetcher // optional
	opts    Options
}

func New(log *logger.Logger, models ModelCaller, memory Memory, chunks docs.ChunkRepo, tenants LanguageSource, fetcher ExternalFetcher, opts Options) *Engine {
	opts.normalize()
	return &Engine{
		log:     log.With("service", "AnswerEngine"),
		models:  models,
		memory:  memory,
		chunks:  chunks,
		tenants: tenants,
		fetcher: fetcher,
		opts:    opts,
	}
}

type Request struct {
	TenantID  uuid.UUID
	SessionID *uuid.UUID // nil means a stateless, memory-less call
	Query     string

	UseHyDE   bool
	UseRerank bool

	Provider string
	Model    string

	// Caller-supplied routing signals. When nil the Intent Classifier's
	// own values apply.
	ComplexityScore *int
	PricingIntent   *bool

	// Pre-fetched supplemental context; takes precedence over the
	// configured fetcher.
	ExternalContext string
}

type Answer struct {
	Text          string
	RequiresHuman bool
	SessionID     *uuid.UUID
	ContextUsed   string
	Retries       int
}

// GenerateAnswer runs the full pipeline. It degrades rather than fails:
// every upstream error is converted to a component-local fallback and
// the returned answer text is always non-empty.
func (e *Engine) GenerateAnswer(ctx context.Context, req Request) (*Answer, error) {
	log := e.log.With("tenant_id", req.TenantID.String())

	history := e.loadHistory(ctx, req, log)
	standalone := e.contextualize(ctx, req, history)

	decision := e.classify(ctx, req, standalone)
	if req.ComplexityScore != nil {
		decision.ComplexityScore = *req.ComplexityScore
	}
	if req.PricingIntent != nil {
		decision.PricingIntent = *req.PricingIntent
	}

	ans := &Answer{SessionID: req.SessionID}

	switch {
	case decision.RequiresHuman:
		ans.Text = e.handoffMessage(ctx, req, standalone)
		ans.RequiresHuman = true
	case e.isSmallTalk(decision):
		ans.Text = e.smallTalk(ctx, req, history, standalone)
	default:
		e.answerWithRetrieval(ctx, req, decision, history, standalone, ans, log)
	}

	e.persistExchange(ctx, req, ans.Text, log)
	return ans, nil
}

func (e *Engine) isSmallTalk(d intentDecision) bool {
	return !d.RequiresRAG && !d.PricingIntent && d.ComplexityScore < e.opts.SmallTalkBelow
}

// answerWithRetrieval is the corrective loop: retrieve, synthesize,
// grade, and while the grader rejects the answer, rewrite the query and
// retry, up to MaxRetries rewrites.
func (e *Engine) answerWithRetrieval(ctx context.Context, req Request, decision intentDecision, history []*domain.ChatMessage, standalone string, ans *Answer, log *logger.Logger) {
	external := req.ExternalContext
	if external == "" && decision.PricingIntent && e.fetcher != nil {
		fetched, err := e.fetcher.Fetch(ctx, req.TenantID, standalone)
		if err != nil {
			log.Warn("Supplemental context fetch failed, continuing without", "error", err.Error())
		} else {
			external = fetched
		}
	}

	query := standalone
	for {
		candidates := e.retrieve(ctx, req, query, standalone)
		contextText := contextBlock(candidates)

		text, synthesized := e.synthesize(ctx, req, decision, external, contextText, history, standalone)
		ans.Text = text
		ans.ContextUsed = contextText

		if tagged, stripped := detectHandoff(text); tagged {
			ans.Text = stripped
			ans.RequiresHuman = true
			return
		}
		if !synthesized {
			// Fallback apology: grading it would only burn a retry on a
			// provider outage.
			return
		}

		score, reason := e.grade(ctx, req, standalone, contextText, text)
		if score != 0 {
			return
		}
		if ans.Retries >= *e.opts.MaxRetries {
			return
		}
		rewritten, ok := e.rewrite(ctx, req, standalone, reason)
		if !ok {
			return
		}
		ans.Retries++
		query = rewritten
	}
}

func (e *Engine) loadHistory(ctx context.Context, req Request, log *logger.Logger) []*domain.ChatMessage {
	if req.SessionID == nil {
		return nil
	}
	turns, err := e.memory.RecentTurns(ctx, *req.SessionID, e.opts.HistoryLimit)
	if err != nil {
		log.Warn("History read failed, treating as first turn", "session_id", req.SessionID.String(), "error", err.Error())
		return nil
	}
	return turns
}

// Only the user's original question and the finally delivered answer are
// persisted; intermediate rejected answers and rewritten queries stay
// out of the transcript.
func (e *Engine) persistExchange(ctx context.Context, req Request, answer string, log *logger.Logger) {
	if req.SessionID == nil {
		return
	}
	if err := e.memory.AppendExchange(ctx, *req.SessionID, req.Query, answer); err != nil {
		log.Warn("Transcript write failed, continuing without persistence", "session_id", req.SessionID.String(), "error", err.Error())
	}
}

func historyText(turns []*domain.ChatMessage) string {
	if len(turns) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, t := range turns {
		sb.WriteString(t.Role)
		sb.WriteString(": ")
		sb.WriteString(t.Content)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func contextBlock(candidates []domain.RetrievalCandidate) string {
	if len(candidates) == 0 {
		return "(no relevant documents found)"
	}
	var sb strings.Builder
	for i, c := range candidates {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		sb.WriteString("[" + c.Filename + "]\n")
		sb.WriteString(c.Content)
	}
	return sb.String()
}

func detectHandoff(text string) (bool, string) {
	if !strings.Contains(text, handoffTag) {
		return false, text
	}
	stripped := strings.TrimSpace(strings.ReplaceAll(text, handoffTag, ""))
	if stripped == "" {
		stripped = fallbackHandoff
	}
	return true, stripped
}
