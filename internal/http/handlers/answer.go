package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/engine"
	"github.com/answergrid/answergrid-backend/internal/http/response"
)

type AnswerHandler struct {
	engine *engine.Engine
}

func NewAnswerHandler(eng *engine.Engine) *AnswerHandler {
	return &AnswerHandler{engine: eng}
}

type generateAnswerReq struct {
	TenantID  uuid.UUID  `json:"tenant_id" binding:"required"`
	Query     string     `json:"query" binding:"required"`
	SessionID *uuid.UUID `json:"session_id"`

	UseHyDE   bool `json:"use_hyde"`
	UseRerank bool `json:"use_rerank"`

	Provider string `json:"provider"`
	Model    string `json:"model"`

	ComplexityScore *int   `json:"complexity_score"`
	PricingIntent   *bool  `json:"pricing_intent"`
	ExternalContext string `json:"external_context"`
}

// POST /api/answers
func (h *AnswerHandler) GenerateAnswer(c *gin.Context) {
	var req generateAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	ans, err := h.engine.GenerateAnswer(c.Request.Context(), engine.Request{
		TenantID:        req.TenantID,
		SessionID:       req.SessionID,
		Query:           req.Query,
		UseHyDE:         req.UseHyDE,
		UseRerank:       req.UseRerank,
		Provider:        req.Provider,
		Model:           req.Model,
		ComplexityScore: req.ComplexityScore,
		PricingIntent:   req.PricingIntent,
		ExternalContext: req.ExternalContext,
	})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "generate_answer_failed", err)
		return
	}

	response.RespondOK(c, gin.H{
		"answer":         ans.Text,
		"requires_human": ans.RequiresHuman,
		"session_id":     ans.SessionID,
		"context_used":   ans.ContextUsed,
		"retries":        ans.Retries,
	})
}
