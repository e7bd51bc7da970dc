package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/http/response"
	pkgerrors "github.com/answergrid/answergrid-backend/internal/pkg/errors"
	"github.com/answergrid/answergrid-backend/internal/services"
)

type SessionHandler struct {
	memory services.MemoryService
}

func NewSessionHandler(memory services.MemoryService) *SessionHandler {
	return &SessionHandler{memory: memory}
}

type createSessionReq struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
}

// POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, err := h.memory.CreateSession(c.Request.Context(), req.TenantID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "create_session_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"session": session})
}

// GET /api/sessions/:id/messages?limit=20
// Without limit the full transcript comes back.
func (h *SessionHandler) GetMessages(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}

	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		limit, convErr := strconv.Atoi(v)
		if convErr != nil || limit <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", convErr)
			return
		}
		turns, listErr := h.memory.RecentTurns(c.Request.Context(), sessionID, limit)
		if listErr != nil {
			response.RespondError(c, http.StatusBadRequest, "list_messages_failed", listErr)
			return
		}
		response.RespondOK(c, gin.H{"messages": turns})
		return
	}

	turns, err := h.memory.FullTranscript(c.Request.Context(), sessionID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "list_messages_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"messages": turns})
}

// DELETE /api/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	if err := h.memory.DeleteSession(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "session_not_found", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "delete_session_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
