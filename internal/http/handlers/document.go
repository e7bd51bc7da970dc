package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/http/response"
	"github.com/answergrid/answergrid-backend/internal/services"
)

type DocumentHandler struct {
	documents services.DocumentService
}

func NewDocumentHandler(documents services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

type ingestDocumentReq struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Filename string    `json:"filename" binding:"required"`
	Content  string    `json:"content" binding:"required"`
}

// POST /api/documents
func (h *DocumentHandler) Ingest(c *gin.Context) {
	var req ingestDocumentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	chunks, err := h.documents.Ingest(c.Request.Context(), req.TenantID, req.Filename, req.Content)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "ingest_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"filename": req.Filename, "chunks": chunks})
}

// DELETE /api/documents?tenant_id=...&filename=...
// Omitting filename removes every document for the tenant.
func (h *DocumentHandler) Delete(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Query("tenant_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_tenant_id", err)
		return
	}

	filename := c.Query("filename")
	var deleted int64
	if filename != "" {
		deleted, err = h.documents.DeleteFile(c.Request.Context(), tenantID, filename)
	} else {
		deleted, err = h.documents.DeleteTenantDocuments(c.Request.Context(), tenantID)
	}
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": deleted})
}
