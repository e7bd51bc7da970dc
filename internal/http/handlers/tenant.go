package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/answergrid/answergrid-backend/internal/http/response"
	pkgerrors "github.com/answergrid/answergrid-backend/internal/pkg/errors"
	"github.com/answergrid/answergrid-backend/internal/services"
)

type TenantHandler struct {
	tenants services.TenantService
}

func NewTenantHandler(tenants services.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

type createTenantReq struct {
	Name               string `json:"name" binding:"required"`
	PreferredLanguages string `json:"preferred_languages"`
}

// POST /api/tenants
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req createTenantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tenant, err := h.tenants.Create(c.Request.Context(), req.Name, req.PreferredLanguages)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "create_tenant_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"tenant": tenant})
}

// GET /api/tenants/:id
func (h *TenantHandler) GetTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_tenant_id", err)
		return
	}
	tenant, err := h.tenants.Get(c.Request.Context(), tenantID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "tenant_not_found", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "get_tenant_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"tenant": tenant})
}
