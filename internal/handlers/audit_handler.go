package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/pagination"
	"tally/internal/services"
)

// AuditHandler handles audit-log listing requests
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List handles listing audit log entries
// @Summary     List audit logs
// @Description List audit log entries, newest first (admin only)
// @Tags        audit
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated audit logs"
// @Failure     403 {object} map[string]interface{} "Forbidden"
// @Router      /admin/audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	logs, err := h.auditService.GetAuditLogs(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}
