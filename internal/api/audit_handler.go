package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/goseo/internal/api/middleware"
	"github.com/jonesrussell/goseo/internal/database"
	"github.com/jonesrussell/goseo/internal/dispatch"
	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/report"
)

// AuditHandler handles audit triggering and result reads.
type AuditHandler struct {
	projects   ProjectStore
	audits     AuditStore
	dispatcher dispatch.Dispatcher
	log        logger.Interface
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(
	projects ProjectStore,
	audits AuditStore,
	dispatcher dispatch.Dispatcher,
	log logger.Interface,
) *AuditHandler {
	return &AuditHandler{
		projects:   projects,
		audits:     audits,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Start creates a queued audit and hands it to the dispatcher.
func (h *AuditHandler) Start(c *gin.Context) {
	var req startAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if _, err := h.projects.GetOwned(c.Request.Context(), req.ProjectID, middleware.UserID(c)); err != nil {
		if errors.Is(err, database.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.log.Error("Failed to load project", "project_id", req.ProjectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start audit"})
		return
	}

	audit := &domain.AuditResult{
		ID:        uuid.NewString(),
		ProjectID: req.ProjectID,
		URL:       req.URL,
		Status:    domain.AuditStatusQueued,
	}
	if err := h.audits.Create(c.Request.Context(), audit); err != nil {
		h.log.Error("Failed to create audit", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start audit"})
		return
	}

	if err := h.dispatcher.Dispatch(c.Request.Context(), audit.ID); err != nil {
		h.log.Error("Failed to dispatch audit", "audit_id", audit.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to dispatch audit"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"audit_id": audit.ID, "status": audit.Status})
}

// Status returns the audit's lifecycle state.
func (h *AuditHandler) Status(c *gin.Context) {
	audit, ok := h.loadOwned(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_id": audit.ID, "status": audit.Status})
}

// Results returns the full audit row. Failed audits read identically to
// completed ones, with the error field populated and empty findings.
func (h *AuditHandler) Results(c *gin.Context) {
	audit, ok := h.loadOwned(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, audit)
}

// Report streams the PDF rendering of a completed audit as a download.
func (h *AuditHandler) Report(c *gin.Context) {
	audit, ok := h.loadOwned(c)
	if !ok {
		return
	}

	if audit.Status != domain.AuditStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "audit is not completed yet"})
		return
	}

	pdf, err := report.PDFBytes(audit)
	if err != nil {
		h.log.Error("Failed to render report", "audit_id", audit.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "seo-audit-"+audit.ID+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// loadOwned fetches the audit for the caller, writing the error response
// itself when the lookup fails.
func (h *AuditHandler) loadOwned(c *gin.Context) (*domain.AuditResult, bool) {
	auditID := c.Param("id")

	audit, err := h.audits.GetOwned(c.Request.Context(), auditID, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, database.ErrAuditNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "audit not found"})
			return nil, false
		}
		h.log.Error("Failed to load audit", "audit_id", auditID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit"})
		return nil, false
	}

	return audit, true
}
