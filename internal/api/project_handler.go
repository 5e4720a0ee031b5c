package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/goseo/internal/api/middleware"
	"github.com/jonesrussell/goseo/internal/database"
	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/logger"
)

// ProjectHandler handles project CRUD plus per-project reads.
type ProjectHandler struct {
	projects ProjectStore
	audits   AuditStore
	log      logger.Interface
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projects ProjectStore, audits AuditStore, log logger.Interface) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		audits:   audits,
		log:      log,
	}
}

// Create registers a new project for the caller.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	project := &domain.Project{
		ID:          uuid.NewString(),
		UserID:      middleware.UserID(c),
		Name:        req.Name,
		BaseURL:     req.BaseURL,
		NotifyEmail: req.NotifyEmail,
	}
	if err := h.projects.Create(c.Request.Context(), project); err != nil {
		h.log.Error("Failed to create project", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// List returns the caller's projects.
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.log.Error("Failed to list projects", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": projects})
}

// History returns the project's recent completed-audit scores, newest first.
func (h *ProjectHandler) History(c *gin.Context) {
	projectID := c.Param("id")

	if !h.ownProject(c, projectID) {
		return
	}

	history, err := h.audits.HistoryByProject(c.Request.Context(), projectID, historyLimit)
	if err != nil {
		h.log.Error("Failed to load history", "project_id", projectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project_id": projectID, "history": history})
}

// Actions returns the recommendations from the project's latest completed
// audit.
func (h *ProjectHandler) Actions(c *gin.Context) {
	projectID := c.Param("id")

	if !h.ownProject(c, projectID) {
		return
	}

	audit, err := h.audits.LatestCompletedByProject(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, database.ErrAuditNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no completed audit for project"})
			return
		}
		h.log.Error("Failed to load latest audit", "project_id", projectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load actions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project_id": projectID, "actions": audit.Recommendations})
}

// ownProject verifies the project belongs to the caller, writing the error
// response itself when it does not.
func (h *ProjectHandler) ownProject(c *gin.Context, projectID string) bool {
	_, err := h.projects.GetOwned(c.Request.Context(), projectID, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, database.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return false
		}
		h.log.Error("Failed to load project", "project_id", projectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return false
	}

	return true
}
