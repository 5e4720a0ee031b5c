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

// ScheduleHandler handles recurring audit definitions.
type ScheduleHandler struct {
	projects  ProjectStore
	schedules ScheduleStore
	log       logger.Interface
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(projects ProjectStore, schedules ScheduleStore, log logger.Interface) *ScheduleHandler {
	return &ScheduleHandler{
		projects:  projects,
		schedules: schedules,
		log:       log,
	}
}

// Create registers a weekly audit slot for one of the caller's projects.
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID := middleware.UserID(c)
	if _, err := h.projects.GetOwned(c.Request.Context(), req.ProjectID, userID); err != nil {
		if errors.Is(err, database.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.log.Error("Failed to load project", "project_id", req.ProjectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create schedule"})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	schedule := &domain.Schedule{
		ID:        uuid.NewString(),
		ProjectID: req.ProjectID,
		UserID:    userID,
		URL:       req.URL,
		Weekday:   *req.Weekday,
		HourUTC:   *req.HourUTC,
		MinuteUTC: *req.MinuteUTC,
		Enabled:   enabled,
	}
	if err := h.schedules.Create(c.Request.Context(), schedule); err != nil {
		h.log.Error("Failed to create schedule", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create schedule"})
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// List returns the caller's schedules.
func (h *ScheduleHandler) List(c *gin.Context) {
	schedules, err := h.schedules.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.log.Error("Failed to list schedules", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": schedules})
}
