package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/metrics"
)

// AdminHandler serves the operator overview. Access control lives in the
// admin middleware.
type AdminHandler struct {
	users    UserStore
	counters *metrics.Metrics
	log      logger.Interface
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(users UserStore, counters *metrics.Metrics, log logger.Interface) *AdminHandler {
	return &AdminHandler{
		users:    users,
		counters: counters,
		log:      log,
	}
}

// Overview returns per-user aggregates and runtime processing counters.
func (h *AdminHandler) Overview(c *gin.Context) {
	users, err := h.users.Overview(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to build user overview", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build overview"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":   users,
		"runtime": h.counters.Snapshot(),
	})
}
