package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workpulse/workpulse-backend/internal/services"
)

// RolloverHandler handles the batch trigger endpoint and run log queries
type RolloverHandler struct {
	rolloverService services.RolloverService
}

// NewRolloverHandler creates a new RolloverHandler
func NewRolloverHandler(rolloverService services.RolloverService) *RolloverHandler {
	return &RolloverHandler{
		rolloverService: rolloverService,
	}
}

// TriggerRollover handles POST /rollover/trigger. It is invoked by an
// external scheduler; repeated triggers are safe. Partial failures are
// reported in the body with a 200 status so the scheduler does not retry
// the whole batch.
func (h *RolloverHandler) TriggerRollover(c *gin.Context) {
	outcome, err := h.rolloverService.Trigger(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rollover batch failed: " + err.Error()})
		return
	}

	if !outcome.ShouldRun {
		c.JSON(http.StatusOK, gin.H{
			"message":     "Outside rollover execution window, skipping",
			"currentTime": outcome.CurrentTime.Format(time.RFC3339),
			"shouldRun":   false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Rollover batch executed",
		"currentTime": outcome.CurrentTime.Format(time.RFC3339),
		"result":      outcome.Result,
		"shouldRun":   true,
	})
}

// GetRecentRuns handles GET /rollover/runs
func (h *RolloverHandler) GetRecentRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}

	runs, err := h.rolloverService.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rollover runs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}
