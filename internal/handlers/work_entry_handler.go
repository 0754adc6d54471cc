package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workpulse/workpulse-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WorkEntryHandler handles attendance and daily task-tracking HTTP requests
type WorkEntryHandler struct {
	workEntryService services.WorkEntryService
}

// NewWorkEntryHandler creates a new WorkEntryHandler
func NewWorkEntryHandler(workEntryService services.WorkEntryService) *WorkEntryHandler {
	return &WorkEntryHandler{
		workEntryService: workEntryService,
	}
}

// GetEntry handles GET /work-entries/:userId/:date
func (h *WorkEntryHandler) GetEntry(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format (YYYY-MM-DD)"})
		return
	}

	entry, err := h.workEntryService.GetEntry(c.Request.Context(), userID, date)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No work entry for this date"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve work entry: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}

// userIDRequest is the common payload for check-in/check-out
type userIDRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// CheckIn handles POST /work-entries/check-in
func (h *WorkEntryHandler) CheckIn(c *gin.Context) {
	var request userIDRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	entry, err := h.workEntryService.CheckIn(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// CheckOut handles POST /work-entries/check-out
func (h *WorkEntryHandler) CheckOut(c *gin.Context) {
	var request userIDRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	entry, err := h.workEntryService.CheckOut(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// entryTaskRequest is the payload for assign/complete/absent operations
type entryTaskRequest struct {
	UserID string `json:"userId" binding:"required"`
	Date   string `json:"date" binding:"required"`
	TaskID string `json:"taskId"`
}

func (r *entryTaskRequest) parse() (primitive.ObjectID, time.Time, error) {
	userID, err := primitive.ObjectIDFromHex(r.UserID)
	if err != nil {
		return primitive.NilObjectID, time.Time{}, errors.New("invalid user ID format")
	}
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return primitive.NilObjectID, time.Time{}, errors.New("invalid date format (YYYY-MM-DD)")
	}
	return userID, date, nil
}

// MarkAbsent handles POST /work-entries/absent
func (h *WorkEntryHandler) MarkAbsent(c *gin.Context) {
	var request entryTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, date, err := request.parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.workEntryService.MarkAbsent(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark absent: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// AssignTask handles POST /work-entries/assign
func (h *WorkEntryHandler) AssignTask(c *gin.Context) {
	var request entryTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.TaskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}
	userID, date, err := request.parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.workEntryService.AssignTask(c.Request.Context(), userID, date, request.TaskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign task: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// CompleteTask handles POST /work-entries/complete
func (h *WorkEntryHandler) CompleteTask(c *gin.Context) {
	var request entryTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.TaskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}
	userID, date, err := request.parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.workEntryService.CompleteTask(c.Request.Context(), userID, date, request.TaskID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}
