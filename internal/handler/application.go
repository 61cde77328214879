package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/skillmatch-api/internal/model"
)

type ApplicationHandler struct {
	apps ApplicationStore
	jobs JobStore
}

func NewApplicationHandler(apps ApplicationStore, jobs JobStore) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, jobs: jobs}
}

// Get returns the application for a specific job
// GET /jobs/:id/application
func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	app, err := h.apps.FindByJobID(c.Request.Context(), userID, jobID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get application")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get application"})
		return
	}

	// Return null (not 404) so clients can distinguish "no application yet" from errors
	if app == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, app)
}

// Create creates a new application for a job
// POST /jobs/:id/application
func (h *ApplicationHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var req model.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Default status to "applied" if not specified
	status := req.Status
	if status == "" {
		status = model.StatusApplied
	}
	if !model.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	job, err := h.jobs.FindByID(c.Request.Context(), jobID, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get job"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	var appliedAt *time.Time
	if req.AppliedAt != nil {
		if t, err := time.Parse(time.RFC3339, *req.AppliedAt); err == nil {
			appliedAt = &t
		}
	}

	created, err := h.apps.Create(c.Request.Context(), &model.Application{
		UserID:    userID,
		JobID:     jobID,
		Status:    status,
		AppliedAt: appliedAt,
		Notes:     req.Notes,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create application")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateStatus changes the application status and records history
// PUT /jobs/:id/application/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Validate() != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	if !model.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	app, err := h.apps.FindByJobID(c.Request.Context(), userID, jobID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to find application")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find application"})
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	updated, err := h.apps.UpdateStatus(c.Request.Context(), app.ID, userID, req.Status, req.Note)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update application status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetHistory returns the status change timeline for a job's application
// GET /jobs/:id/application/history
func (h *ApplicationHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	app, err := h.apps.FindByJobID(c.Request.Context(), userID, jobID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to find application")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find application"})
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	history, err := h.apps.GetHistory(c.Request.Context(), app.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get application history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get history"})
		return
	}

	if history == nil {
		history = []model.StatusHistory{}
	}

	c.JSON(http.StatusOK, history)
}
