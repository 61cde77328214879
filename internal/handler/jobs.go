package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/skillmatch-api/internal/model"
	"github.com/yourusername/skillmatch-api/internal/repository"
	"github.com/yourusername/skillmatch-api/internal/service"
)

type JobHandler struct {
	jobs     JobStore
	matcher  Matcher
	parser   service.PostingParser
	postings PostingSource
}

func NewJobHandler(jobs JobStore, matcher Matcher, parser service.PostingParser, postings PostingSource) *JobHandler {
	return &JobHandler{jobs: jobs, matcher: matcher, parser: parser, postings: postings}
}

// ListJobs handles GET /jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	filter := repository.JobFilter{
		Search:       strings.ToLower(c.Query("search")),
		LocationType: c.Query("location"),
	}

	jobs, err := h.jobs.List(c.Request.Context(), userID, filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list jobs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs"})
		return
	}

	if jobs == nil {
		jobs = []model.Job{}
	}

	c.JSON(http.StatusOK, jobs)
}

// GetJob handles GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
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

	c.JSON(http.StatusOK, job)
}

// CreateJob handles POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var job model.Job
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := model.ValidateStruct(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and company are required"})
		return
	}

	job.UserID = userID
	job.MatchScore = 0

	created, err := h.jobs.Create(c.Request.Context(), &job)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save job"})
		return
	}

	h.score(c, created)
	c.JSON(http.StatusCreated, created)
}

// UpdateJob handles PUT /jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
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

	var job model.Job
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := model.ValidateStruct(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and company are required"})
		return
	}

	job.ID = jobID
	job.UserID = userID

	updated, err := h.jobs.Update(c.Request.Context(), &job)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	h.score(c, updated)
	c.JSON(http.StatusOK, updated)
}

// DeleteJob handles DELETE /jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
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

	if err := h.jobs.Delete(c.Request.Context(), jobID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// score records a fresh match for a saved job. Failure leaves the stored
// score untouched and is only logged.
func (h *JobHandler) score(c *gin.Context, job *model.Job) {
	result, err := h.matcher.MatchJob(c.Request.Context(), job.UserID, job.ID, true)
	if err != nil {
		log.Warn().Err(err).Str("jobId", job.ID.String()).Msg("Failed to score job")
		return
	}
	job.MatchScore = result.MatchScore
}

// ParsePosting handles POST /jobs/parse
// Accepts either raw text or a URL and returns a draft job without saving it
func (h *JobHandler) ParsePosting(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
		URL  string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Text) == "" && strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either 'text' or 'url'"})
		return
	}

	content := req.Text
	if req.URL != "" {
		fetched, err := h.postings.PostingText(c.Request.Context(), req.URL)
		if err != nil {
			log.Warn().Err(err).Str("url", req.URL).Msg("Failed to fetch URL")
			if content == "" {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Could not fetch URL. Try pasting the job description text instead.",
				})
				return
			}
		} else if content != "" {
			content = "Source URL: " + req.URL + "\n\n" + content + "\n\nPage content:\n" + fetched
		} else {
			content = "Source URL: " + req.URL + "\n\n" + fetched
		}
	}

	parsed, err := h.parser.ParsePosting(c.Request.Context(), content)
	if err != nil {
		providerError(c, err, "Failed to parse job posting. Please try again or enter details manually.")
		return
	}

	if req.URL != "" && parsed.ApplyURL == "" {
		parsed.ApplyURL = req.URL
	}

	c.JSON(http.StatusOK, parsed)
}
