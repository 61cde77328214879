package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/skillmatch-api/internal/match"
	"github.com/yourusername/skillmatch-api/internal/model"
	"github.com/yourusername/skillmatch-api/internal/service"
)

const defaultGapJobs = 10

type MatchHandler struct {
	matcher Matcher
	history MatchHistory
	queue   RecomputeQueue
}

// NewMatchHandler builds the match endpoints. queue may be nil, in which case
// recompute runs inline.
func NewMatchHandler(matcher Matcher, history MatchHistory, queue RecomputeQueue) *MatchHandler {
	return &MatchHandler{matcher: matcher, history: history, queue: queue}
}

// Ranked handles GET /jobs/ranked?status=all|none|<status>
func (h *MatchHandler) Ranked(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ranked, err := h.matcher.RankedJobs(c.Request.Context(), userID, c.DefaultQuery("status", match.FilterAll))
	if err != nil {
		log.Error().Err(err).Msg("Failed to rank jobs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank jobs"})
		return
	}

	if ranked == nil {
		ranked = []match.RankedJob{}
	}
	c.JSON(http.StatusOK, ranked)
}

// MatchJob handles GET /jobs/:id/match?persist=true
func (h *MatchHandler) MatchJob(c *gin.Context) {
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

	persist := c.Query("persist") == "true"
	result, err := h.matcher.MatchJob(c.Request.Context(), userID, jobID, persist)
	if errors.Is(err, service.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to match job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to match job"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// History handles GET /jobs/:id/match/history
func (h *MatchHandler) History(c *gin.Context) {
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

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	history, err := h.history.ListByJob(c.Request.Context(), userID, jobID, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get match history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get match history"})
		return
	}

	if history == nil {
		history = []model.JobMatch{}
	}
	c.JSON(http.StatusOK, history)
}

// Gaps handles GET /skills/gaps?top=N
func (h *MatchHandler) Gaps(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	top := defaultGapJobs
	if v := c.Query("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top must be a non-negative integer"})
			return
		}
		top = n
	}

	gaps, err := h.matcher.SkillGaps(c.Request.Context(), userID, top)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute skill gaps")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute skill gaps"})
		return
	}

	if gaps == nil {
		gaps = []match.SkillGap{}
	}
	c.JSON(http.StatusOK, gaps)
}

// Recompute handles POST /matches/recompute
// Queues the work when a broker is configured, otherwise recomputes inline
func (h *MatchHandler) Recompute(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if h.queue != nil {
		if err := h.queue.RequestRecompute(c.Request.Context(), userID); err != nil {
			log.Error().Err(err).Msg("Failed to queue recompute")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to queue recompute"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"queued": true})
		return
	}

	ranking, err := h.matcher.RecomputeUser(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to recompute matches")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute matches"})
		return
	}

	jobs := ranking.Jobs
	if jobs == nil {
		jobs = []match.RankedJob{}
	}
	c.JSON(http.StatusOK, gin.H{"queued": false, "jobs": jobs})
}
