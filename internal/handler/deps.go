package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/skillmatch-api/internal/match"
	"github.com/yourusername/skillmatch-api/internal/middleware"
	"github.com/yourusername/skillmatch-api/internal/model"
	"github.com/yourusername/skillmatch-api/internal/repository"
	"github.com/yourusername/skillmatch-api/internal/service"
)

// ── Collaborators ────────────────────────────────────

type UserStore interface {
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, firebaseUID, email, name string) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, updates *model.User) (*model.User, error)
}

type JobStore interface {
	List(ctx context.Context, userID uuid.UUID, filter repository.JobFilter) ([]model.Job, error)
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.Job, error)
	Create(ctx context.Context, j *model.Job) (*model.Job, error)
	Update(ctx context.Context, j *model.Job) (*model.Job, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type ApplicationStore interface {
	FindByJobID(ctx context.Context, userID, jobID uuid.UUID) (*model.Application, error)
	Create(ctx context.Context, a *model.Application) (*model.Application, error)
	UpdateStatus(ctx context.Context, id, userID uuid.UUID, newStatus, note string) (*model.Application, error)
	GetHistory(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistory, error)
}

type MatchHistory interface {
	ListByJob(ctx context.Context, userID, jobID uuid.UUID, limit int) ([]model.JobMatch, error)
}

type SkillImporter interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.UserSkill, error)
	ReplaceManual(ctx context.Context, userID uuid.UUID, skills []model.ExtractedSkill) ([]model.UserSkill, error)
	Import(ctx context.Context, userID uuid.UUID, source, text string) ([]model.UserSkill, error)
	ImportDocument(ctx context.Context, userID uuid.UUID, filename, declaredType string, data []byte) ([]model.UserSkill, error)
	ImportGithub(ctx context.Context, userID uuid.UUID, login string) ([]model.UserSkill, error)
	ImportBlog(ctx context.Context, userID uuid.UUID, url string) ([]model.UserSkill, error)
	Delete(ctx context.Context, userID, skillID uuid.UUID) error
}

type Matcher interface {
	RankedJobs(ctx context.Context, userID uuid.UUID, statusFilter string) ([]match.RankedJob, error)
	MatchJob(ctx context.Context, userID, jobID uuid.UUID, persist bool) (*match.Result, error)
	SkillGaps(ctx context.Context, userID uuid.UUID, top int) ([]match.SkillGap, error)
	RecomputeUser(ctx context.Context, userID uuid.UUID) (match.Ranking, error)
}

// RecomputeQueue defers recompute work to the worker
type RecomputeQueue interface {
	RequestRecompute(ctx context.Context, userID uuid.UUID) error
}

// ── Helpers ──────────────────────────────────────────

// getUserID extracts and parses the user UUID from context
func getUserID(c *gin.Context) (uuid.UUID, error) {
	idStr := middleware.GetUserID(c)
	return uuid.Parse(idStr)
}

// providerError maps skill-extraction failures to a response
func providerError(c *gin.Context, err error, msg string) {
	var unsupported *service.ErrUnsupportedDocument
	var decodeErr *service.DecodeError
	var provErr *service.ProviderError

	switch {
	case errors.Is(err, service.ErrInvalidSource), errors.Is(err, service.ErrEmptySource):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &unsupported):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Upload a PDF, DOCX, or plain text file"})
	case errors.As(err, &decodeErr):
		log.Error().Err(err).Msg(msg)
		c.JSON(http.StatusBadGateway, gin.H{"error": "The skill extractor returned an unreadable answer. Please try again."})
	case errors.As(err, &provErr) && provErr.StatusCode == http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
	case service.IsRetryable(err):
		log.Warn().Err(err).Msg(msg)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Skill extraction is busy. Please try again shortly."})
	case errors.As(err, &provErr):
		log.Error().Err(err).Msg(msg)
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	default:
		log.Error().Err(err).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// PostingSource fetches a job posting page as text
type PostingSource interface {
	PostingText(ctx context.Context, url string) (string, error)
}
