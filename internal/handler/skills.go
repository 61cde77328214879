package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/skillmatch-api/internal/model"
)

// maxUploadBytes caps CV uploads
const maxUploadBytes = 10 << 20

type SkillHandler struct {
	skills SkillImporter
}

func NewSkillHandler(skills SkillImporter) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// List handles GET /skills
func (h *SkillHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	skills, err := h.skills.List(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list skills")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list skills"})
		return
	}

	c.JSON(http.StatusOK, skills)
}

// Update handles PUT /skills
// Replaces the manually entered skills; imported skills are untouched
func (h *SkillHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req model.UpdateSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skills, err := h.skills.ReplaceManual(c.Request.Context(), userID, req.Skills)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update skills")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update skills"})
		return
	}

	c.JSON(http.StatusOK, skills)
}

// Delete handles DELETE /skills/:id
func (h *SkillHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	skillID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill ID"})
		return
	}

	if err := h.skills.Delete(c.Request.Context(), userID, skillID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ImportCV handles POST /skills/import/cv (multipart field "file")
func (h *SkillHandler) ImportCV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File must be 10MB or smaller"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload"})
		return
	}

	skills, err := h.skills.ImportDocument(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		providerError(c, err, "Failed to import skills from CV")
		return
	}

	c.JSON(http.StatusOK, skills)
}

// ImportGithub handles POST /skills/import/github
func (h *SkillHandler) ImportGithub(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req model.ImportGithubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A GitHub login is required"})
		return
	}

	skills, err := h.skills.ImportGithub(c.Request.Context(), userID, req.Login)
	if err != nil {
		providerError(c, err, "Failed to import skills from GitHub")
		return
	}

	c.JSON(http.StatusOK, skills)
}

// ImportBlog handles POST /skills/import/blog
func (h *SkillHandler) ImportBlog(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req model.ImportBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid blog post URL is required"})
		return
	}

	skills, err := h.skills.ImportBlog(c.Request.Context(), userID, req.URL)
	if err != nil {
		providerError(c, err, "Failed to import skills from blog post")
		return
	}

	c.JSON(http.StatusOK, skills)
}

// ImportReview handles POST /skills/import/review
func (h *SkillHandler) ImportReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req model.ImportReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review text must be at least 50 characters"})
		return
	}

	skills, err := h.skills.Import(c.Request.Context(), userID, model.SourceReview, req.Text)
	if err != nil {
		providerError(c, err, "Failed to import skills from review")
		return
	}

	c.JSON(http.StatusOK, skills)
}
