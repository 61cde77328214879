package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/skillmatch-api/internal/middleware"
	"github.com/yourusername/skillmatch-api/internal/model"
)

type AuthHandler struct {
	users UserStore
}

func NewAuthHandler(users UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

// SignIn handles POST /auth/signin
// Creates or fetches a user based on the verified Firebase token
func (h *AuthHandler) SignIn(c *gin.Context) {
	firebaseUID := middleware.GetFirebaseUID(c)
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	email, _ := c.Get(middleware.ContextKeyEmail)
	emailStr, _ := email.(string)

	user, err := h.users.FindByFirebaseUID(c.Request.Context(), firebaseUID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if user == nil {
		var req struct {
			Name string `json:"name"`
		}
		_ = c.ShouldBindJSON(&req)

		user, err = h.users.Create(c.Request.Context(), firebaseUID, emailStr, req.Name)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}
		log.Info().Str("uid", firebaseUID).Msg("New user created")
		c.JSON(http.StatusCreated, user)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ProfileHandler handles profile reads and updates
type ProfileHandler struct {
	users UserStore
}

func NewProfileHandler(users UserStore) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var updates model.User
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.users.Update(c.Request.Context(), userID, &updates)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, updated)
}
