package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/skillmatch-api/internal/model"
)

// UserLookup resolves a Firebase UID to a stored user
type UserLookup interface {
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error)
}

// ResolveUser maps the Firebase UID to the internal user UUID for all
// subsequent handlers. Unknown users pass through without a user ID so the
// sign-in route can create them.
func ResolveUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		firebaseUID := GetFirebaseUID(c)
		if firebaseUID == "" {
			c.Next()
			return
		}

		user, err := users.FindByFirebaseUID(c.Request.Context(), firebaseUID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to resolve user ID")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return
		}
		if user != nil {
			c.Set(ContextKeyUserID, user.ID.String())
		}

		c.Next()
	}
}
