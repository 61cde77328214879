package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Gin context keys set by the auth chain
const (
	ContextKeyFirebaseUID = "firebase_uid"
	ContextKeyUserID      = "user_id"
	ContextKeyEmail       = "email"
)

var (
	errMissingHeader = errors.New("missing Authorization header")
	errBadScheme     = errors.New("authorization header must be Bearer <token>")
)

// TokenVerifier checks a Firebase ID token
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware verifies Firebase ID tokens on every request
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware builds a verifier for the Firebase project. Without a
// project ID it relies on GOOGLE_APPLICATION_CREDENTIALS.
func NewAuthMiddleware(ctx context.Context, projectID string) (*AuthMiddleware, error) {
	var conf *firebase.Config
	var opts []option.ClientOption
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	} else {
		opts = append(opts, option.WithoutAuthentication())
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase auth: %w", err)
	}
	return NewAuthMiddlewareWithVerifier(client), nil
}

// NewAuthMiddlewareWithVerifier uses an already configured verifier
func NewAuthMiddlewareWithVerifier(v TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: v}
}

// bearerToken pulls the token out of "Bearer <token>"
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", errBadScheme
	}
	return token, nil
}

// Authenticate stores the verified UID and email claim in the context
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		token, err := am.verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil {
			log.Warn().Err(err).Str("ip", c.ClientIP()).Msg("Rejected Firebase token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextKeyFirebaseUID, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(ContextKeyEmail, email)
		}

		c.Next()
	}
}

// GetFirebaseUID returns the verified Firebase UID, or ""
func GetFirebaseUID(c *gin.Context) string {
	return c.GetString(ContextKeyFirebaseUID)
}

// GetUserID returns the internal user UUID string, or "" before sign-in
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
