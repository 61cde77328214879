package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/skillmatch-api/internal/config"
	"github.com/yourusername/skillmatch-api/internal/handler"
	"github.com/yourusername/skillmatch-api/internal/middleware"
	"github.com/yourusername/skillmatch-api/internal/queue"
	"github.com/yourusername/skillmatch-api/internal/repository"
	"github.com/yourusername/skillmatch-api/internal/service"
	"github.com/yourusername/skillmatch-api/internal/storage"
)

// skillProvider is an AI backend that can read both profiles and postings
type skillProvider interface {
	service.SkillExtractor
	service.PostingParser
}

func main() {
	// ── Logging ──────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// ── Config ───────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("Starting SkillMatch API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Database ─────────────────────────────────────────
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connected")

	// ── Repositories ─────────────────────────────────────
	userRepo := repository.NewUserRepo(pool)
	skillRepo := repository.NewSkillRepo(pool)
	jobRepo := repository.NewJobRepo(pool)
	appRepo := repository.NewApplicationRepo(pool)
	matchRepo := repository.NewMatchRepo(pool)

	// ── External services ────────────────────────────────
	provider, err := newSkillProvider(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.AIProvider).Msg("Failed to initialize skill extractor")
	}
	pages := service.NewPageFetcher()
	github := service.NewGithubClient(cfg.GithubToken, "")

	skillDeps := service.SkillServiceDeps{
		Extractor: provider,
		Store:     skillRepo,
		Github:    github,
		Blogs:     pages,
	}

	if cfg.StorageEnabled() {
		store, err := storage.NewR2Store(ctx, storage.R2Config{
			AccountID: cfg.R2AccountID,
			Bucket:    cfg.R2Bucket,
			AccessKey: cfg.R2AccessKey,
			SecretKey: cfg.R2SecretKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 storage")
		}
		skillDeps.Archive = store
		log.Info().Str("bucket", cfg.R2Bucket).Msg("CV archiving enabled")
	}

	// Left as a nil interface when no broker is configured so handlers fall
	// back to inline recompute.
	var recomputeQueue handler.RecomputeQueue
	if cfg.RabbitMQURL != "" {
		publisher, err := queue.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		defer publisher.Close()
		recomputeQueue = publisher
		skillDeps.Notifier = publisher
		log.Info().Msg("RabbitMQ connected")
	}

	skillService := service.NewSkillService(skillDeps)
	matchService := service.NewMatchService(service.MatchServiceDeps{
		Skills:       skillRepo,
		Jobs:         jobRepo,
		Applications: appRepo,
		Matches:      matchRepo,
		Users:        userRepo,
		Workers:      cfg.MatchWorkers,
	})

	// ── Handlers ─────────────────────────────────────────
	authHandler := handler.NewAuthHandler(userRepo)
	profileHandler := handler.NewProfileHandler(userRepo)
	skillHandler := handler.NewSkillHandler(skillService)
	jobHandler := handler.NewJobHandler(jobRepo, matchService, provider, pages)
	matchHandler := handler.NewMatchHandler(matchService, matchRepo, recomputeQueue)
	appHandler := handler.NewApplicationHandler(appRepo, jobRepo)

	// ── Middleware ────────────────────────────────────────
	authMiddleware, err := middleware.NewAuthMiddleware(ctx, cfg.FirebaseProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase auth")
	}
	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimitRPS)

	// ── Router ───────────────────────────────────────────
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check (unauthenticated)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "skillmatch-api",
			"time":    time.Now().UTC(),
		})
	})

	// ── Authenticated Routes ─────────────────────────────
	api := r.Group("/", authMiddleware.Authenticate(), rateLimiter.Limit())
	{
		// After auth middleware verifies Firebase token, resolve internal user ID
		api.Use(middleware.ResolveUser(userRepo))

		// Auth
		api.POST("/auth/signin", authHandler.SignIn)

		// Profile
		api.GET("/profile", profileHandler.GetProfile)
		api.PUT("/profile", profileHandler.UpdateProfile)

		// Skills
		api.GET("/skills", skillHandler.List)
		api.PUT("/skills", skillHandler.Update)
		api.DELETE("/skills/:id", skillHandler.Delete)
		api.POST("/skills/import/cv", skillHandler.ImportCV)
		api.POST("/skills/import/github", skillHandler.ImportGithub)
		api.POST("/skills/import/blog", skillHandler.ImportBlog)
		api.POST("/skills/import/review", skillHandler.ImportReview)
		api.GET("/skills/gaps", matchHandler.Gaps)

		// Jobs
		api.GET("/jobs", jobHandler.ListJobs)
		api.POST("/jobs", jobHandler.CreateJob)
		api.POST("/jobs/parse", jobHandler.ParsePosting)
		api.GET("/jobs/ranked", matchHandler.Ranked)
		api.GET("/jobs/:id", jobHandler.GetJob)
		api.PUT("/jobs/:id", jobHandler.UpdateJob)
		api.DELETE("/jobs/:id", jobHandler.DeleteJob)

		// Matching
		api.GET("/jobs/:id/match", matchHandler.MatchJob)
		api.GET("/jobs/:id/match/history", matchHandler.History)
		api.POST("/matches/recompute", matchHandler.Recompute)

		// Applications
		api.GET("/jobs/:id/application", appHandler.Get)
		api.POST("/jobs/:id/application", appHandler.Create)
		api.PUT("/jobs/:id/application/status", appHandler.UpdateStatus)
		api.GET("/jobs/:id/application/history", appHandler.GetHistory)
	}

	// ── Server ───────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // skill extraction can take a while
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("SkillMatch API server running")

	<-ctx.Done()

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// newSkillProvider picks the AI backend named by AI_PROVIDER
func newSkillProvider(ctx context.Context, cfg *config.Config) (skillProvider, error) {
	switch cfg.AIProvider {
	case "gemini":
		client, err := service.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "")
		if err != nil {
			return nil, err
		}
		return client, nil
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY is required")
		}
		return service.NewClaudeClient(cfg.ClaudeAPIKey, cfg.ClaudeBaseURL, cfg.ClaudeModel), nil
	}
	return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
}

// requestLogger logs every request with zerolog
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 400 {
			event = log.Warn()
		}
		if status >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg(fmt.Sprintf("%s %s", c.Request.Method, path))
	}
}
