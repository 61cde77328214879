package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/skillmatch-api/internal/config"
	"github.com/yourusername/skillmatch-api/internal/queue"
	"github.com/yourusername/skillmatch-api/internal/repository"
	"github.com/yourusername/skillmatch-api/internal/service"
)

// The worker drains match_recompute and publishes fresh rankings to
// match_updates. It needs RABBITMQ_URL.
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
	if cfg.RabbitMQURL == "" {
		log.Fatal().Msg("RABBITMQ_URL is required for the worker")
	}

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

	matchService := service.NewMatchService(service.MatchServiceDeps{
		Skills:       repository.NewSkillRepo(pool),
		Jobs:         repository.NewJobRepo(pool),
		Applications: repository.NewApplicationRepo(pool),
		Matches:      repository.NewMatchRepo(pool),
		Users:        repository.NewUserRepo(pool),
		Workers:      cfg.MatchWorkers,
	})

	// ── Messaging ────────────────────────────────────────
	publisher, err := queue.NewPublisher(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	defer publisher.Close()

	consumer := queue.NewConsumer(cfg.RabbitMQURL, matchService, publisher, cfg.QueueWorkers)

	log.Info().Int("workers", cfg.QueueWorkers).Str("queue", queue.RecomputeQueue).Msg("SkillMatch worker running")

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("Consumer stopped")
	}

	log.Info().Msg("Worker stopped")
}
