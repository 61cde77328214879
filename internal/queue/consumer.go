package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
	"github.com/yourusername/skillmatch-api/internal/match"
	"golang.org/x/sync/errgroup"
)

// Recomputer re-ranks users' jobs and stores the scores
type Recomputer interface {
	RecomputeUser(ctx context.Context, userID uuid.UUID) (match.Ranking, error)
	RecomputeAll(ctx context.Context) ([]match.Ranking, error)
}

// EventPublisher announces fresh rankings
type EventPublisher interface {
	PublishMatchUpdate(ctx context.Context, ev MatchEvent) error
}

// Consumer drains match_recompute with a pool of workers
type Consumer struct {
	url        string
	recomputer Recomputer
	events     EventPublisher
	workers    int
}

func NewConsumer(url string, recomputer Recomputer, events EventPublisher, workers int) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{url: url, recomputer: recomputer, events: events, workers: workers}
}

// Run consumes until ctx is canceled or a worker loses its channel
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("connecting to RabbitMQ: %w", err)
	}
	defer conn.Close()

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < c.workers; i++ {
		id := i + 1
		g.Go(func() error {
			return c.worker(gCtx, conn, id)
		})
	}

	log.Info().Int("workers", c.workers).Msg("Recompute consumer started")
	err = g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Consumer) worker(ctx context.Context, conn *amqp.Connection, id int) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	if err := declareTopology(ch); err != nil {
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("setting prefetch: %w", err)
	}

	msgs, err := ch.Consume(
		RecomputeQueue, // queue
		"",             // consumer tag
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("consuming %s: %w", RecomputeQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			if err := c.handle(ctx, msg.Body); err != nil {
				log.Error().Err(err).Int("worker", id).Msg("Recompute failed")
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}

// handle runs one recompute request and publishes the resulting events.
// Publish failures are logged; the scores are already stored.
func (c *Consumer) handle(ctx context.Context, body []byte) error {
	req, err := decodeRecompute(body)
	if err != nil {
		return err
	}

	var rankings []match.Ranking
	if req.UserID == "" {
		rankings, err = c.recomputer.RecomputeAll(ctx)
	} else {
		var r match.Ranking
		r, err = c.recomputer.RecomputeUser(ctx, uuid.MustParse(req.UserID))
		rankings = []match.Ranking{r}
	}
	if err != nil {
		return fmt.Errorf("recomputing matches: %w", err)
	}

	now := time.Now().UTC()
	for _, r := range rankings {
		if err := c.events.PublishMatchUpdate(ctx, NewMatchEvent(r, now)); err != nil {
			log.Warn().Err(err).Str("userId", r.UserID).Msg("Failed to publish match update")
		}
	}

	log.Info().Str("userId", req.UserID).Int("users", len(rankings)).Msg("Recompute handled")
	return nil
}
