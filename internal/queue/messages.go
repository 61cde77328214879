// Package queue carries match recompute requests and match update events
// over RabbitMQ.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/skillmatch-api/internal/match"
)

const (
	// UpdatesExchange is a topic exchange; events are routed as user.<id>
	UpdatesExchange = "match_updates"
	// RecomputeQueue holds pending recompute requests
	RecomputeQueue = "match_recompute"
)

// RecomputeRequest asks the worker to re-rank one user, or every user when
// UserID is empty.
type RecomputeRequest struct {
	UserID      string    `json:"userId,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// JobScore is one job's fresh score inside a MatchEvent
type JobScore struct {
	JobID      string `json:"jobId"`
	MatchScore int    `json:"matchScore"`
}

// MatchEvent announces that a user's match scores changed
type MatchEvent struct {
	UserID     string     `json:"userId"`
	Jobs       []JobScore `json:"jobs"`
	ComputedAt time.Time  `json:"computedAt"`
}

// NewMatchEvent summarizes a ranking for subscribers
func NewMatchEvent(r match.Ranking, at time.Time) MatchEvent {
	jobs := make([]JobScore, 0, len(r.Jobs))
	for _, j := range r.Jobs {
		jobs = append(jobs, JobScore{JobID: j.ID, MatchScore: j.MatchScore})
	}
	return MatchEvent{UserID: r.UserID, Jobs: jobs, ComputedAt: at}
}

func routingKey(userID string) string {
	return fmt.Sprintf("user.%s", userID)
}

// decodeRecompute parses a queue message. An empty body means "everyone".
func decodeRecompute(body []byte) (RecomputeRequest, error) {
	var req RecomputeRequest
	if len(body) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("decoding recompute request: %w", err)
	}
	if req.UserID != "" {
		if _, err := uuid.Parse(req.UserID); err != nil {
			return req, fmt.Errorf("invalid user id %q: %w", req.UserID, err)
		}
	}
	return req, nil
}
