package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourusername/skillmatch-api/internal/model"
)

// MatchRepo stores match history rows
type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// Record appends a match result to history and refreshes the job's cached score
func (r *MatchRepo) Record(ctx context.Context, m *model.JobMatch) (*model.JobMatch, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var saved model.JobMatch
	err = tx.QueryRow(ctx, `
		INSERT INTO job_matches (user_id, job_id, match_score, matching_skills, missing_skills)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, job_id, match_score, matching_skills, missing_skills, created_at
	`, m.UserID, m.JobID, m.MatchScore, nonNil(m.MatchingSkills), nonNil(m.MissingSkills)).Scan(
		&saved.ID, &saved.UserID, &saved.JobID, &saved.MatchScore,
		&saved.MatchingSkills, &saved.MissingSkills, &saved.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("recording match: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE jobs SET match_score = $3 WHERE id = $1 AND user_id = $2
	`, m.JobID, m.UserID, m.MatchScore); err != nil {
		return nil, fmt.Errorf("caching match score: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return &saved, nil
}

// ListByJob returns match history for a job, newest first
func (r *MatchRepo) ListByJob(ctx context.Context, userID, jobID uuid.UUID, limit int) ([]model.JobMatch, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, job_id, match_score, matching_skills, missing_skills, created_at
		FROM job_matches
		WHERE user_id = $1 AND job_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing match history: %w", err)
	}
	defer rows.Close()

	var matches []model.JobMatch
	for rows.Next() {
		var m model.JobMatch
		if err := rows.Scan(&m.ID, &m.UserID, &m.JobID, &m.MatchScore,
			&m.MatchingSkills, &m.MissingSkills, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
