package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourusername/skillmatch-api/internal/model"
)

type JobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

const jobColumns = `id, user_id, title, company, location, description,
		       required_skills, preferred_skills, apply_url, match_score,
		       created_at, updated_at`

func scanJob(row pgx.Row) (*model.Job, error) {
	var j model.Job
	err := row.Scan(
		&j.ID, &j.UserID, &j.Title, &j.Company, &j.Location, &j.Description,
		&j.RequiredSkills, &j.PreferredSkills, &j.ApplyURL, &j.MatchScore,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// List returns all jobs for a user, with optional filters. Rows come back in
// creation order so that ranking ties stay predictable.
func (r *JobRepo) List(ctx context.Context, userID uuid.UUID, filter JobFilter) ([]model.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE user_id = $1
	`
	args := []any{userID}
	argIdx := 2

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (LOWER(title) LIKE $%d OR LOWER(company) LIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.LocationType == "remote" {
		query += " AND LOWER(location) LIKE '%remote%'"
	} else if filter.LocationType == "onsite" {
		query += " AND LOWER(location) NOT LIKE '%remote%'"
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		jobs = append(jobs, *j)
	}

	return jobs, rows.Err()
}

// ListByUser returns every job for a user without filters
func (r *JobRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Job, error) {
	return r.List(ctx, userID, JobFilter{})
}

// FindByID returns a single job
func (r *JobRepo) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.Job, error) {
	j, err := scanJob(r.pool.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE id = $1 AND user_id = $2
	`, id, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding job: %w", err)
	}
	return j, nil
}

// Create inserts a new job
func (r *JobRepo) Create(ctx context.Context, j *model.Job) (*model.Job, error) {
	created, err := scanJob(r.pool.QueryRow(ctx, `
		INSERT INTO jobs (user_id, title, company, location, description,
		                  required_skills, preferred_skills, apply_url, match_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+jobColumns,
		j.UserID, j.Title, j.Company, j.Location, j.Description,
		nonNil(j.RequiredSkills), nonNil(j.PreferredSkills), j.ApplyURL, j.MatchScore,
	))
	if err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}
	return created, nil
}

// Update updates a job
func (r *JobRepo) Update(ctx context.Context, j *model.Job) (*model.Job, error) {
	updated, err := scanJob(r.pool.QueryRow(ctx, `
		UPDATE jobs
		SET title = $3, company = $4, location = $5, description = $6,
		    required_skills = $7, preferred_skills = $8, apply_url = $9,
		    match_score = $10, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+jobColumns,
		j.ID, j.UserID, j.Title, j.Company, j.Location, j.Description,
		nonNil(j.RequiredSkills), nonNil(j.PreferredSkills), j.ApplyURL, j.MatchScore,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("updating job: %w", err)
	}
	return updated, nil
}

// Delete removes a job
func (r *JobRepo) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found")
	}
	return nil
}

// BatchUpdateMatchScores writes freshly computed scores for a user's jobs
func (r *JobRepo) BatchUpdateMatchScores(ctx context.Context, userID uuid.UUID, scores map[uuid.UUID]int) error {
	if len(scores) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for jobID, score := range scores {
		batch.Queue(`
			UPDATE jobs SET match_score = $3
			WHERE id = $1 AND user_id = $2
		`, jobID, userID, score)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("updating match score: %w", err)
		}
	}
	return nil
}

// JobFilter holds query parameters for listing jobs
type JobFilter struct {
	Search       string
	LocationType string // "", "remote", "onsite"
}

// nonNil keeps NOT NULL text[] columns from receiving NULL
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
