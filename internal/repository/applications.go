package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourusername/skillmatch-api/internal/model"
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

const applicationColumns = `id, user_id, job_id, status, applied_at, notes, created_at, updated_at`

func scanApplication(row pgx.Row) (*model.Application, error) {
	var a model.Application
	err := row.Scan(
		&a.ID, &a.UserID, &a.JobID, &a.Status, &a.AppliedAt, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByJobID returns the application for a user's job
func (r *ApplicationRepo) FindByJobID(ctx context.Context, userID, jobID uuid.UUID) (*model.Application, error) {
	a, err := scanApplication(r.pool.QueryRow(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE user_id = $1 AND job_id = $2
	`, userID, jobID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding application: %w", err)
	}
	return a, nil
}

// StatusByJob returns job ID -> application status for every application a
// user has recorded. Jobs without an application are absent from the map.
func (r *ApplicationRepo) StatusByJob(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT job_id, status FROM applications
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing application statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[uuid.UUID]string)
	for rows.Next() {
		var jobID uuid.UUID
		var status string
		if err := rows.Scan(&jobID, &status); err != nil {
			return nil, fmt.Errorf("scanning application status: %w", err)
		}
		statuses[jobID] = status
	}
	return statuses, rows.Err()
}

// Create creates a new application
func (r *ApplicationRepo) Create(ctx context.Context, a *model.Application) (*model.Application, error) {
	created, err := scanApplication(r.pool.QueryRow(ctx, `
		INSERT INTO applications (user_id, job_id, status, applied_at, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+applicationColumns,
		a.UserID, a.JobID, a.Status, a.AppliedAt, a.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}
	return created, nil
}

// UpdateStatus changes application status and records history
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id, userID uuid.UUID, newStatus, note string) (*model.Application, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Get current status
	var currentStatus string
	err = tx.QueryRow(ctx, `
		SELECT status FROM applications WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&currentStatus)
	if err != nil {
		return nil, fmt.Errorf("fetching current status: %w", err)
	}

	updated, err := scanApplication(tx.QueryRow(ctx, `
		UPDATE applications
		SET status = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+applicationColumns, id, userID, newStatus))
	if err != nil {
		return nil, fmt.Errorf("updating application status: %w", err)
	}

	// Record status change history
	_, err = tx.Exec(ctx, `
		INSERT INTO status_history (application_id, from_status, to_status, note)
		VALUES ($1, $2, $3, $4)
	`, id, currentStatus, newStatus, note)
	if err != nil {
		return nil, fmt.Errorf("recording status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return updated, nil
}

// GetHistory returns status change history for an application
func (r *ApplicationRepo) GetHistory(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, application_id, from_status, to_status, changed_at, note
		FROM status_history
		WHERE application_id = $1
		ORDER BY changed_at ASC
	`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("fetching status history: %w", err)
	}
	defer rows.Close()

	var history []model.StatusHistory
	for rows.Next() {
		var h model.StatusHistory
		if err := rows.Scan(&h.ID, &h.ApplicationID, &h.FromStatus, &h.ToStatus, &h.ChangedAt, &h.Note); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
