package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourusername/skillmatch-api/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, firebase_uid, email, name, headline, location,
		       github_login, blog_url, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.FirebaseUID, &u.Email, &u.Name, &u.Headline, &u.Location,
		&u.GithubLogin, &u.BlogURL, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByFirebaseUID looks up a user by their Firebase UID
func (r *UserRepo) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE firebase_uid = $1
	`, firebaseUID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user by firebase uid: %w", err)
	}
	return u, nil
}

// FindByID looks up a user by internal UUID
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user
func (r *UserRepo) Create(ctx context.Context, firebaseUID, email, name string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (firebase_uid, email, name)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns, firebaseUID, email, name))
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// Update updates a user's profile fields
func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, updates *model.User) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, headline = $3, location = $4, github_login = $5,
		    blog_url = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, updates.Name, updates.Headline, updates.Location, updates.GithubLogin, updates.BlogURL,
	))
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return u, nil
}

// ListIDs returns every user ID, used by batch recompute
func (r *UserRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing user ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
