package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourusername/skillmatch-api/internal/match"
	"github.com/yourusername/skillmatch-api/internal/model"
)

type SkillRepo struct {
	pool *pgxpool.Pool
}

func NewSkillRepo(pool *pgxpool.Pool) *SkillRepo {
	return &SkillRepo{pool: pool}
}

const skillColumns = `id, user_id, name, category, confidence, is_explicit, evidence,
		       proficiency_level, source, created_at, updated_at`

func scanSkill(row pgx.Row) (model.UserSkill, error) {
	var s model.UserSkill
	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.Category, &s.Confidence, &s.IsExplicit,
		&s.Evidence, &s.ProficiencyLevel, &s.Source, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// ListByUser returns a user's skills, most confident first
func (r *SkillRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserSkill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+skillColumns+`
		FROM user_skills
		WHERE user_id = $1
		ORDER BY confidence DESC, name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}
	defer rows.Close()

	var skills []model.UserSkill
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// Merge upserts extracted skills for a user. Skills are keyed by their
// normalized name; on conflict the higher-confidence record wins.
func (r *SkillRepo) Merge(ctx context.Context, userID uuid.UUID, source string, skills []model.ExtractedSkill) error {
	batch := mergeBatch(userID, source, skills)
	if batch.Len() == 0 {
		return nil
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("merging skill %d: %w", i, err)
		}
	}
	return nil
}

const mergeSkillSQL = `
	INSERT INTO user_skills (user_id, name, name_key, category, confidence,
	                         is_explicit, evidence, proficiency_level, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (user_id, name_key) DO UPDATE SET
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		confidence = EXCLUDED.confidence,
		is_explicit = EXCLUDED.is_explicit,
		evidence = EXCLUDED.evidence,
		proficiency_level = EXCLUDED.proficiency_level,
		source = EXCLUDED.source,
		updated_at = now()
	WHERE user_skills.confidence <= EXCLUDED.confidence
`

// mergeBatch queues one upsert per named skill; blank names are skipped
func mergeBatch(userID uuid.UUID, source string, skills []model.ExtractedSkill) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, s := range skills {
		key := match.Normalize(s.Name)
		if key == "" {
			continue
		}
		batch.Queue(mergeSkillSQL, userID, s.Name, key, s.Category, s.Confidence, s.IsExplicit,
			s.Evidence, s.ProficiencyLevel, source)
	}
	return batch
}

// ReplaceManual swaps the user's manually entered skills for a new list
func (r *SkillRepo) ReplaceManual(ctx context.Context, userID uuid.UUID, skills []model.ExtractedSkill) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM user_skills WHERE user_id = $1 AND source = $2
	`, userID, model.SourceManual); err != nil {
		return fmt.Errorf("clearing manual skills: %w", err)
	}

	for _, s := range skills {
		key := match.Normalize(s.Name)
		if key == "" {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO user_skills (user_id, name, name_key, category, confidence,
			                         is_explicit, evidence, proficiency_level, source)
			VALUES ($1, $2, $3, $4, 1, true, '', $5, $6)
			ON CONFLICT (user_id, name_key) DO UPDATE SET
				name = EXCLUDED.name,
				confidence = 1,
				is_explicit = true,
				proficiency_level = EXCLUDED.proficiency_level,
				source = EXCLUDED.source,
				updated_at = now()
		`, userID, s.Name, key, s.Category, s.ProficiencyLevel, model.SourceManual)
		if err != nil {
			return fmt.Errorf("inserting manual skill: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Delete removes a single skill
func (r *SkillRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM user_skills WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting skill: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("skill not found")
	}
	return nil
}
