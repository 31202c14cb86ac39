package repository

import (
	"context"

	"acms/internal/database"
	"acms/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillRatingRepository interface {
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]skill.Rating, error)
	Upsert(ctx context.Context, rt skill.Rating) (skill.Rating, error)
}

const ratingSelect = `SELECT sr.id, sr.developer_profile_id, sr.skill_slug, sr.rating::float8, sr.comment, sr.created_at, sr.updated_at,
		 s.slug, s.name, s.category_slug, c.name, s.created_at, s.updated_at
		 FROM skill_ratings sr
		 JOIN skills s ON s.slug = sr.skill_slug
		 JOIN categories c ON c.slug = s.category_slug`

type PostgresSkillRatingRepository struct {
	db database.DB
}

func NewPostgresSkillRatingRepository(db database.DB) *PostgresSkillRatingRepository {
	return &PostgresSkillRatingRepository{db: db}
}

func (r *PostgresSkillRatingRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]skill.Rating, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, ratingSelect+`
		 WHERE sr.developer_profile_id = $1
		 ORDER BY s.name ASC`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Rating, 0)
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert keeps a single rating per profile and skill; rating the same skill
// again replaces the score and comment.
func (r *PostgresSkillRatingRepository) Upsert(ctx context.Context, rt skill.Rating) (skill.Rating, error) {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}

	conn := database.Conn(ctx, r.db)
	var id uuid.UUID
	err := conn.QueryRow(ctx,
		`INSERT INTO skill_ratings (id, developer_profile_id, skill_slug, rating, comment)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (developer_profile_id, skill_slug)
		 DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = now()
		 RETURNING id`,
		rt.ID, rt.DeveloperProfileID, rt.SkillSlug, rt.Rating, rt.Comment,
	).Scan(&id)
	if database.IsForeignKeyViolation(err) {
		return skill.Rating{}, ErrSkillNotFound
	}
	if err != nil {
		return skill.Rating{}, err
	}

	return scanRating(conn.QueryRow(ctx, ratingSelect+` WHERE sr.id = $1`, id))
}

func scanRating(row database.Row) (skill.Rating, error) {
	var rt skill.Rating
	err := row.Scan(
		&rt.ID, &rt.DeveloperProfileID, &rt.SkillSlug, &rt.Rating, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt,
		&rt.Skill.Slug, &rt.Skill.Name, &rt.Skill.CategorySlug, &rt.Skill.CategoryName, &rt.Skill.CreatedAt, &rt.Skill.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return skill.Rating{}, ErrSkillNotFound
		}
		return skill.Rating{}, err
	}
	return rt, nil
}
