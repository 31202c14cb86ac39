package repository

import (
	"context"
	"errors"

	"acms/internal/database"
	"acms/internal/domain/skill"
)

var (
	ErrSkillNotFound = errors.New("skill not found")
	ErrSkillExists   = errors.New("skill already exists")
)

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]skill.Skill, error)
	GetBySlug(ctx context.Context, slug string) (skill.Skill, error)
	ExistingSlugs(ctx context.Context, slugs []string) ([]string, error)
	CreateSkill(ctx context.Context, s skill.Skill) (skill.Skill, error)
	UpdateSkill(ctx context.Context, slug string, name, categorySlug string) (skill.Skill, error)
	DeleteSkill(ctx context.Context, slug string) error
	DeleteAll(ctx context.Context) (int64, error)
}

const skillSelect = `SELECT s.slug, s.name, s.category_slug, c.name, s.created_at, s.updated_at
		 FROM skills s
		 JOIN categories c ON c.slug = s.category_slug`

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]skill.Skill, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, skillSelect+` ORDER BY s.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) GetBySlug(ctx context.Context, slug string) (skill.Skill, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx, skillSelect+` WHERE s.slug = $1`, slug)
	return scanSkill(row)
}

// ExistingSlugs returns the subset of slugs that name a stored skill.
func (r *PostgresSkillRepository) ExistingSlugs(ctx context.Context, slugs []string) ([]string, error) {
	out := make([]string, 0, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, `SELECT slug FROM skills WHERE slug = ANY($1) ORDER BY slug ASC`, slugs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) CreateSkill(ctx context.Context, s skill.Skill) (skill.Skill, error) {
	conn := database.Conn(ctx, r.db)
	_, err := conn.Exec(ctx,
		`INSERT INTO skills (slug, name, category_slug) VALUES ($1, $2, $3)`,
		s.Slug, s.Name, s.CategorySlug,
	)
	switch {
	case database.IsUniqueViolation(err):
		return skill.Skill{}, ErrSkillExists
	case database.IsForeignKeyViolation(err):
		return skill.Skill{}, ErrCategoryNotFound
	case err != nil:
		return skill.Skill{}, err
	}

	return scanSkill(conn.QueryRow(ctx, skillSelect+` WHERE s.slug = $1`, s.Slug))
}

func (r *PostgresSkillRepository) UpdateSkill(ctx context.Context, slug string, name, categorySlug string) (skill.Skill, error) {
	conn := database.Conn(ctx, r.db)
	rowsAffected, err := conn.Exec(ctx,
		`UPDATE skills SET name = $1, category_slug = $2, updated_at = now() WHERE slug = $3`,
		name, categorySlug, slug,
	)
	switch {
	case database.IsUniqueViolation(err):
		return skill.Skill{}, ErrSkillExists
	case database.IsForeignKeyViolation(err):
		return skill.Skill{}, ErrCategoryNotFound
	case err != nil:
		return skill.Skill{}, err
	}
	if rowsAffected == 0 {
		return skill.Skill{}, ErrSkillNotFound
	}

	return scanSkill(conn.QueryRow(ctx, skillSelect+` WHERE s.slug = $1`, slug))
}

func (r *PostgresSkillRepository) DeleteSkill(ctx context.Context, slug string) error {
	rowsAffected, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM skills WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *PostgresSkillRepository) DeleteAll(ctx context.Context) (int64, error) {
	return database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM skills`)
}

func scanSkill(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	if err := row.Scan(&s.Slug, &s.Name, &s.CategorySlug, &s.CategoryName, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}
