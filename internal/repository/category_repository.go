package repository

import (
	"context"
	"errors"

	"acms/internal/database"
	"acms/internal/domain/skill"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

type CategoryRepository interface {
	List(ctx context.Context) ([]skill.Category, error)
	GetBySlug(ctx context.Context, slug string) (skill.Category, error)
	Create(ctx context.Context, c skill.Category) (skill.Category, error)
	Rename(ctx context.Context, slug, name string) (skill.Category, error)
	Delete(ctx context.Context, slug string) error
}

type PostgresCategoryRepository struct {
	db database.DB
}

func NewPostgresCategoryRepository(db database.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) List(ctx context.Context) ([]skill.Category, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, `SELECT slug, name, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCategoryRepository) GetBySlug(ctx context.Context, slug string) (skill.Category, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT slug, name, created_at, updated_at FROM categories WHERE slug = $1`, slug)
	return scanCategory(row)
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c skill.Category) (skill.Category, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO categories (slug, name) VALUES ($1, $2)
		 RETURNING slug, name, created_at, updated_at`,
		c.Slug, c.Name,
	)
	created, err := scanCategory(row)
	if database.IsUniqueViolation(err) {
		return skill.Category{}, ErrCategoryExists
	}
	return created, err
}

func (r *PostgresCategoryRepository) Rename(ctx context.Context, slug, name string) (skill.Category, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		`UPDATE categories SET name = $1, updated_at = now() WHERE slug = $2
		 RETURNING slug, name, created_at, updated_at`,
		name, slug,
	)
	updated, err := scanCategory(row)
	if database.IsUniqueViolation(err) {
		return skill.Category{}, ErrCategoryExists
	}
	return updated, err
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, slug string) error {
	rowsAffected, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM categories WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row database.Row) (skill.Category, error) {
	var c skill.Category
	if err := row.Scan(&c.Slug, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return skill.Category{}, ErrCategoryNotFound
		}
		return skill.Category{}, err
	}
	return c, nil
}
