package repository

import (
	"context"
	"errors"

	"acms/internal/database"
	"acms/internal/domain/project"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectExists   = errors.New("project already exists")
)

type ProjectRepository interface {
	Create(ctx context.Context, p project.Project) (project.Project, error)
	GetBySlug(ctx context.Context, slug string) (project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	Update(ctx context.Context, p project.Project) (project.Project, error)
	Delete(ctx context.Context, slug string) error
	AddMembers(ctx context.Context, slug string, profileIDs []uuid.UUID) error
	ListByMember(ctx context.Context, profileID uuid.UUID) ([]project.Project, error)
}

const projectSelect = `SELECT p.slug, p.name, p.description, p.start_date, p.end_date, p.created_by, p.created_at, p.updated_at,
		 COALESCE((SELECT array_agg(prs.skill_slug ORDER BY prs.skill_slug)
		           FROM project_required_skills prs WHERE prs.project_slug = p.slug), '{}'),
		 COALESCE((SELECT array_agg(pm.developer_profile_id::text ORDER BY pm.added_at, pm.developer_profile_id)
		           FROM project_members pm WHERE pm.project_slug = p.slug), '{}')
		 FROM projects p`

type PostgresProjectRepository struct {
	db database.DB
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

// Create stores the project and its required skills. Callers wrap it in a
// transaction so a failing skill insert leaves nothing behind.
func (r *PostgresProjectRepository) Create(ctx context.Context, p project.Project) (project.Project, error) {
	conn := database.Conn(ctx, r.db)
	_, err := conn.Exec(ctx,
		`INSERT INTO projects (slug, name, description, start_date, end_date, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.Slug, p.Name, p.Description, p.StartDate, p.EndDate, p.CreatedBy,
	)
	if database.IsUniqueViolation(err) {
		return project.Project{}, ErrProjectExists
	}
	if err != nil {
		return project.Project{}, err
	}

	if err := r.replaceRequiredSkills(ctx, conn, p.Slug, p.RequiredSkills); err != nil {
		return project.Project{}, err
	}
	return scanProject(conn.QueryRow(ctx, projectSelect+` WHERE p.slug = $1`, p.Slug))
}

func (r *PostgresProjectRepository) GetBySlug(ctx context.Context, slug string) (project.Project, error) {
	return scanProject(database.Conn(ctx, r.db).QueryRow(ctx, projectSelect+` WHERE p.slug = $1`, slug))
}

func (r *PostgresProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	return r.query(ctx, projectSelect+` ORDER BY p.created_at DESC`)
}

func (r *PostgresProjectRepository) Update(ctx context.Context, p project.Project) (project.Project, error) {
	conn := database.Conn(ctx, r.db)
	rowsAffected, err := conn.Exec(ctx,
		`UPDATE projects
		 SET name = $1, description = $2, start_date = $3, end_date = $4, updated_at = now()
		 WHERE slug = $5`,
		p.Name, p.Description, p.StartDate, p.EndDate, p.Slug,
	)
	if err != nil {
		return project.Project{}, err
	}
	if rowsAffected == 0 {
		return project.Project{}, ErrProjectNotFound
	}

	if err := r.replaceRequiredSkills(ctx, conn, p.Slug, p.RequiredSkills); err != nil {
		return project.Project{}, err
	}
	return scanProject(conn.QueryRow(ctx, projectSelect+` WHERE p.slug = $1`, p.Slug))
}

func (r *PostgresProjectRepository) Delete(ctx context.Context, slug string) error {
	rowsAffected, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM projects WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// AddMembers is idempotent: profiles already on the project are skipped.
func (r *PostgresProjectRepository) AddMembers(ctx context.Context, slug string, profileIDs []uuid.UUID) error {
	if len(profileIDs) == 0 {
		return nil
	}
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO project_members (project_slug, developer_profile_id)
		 SELECT $1, id FROM unnest($2::uuid[]) AS id
		 ON CONFLICT DO NOTHING`,
		slug, uuidStrings(profileIDs),
	)
	switch {
	case database.IsForeignKeyViolation(err):
		return ErrDeveloperProfileNotFound
	case err != nil:
		return err
	}
	return nil
}

func (r *PostgresProjectRepository) ListByMember(ctx context.Context, profileID uuid.UUID) ([]project.Project, error) {
	return r.query(ctx, projectSelect+`
		 WHERE EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_slug = p.slug AND pm.developer_profile_id = $1)
		 ORDER BY p.created_at DESC`,
		profileID,
	)
}

func (r *PostgresProjectRepository) replaceRequiredSkills(ctx context.Context, conn database.Querier, slug string, skills []string) error {
	if skills == nil {
		return nil
	}
	if _, err := conn.Exec(ctx, `DELETE FROM project_required_skills WHERE project_slug = $1`, slug); err != nil {
		return err
	}
	if len(skills) == 0 {
		return nil
	}
	_, err := conn.Exec(ctx,
		`INSERT INTO project_required_skills (project_slug, skill_slug)
		 SELECT $1, s FROM unnest($2::text[]) AS s
		 ON CONFLICT DO NOTHING`,
		slug, skills,
	)
	if database.IsForeignKeyViolation(err) {
		return ErrSkillNotFound
	}
	return err
}

func (r *PostgresProjectRepository) query(ctx context.Context, q string, args ...any) ([]project.Project, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProject(row database.Row) (project.Project, error) {
	var p project.Project
	var members []string
	err := row.Scan(&p.Slug, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.RequiredSkills, &members)
	if err != nil {
		if database.IsNoRows(err) {
			return project.Project{}, ErrProjectNotFound
		}
		return project.Project{}, err
	}

	p.Members = make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			return project.Project{}, err
		}
		p.Members = append(p.Members, id)
	}
	return p, nil
}
