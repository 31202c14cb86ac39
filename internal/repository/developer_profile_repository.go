package repository

import (
	"context"
	"errors"
	"time"

	"acms/internal/database"
	"acms/internal/domain/profile"

	"github.com/google/uuid"
)

var ErrDeveloperProfileNotFound = errors.New("developer profile not found")

type DeveloperProfileRepository interface {
	Create(ctx context.Context, p profile.DeveloperProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (profile.DeveloperProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.DeveloperProfile, error)
	List(ctx context.Context, availability *bool) ([]profile.DeveloperProfile, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]profile.DeveloperProfile, error)
	UpdateEmployment(ctx context.Context, id uuid.UUID, status profile.EmploymentStatus, info profile.JobInformation) error
	MarkAssigned(ctx context.Context, ids []uuid.UUID, projectName string, start, end time.Time) (int64, error)
	SkillSlugs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error)
}

const profileSelect = `SELECT dp.id, dp.user_id, dp.availability, dp.current_project,
		 dp.current_project_start_date, dp.current_project_end_date,
		 dp.employment_status, dp.job_information, dp.created_at, dp.updated_at,
		 u.email, u.first_name, u.last_name
		 FROM developer_profiles dp
		 JOIN users u ON u.id = dp.user_id`

type PostgresDeveloperProfileRepository struct {
	db database.DB
}

func NewPostgresDeveloperProfileRepository(db database.DB) *PostgresDeveloperProfileRepository {
	return &PostgresDeveloperProfileRepository{db: db}
}

func (r *PostgresDeveloperProfileRepository) Create(ctx context.Context, p profile.DeveloperProfile) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO developer_profiles (id, user_id, availability, current_project, employment_status, job_information)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.UserID, p.Availability, p.CurrentProject, string(p.EmploymentStatus), string(p.JobInformation),
	)
	return err
}

func (r *PostgresDeveloperProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.DeveloperProfile, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx, profileSelect+` WHERE dp.id = $1`, id)
	return scanProfile(row)
}

func (r *PostgresDeveloperProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.DeveloperProfile, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx, profileSelect+` WHERE dp.user_id = $1`, userID)
	return scanProfile(row)
}

func (r *PostgresDeveloperProfileRepository) List(ctx context.Context, availability *bool) ([]profile.DeveloperProfile, error) {
	if availability != nil {
		return r.query(ctx, profileSelect+` WHERE dp.availability = $1 ORDER BY dp.created_at ASC`, *availability)
	}
	return r.query(ctx, profileSelect+` ORDER BY dp.created_at ASC`)
}

func (r *PostgresDeveloperProfileRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]profile.DeveloperProfile, error) {
	if len(ids) == 0 {
		return []profile.DeveloperProfile{}, nil
	}
	return r.query(ctx, profileSelect+` WHERE dp.id = ANY($1::uuid[]) ORDER BY dp.created_at ASC`, uuidStrings(ids))
}

func (r *PostgresDeveloperProfileRepository) UpdateEmployment(ctx context.Context, id uuid.UUID, status profile.EmploymentStatus, info profile.JobInformation) error {
	rowsAffected, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE developer_profiles
		 SET employment_status = $1, job_information = $2, updated_at = now()
		 WHERE id = $3`,
		string(status), string(info), id,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrDeveloperProfileNotFound
	}
	return nil
}

// MarkAssigned makes the profiles unavailable for the duration of a project.
func (r *PostgresDeveloperProfileRepository) MarkAssigned(ctx context.Context, ids []uuid.UUID, projectName string, start, end time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE developer_profiles
		 SET availability = false, current_project = $1,
		     current_project_start_date = $2, current_project_end_date = $3, updated_at = now()
		 WHERE id = ANY($4::uuid[])`,
		projectName, start, end, uuidStrings(ids),
	)
}

// SkillSlugs returns the rated skills of each profile. Profiles without
// ratings map to an empty slice.
func (r *PostgresDeveloperProfileRepository) SkillSlugs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(ids))
	for _, id := range ids {
		out[id] = []string{}
	}
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT developer_profile_id, skill_slug
		 FROM skill_ratings
		 WHERE developer_profile_id = ANY($1::uuid[])
		 ORDER BY skill_slug ASC`,
		uuidStrings(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var slug string
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, err
		}
		out[id] = append(out[id], slug)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresDeveloperProfileRepository) query(ctx context.Context, q string, args ...any) ([]profile.DeveloperProfile, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.DeveloperProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
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

func scanProfile(row database.Row) (profile.DeveloperProfile, error) {
	var p profile.DeveloperProfile
	var status, info string
	err := row.Scan(
		&p.ID, &p.UserID, &p.Availability, &p.CurrentProject,
		&p.CurrentProjectStartDate, &p.CurrentProjectEndDate,
		&status, &info, &p.CreatedAt, &p.UpdatedAt,
		&p.Email, &p.FirstName, &p.LastName,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return profile.DeveloperProfile{}, ErrDeveloperProfileNotFound
		}
		return profile.DeveloperProfile{}, err
	}
	p.EmploymentStatus = profile.EmploymentStatus(status)
	p.JobInformation = profile.JobInformation(info)
	return p, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
