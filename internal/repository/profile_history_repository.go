package repository

import (
	"context"
	"errors"

	"acms/internal/database"
	"acms/internal/domain/profile"

	"github.com/google/uuid"
)

var (
	ErrWorkExperienceNotFound = errors.New("work experience not found")
	ErrEducationNotFound      = errors.New("education not found")
)

// ProfileHistoryRepository stores work experience and education entries.
// Every lookup is scoped to the owning developer profile.
type ProfileHistoryRepository interface {
	CreateWorkExperience(ctx context.Context, w profile.WorkExperience) error
	ListWorkExperience(ctx context.Context, profileID uuid.UUID) ([]profile.WorkExperience, error)
	GetWorkExperience(ctx context.Context, id, profileID uuid.UUID) (profile.WorkExperience, error)
	UpdateWorkExperience(ctx context.Context, w profile.WorkExperience) error
	DeleteWorkExperience(ctx context.Context, id, profileID uuid.UUID) error

	CreateEducation(ctx context.Context, e profile.Education) error
	ListEducation(ctx context.Context, profileID uuid.UUID) ([]profile.Education, error)
	GetEducation(ctx context.Context, id, profileID uuid.UUID) (profile.Education, error)
	UpdateEducation(ctx context.Context, e profile.Education) error
	DeleteEducation(ctx context.Context, id, profileID uuid.UUID) error
}

type PostgresProfileHistoryRepository struct {
	db database.DB
}

func NewPostgresProfileHistoryRepository(db database.DB) *PostgresProfileHistoryRepository {
	return &PostgresProfileHistoryRepository{db: db}
}

func (r *PostgresProfileHistoryRepository) CreateWorkExperience(ctx context.Context, w profile.WorkExperience) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO work_experiences (id, developer_profile_id, job_title, company_name, skills_used, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.DeveloperProfileID, w.JobTitle, w.CompanyName, nonNilStrings(w.SkillsUsed), w.StartDate, w.EndDate,
	)
	return err
}

func (r *PostgresProfileHistoryRepository) ListWorkExperience(ctx context.Context, profileID uuid.UUID) ([]profile.WorkExperience, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT id, developer_profile_id, job_title, company_name, skills_used, start_date, end_date, created_at, updated_at
		 FROM work_experiences
		 WHERE developer_profile_id = $1
		 ORDER BY start_date DESC`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.WorkExperience, 0)
	for rows.Next() {
		w, err := scanWorkExperience(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProfileHistoryRepository) GetWorkExperience(ctx context.Context, id, profileID uuid.UUID) (profile.WorkExperience, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, developer_profile_id, job_title, company_name, skills_used, start_date, end_date, created_at, updated_at
		 FROM work_experiences
		 WHERE id = $1 AND developer_profile_id = $2`,
		id, profileID,
	)
	return scanWorkExperience(row)
}

func (r *PostgresProfileHistoryRepository) UpdateWorkExperience(ctx context.Context, w profile.WorkExperience) error {
	rowsAffected, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE work_experiences
		 SET job_title = $1, company_name = $2, skills_used = $3, start_date = $4, end_date = $5, updated_at = now()
		 WHERE id = $6 AND developer_profile_id = $7`,
		w.JobTitle, w.CompanyName, nonNilStrings(w.SkillsUsed), w.StartDate, w.EndDate, w.ID, w.DeveloperProfileID,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrWorkExperienceNotFound
	}
	return nil
}

func (r *PostgresProfileHistoryRepository) DeleteWorkExperience(ctx context.Context, id, profileID uuid.UUID) error {
	rowsAffected, err := database.Conn(ctx, r.db).Exec(ctx,
		`DELETE FROM work_experiences WHERE id = $1 AND developer_profile_id = $2`,
		id, profileID,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrWorkExperienceNotFound
	}
	return nil
}

func (r *PostgresProfileHistoryRepository) CreateEducation(ctx context.Context, e profile.Education) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO educations (id, developer_profile_id, school_name, program, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.DeveloperProfileID, e.SchoolName, e.Program, e.StartDate, e.EndDate,
	)
	return err
}

func (r *PostgresProfileHistoryRepository) ListEducation(ctx context.Context, profileID uuid.UUID) ([]profile.Education, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT id, developer_profile_id, school_name, program, start_date, end_date, created_at, updated_at
		 FROM educations
		 WHERE developer_profile_id = $1
		 ORDER BY start_date DESC`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Education, 0)
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProfileHistoryRepository) GetEducation(ctx context.Context, id, profileID uuid.UUID) (profile.Education, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, developer_profile_id, school_name, program, start_date, end_date, created_at, updated_at
		 FROM educations
		 WHERE id = $1 AND developer_profile_id = $2`,
		id, profileID,
	)
	return scanEducation(row)
}

func (r *PostgresProfileHistoryRepository) UpdateEducation(ctx context.Context, e profile.Education) error {
	rowsAffected, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE educations
		 SET school_name = $1, program = $2, start_date = $3, end_date = $4, updated_at = now()
		 WHERE id = $5 AND developer_profile_id = $6`,
		e.SchoolName, e.Program, e.StartDate, e.EndDate, e.ID, e.DeveloperProfileID,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEducationNotFound
	}
	return nil
}

func (r *PostgresProfileHistoryRepository) DeleteEducation(ctx context.Context, id, profileID uuid.UUID) error {
	rowsAffected, err := database.Conn(ctx, r.db).Exec(ctx,
		`DELETE FROM educations WHERE id = $1 AND developer_profile_id = $2`,
		id, profileID,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEducationNotFound
	}
	return nil
}

func scanWorkExperience(row database.Row) (profile.WorkExperience, error) {
	var w profile.WorkExperience
	if err := row.Scan(&w.ID, &w.DeveloperProfileID, &w.JobTitle, &w.CompanyName, &w.SkillsUsed, &w.StartDate, &w.EndDate, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return profile.WorkExperience{}, ErrWorkExperienceNotFound
		}
		return profile.WorkExperience{}, err
	}
	return w, nil
}

func scanEducation(row database.Row) (profile.Education, error) {
	var e profile.Education
	if err := row.Scan(&e.ID, &e.DeveloperProfileID, &e.SchoolName, &e.Program, &e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return profile.Education{}, ErrEducationNotFound
		}
		return profile.Education{}, err
	}
	return e, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
