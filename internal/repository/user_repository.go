package repository

import (
	"context"
	"strings"

	"acms/internal/database"
	"acms/internal/domain/user"

	"github.com/google/uuid"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, is_active, profile_photo, COALESCE(country, ''), created_at, updated_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active, profile_photo, country)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))`,
		u.ID, normalizeEmail(u.Email), u.PasswordHash, u.FirstName, u.LastName, u.Role.String(), u.IsActive, u.ProfilePhoto, u.Country,
	)
	if database.IsUniqueViolation(err) {
		return user.ErrEmailTaken
	}
	return err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email))
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, normalizeEmail(email))
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) error {
	rowsAffected, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE users
		 SET email = $1, password_hash = $2, first_name = $3, last_name = $4, role = $5,
		     is_active = $6, profile_photo = $7, country = NULLIF($8, ''), updated_at = now()
		 WHERE id = $9`,
		normalizeEmail(u.Email), u.PasswordHash, u.FirstName, u.LastName, u.Role.String(),
		u.IsActive, u.ProfilePhoto, u.Country, u.ID,
	)
	if database.IsUniqueViolation(err) {
		return user.ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) ListByRoles(ctx context.Context, roles []user.Role) ([]user.User, error) {
	out := make([]user.User, 0)
	if len(roles) == 0 {
		return out, nil
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE role = ANY($1)
		 ORDER BY created_at ASC`,
		names,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &u.IsActive, &u.ProfilePhoto, &u.Country, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	parsed, err := user.ParseRole(role)
	if err != nil {
		return user.User{}, err
	}
	u.Role = parsed
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
