package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"techradar-api/internal/model"
)

const userColumns = `id, username, email, display_name, password_hash, role, is_active,
		        last_login_at, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, wrap("find user by id", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`,
		strings.TrimSpace(username)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, wrap("find user by username", err)
	}
	return u, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return wrap("touch last login", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, display_name, password_hash, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING id, created_at, updated_at`,
		u.Username, u.Email, u.DisplayName, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return model.User{}, model.ErrUserAlreadyExists
	}
	if err != nil {
		return model.User{}, wrap("create user", err)
	}
	return u, nil
}

// Update applies the non-nil fields of req. Absent fields keep their value.
func (r *UserRepository) Update(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET
		    email        = COALESCE($2, email),
		    display_name = COALESCE($3, display_name),
		    role         = COALESCE($4, role),
		    is_active    = COALESCE($5, is_active),
		    updated_at   = $6
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, req.Email, req.DisplayName, req.Role, req.IsActive, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if isUniqueViolation(err) {
		return model.User{}, model.ErrUserAlreadyExists
	}
	if err != nil {
		return model.User{}, wrap("update user", err)
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrap("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, wrap("list users", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, wrap("count users", err)
	}
	return count, nil
}
