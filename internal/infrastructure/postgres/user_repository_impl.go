package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	"github.com/Maniblazestarboy/api-linkado/internal/domain/repository"
)

const (
	userColumns         = `id, name, email, '' AS password_hash, role, password_changed_at, created_at, updated_at`
	userColumnsWithHash = `id, name, email, password_hash, role, password_changed_at, created_at, updated_at`
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string, includeHash bool) (*entity.User, error) {
	cols := userColumns
	if includeHash {
		cols = userColumnsWithHash
	}
	row := r.db.QueryRow(ctx, `SELECT `+cols+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
	return scanUser(row)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Save inserts u when it has no ID yet, otherwise updates every field in one
// statement. An empty PasswordHash keeps the stored hash, so users loaded
// without their hash can be saved safely.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := time.Now().UTC()
	if u.Role == "" {
		u.Role = entity.DefaultRole
	}

	if u.ID == "" {
		id := uuid.NewString()
		row := r.db.QueryRow(ctx, `
			INSERT INTO users (id, name, email, password_hash, role, password_changed_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			RETURNING created_at, updated_at
		`, id, u.Name, u.Email, u.PasswordHash, u.Role, u.PasswordChangedAt, now)
		if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicate
			}
			return err
		}
		u.ID = id
		return nil
	}

	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET name = $2,
		    email = $3,
		    password_hash = COALESCE(NULLIF($4, ''), password_hash),
		    role = $5,
		    password_changed_at = $6,
		    updated_at = $7
		WHERE id = $1
		RETURNING created_at, updated_at
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.PasswordChangedAt, now)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.PasswordChangedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
