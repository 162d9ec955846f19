package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/platform/database"
)

const (
	userColumns = `id, email, password_hash, display_name, phone, role, is_active, created_at, updated_at`

	phoneConstraint = "users_phone_idx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := database.Conn(ctx, r.db).NamedExecContext(ctx, `
	INSERT INTO users (`+userColumns+`)
	VALUES (:id, :email, :password_hash, :display_name, :phone, :role, :is_active, :created_at, :updated_at)
	`, u)
	if constraint, dup := uniqueConstraint(err); dup {
		if constraint == phoneConstraint {
			return domain.ErrAlreadyExists.WithMsg("phone number already in use")
		}
		return domain.ErrAlreadyExists.WithMsg("email already registered")
	}
	if err != nil {
		return fmt.Errorf("could not insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, phone string, at time.Time) (*domain.User, error) {
	var u domain.User
	err := database.Conn(ctx, r.db).GetContext(ctx, &u, `
	UPDATE users SET display_name = $2, phone = $3, updated_at = $4
	WHERE id = $1
	RETURNING `+userColumns, id, displayName, phone, at)
	if _, dup := uniqueConstraint(err); dup {
		return nil, domain.ErrAlreadyExists.WithMsg("phone number already in use")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("user")
	}
	if err != nil {
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, hash, at)
	if err != nil {
		return fmt.Errorf("could not update password: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not update password: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("user")
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := database.Conn(ctx, r.db).GetContext(ctx, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("user")
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	return &u, nil
}
