package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns the Postgres-backed role assignment table.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
	SELECT id, name, email, role, supplier_id, active, created_at, updated_at
	FROM users
	WHERE lower(email) = $1
	`
	var (
		user       domain.User
		role       string
		supplierID *string
	)
	if err := r.pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&supplierID,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeStorage, "scan user", err)
	}
	user.Role = domain.Role(role)
	if supplierID != nil {
		user.SupplierID = *supplierID
	}
	return &user, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.Email == "" {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO users (id, name, email, role, supplier_id, active)
	VALUES ($1, $2, lower($3), $4, $5, $6)
	ON CONFLICT (email) DO UPDATE SET
		name = EXCLUDED.name,
		role = EXCLUDED.role,
		supplier_id = EXCLUDED.supplier_id,
		active = EXCLUDED.active,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		string(user.Role),
		nullString(user.SupplierID),
		user.Active,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "upsert user", err)
	}
	return nil
}
