package repository

import (
	"context"

	"github.com/talentsmy/backend/domain"
)

// UserRepository is the explicit identity-to-role mapping consulted at login.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}
