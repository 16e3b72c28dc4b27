package repository

import (
	"context"

	"github.com/talentsmy/backend/domain"
)

type SupplierRepository interface {
	Insert(ctx context.Context, supplier *domain.Supplier) error
	Update(ctx context.Context, supplier *domain.Supplier) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]domain.Supplier, error)
	FindByID(ctx context.Context, id string) (*domain.Supplier, error)
	FindByEmail(ctx context.Context, email string) (*domain.Supplier, error)
}
