package repository

import (
	"context"

	"github.com/talentsmy/backend/domain"
)

type PackageRepository interface {
	Insert(ctx context.Context, pkg *domain.CampaignPackage) error
	Update(ctx context.Context, pkg *domain.CampaignPackage) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]domain.CampaignPackage, error)
	FindByID(ctx context.Context, id string) (*domain.CampaignPackage, error)
}
