package campaignpkg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

// UseCase manages the pricing templates. Orders snapshot a package at
// creation time, so edits here never change existing orders.
type UseCase struct {
	packages repository.PackageRepository
	logger   *zap.Logger
	now      func() time.Time
}

func New(packages repository.PackageRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		packages: packages,
		logger:   logger,
		now:      time.Now,
	}
}

func (uc *UseCase) List(ctx context.Context) ([]domain.CampaignPackage, error) {
	return uc.packages.FindAll(ctx)
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.CampaignPackage, error) {
	return uc.packages.FindByID(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, actor domain.Actor, pkg *domain.CampaignPackage) (*domain.CampaignPackage, []domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, nil, domain.ErrForbidden
	}
	pkg.Normalize()
	if err := pkg.Validate(); err != nil {
		return nil, nil, err
	}

	now := uc.now()
	pkg.ID = uuid.NewString()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now
	if err := uc.packages.Insert(ctx, pkg); err != nil {
		return nil, nil, err
	}

	event := domain.NewAuditEvent(actor, domain.ActionPackageCreate,
		fmt.Sprintf("Created package %s", pkg.Name)).
		WithEntity(domain.EntityPackage, pkg.ID)
	return pkg, []domain.AuditEvent{event}, nil
}

func (uc *UseCase) Update(ctx context.Context, actor domain.Actor, pkg *domain.CampaignPackage) (*domain.CampaignPackage, []domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, nil, domain.ErrForbidden
	}
	pkg.Normalize()
	if err := pkg.Validate(); err != nil {
		return nil, nil, err
	}

	existing, err := uc.packages.FindByID(ctx, pkg.ID)
	if err != nil {
		return nil, nil, err
	}
	pkg.CreatedAt = existing.CreatedAt
	pkg.UpdatedAt = uc.now()
	if err := uc.packages.Update(ctx, pkg); err != nil {
		return nil, nil, err
	}

	event := domain.NewAuditEvent(actor, domain.ActionPackageUpdate,
		fmt.Sprintf("Updated package %s", pkg.Name)).
		WithEntity(domain.EntityPackage, pkg.ID)
	return pkg, []domain.AuditEvent{event}, nil
}

func (uc *UseCase) Delete(ctx context.Context, actor domain.Actor, id string) ([]domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, domain.ErrForbidden
	}
	pkg, err := uc.packages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.packages.Delete(ctx, id); err != nil {
		return nil, err
	}

	event := domain.NewAuditEvent(actor, domain.ActionPackageDelete,
		fmt.Sprintf("Deleted package %s", pkg.Name)).
		WithEntity(domain.EntityPackage, pkg.ID)
	return []domain.AuditEvent{event}, nil
}
