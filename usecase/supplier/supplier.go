package supplier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

// UseCase manages the supplier directory. Orders keep their own copy of the
// supplier name, so edits here never rewrite historical orders.
type UseCase struct {
	suppliers repository.SupplierRepository
	orders    repository.OrderRepository
	logger    *zap.Logger
	now       func() time.Time
}

func New(suppliers repository.SupplierRepository, orders repository.OrderRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		suppliers: suppliers,
		orders:    orders,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *UseCase) List(ctx context.Context, actor domain.Actor) ([]domain.Supplier, error) {
	if !actor.CanManageAgency() {
		return nil, domain.ErrForbidden
	}
	return uc.suppliers.FindAll(ctx)
}

func (uc *UseCase) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Supplier, error) {
	if !actor.CanManageAgency() && !(actor.Role == domain.RoleSupplier && actor.SupplierID == id) {
		return nil, domain.ErrForbidden
	}
	return uc.suppliers.FindByID(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, actor domain.Actor, supplier *domain.Supplier) (*domain.Supplier, []domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, nil, domain.ErrForbidden
	}
	if err := supplier.Validate(); err != nil {
		return nil, nil, err
	}

	now := uc.now()
	supplier.ID = uuid.NewString()
	supplier.Active = true
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	if err := uc.suppliers.Insert(ctx, supplier); err != nil {
		return nil, nil, err
	}

	event := domain.NewAuditEvent(actor, domain.ActionSupplierCreate,
		fmt.Sprintf("Created supplier %s", supplier.Name)).
		WithEntity(domain.EntitySupplier, supplier.ID)
	return supplier, []domain.AuditEvent{event}, nil
}

// Update replaces the supplier profile. A supplier may edit their own record;
// agency staff may edit any.
func (uc *UseCase) Update(ctx context.Context, actor domain.Actor, supplier *domain.Supplier) (*domain.Supplier, []domain.AuditEvent, error) {
	if !actor.CanManageAgency() && !(actor.Role == domain.RoleSupplier && actor.SupplierID == supplier.ID) {
		return nil, nil, domain.ErrForbidden
	}
	if err := supplier.Validate(); err != nil {
		return nil, nil, err
	}

	existing, err := uc.suppliers.FindByID(ctx, supplier.ID)
	if err != nil {
		return nil, nil, err
	}
	supplier.CreatedAt = existing.CreatedAt
	supplier.UpdatedAt = uc.now()
	if err := uc.suppliers.Update(ctx, supplier); err != nil {
		return nil, nil, err
	}

	event := domain.NewAuditEvent(actor, domain.ActionSupplierUpdate,
		fmt.Sprintf("Updated supplier %s", supplier.Name)).
		WithEntity(domain.EntitySupplier, supplier.ID)
	return supplier, []domain.AuditEvent{event}, nil
}

// Delete removes a supplier. Suppliers still referenced by orders are kept to
// preserve order history; callers should deactivate instead.
func (uc *UseCase) Delete(ctx context.Context, actor domain.Actor, id string) ([]domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, domain.ErrForbidden
	}
	supplier, err := uc.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	assigned, err := uc.orders.FindBySupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(assigned) > 0 {
		return nil, domain.NewError(domain.ErrCodeConflict,
			fmt.Sprintf("supplier still has %d assigned orders", len(assigned)))
	}

	if err := uc.suppliers.Delete(ctx, id); err != nil {
		return nil, err
	}

	event := domain.NewAuditEvent(actor, domain.ActionSupplierDelete,
		fmt.Sprintf("Deleted supplier %s", supplier.Name)).
		WithEntity(domain.EntitySupplier, supplier.ID)
	return []domain.AuditEvent{event}, nil
}
