package repository

import (
	"context"

	"github.com/talentsmy/backend/domain"
)

// ChangeKind classifies an order change feed event.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// OrderChange is a change feed event. Delete events carry only the id.
type OrderChange struct {
	Kind    ChangeKind    `json:"kind"`
	OrderID string        `json:"order_id"`
	Order   *domain.Order `json:"order,omitempty"`
}

// OrderFeed broadcasts order changes to subscribed observers. Delivery is
// push-based and best-effort: observers must tolerate duplicate or dropped
// notifications and re-apply snapshots idempotently.
type OrderFeed interface {
	Publish(change OrderChange)
	Subscribe(buffer int) (<-chan OrderChange, func())
}

// OrderRepository is the durable store for orders. Insert must reject
// duplicate tracking codes with domain.ErrTrackingCodeTaken so the caller can
// regenerate and retry.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByTrackingCode(ctx context.Context, code string) (*domain.Order, error)
	FindBySupplier(ctx context.Context, supplierID string) ([]domain.Order, error)
}
