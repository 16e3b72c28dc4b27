package repository

import (
	"context"

	"github.com/talentsmy/backend/domain"
)

type ActivityFilter struct {
	ActorEmail string
	ActionType string
	EntityType string
	EntityID   string
	Limit      int
	Offset     int
}

// ActivityRepository is the audit log sink. Appends are fire-and-forget from
// the caller's perspective; the recorder buffers failures.
type ActivityRepository interface {
	Append(ctx context.Context, event domain.AuditEvent) error
	List(ctx context.Context, filter ActivityFilter) ([]domain.AuditEvent, error)
}
