package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed implementation of ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Append(ctx context.Context, event domain.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO activity_logs (id, actor_email, actor_name, actor_role, action_type, description, entity_type, entity_id, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := r.pool.Exec(ctx, query,
		event.ID,
		event.ActorEmail,
		event.ActorName,
		string(event.ActorRole),
		event.ActionType,
		event.Description,
		nullString(event.EntityType),
		nullString(event.EntityID),
		marshalMap(event.Metadata),
		event.CreatedAt,
	); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "append activity log", err)
	}
	return nil
}

func (r *activityRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.AuditEvent, error) {
	const query = `
	SELECT id, actor_email, actor_name, actor_role, action_type, description, entity_type, entity_id, metadata, created_at
	FROM activity_logs
	WHERE ($1 = '' OR actor_email = $1)
	  AND ($2 = '' OR action_type = $2)
	  AND ($3 = '' OR entity_type = $3)
	  AND ($4 = '' OR entity_id = $4)
	ORDER BY created_at DESC
	LIMIT $5 OFFSET $6
	`
	rows, err := r.pool.Query(ctx, query,
		filter.ActorEmail,
		filter.ActionType,
		filter.EntityType,
		filter.EntityID,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "query activity logs", err)
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var (
			event      domain.AuditEvent
			role       string
			entityType *string
			entityID   *string
			metadata   []byte
		)
		if err := rows.Scan(
			&event.ID,
			&event.ActorEmail,
			&event.ActorName,
			&role,
			&event.ActionType,
			&event.Description,
			&entityType,
			&entityID,
			&metadata,
			&event.CreatedAt,
		); err != nil {
			return nil, domain.WrapError(domain.ErrCodeStorage, "scan activity log", err)
		}
		event.ActorRole = domain.Role(role)
		if entityType != nil {
			event.EntityType = *entityType
		}
		if entityID != nil {
			event.EntityID = *entityID
		}
		if len(metadata) > 0 {
			_ = json.Unmarshal(metadata, &event.Metadata)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "iterate activity logs", err)
	}
	return events, nil
}
