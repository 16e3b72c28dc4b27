package domain

import "time"

// Audit action types, mirrored in the activity log.
const (
	ActionLogin          = "LOGIN"
	ActionLogout         = "LOGOUT"
	ActionLoginFailed    = "LOGIN_FAILED"
	ActionOrderCreate    = "ORDER_CREATE"
	ActionOrderUpdate    = "ORDER_UPDATE"
	ActionOrderDelete    = "ORDER_DELETE"
	ActionSupplierCreate = "SUPPLIER_CREATE"
	ActionSupplierUpdate = "SUPPLIER_UPDATE"
	ActionSupplierDelete = "SUPPLIER_DELETE"
	ActionPackageCreate  = "PACKAGE_CREATE"
	ActionPackageUpdate  = "PACKAGE_UPDATE"
	ActionPackageDelete  = "PACKAGE_DELETE"
	ActionPaymentUpdate  = "PAYMENT_UPDATE"
	ActionNoteAdd        = "NOTE_ADD"
	ActionNoteDelete     = "NOTE_DELETE"
)

// Audited entity types.
const (
	EntityOrder    = "ORDER"
	EntitySupplier = "SUPPLIER"
	EntityPackage  = "PACKAGE"
	EntityUser     = "USER"
)

// AuditEvent is emitted by core mutations as a side-channel result. The
// caller dispatches it to the activity log; sink failures never fail the
// primary operation.
type AuditEvent struct {
	ID          string            `json:"id"`
	ActorEmail  string            `json:"actor_email"`
	ActorName   string            `json:"actor_name,omitempty"`
	ActorRole   Role              `json:"actor_role"`
	ActionType  string            `json:"action_type"`
	Description string            `json:"description"`
	EntityType  string            `json:"entity_type,omitempty"`
	EntityID    string            `json:"entity_id,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewAuditEvent builds an event attributed to the acting identity.
func NewAuditEvent(actor Actor, actionType, description string) AuditEvent {
	return AuditEvent{
		ActorEmail:  actor.Email,
		ActorName:   actor.Name,
		ActorRole:   actor.Role,
		ActionType:  actionType,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// WithEntity attaches the related entity reference.
func (e AuditEvent) WithEntity(entityType, entityID string) AuditEvent {
	e.EntityType = entityType
	e.EntityID = entityID
	return e
}

// WithMetadata attaches free-form metadata.
func (e AuditEvent) WithMetadata(metadata map[string]string) AuditEvent {
	e.Metadata = metadata
	return e
}
