package domain

import "time"

// OrderNote is an append-only internal note on an order. Notes are never
// edited after creation, only appended or deleted by id.
type OrderNote struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	Content       string    `json:"content"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatusHistoryEntry records a tracked field change on an order.
type StatusHistoryEntry struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	Field         string    `json:"field"`
	OldValue      string    `json:"old_value"`
	NewValue      string    `json:"new_value"`
	ChangedBy     string    `json:"changed_by"`
	ChangedByName string    `json:"changed_by_name"`
	ChangedAt     time.Time `json:"changed_at"`
}
