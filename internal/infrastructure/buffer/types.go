package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const EntityAudit = "audit"

// Item is an audit event that could not reach the activity log and is held
// locally until the store comes back.
type Item struct {
	ID        string          `json:"id"`
	Entity    string          `json:"entity"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Entity == "" {
		i.Entity = EntityAudit
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = 3
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
