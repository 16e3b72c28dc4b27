package monitor

import "time"

type Status struct {
	PostgreSQL      bool      `json:"postgresql"`
	Redis           bool      `json:"redis"`
	AuditBuffer     bool      `json:"audit_buffer"`
	AuditBufferSize int       `json:"audit_buffer_size"`
	LastCheck       time.Time `json:"last_check"`
}
