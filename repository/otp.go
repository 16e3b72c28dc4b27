package repository

import (
	"context"
	"time"
)

// OTPRepository stores one-time login codes with server-side expiry. Consume
// returns the stored code and invalidates it atomically so a verified code
// can never be replayed.
type OTPRepository interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Consume(ctx context.Context, email string) (string, error)
}
