package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

type otpRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewOTPRepository creates a Redis-backed one-time passcode store. Expiry is
// enforced server-side via key TTL; consumption uses GETDEL so a code can
// only ever be verified once.
func NewOTPRepository(client *redislib.Client, ttl time.Duration) repository.OTPRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &otpRepository{
		client: client,
		prefix: "otp:",
		ttl:    ttl,
	}
}

func (r *otpRepository) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if email == "" || code == "" {
		return domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	if err := r.client.Set(ctx, r.key(email), code, ttl).Err(); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "save otp", err)
	}
	return nil
}

func (r *otpRepository) Consume(ctx context.Context, email string) (string, error) {
	code, err := r.client.GetDel(ctx, r.key(email)).Result()
	if err != nil {
		if err == redislib.Nil {
			return "", domain.ErrOTPNotFound
		}
		return "", domain.WrapError(domain.ErrCodeStorage, "consume otp", err)
	}
	return code, nil
}

func (r *otpRepository) key(email string) string {
	return fmt.Sprintf("%s%s", r.prefix, strings.ToLower(email))
}
