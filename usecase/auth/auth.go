package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

// Mailer delivers the one-time code.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// TokenConfig controls JWT minting after a successful verification.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// UseCase implements passwordless email login: a short-lived code is mailed
// out, then exchanged for a JWT. Identity-to-role mapping lives in the users
// table; unknown emails are rejected, never guessed from the address text.
type UseCase struct {
	users  repository.UserRepository
	otps   repository.OTPRepository
	mailer Mailer
	token  TokenConfig
	otpTTL time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func New(users repository.UserRepository, otps repository.OTPRepository, mailer Mailer, token TokenConfig, otpTTL time.Duration, logger *zap.Logger) *UseCase {
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	if token.TTL <= 0 {
		token.TTL = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		otps:   otps,
		mailer: mailer,
		token:  token,
		otpTTL: otpTTL,
		logger: logger,
		now:    time.Now,
	}
}

// SendOTP issues a six-digit code to a registered email. The code replaces
// any previously issued one for the same address.
func (uc *UseCase) SendOTP(ctx context.Context, email string) ([]domain.AuditEvent, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewError(domain.ErrCodeValidation, "a valid email address is required")
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.logger.Warn("otp requested for unknown email", zap.String("email", email))
			return nil, domain.NewError(domain.ErrCodeUnauthorized, "email is not registered")
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "account is disabled")
	}

	code := newOTPCode()
	if err := uc.otps.Save(ctx, email, code, uc.otpTTL); err != nil {
		return nil, err
	}
	if err := uc.mailer.SendOTP(ctx, email, code); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to send login code", err)
	}

	event := domain.AuditEvent{
		ActorEmail:  email,
		ActorName:   user.Name,
		ActorRole:   user.Role,
		ActionType:  domain.ActionLogin,
		Description: fmt.Sprintf("Login code sent to %s", email),
		EntityType:  domain.EntityUser,
		EntityID:    user.ID,
		CreatedAt:   uc.now(),
	}
	return []domain.AuditEvent{event}, nil
}

// LoginResult is returned after a successful code exchange.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// VerifyOTP consumes the stored code and mints a session token. A code can
// only be redeemed once; wrong codes burn the stored one.
func (uc *UseCase) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, []domain.AuditEvent, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return nil, nil, domain.NewError(domain.ErrCodeValidation, "email and code are required")
	}

	stored, err := uc.otps.Consume(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrOTPNotFound) {
			return nil, nil, domain.NewError(domain.ErrCodeUnauthorized, "code is invalid or expired")
		}
		return nil, nil, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		event := domain.AuditEvent{
			ActorEmail:  email,
			ActionType:  domain.ActionLoginFailed,
			Description: fmt.Sprintf("Failed login attempt for %s", email),
			EntityType:  domain.EntityUser,
			CreatedAt:   uc.now(),
		}
		return nil, []domain.AuditEvent{event}, domain.NewError(domain.ErrCodeUnauthorized, "code is invalid or expired")
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.NewError(domain.ErrCodeUnauthorized, "email is not registered")
		}
		return nil, nil, err
	}
	if !user.Active {
		return nil, nil, domain.NewError(domain.ErrCodeUnauthorized, "account is disabled")
	}

	now := uc.now()
	expiresAt := now.Add(uc.token.TTL)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  string(user.Role),
		"iss":   uc.token.Issuer,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	if user.SupplierID != "" {
		claims["supplier_id"] = user.SupplierID
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.token.Secret))
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrCodeInternal, "failed to sign token", err)
	}

	event := domain.AuditEvent{
		ActorEmail:  user.Email,
		ActorName:   user.Name,
		ActorRole:   user.Role,
		ActionType:  domain.ActionLogin,
		Description: fmt.Sprintf("%s logged in", user.Email),
		EntityType:  domain.EntityUser,
		EntityID:    user.ID,
		CreatedAt:   now,
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, []domain.AuditEvent{event}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newOTPCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = '0' + b%10
	}
	return string(buf)
}
