package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/domain"
)

type memUsers struct {
	byEmail map[string]domain.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUsers) Upsert(_ context.Context, u *domain.User) error {
	m.byEmail[u.Email] = *u
	return nil
}

type memOTPs struct {
	codes map[string]string
}

func (m *memOTPs) Save(_ context.Context, email, code string, _ time.Duration) error {
	m.codes[email] = code
	return nil
}

func (m *memOTPs) Consume(_ context.Context, email string) (string, error) {
	code, ok := m.codes[email]
	if !ok {
		return "", domain.ErrOTPNotFound
	}
	delete(m.codes, email)
	return code, nil
}

type memMailer struct {
	sent []string
	err  error
}

func (m *memMailer) SendOTP(_ context.Context, email, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email+":"+code)
	return nil
}

func newAuthFixture() (*UseCase, *memUsers, *memOTPs, *memMailer) {
	users := &memUsers{byEmail: map[string]domain.User{
		"aisyah@talents.my": {
			ID:     "u-1",
			Name:   "Aisyah",
			Email:  "aisyah@talents.my",
			Role:   domain.RoleStaff,
			Active: true,
		},
		"supplier@factory.example": {
			ID:         "u-2",
			Name:       "Factory One",
			Email:      "supplier@factory.example",
			Role:       domain.RoleSupplier,
			SupplierID: "sup-1",
			Active:     true,
		},
		"former@talents.my": {
			ID:     "u-3",
			Email:  "former@talents.my",
			Role:   domain.RoleStaff,
			Active: false,
		},
	}}
	otps := &memOTPs{codes: map[string]string{}}
	mailer := &memMailer{}
	uc := New(users, otps, mailer, TokenConfig{Secret: "test-secret", Issuer: "talentsmy"}, 5*time.Minute, zap.NewNop())
	return uc, users, otps, mailer
}

func TestSendOTPRejectsUnknownEmail(t *testing.T) {
	uc, _, otps, mailer := newAuthFixture()

	_, err := uc.SendOTP(context.Background(), "stranger@example.com")
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Fatalf("unknown email must be unauthorized, got %v", err)
	}
	if len(otps.codes) != 0 || len(mailer.sent) != 0 {
		t.Fatalf("nothing may be issued for an unknown email")
	}
}

func TestSendOTPRejectsDisabledAccount(t *testing.T) {
	uc, _, _, _ := newAuthFixture()

	_, err := uc.SendOTP(context.Background(), "former@talents.my")
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Fatalf("disabled account must be unauthorized, got %v", err)
	}
}

func TestSendOTPStoresAndMails(t *testing.T) {
	uc, _, otps, mailer := newAuthFixture()

	events, err := uc.SendOTP(context.Background(), "  Aisyah@Talents.MY ")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	code, ok := otps.codes["aisyah@talents.my"]
	if !ok {
		t.Fatalf("code not stored under the normalized email")
	}
	if len(code) != 6 {
		t.Fatalf("expected a six-digit code, got %q", code)
	}
	for _, ch := range code {
		if ch < '0' || ch > '9' {
			t.Fatalf("code must be numeric, got %q", code)
		}
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "aisyah@talents.my:"+code {
		t.Fatalf("mailed code must match the stored one, got %v", mailer.sent)
	}
	if len(events) != 1 || events[0].ActionType != domain.ActionLogin {
		t.Fatalf("expected a login audit event, got %+v", events)
	}
}

func TestVerifyOTPWrongCodeBurnsStoredCode(t *testing.T) {
	uc, _, otps, _ := newAuthFixture()
	otps.codes["aisyah@talents.my"] = "123456"

	_, events, err := uc.VerifyOTP(context.Background(), "aisyah@talents.my", "654321")
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Fatalf("wrong code must be unauthorized, got %v", err)
	}
	if len(events) != 1 || events[0].ActionType != domain.ActionLoginFailed {
		t.Fatalf("failed attempts must still produce an audit event, got %+v", events)
	}

	// the stored code was consumed, so even the right one fails now
	_, _, err = uc.VerifyOTP(context.Background(), "aisyah@talents.my", "123456")
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Fatalf("burned code must not be redeemable, got %v", err)
	}
}

func TestVerifyOTPMintsToken(t *testing.T) {
	uc, _, otps, _ := newAuthFixture()
	otps.codes["supplier@factory.example"] = "123456"

	result, events, err := uc.VerifyOTP(context.Background(), "supplier@factory.example", "123456")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if result.User == nil || result.User.ID != "u-2" {
		t.Fatalf("expected the supplier user, got %+v", result.User)
	}
	if len(events) != 1 || events[0].ActionType != domain.ActionLogin {
		t.Fatalf("expected a login event, got %+v", events)
	}

	parsed, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token must verify with the signing secret: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims["sub"] != "u-2" || claims["role"] != "SUPPLIER" || claims["supplier_id"] != "sup-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims["iss"] != "talentsmy" {
		t.Fatalf("unexpected issuer %v", claims["iss"])
	}

	// a redeemed code cannot be replayed
	_, _, err = uc.VerifyOTP(context.Background(), "supplier@factory.example", "123456")
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Fatalf("replayed code must fail, got %v", err)
	}
}

func TestVerifyOTPRequiresInput(t *testing.T) {
	uc, _, _, _ := newAuthFixture()
	if _, _, err := uc.VerifyOTP(context.Background(), "", "123456"); !domain.IsDomainError(err, domain.ErrCodeValidation) {
		t.Fatalf("missing email must be a validation error, got %v", err)
	}
	if _, _, err := uc.VerifyOTP(context.Background(), "aisyah@talents.my", ""); !domain.IsDomainError(err, domain.ErrCodeValidation) {
		t.Fatalf("missing code must be a validation error, got %v", err)
	}
}
