package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Config holds the Resend API settings.
type Config struct {
	APIKey    string
	FromEmail string
	BaseURL   string
	Timeout   time.Duration
}

// Resend delivers transactional email through the Resend HTTP API.
type Resend struct {
	client  *fasthttp.Client
	apiKey  string
	from    string
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// New builds a Resend mailer.
func New(cfg Config, logger *zap.Logger) *Resend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.resend.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resend{
		client:  &fasthttp.Client{},
		apiKey:  cfg.APIKey,
		from:    cfg.FromEmail,
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendOTP emails the one-time login code. The code expires server-side; the
// template only informs the recipient.
func (m *Resend) SendOTP(ctx context.Context, email, code string) error {
	body := sendRequest{
		From:    m.from,
		To:      []string{email},
		Subject: "Your Talents.MY Login Code",
		HTML: fmt.Sprintf(
			`<p>Your one-time password is:</p><h1 style="letter-spacing:8px">%s</h1><p>This code will expire in 5 minutes. If you didn't request it, ignore this email.</p>`,
			code,
		),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(m.baseURL + "/emails")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.SetBody(payload)

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}

	if err := m.client.DoTimeout(req, resp, timeout); err != nil {
		return err
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		m.logger.Warn("resend rejected email",
			zap.Int("status", code),
			zap.ByteString("body", resp.Body()))
		return fmt.Errorf("resend returned status %d", code)
	}
	return nil
}
