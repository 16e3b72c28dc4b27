package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/api/transport"
	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// actor rebuilds the acting identity from the headers the auth middleware
// verified. Routes outside the protected group yield a zero Actor.
func (h baseHandler) actor(ctx *fasthttp.RequestCtx) domain.Actor {
	return domain.Actor{
		ID:         string(ctx.Request.Header.Peek("X-User-ID")),
		Email:      string(ctx.Request.Header.Peek("X-User-Email")),
		Name:       string(ctx.Request.Header.Peek("X-User-Name")),
		Role:       domain.Role(ctx.Request.Header.Peek("X-User-Role")),
		SupplierID: string(ctx.Request.Header.Peek("X-Supplier-ID")),
	}
}

func (h baseHandler) decodeBody(ctx *fasthttp.RequestCtx, dst interface{}) error {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		return domain.WrapError(domain.ErrCodeValidation, "malformed request body", err)
	}
	return nil
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeValidation):
		return http.StatusBadRequest, string(domain.ErrCodeValidation)
	case domain.IsDomainError(err, domain.ErrCodeInvalidPackage):
		return http.StatusBadRequest, string(domain.ErrCodeInvalidPackage)
	case domain.IsDomainError(err, domain.ErrCodeComplianceIncomplete):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeComplianceIncomplete)
	case domain.IsDomainError(err, domain.ErrCodeInvalidTransition):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeInvalidTransition)
	case domain.IsDomainError(err, domain.ErrCodeStorage):
		return http.StatusServiceUnavailable, string(domain.ErrCodeStorage)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
