package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/api/transport"
	"github.com/talentsmy/backend/internal/services"
	"github.com/talentsmy/backend/pkg/httpcontext"
	authUC "github.com/talentsmy/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc       *authUC.UseCase
	recorder *services.AuditRecorder
}

func NewAuthHandler(uc *authUC.UseCase, recorder *services.AuditRecorder, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		recorder:    recorder,
	}
}

// @Summary Send login code
// @Tags auth
// @Router /api/send-otp [post]
func (h *AuthHandler) SendOTP(ctx *fasthttp.RequestCtx) {
	var req transport.SendOTPRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.SendOTP(stdCtx, req.Email)
	if err != nil {
		h.recorder.Record(stdCtx, events...)
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Verify login code
// @Tags auth
// @Router /api/verify-otp [post]
func (h *AuthHandler) VerifyOTP(ctx *fasthttp.RequestCtx) {
	var req transport.VerifyOTPRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, events, err := h.uc.VerifyOTP(stdCtx, req.Email, req.CodeValue())
	h.recorder.Record(stdCtx, events...)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}
