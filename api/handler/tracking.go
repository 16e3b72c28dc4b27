package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/api/transport"
	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/pkg/httpcontext"
	orderUC "github.com/talentsmy/backend/usecase/order"
)

// TrackingHandler serves the public, unauthenticated order lookup used by
// clients. It only ever exposes the limited tracking view.
type TrackingHandler struct {
	baseHandler
	uc *orderUC.Service
}

func NewTrackingHandler(uc *orderUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *TrackingHandler {
	return &TrackingHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Track order by code
// @Tags tracking
// @Router /api/track/{code} [get]
func (h *TrackingHandler) Track(ctx *fasthttp.RequestCtx) {
	code, _ := ctx.UserValue("code").(string)
	if code == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing tracking code", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := h.uc.Track(stdCtx, code)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}
