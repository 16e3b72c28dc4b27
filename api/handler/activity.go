package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/api/transport"
	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/pkg/httpcontext"
	"github.com/talentsmy/backend/repository"
)

type ActivityHandler struct {
	baseHandler
	activity repository.ActivityRepository
}

func NewActivityHandler(activity repository.ActivityRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		activity:    activity,
	}
}

// @Summary List activity log
// @Tags activity
// @Router /api/v1/activity [get]
func (h *ActivityHandler) List(ctx *fasthttp.RequestCtx) {
	actor := h.actor(ctx)
	if !actor.CanManageAgency() {
		h.respondJSON(ctx, http.StatusForbidden, transport.NewError(string(domain.ErrCodeForbidden), "operation not allowed for this role", nil))
		return
	}

	filter := repository.ActivityFilter{
		ActorEmail: string(ctx.QueryArgs().Peek("actor")),
		ActionType: string(ctx.QueryArgs().Peek("action")),
		EntityType: string(ctx.QueryArgs().Peek("entity_type")),
		EntityID:   string(ctx.QueryArgs().Peek("entity_id")),
		Limit:      parseInt(string(ctx.QueryArgs().Peek("limit")), 100),
		Offset:     parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.activity.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
