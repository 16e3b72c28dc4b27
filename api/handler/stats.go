package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/pkg/httpcontext"
	statsUC "github.com/talentsmy/backend/usecase/stats"
)

type StatsHandler struct {
	baseHandler
	uc *statsUC.UseCase
}

func NewStatsHandler(uc *statsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Dashboard aggregates
// @Tags stats
// @Router /api/v1/stats [get]
func (h *StatsHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	dashboard, err := h.uc.Dashboard(stdCtx, h.actor(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, dashboard)
}

// @Summary Export orders as CSV
// @Tags stats
// @Router /api/v1/orders/export [get]
func (h *StatsHandler) ExportOrders(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	rows, err := h.uc.ExportCSV(stdCtx, h.actor(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		h.respondError(ctx, err)
		return
	}

	filename := "orders-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	ctx.Response.Header.SetContentType("text/csv; charset=utf-8")
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(buf.Bytes())
}
