package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/api/transport"
	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/internal/services"
	"github.com/talentsmy/backend/pkg/httpcontext"
	pkgUC "github.com/talentsmy/backend/usecase/campaignpkg"
)

type PackageHandler struct {
	baseHandler
	uc       *pkgUC.UseCase
	recorder *services.AuditRecorder
}

func NewPackageHandler(uc *pkgUC.UseCase, recorder *services.AuditRecorder, adapter *httpcontext.Adapter, logger *zap.Logger) *PackageHandler {
	return &PackageHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		recorder:    recorder,
	}
}

// @Summary List packages
// @Tags packages
// @Router /api/v1/packages [get]
func (h *PackageHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	packages, err := h.uc.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, packages)
}

// @Summary Get package
// @Tags packages
// @Router /api/v1/packages/{id} [get]
func (h *PackageHandler) Get(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing package id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	pkg, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, pkg)
}

// @Summary Create package
// @Tags packages
// @Router /api/v1/packages [post]
func (h *PackageHandler) Create(ctx *fasthttp.RequestCtx) {
	pkg, ok := h.parsePackage(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, events, err := h.uc.Create(stdCtx, h.actor(ctx), pkg)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update package
// @Tags packages
// @Router /api/v1/packages/{id} [put]
func (h *PackageHandler) Update(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing package id", nil))
		return
	}
	pkg, ok := h.parsePackage(ctx)
	if !ok {
		return
	}
	pkg.ID = id

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, events, err := h.uc.Update(stdCtx, h.actor(ctx), pkg)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete package
// @Tags packages
// @Router /api/v1/packages/{id} [delete]
func (h *PackageHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing package id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.Delete(stdCtx, h.actor(ctx), id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, nil)
}

func (h *PackageHandler) parsePackage(ctx *fasthttp.RequestCtx) (*domain.CampaignPackage, bool) {
	var req transport.PackageRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return nil, false
	}

	pkg := &domain.CampaignPackage{
		Name:                   req.Name,
		AffiliateCount:         req.AffiliateCount,
		VideoCountPerAffiliate: req.VideoCountPerAffiliate,
		OriginalPrice:          req.OriginalPrice,
		CurrentPrice:           req.CurrentPrice,
		SupplierCost:           req.SupplierCost,
		CommissionRate:         req.CommissionRate,
		Description:            req.Description,
		ImagePath:              req.ImagePath,
		IsActive:               true,
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}
	return pkg, true
}
