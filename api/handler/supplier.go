package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/api/transport"
	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/internal/services"
	"github.com/talentsmy/backend/pkg/httpcontext"
	supplierUC "github.com/talentsmy/backend/usecase/supplier"
)

type SupplierHandler struct {
	baseHandler
	uc       *supplierUC.UseCase
	recorder *services.AuditRecorder
}

func NewSupplierHandler(uc *supplierUC.UseCase, recorder *services.AuditRecorder, adapter *httpcontext.Adapter, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		recorder:    recorder,
	}
}

// @Summary List suppliers
// @Tags suppliers
// @Router /api/v1/suppliers [get]
func (h *SupplierHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	suppliers, err := h.uc.List(stdCtx, h.actor(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, suppliers)
}

// @Summary Get supplier
// @Tags suppliers
// @Router /api/v1/suppliers/{id} [get]
func (h *SupplierHandler) Get(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing supplier id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	supplier, err := h.uc.Get(stdCtx, h.actor(ctx), id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, supplier)
}

// @Summary Create supplier
// @Tags suppliers
// @Router /api/v1/suppliers [post]
func (h *SupplierHandler) Create(ctx *fasthttp.RequestCtx) {
	supplier, ok := h.parseSupplier(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, events, err := h.uc.Create(stdCtx, h.actor(ctx), supplier)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update supplier
// @Tags suppliers
// @Router /api/v1/suppliers/{id} [put]
func (h *SupplierHandler) Update(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing supplier id", nil))
		return
	}
	supplier, ok := h.parseSupplier(ctx)
	if !ok {
		return
	}
	supplier.ID = id

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, events, err := h.uc.Update(stdCtx, h.actor(ctx), supplier)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete supplier
// @Tags suppliers
// @Router /api/v1/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing supplier id", nil))
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

func (h *SupplierHandler) parseSupplier(ctx *fasthttp.RequestCtx) (*domain.Supplier, bool) {
	var req transport.SupplierRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return nil, false
	}

	supplier := &domain.Supplier{
		Name:                       req.Name,
		Email:                      req.Email,
		Phone:                      req.Phone,
		CompanyName:                req.CompanyName,
		Address:                    req.Address,
		BackupContactName:          req.BackupContactName,
		BackupContactEmail:         req.BackupContactEmail,
		BackupContactPhone:         req.BackupContactPhone,
		BusinessRegistrationNumber: req.BusinessRegistrationNumber,
		BankAccountNumber:          req.BankAccountNumber,
		BankName:                   req.BankName,
		Notes:                      req.Notes,
		Active:                     true,
	}
	if req.Active != nil {
		supplier.Active = *req.Active
	}
	return supplier, true
}
