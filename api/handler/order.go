package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/api/transport"
	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/internal/services"
	"github.com/talentsmy/backend/pkg/httpcontext"
	orderUC "github.com/talentsmy/backend/usecase/order"
)

type OrderHandler struct {
	baseHandler
	uc       *orderUC.Service
	recorder *services.AuditRecorder
}

func NewOrderHandler(uc *orderUC.Service, recorder *services.AuditRecorder, adapter *httpcontext.Adapter, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		recorder:    recorder,
	}
}

func (h *OrderHandler) requireActor(ctx *fasthttp.RequestCtx) (domain.Actor, bool) {
	actor := h.actor(ctx)
	if actor.Email == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing identity", nil))
		return domain.Actor{}, false
	}
	return actor, true
}

func (h *OrderHandler) orderID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing order id", nil))
		return "", false
	}
	return id, true
}

// @Summary List orders
// @Tags orders
// @Router /api/v1/orders [get]
func (h *OrderHandler) List(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	orders, err := h.uc.List(stdCtx, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, orders)
}

// @Summary Get order
// @Tags orders
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, err := h.uc.Get(stdCtx, actor, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, order)
}

// @Summary Create order
// @Tags orders
// @Router /api/v1/orders [post]
func (h *OrderHandler) Create(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}

	var req transport.OrderCreateRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	input := orderUC.CreateInput{
		AccountManager:       req.AccountManager,
		ClientName:           req.ClientName,
		ClientEmail:          req.ClientEmail,
		ClientPhone:          req.ClientPhone,
		ProductName:          req.ProductName,
		ProductDescription:   req.ProductDescription,
		ProductTikTokLink:    req.ProductTikTokLink,
		PackageID:            req.PackageID,
		Package:              req.Package,
		PaymentReceiptURL:    req.PaymentReceiptURL,
		PaymentReceiptNumber: req.PaymentReceiptNumber,
		SpecialRequests:      req.SpecialRequests,
		ContentGuidelines:    req.ContentGuidelines,
		Compliance:           req.Compliance,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.Create(stdCtx, actor, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusCreated, order)
}

// @Summary Update order
// @Tags orders
// @Router /api/v1/orders/{id} [put]
func (h *OrderHandler) Update(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	var req transport.OrderUpdateRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	patch := orderUC.Patch{
		AccountManager:       req.AccountManager,
		ClientName:           req.ClientName,
		ClientEmail:          req.ClientEmail,
		ClientPhone:          req.ClientPhone,
		ProductName:          req.ProductName,
		ProductDescription:   req.ProductDescription,
		ProductTikTokLink:    req.ProductTikTokLink,
		PaymentReceiptURL:    req.PaymentReceiptURL,
		PaymentReceiptNumber: req.PaymentReceiptNumber,
		SpecialRequests:      req.SpecialRequests,
		ContentGuidelines:    req.ContentGuidelines,
		PriceClient:          req.PriceClient,
		CostSupplier:         req.CostSupplier,
		Affiliates:           req.Affiliates,
	}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		patch.Status = &status
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.Update(stdCtx, actor, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, order)
}

// @Summary Delete order
// @Tags orders
// @Router /api/v1/orders/{id} [delete]
func (h *OrderHandler) Delete(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	var req transport.OrderDeleteRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.Delete(stdCtx, actor, id, req.TrackingCode)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Set agency progress flag
// @Tags orders
// @Router /api/v1/orders/{id}/progress [post]
func (h *OrderHandler) SetProgress(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	var req transport.ProgressRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.SetAgencyProgress(stdCtx, actor, id, domain.AgencyFlag(req.Flag), req.Value)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, order)
}

// @Summary Set supplier progress flag
// @Tags orders
// @Router /api/v1/orders/{id}/supplier-progress [post]
func (h *OrderHandler) SetSupplierProgress(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	var req transport.SupplierProgressRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.SetSupplierProgress(stdCtx, actor, id, domain.SupplierFlag(req.Flag), req.Value, req.Payload)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, order)
}

// @Summary Mark supplier payment sent
// @Tags orders
// @Router /api/v1/orders/{id}/payment/mark [post]
func (h *OrderHandler) MarkPayment(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	var req transport.SupplierPaymentRequest
	if len(ctx.PostBody()) > 0 {
		if err := h.decodeBody(ctx, &req); err != nil {
			h.respondError(ctx, err)
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.MarkSupplierPayment(stdCtx, actor, id, req.ProofURL)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, order)
}

// @Summary Verify supplier payment
// @Tags orders
// @Router /api/v1/orders/{id}/payment/verify [post]
func (h *OrderHandler) VerifyPayment(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.VerifySupplierPayment(stdCtx, actor, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, order)
}

// @Summary Dispute supplier payment
// @Tags orders
// @Router /api/v1/orders/{id}/payment/dispute [post]
func (h *OrderHandler) DisputePayment(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.DisputeSupplierPayment(stdCtx, actor, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, order)
}

// @Summary Assign supplier
// @Tags orders
// @Router /api/v1/orders/{id}/supplier [post]
func (h *OrderHandler) AssignSupplier(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	var req transport.AssignSupplierRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.AssignSupplier(stdCtx, actor, id, req.SupplierID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, order)
}

// @Summary Record client shipment proof
// @Tags orders
// @Router /api/v1/orders/{id}/shipment-proof [post]
func (h *OrderHandler) SetShipmentProof(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	var req transport.ShipmentProofRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.SetClientShipmentProof(stdCtx, actor, id, req.ProofURL)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, order)
}

// @Summary Add note
// @Tags orders
// @Router /api/v1/orders/{id}/notes [post]
func (h *OrderHandler) AddNote(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}

	var req transport.NoteRequest
	if err := h.decodeBody(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.AddNote(stdCtx, actor, id, req.Content)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusCreated, order)
}

// @Summary Delete note
// @Tags orders
// @Router /api/v1/orders/{id}/notes/{noteId} [delete]
func (h *OrderHandler) DeleteNote(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	id, ok := h.orderID(ctx)
	if !ok {
		return
	}
	noteID, _ := ctx.UserValue("noteId").(string)
	if noteID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing note id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, events, err := h.uc.DeleteNote(stdCtx, actor, id, noteID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.recorder.Record(stdCtx, events...)
	h.respondSuccess(ctx, http.StatusOK, order)
}
