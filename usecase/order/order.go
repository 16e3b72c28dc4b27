package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

// maxTrackingCodeAttempts bounds regeneration when the store rejects a
// duplicate tracking code.
const maxTrackingCodeAttempts = 5

// Service owns all order mutations. Every mutation takes the acting identity
// explicitly, enforces the role gate before touching state, and returns the
// audit events for the caller to dispatch. Merge semantics are last-write-wins
// per field: each mutation reads the current row, applies its own fields, and
// writes the whole row back.
type Service struct {
	orders    repository.OrderRepository
	suppliers repository.SupplierRepository
	packages  repository.PackageRepository
	feed      repository.OrderFeed
	logger    *zap.Logger
	now       func() time.Time
}

func New(
	orders repository.OrderRepository,
	suppliers repository.SupplierRepository,
	packages repository.PackageRepository,
	feed repository.OrderFeed,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders:    orders,
		suppliers: suppliers,
		packages:  packages,
		feed:      feed,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateInput carries everything needed to open a new order.
type CreateInput struct {
	AccountManager string

	ClientName  string
	ClientEmail string
	ClientPhone string

	ProductName        string
	ProductDescription string
	ProductTikTokLink  string

	PackageID string
	Package   *domain.PackageSnapshot

	PaymentReceiptURL    string
	PaymentReceiptNumber string
	SpecialRequests      string
	ContentGuidelines    string

	Compliance domain.ComplianceChecklist
}

// Patch is a sparse order update: nil fields are left unchanged.
type Patch struct {
	AccountManager *string

	ClientName  *string
	ClientEmail *string
	ClientPhone *string

	ProductName        *string
	ProductDescription *string
	ProductTikTokLink  *string

	PaymentReceiptURL    *string
	PaymentReceiptNumber *string
	SpecialRequests      *string
	ContentGuidelines    *string

	Status *domain.OrderStatus

	PriceClient  *float64
	CostSupplier *float64

	Affiliates []domain.Affiliate
}

// TrackingView is the public, unauthenticated projection of an order.
type TrackingView struct {
	TrackingCode    string                     `json:"tracking_code"`
	ClientName      string                     `json:"client_name"`
	ProductName     string                     `json:"product_name"`
	Status          domain.OrderStatus         `json:"status"`
	FriendlyStatus  string                     `json:"friendly_status"`
	PercentComplete int                        `json:"percent_complete"`
	Timeline        []domain.Milestone         `json:"timeline"`
	Deadline        *domain.DeadlineProjection `json:"deadline,omitempty"`
	AffiliateCount  int                        `json:"affiliate_count"`
	TotalVideos     int                        `json:"total_videos"`
	CreatedAt       time.Time                  `json:"created_at"`
}

// List returns the orders visible to the actor. Suppliers only ever see
// orders assigned to them.
func (s *Service) List(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	switch {
	case actor.CanManageAgency():
		return s.orders.FindAll(ctx)
	case actor.Role == domain.RoleSupplier && actor.SupplierID != "":
		return s.orders.FindBySupplier(ctx, actor.SupplierID)
	default:
		return nil, domain.ErrForbidden
	}
}

// Get loads a single order, applying the same visibility rule as List.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.OwnsSupplierSide(order.SupplierID) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// Track resolves the public tracking view by code. No identity required.
func (s *Service) Track(ctx context.Context, code string) (*TrackingView, error) {
	order, err := s.orders.FindByTrackingCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}

	view := &TrackingView{
		TrackingCode:    order.TrackingCode,
		ClientName:      order.ClientName,
		ProductName:     order.ProductName,
		Status:          order.Status,
		FriendlyStatus:  domain.FriendlyStatus(order),
		PercentComplete: order.Progress.PercentComplete(),
		Timeline:        domain.Timeline(order),
		AffiliateCount:  order.Package.AffiliateCount,
		TotalVideos:     order.Package.TotalVideos,
		CreatedAt:       order.CreatedAt,
	}
	if projection, ok := domain.ProjectDeadline(order, s.now()); ok {
		view.Deadline = &projection
	}
	return view, nil
}

// Create opens a new order. All five compliance items must be confirmed and
// the package snapshot must be internally consistent. The tracking code is
// regenerated when the store reports a collision.
func (s *Service) Create(ctx context.Context, actor domain.Actor, input CreateInput) (*domain.Order, []domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, nil, domain.ErrForbidden
	}
	if input.ClientName == "" {
		return nil, nil, domain.NewError(domain.ErrCodeValidation, "client name is required")
	}
	if input.ProductName == "" {
		return nil, nil, domain.NewError(domain.ErrCodeValidation, "product name is required")
	}
	if missing := input.Compliance.Missing(); len(missing) > 0 {
		return nil, nil, domain.NewError(domain.ErrCodeComplianceIncomplete,
			"compliance checklist incomplete: "+strings.Join(missing, ", "))
	}

	snapshot, err := s.resolveSnapshot(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	if err := snapshot.Validate(); err != nil {
		return nil, nil, err
	}

	now := s.now()
	order := &domain.Order{
		ID:                   uuid.NewString(),
		AccountManager:       input.AccountManager,
		ClientName:           input.ClientName,
		ClientEmail:          input.ClientEmail,
		ClientPhone:          input.ClientPhone,
		ProductName:          input.ProductName,
		ProductDescription:   input.ProductDescription,
		ProductTikTokLink:    input.ProductTikTokLink,
		PaymentReceiptURL:    input.PaymentReceiptURL,
		PaymentReceiptNumber: input.PaymentReceiptNumber,
		SpecialRequests:      input.SpecialRequests,
		ContentGuidelines:    input.ContentGuidelines,
		Package:              snapshot,
		Compliance:           input.Compliance,
		Status:               domain.StatusPendingPayment,
		Affiliates:           []domain.Affiliate{},
	}
	order.SupplierPaymentStatus = domain.PaymentUnpaid
	order.RecomputeProfit()
	order.Touch(now)

	for attempt := 0; ; attempt++ {
		order.TrackingCode = domain.NewTrackingCode()
		err := s.orders.Insert(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrTrackingCodeTaken) && attempt+1 < maxTrackingCodeAttempts {
			s.logger.Warn("tracking code collision, regenerating",
				zap.String("order_id", order.ID),
				zap.Int("attempt", attempt+1))
			continue
		}
		return nil, nil, err
	}

	s.publish(repository.ChangeInsert, order)

	event := domain.NewAuditEvent(actor, domain.ActionOrderCreate,
		fmt.Sprintf("Created order %s for %s", order.TrackingCode, order.ClientName)).
		WithEntity(domain.EntityOrder, order.ID)
	return order, []domain.AuditEvent{event}, nil
}

func (s *Service) resolveSnapshot(ctx context.Context, input CreateInput) (domain.PackageSnapshot, error) {
	if input.PackageID != "" {
		pkg, err := s.packages.FindByID(ctx, input.PackageID)
		if err != nil {
			return domain.PackageSnapshot{}, err
		}
		return pkg.Snapshot(), nil
	}
	if input.Package != nil {
		snapshot := *input.Package
		snapshot.Profit = snapshot.PriceClient - snapshot.CostSupplier
		return snapshot, nil
	}
	return domain.PackageSnapshot{}, domain.NewError(domain.ErrCodeInvalidPackage, "a package is required")
}

// Update applies a sparse patch. Fields left nil survive untouched; two
// concurrent patches to disjoint fields both land, same-field races resolve
// to the later write. Tracking code, id, and profit are never writable.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id string, patch Patch) (*domain.Order, []domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, nil, domain.ErrForbidden
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&order.AccountManager, patch.AccountManager)
	applyString(&order.ClientName, patch.ClientName)
	applyString(&order.ClientEmail, patch.ClientEmail)
	applyString(&order.ClientPhone, patch.ClientPhone)
	applyString(&order.ProductName, patch.ProductName)
	applyString(&order.ProductDescription, patch.ProductDescription)
	applyString(&order.ProductTikTokLink, patch.ProductTikTokLink)
	applyString(&order.PaymentReceiptURL, patch.PaymentReceiptURL)
	applyString(&order.PaymentReceiptNumber, patch.PaymentReceiptNumber)
	applyString(&order.SpecialRequests, patch.SpecialRequests)
	applyString(&order.ContentGuidelines, patch.ContentGuidelines)

	if patch.Status != nil && *patch.Status != order.Status {
		if !validStatus(*patch.Status) {
			return nil, nil, domain.NewError(domain.ErrCodeValidation, fmt.Sprintf("unknown order status %q", *patch.Status))
		}
		s.appendHistory(order, actor, "status", string(order.Status), string(*patch.Status), now)
		order.Status = *patch.Status
	}
	if patch.PriceClient != nil {
		order.Package.PriceClient = *patch.PriceClient
	}
	if patch.CostSupplier != nil {
		order.Package.CostSupplier = *patch.CostSupplier
	}
	if patch.Affiliates != nil {
		order.Affiliates = patch.Affiliates
	}

	order.RecomputeProfit()
	order.Touch(now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	s.publish(repository.ChangeUpdate, order)

	event := domain.NewAuditEvent(actor, domain.ActionOrderUpdate,
		fmt.Sprintf("Updated order %s", order.TrackingCode)).
		WithEntity(domain.EntityOrder, order.ID)
	return order, []domain.AuditEvent{event}, nil
}

// SetAgencyProgress flips an agency checklist flag. Certain flags promote the
// coarse order status as a side effect.
func (s *Service) SetAgencyProgress(ctx context.Context, actor domain.Actor, id string, flag domain.AgencyFlag, value bool) (*domain.Order, []domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, nil, domain.ErrForbidden
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if err := order.Progress.Set(flag, value, now); err != nil {
		return nil, nil, err
	}

	if value {
		switch flag {
		case domain.FlagClientPaid:
			if order.Status == domain.StatusPendingPayment {
				s.appendHistory(order, actor, "status", string(order.Status), string(domain.StatusPaid), now)
				order.Status = domain.StatusPaid
			}
		case domain.FlagReportSent:
			if order.Status != domain.StatusCompleted {
				s.appendHistory(order, actor, "status", string(order.Status), string(domain.StatusCompleted), now)
				order.Status = domain.StatusCompleted
			}
		}
	}

	order.Touch(now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	s.publish(repository.ChangeUpdate, order)

	event := domain.NewAuditEvent(actor, domain.ActionOrderUpdate,
		fmt.Sprintf("Set %s=%t on order %s", flag, value, order.TrackingCode)).
		WithEntity(domain.EntityOrder, order.ID).
		WithMetadata(map[string]string{"flag": string(flag), "value": fmt.Sprintf("%t", value)})
	return order, []domain.AuditEvent{event}, nil
}

// SetSupplierProgress flips a supplier checklist flag. Supplier actors may
// only touch orders assigned to their own supplier id.
func (s *Service) SetSupplierProgress(ctx context.Context, actor domain.Actor, id string, flag domain.SupplierFlag, value bool, payload *domain.SupplierPayload) (*domain.Order, []domain.AuditEvent, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.OwnsSupplierSide(order.SupplierID) {
		return nil, nil, domain.ErrForbidden
	}

	now := s.now()
	if err := order.SupplierProgress.Set(flag, value, payload, now); err != nil {
		return nil, nil, err
	}

	if value {
		switch flag {
		case domain.SupplierFlagAffiliatesSubmitted:
			if order.Status == domain.StatusPaid {
				s.appendHistory(order, actor, "status", string(order.Status), string(domain.StatusAffiliatesSubmitted), now)
				order.Status = domain.StatusAffiliatesSubmitted
			}
		case domain.SupplierFlagProductionStarted:
			if order.Status != domain.StatusCompleted && order.Status != domain.StatusProductionStarted {
				s.appendHistory(order, actor, "status", string(order.Status), string(domain.StatusProductionStarted), now)
				order.Status = domain.StatusProductionStarted
			}
		}
	}

	order.Touch(now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	s.publish(repository.ChangeUpdate, order)

	event := domain.NewAuditEvent(actor, domain.ActionOrderUpdate,
		fmt.Sprintf("Set supplier %s=%t on order %s", flag, value, order.TrackingCode)).
		WithEntity(domain.EntityOrder, order.ID).
		WithMetadata(map[string]string{"flag": string(flag), "value": fmt.Sprintf("%t", value)})
	return order, []domain.AuditEvent{event}, nil
}

// MarkSupplierPayment records that the agency sent the supplier payment and
// starts the verification window.
func (s *Service) MarkSupplierPayment(ctx context.Context, actor domain.Actor, id, proofURL string) (*domain.Order, []domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, nil, domain.ErrForbidden
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if err := order.MarkSupplierPaid(proofURL, now); err != nil {
		return nil, nil, err
	}
	_ = order.Progress.Set(domain.FlagSupplierPaid, true, now)
	s.appendHistory(order, actor, "supplier_payment_status",
		string(domain.PaymentUnpaid), string(domain.PaymentPendingVerification), now)

	order.Touch(now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	s.publish(repository.ChangeUpdate, order)

	event := domain.NewAuditEvent(actor, domain.ActionPaymentUpdate,
		fmt.Sprintf("Marked supplier payment sent on order %s", order.TrackingCode)).
		WithEntity(domain.EntityOrder, order.ID)
	return order, []domain.AuditEvent{event}, nil
}

// VerifySupplierPayment confirms receipt. The assigned supplier or agency
// staff may perform it.
func (s *Service) VerifySupplierPayment(ctx context.Context, actor domain.Actor, id string) (*domain.Order, []domain.AuditEvent, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.OwnsSupplierSide(order.SupplierID) {
		return nil, nil, domain.ErrForbidden
	}

	now := s.now()
	if err := order.VerifySupplierPayment(now); err != nil {
		return nil, nil, err
	}
	s.appendHistory(order, actor, "supplier_payment_status",
		string(domain.PaymentPendingVerification), string(domain.PaymentVerified), now)

	order.Touch(now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	s.publish(repository.ChangeUpdate, order)

	event := domain.NewAuditEvent(actor, domain.ActionPaymentUpdate,
		fmt.Sprintf("Verified supplier payment on order %s", order.TrackingCode)).
		WithEntity(domain.EntityOrder, order.ID)
	return order, []domain.AuditEvent{event}, nil
}

// DisputeSupplierPayment flags a payment problem for manual resolution.
func (s *Service) DisputeSupplierPayment(ctx context.Context, actor domain.Actor, id string) (*domain.Order, []domain.AuditEvent, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.OwnsSupplierSide(order.SupplierID) {
		return nil, nil, domain.ErrForbidden
	}

	now := s.now()
	if err := order.DisputeSupplierPayment(); err != nil {
		return nil, nil, err
	}
	s.appendHistory(order, actor, "supplier_payment_status",
		string(domain.PaymentPendingVerification), string(domain.PaymentDisputed), now)

	order.Touch(now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	s.publish(repository.ChangeUpdate, order)

	event := domain.NewAuditEvent(actor, domain.ActionPaymentUpdate,
		fmt.Sprintf("Disputed supplier payment on order %s", order.TrackingCode)).
		WithEntity(domain.EntityOrder, order.ID)
	return order, []domain.AuditEvent{event}, nil
}

// AssignSupplier binds the order to a supplier, copying the supplier name for
// display resilience. An empty supplier id unassigns.
func (s *Service) AssignSupplier(ctx context.Context, actor domain.Actor, id, supplierID string) (*domain.Order, []domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, nil, domain.ErrForbidden
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	previous := order.SupplierID
	if supplierID == "" {
		order.SupplierID = ""
		order.SupplierName = ""
	} else {
		supplier, err := s.suppliers.FindByID(ctx, supplierID)
		if err != nil {
			return nil, nil, err
		}
		order.SupplierID = supplier.ID
		order.SupplierName = supplier.Name
	}
	s.appendHistory(order, actor, "supplier_id", previous, supplierID, now)

	order.Touch(now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	s.publish(repository.ChangeUpdate, order)

	event := domain.NewAuditEvent(actor, domain.ActionOrderUpdate,
		fmt.Sprintf("Assigned supplier %q to order %s", order.SupplierName, order.TrackingCode)).
		WithEntity(domain.EntityOrder, order.ID)
	return order, []domain.AuditEvent{event}, nil
}

// SetClientShipmentProof records the proof-of-shipment link shown to clients.
func (s *Service) SetClientShipmentProof(ctx context.Context, actor domain.Actor, id, proofURL string) (*domain.Order, []domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, nil, domain.ErrForbidden
	}
	if proofURL == "" {
		return nil, nil, domain.NewError(domain.ErrCodeValidation, "shipment proof link is required")
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	order.ClientShipmentProofURL = proofURL
	if order.Status == domain.StatusPaid {
		s.appendHistory(order, actor, "status", string(order.Status), string(domain.StatusSamplesShipped), now)
		order.Status = domain.StatusSamplesShipped
	}

	order.Touch(now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	s.publish(repository.ChangeUpdate, order)

	event := domain.NewAuditEvent(actor, domain.ActionOrderUpdate,
		fmt.Sprintf("Recorded shipment proof on order %s", order.TrackingCode)).
		WithEntity(domain.EntityOrder, order.ID)
	return order, []domain.AuditEvent{event}, nil
}

// AddNote appends an internal note attributed to the actor.
func (s *Service) AddNote(ctx context.Context, actor domain.Actor, id, content string) (*domain.Order, []domain.AuditEvent, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, domain.NewError(domain.ErrCodeValidation, "note content is required")
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.OwnsSupplierSide(order.SupplierID) {
		return nil, nil, domain.ErrForbidden
	}

	now := s.now()
	order.Notes = append(order.Notes, domain.OrderNote{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		Content:       content,
		CreatedBy:     actor.Email,
		CreatedByName: actor.Name,
		CreatedAt:     now,
	})

	order.Touch(now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	s.publish(repository.ChangeUpdate, order)

	event := domain.NewAuditEvent(actor, domain.ActionNoteAdd,
		fmt.Sprintf("Added note to order %s", order.TrackingCode)).
		WithEntity(domain.EntityOrder, order.ID)
	return order, []domain.AuditEvent{event}, nil
}

// DeleteNote removes a note by id. Agency staff may delete any note, a
// supplier only their own.
func (s *Service) DeleteNote(ctx context.Context, actor domain.Actor, id, noteID string) (*domain.Order, []domain.AuditEvent, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	index := -1
	for i, note := range order.Notes {
		if note.ID == noteID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, nil, domain.ErrNoteNotFound
	}
	if !actor.CanManageAgency() && order.Notes[index].CreatedBy != actor.Email {
		return nil, nil, domain.ErrForbidden
	}

	now := s.now()
	order.Notes = append(order.Notes[:index], order.Notes[index+1:]...)

	order.Touch(now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	s.publish(repository.ChangeUpdate, order)

	event := domain.NewAuditEvent(actor, domain.ActionNoteDelete,
		fmt.Sprintf("Deleted note from order %s", order.TrackingCode)).
		WithEntity(domain.EntityOrder, order.ID)
	return order, []domain.AuditEvent{event}, nil
}

// Delete removes an order permanently. The caller must echo the order's own
// tracking code as a confirmation token.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id, confirmCode string) ([]domain.AuditEvent, error) {
	if !actor.CanManageAgency() {
		return nil, domain.ErrForbidden
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(confirmCode), order.TrackingCode) {
		return nil, domain.NewError(domain.ErrCodeValidation, "tracking code confirmation does not match")
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.feedPublish(repository.OrderChange{Kind: repository.ChangeDelete, OrderID: id})

	event := domain.NewAuditEvent(actor, domain.ActionOrderDelete,
		fmt.Sprintf("Deleted order %s (%s)", order.TrackingCode, order.ClientName)).
		WithEntity(domain.EntityOrder, order.ID)
	return []domain.AuditEvent{event}, nil
}

// AutoVerifyPayments escalates every payment that has sat in pending
// verification past the timeout. Safe to run concurrently with manual
// actions: the state-machine precondition guards double transitions.
func (s *Service) AutoVerifyPayments(ctx context.Context, now time.Time) ([]domain.AuditEvent, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var events []domain.AuditEvent
	for i := range orders {
		order := &orders[i]
		if !domain.ShouldAutoVerify(order, now) {
			continue
		}
		if err := order.VerifySupplierPayment(now); err != nil {
			continue
		}
		order.StatusHistory = append(order.StatusHistory, domain.StatusHistoryEntry{
			ID:            uuid.NewString(),
			OrderID:       order.ID,
			Field:         "supplier_payment_status",
			OldValue:      string(domain.PaymentPendingVerification),
			NewValue:      string(domain.PaymentVerified),
			ChangedBy:     "system",
			ChangedByName: "Auto Verification",
			ChangedAt:     now,
		})
		order.Touch(now)
		if err := s.orders.Update(ctx, order); err != nil {
			s.logger.Error("auto-verify persist failed",
				zap.String("order_id", order.ID),
				zap.Error(err))
			continue
		}
		s.publish(repository.ChangeUpdate, order)

		events = append(events, domain.AuditEvent{
			ActorEmail:  "system",
			ActorName:   "Auto Verification",
			ActionType:  domain.ActionPaymentUpdate,
			Description: fmt.Sprintf("Auto-verified supplier payment on order %s after 24h", order.TrackingCode),
			EntityType:  domain.EntityOrder,
			EntityID:    order.ID,
			CreatedAt:   now,
		})
	}
	return events, nil
}

func (s *Service) appendHistory(order *domain.Order, actor domain.Actor, field, oldValue, newValue string, now time.Time) {
	order.StatusHistory = append(order.StatusHistory, domain.StatusHistoryEntry{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		Field:         field,
		OldValue:      oldValue,
		NewValue:      newValue,
		ChangedBy:     actor.Email,
		ChangedByName: actor.Name,
		ChangedAt:     now,
	})
}

func (s *Service) publish(kind repository.ChangeKind, order *domain.Order) {
	snapshot := *order
	s.feedPublish(repository.OrderChange{Kind: kind, OrderID: order.ID, Order: &snapshot})
}

func (s *Service) feedPublish(change repository.OrderChange) {
	if s.feed != nil {
		s.feed.Publish(change)
	}
}

func validStatus(status domain.OrderStatus) bool {
	switch status {
	case domain.StatusPendingPayment, domain.StatusPaid, domain.StatusAffiliatesSubmitted,
		domain.StatusSamplesShipped, domain.StatusProductionStarted,
		domain.StatusCompleted, domain.StatusCancelled:
		return true
	}
	return false
}
