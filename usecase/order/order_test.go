package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

var (
	agencyActor = domain.Actor{ID: "u-1", Name: "Aisyah", Email: "aisyah@talents.my", Role: domain.RoleStaff}
	ownerActor  = domain.Actor{ID: "u-0", Name: "Owner", Email: "owner@talents.my", Role: domain.RoleOwner}
)

func supplierActor(supplierID string) domain.Actor {
	return domain.Actor{ID: "u-9", Name: "Supplier", Email: "supplier@factory.example", Role: domain.RoleSupplier, SupplierID: supplierID}
}

type memOrders struct {
	byID        map[string]domain.Order
	rejectCodes int
	inserts     int
}

func newMemOrders() *memOrders {
	return &memOrders{byID: map[string]domain.Order{}}
}

func (m *memOrders) Insert(_ context.Context, order *domain.Order) error {
	m.inserts++
	if m.rejectCodes > 0 {
		m.rejectCodes--
		return domain.ErrTrackingCodeTaken
	}
	m.byID[order.ID] = *order
	return nil
}

func (m *memOrders) Update(_ context.Context, order *domain.Order) error {
	if _, ok := m.byID[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	m.byID[order.ID] = *order
	return nil
}

func (m *memOrders) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memOrders) FindAll(_ context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(m.byID))
	for _, o := range m.byID {
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrders) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (m *memOrders) FindByTrackingCode(_ context.Context, code string) (*domain.Order, error) {
	for _, o := range m.byID {
		if o.TrackingCode == code {
			found := o
			return &found, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (m *memOrders) FindBySupplier(_ context.Context, supplierID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.byID {
		if o.SupplierID == supplierID {
			out = append(out, o)
		}
	}
	return out, nil
}

type memSuppliers struct {
	byID map[string]domain.Supplier
}

func (m *memSuppliers) Insert(_ context.Context, s *domain.Supplier) error { m.byID[s.ID] = *s; return nil }
func (m *memSuppliers) Update(_ context.Context, s *domain.Supplier) error { m.byID[s.ID] = *s; return nil }
func (m *memSuppliers) Delete(_ context.Context, id string) error          { delete(m.byID, id); return nil }
func (m *memSuppliers) FindAll(_ context.Context) ([]domain.Supplier, error) {
	out := make([]domain.Supplier, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	return out, nil
}
func (m *memSuppliers) FindByID(_ context.Context, id string) (*domain.Supplier, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrSupplierNotFound
	}
	return &s, nil
}
func (m *memSuppliers) FindByEmail(_ context.Context, email string) (*domain.Supplier, error) {
	for _, s := range m.byID {
		if s.Email == email {
			found := s
			return &found, nil
		}
	}
	return nil, domain.ErrSupplierNotFound
}

type memPackages struct {
	byID map[string]domain.CampaignPackage
}

func (m *memPackages) Insert(_ context.Context, p *domain.CampaignPackage) error {
	m.byID[p.ID] = *p
	return nil
}
func (m *memPackages) Update(_ context.Context, p *domain.CampaignPackage) error {
	m.byID[p.ID] = *p
	return nil
}
func (m *memPackages) Delete(_ context.Context, id string) error { delete(m.byID, id); return nil }
func (m *memPackages) FindAll(_ context.Context) ([]domain.CampaignPackage, error) {
	out := make([]domain.CampaignPackage, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}
func (m *memPackages) FindByID(_ context.Context, id string) (*domain.CampaignPackage, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrPackageNotFound
	}
	return &p, nil
}

type memFeed struct {
	changes []repository.OrderChange
}

func (m *memFeed) Publish(change repository.OrderChange) {
	m.changes = append(m.changes, change)
}

func (m *memFeed) Subscribe(int) (<-chan repository.OrderChange, func()) {
	ch := make(chan repository.OrderChange)
	close(ch)
	return ch, func() {}
}

type fixture struct {
	svc       *Service
	orders    *memOrders
	suppliers *memSuppliers
	feed      *memFeed
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:    newMemOrders(),
		suppliers: &memSuppliers{byID: map[string]domain.Supplier{}},
		feed:      &memFeed{},
		clock:     time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
	f.svc = New(f.orders, f.suppliers, &memPackages{byID: map[string]domain.CampaignPackage{}}, f.feed, zap.NewNop())
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func fullCompliance() domain.ComplianceChecklist {
	return domain.ComplianceChecklist{
		CommissionSet:             true,
		TermsAcknowledged:         true,
		VerbalBriefing:            true,
		ShippingAcknowledged:      true,
		ContentGuidelinesProvided: true,
	}
}

func validInput() CreateInput {
	return CreateInput{
		ClientName:  "Nadia Cosmetics",
		ProductName: "Vitamin C Serum",
		Package: &domain.PackageSnapshot{
			PackageType:            "Starter",
			AffiliateCount:         10,
			VideoCountPerAffiliate: 1,
			TotalVideos:            10,
			PriceClient:            5000,
			CostSupplier:           3200,
		},
		Compliance: fullCompliance(),
	}
}

func (f *fixture) mustCreate(t *testing.T) *domain.Order {
	t.Helper()
	order, _, err := f.svc.Create(context.Background(), agencyActor, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return order
}

func TestCreateRejectsIncompleteCompliance(t *testing.T) {
	f := newFixture(t)
	input := validInput()
	input.Compliance.VerbalBriefing = false

	_, _, err := f.svc.Create(context.Background(), agencyActor, input)
	if !domain.IsDomainError(err, domain.ErrCodeComplianceIncomplete) {
		t.Fatalf("expected compliance error, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "verbalBriefing") {
		t.Fatalf("error must name the missing item, got %v", err)
	}
	if f.orders.inserts != 0 {
		t.Fatalf("nothing may be persisted on a rejected create")
	}
}

func TestCreateRequiresAgencyRole(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Create(context.Background(), supplierActor("sup-1"), validInput())
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateDefaults(t *testing.T) {
	f := newFixture(t)
	order := f.mustCreate(t)

	if order.Status != domain.StatusPendingPayment {
		t.Fatalf("new orders start pending payment, got %s", order.Status)
	}
	if order.SupplierPaymentStatus != domain.PaymentUnpaid {
		t.Fatalf("new orders start unpaid, got %s", order.SupplierPaymentStatus)
	}
	if order.Package.Profit != 1800 {
		t.Fatalf("profit must be derived on create, got %v", order.Package.Profit)
	}
	if len(order.TrackingCode) != 8 {
		t.Fatalf("expected 8-char tracking code, got %q", order.TrackingCode)
	}
	if len(f.feed.changes) != 1 || f.feed.changes[0].Kind != repository.ChangeInsert {
		t.Fatalf("expected a single insert feed event, got %+v", f.feed.changes)
	}
}

func TestCreateRetriesTrackingCodeCollision(t *testing.T) {
	f := newFixture(t)
	f.orders.rejectCodes = 2

	order := f.mustCreate(t)
	if f.orders.inserts != 3 {
		t.Fatalf("expected 3 insert attempts, got %d", f.orders.inserts)
	}
	if _, ok := f.orders.byID[order.ID]; !ok {
		t.Fatalf("order must be persisted after regeneration")
	}
}

func TestCreateGivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture(t)
	f.orders.rejectCodes = maxTrackingCodeAttempts

	_, _, err := f.svc.Create(context.Background(), agencyActor, validInput())
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("expected conflict after exhausting retries, got %v", err)
	}
	if f.orders.inserts != maxTrackingCodeAttempts {
		t.Fatalf("expected %d attempts, got %d", maxTrackingCodeAttempts, f.orders.inserts)
	}
}

func TestUpdatePatchIsSparse(t *testing.T) {
	f := newFixture(t)
	order := f.mustCreate(t)

	newName := "Nadia Cosmetics Sdn Bhd"
	newPrice := 6000.0
	updated, _, err := f.svc.Update(context.Background(), agencyActor, order.ID, Patch{
		ClientName:  &newName,
		PriceClient: &newPrice,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.ClientName != newName {
		t.Fatalf("patched field not applied: %q", updated.ClientName)
	}
	if updated.ProductName != order.ProductName {
		t.Fatalf("untouched field changed: %q", updated.ProductName)
	}
	if updated.TrackingCode != order.TrackingCode {
		t.Fatalf("tracking code must never change on update")
	}
	if updated.Package.Profit != 6000-3200 {
		t.Fatalf("profit must be recomputed after a price change, got %v", updated.Package.Profit)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	order := f.mustCreate(t)

	bogus := domain.OrderStatus("SHIPPED_TO_MARS")
	_, _, err := f.svc.Update(context.Background(), agencyActor, order.ID, Patch{Status: &bogus})
	if !domain.IsDomainError(err, domain.ErrCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStatusChangeRecordsHistory(t *testing.T) {
	f := newFixture(t)
	order := f.mustCreate(t)

	paid := domain.StatusPaid
	updated, _, err := f.svc.Update(context.Background(), agencyActor, order.ID, Patch{Status: &paid})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated.StatusHistory) != 1 {
		t.Fatalf("expected one history entry, got %d", len(updated.StatusHistory))
	}
	entry := updated.StatusHistory[0]
	if entry.OldValue != string(domain.StatusPendingPayment) || entry.NewValue != string(domain.StatusPaid) {
		t.Fatalf("history entry wrong: %+v", entry)
	}
	if entry.ChangedBy != agencyActor.Email {
		t.Fatalf("history must attribute the actor, got %q", entry.ChangedBy)
	}
}

func TestAgencyProgressPromotesStatus(t *testing.T) {
	f := newFixture(t)
	order := f.mustCreate(t)

	updated, _, err := f.svc.SetAgencyProgress(context.Background(), agencyActor, order.ID, domain.FlagClientPaid, true)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if updated.Status != domain.StatusPaid {
		t.Fatalf("clientPaid must promote to PAID, got %s", updated.Status)
	}

	updated, _, err = f.svc.SetAgencyProgress(context.Background(), agencyActor, order.ID, domain.FlagReportSent, true)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Fatalf("reportSent must promote to COMPLETED, got %s", updated.Status)
	}
}

func TestSupplierCannotFlipAgencyFlags(t *testing.T) {
	f := newFixture(t)
	order := f.mustCreate(t)

	_, _, err := f.svc.SetAgencyProgress(context.Background(), supplierActor("sup-1"), order.ID, domain.FlagClientPaid, true)
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestSupplierProgressRequiresAssignment(t *testing.T) {
	f := newFixture(t)
	f.suppliers.byID["sup-1"] = domain.Supplier{ID: "sup-1", Name: "Factory One", Email: "factory@example.com"}
	order := f.mustCreate(t)

	// not assigned yet
	_, _, err := f.svc.SetSupplierProgress(context.Background(), supplierActor("sup-1"), order.ID,
		domain.SupplierFlagBriefingCompleted, true, nil)
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("unassigned supplier must be rejected, got %v", err)
	}

	if _, _, err := f.svc.AssignSupplier(context.Background(), agencyActor, order.ID, "sup-1"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	updated, _, err := f.svc.SetSupplierProgress(context.Background(), supplierActor("sup-1"), order.ID,
		domain.SupplierFlagBriefingCompleted, true, nil)
	if err != nil {
		t.Fatalf("assigned supplier rejected: %v", err)
	}
	if !updated.SupplierProgress.BriefingCompleted {
		t.Fatalf("flag not applied")
	}

	// a different supplier still cannot touch it
	_, _, err = f.svc.SetSupplierProgress(context.Background(), supplierActor("sup-2"), order.ID,
		domain.SupplierFlagBriefingCompleted, false, nil)
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("foreign supplier must be rejected, got %v", err)
	}
}

func TestAssignSupplierCopiesName(t *testing.T) {
	f := newFixture(t)
	f.suppliers.byID["sup-1"] = domain.Supplier{ID: "sup-1", Name: "Factory One", Email: "factory@example.com"}
	order := f.mustCreate(t)

	updated, _, err := f.svc.AssignSupplier(context.Background(), agencyActor, order.ID, "sup-1")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if updated.SupplierName != "Factory One" {
		t.Fatalf("supplier name not copied, got %q", updated.SupplierName)
	}

	updated, _, err = f.svc.AssignSupplier(context.Background(), agencyActor, order.ID, "")
	if err != nil {
		t.Fatalf("unassign failed: %v", err)
	}
	if updated.SupplierID != "" || updated.SupplierName != "" {
		t.Fatalf("unassign must clear both id and name, got %q %q", updated.SupplierID, updated.SupplierName)
	}
}

func TestPaymentLifecycle(t *testing.T) {
	f := newFixture(t)
	f.suppliers.byID["sup-1"] = domain.Supplier{ID: "sup-1", Name: "Factory One", Email: "factory@example.com"}
	order := f.mustCreate(t)
	if _, _, err := f.svc.AssignSupplier(context.Background(), agencyActor, order.ID, "sup-1"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	// supplier cannot mark the payment as sent
	_, _, err := f.svc.MarkSupplierPayment(context.Background(), supplierActor("sup-1"), order.ID, "")
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("supplier must not mark payments, got %v", err)
	}

	updated, _, err := f.svc.MarkSupplierPayment(context.Background(), agencyActor, order.ID, "https://cdn/receipt.pdf")
	if err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if updated.SupplierPaymentStatus != domain.PaymentPendingVerification {
		t.Fatalf("expected pending_verification, got %s", updated.SupplierPaymentStatus)
	}
	if !updated.Progress.SupplierPaid {
		t.Fatalf("marking payment must also flip the supplierPaid checklist flag")
	}

	updated, _, err = f.svc.VerifySupplierPayment(context.Background(), supplierActor("sup-1"), order.ID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if updated.SupplierPaymentStatus != domain.PaymentVerified {
		t.Fatalf("expected verified, got %s", updated.SupplierPaymentStatus)
	}

	// a second verify hits the state machine guard
	_, _, err = f.svc.VerifySupplierPayment(context.Background(), agencyActor, order.ID)
	if !domain.IsDomainError(err, domain.ErrCodeInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestDisputeFromPending(t *testing.T) {
	f := newFixture(t)
	f.suppliers.byID["sup-1"] = domain.Supplier{ID: "sup-1", Name: "Factory One", Email: "factory@example.com"}
	order := f.mustCreate(t)
	if _, _, err := f.svc.AssignSupplier(context.Background(), agencyActor, order.ID, "sup-1"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, _, err := f.svc.MarkSupplierPayment(context.Background(), agencyActor, order.ID, ""); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	updated, _, err := f.svc.DisputeSupplierPayment(context.Background(), supplierActor("sup-1"), order.ID)
	if err != nil {
		t.Fatalf("dispute failed: %v", err)
	}
	if updated.SupplierPaymentStatus != domain.PaymentDisputed {
		t.Fatalf("expected disputed, got %s", updated.SupplierPaymentStatus)
	}
}

func TestAutoVerifyPayments(t *testing.T) {
	f := newFixture(t)
	order := f.mustCreate(t)
	if _, _, err := f.svc.MarkSupplierPayment(context.Background(), agencyActor, order.ID, ""); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	// inside the window: nothing happens
	events, err := f.svc.AutoVerifyPayments(context.Background(), f.clock.Add(23*time.Hour))
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("23h sweep must be a no-op, got %d events", len(events))
	}

	// past the window: escalates exactly once
	events, err = f.svc.AutoVerifyPayments(context.Background(), f.clock.Add(25*time.Hour))
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one escalation, got %d", len(events))
	}
	if events[0].ActorEmail != "system" {
		t.Fatalf("sweep events must carry the system identity, got %q", events[0].ActorEmail)
	}

	stored, err := f.svc.Get(context.Background(), agencyActor, order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.SupplierPaymentStatus != domain.PaymentVerified {
		t.Fatalf("expected verified after sweep, got %s", stored.SupplierPaymentStatus)
	}
	last := stored.StatusHistory[len(stored.StatusHistory)-1]
	if last.ChangedBy != "system" || last.ChangedByName != "Auto Verification" {
		t.Fatalf("sweep history must be system-attributed, got %+v", last)
	}

	// second sweep finds nothing left to do
	events, err = f.svc.AutoVerifyPayments(context.Background(), f.clock.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("sweep must be idempotent, got %d events", len(events))
	}
}

func TestNotes(t *testing.T) {
	f := newFixture(t)
	order := f.mustCreate(t)

	updated, _, err := f.svc.AddNote(context.Background(), agencyActor, order.ID, "client asked for rush delivery")
	if err != nil {
		t.Fatalf("add note failed: %v", err)
	}
	if len(updated.Notes) != 1 || updated.Notes[0].CreatedBy != agencyActor.Email {
		t.Fatalf("note not attributed: %+v", updated.Notes)
	}

	if _, _, err := f.svc.AddNote(context.Background(), agencyActor, order.ID, "   "); !domain.IsDomainError(err, domain.ErrCodeValidation) {
		t.Fatalf("blank notes must be rejected, got %v", err)
	}

	noteID := updated.Notes[0].ID
	if _, _, err := f.svc.DeleteNote(context.Background(), agencyActor, order.ID, "missing"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("unknown note id must be not found, got %v", err)
	}
	updated, _, err = f.svc.DeleteNote(context.Background(), agencyActor, order.ID, noteID)
	if err != nil {
		t.Fatalf("delete note failed: %v", err)
	}
	if len(updated.Notes) != 0 {
		t.Fatalf("note not removed")
	}
}

func TestDeleteRequiresTrackingCodeEcho(t *testing.T) {
	f := newFixture(t)
	order := f.mustCreate(t)

	if _, err := f.svc.Delete(context.Background(), agencyActor, order.ID, "WRONG123"); !domain.IsDomainError(err, domain.ErrCodeValidation) {
		t.Fatalf("mismatched confirmation must fail, got %v", err)
	}
	if _, ok := f.orders.byID[order.ID]; !ok {
		t.Fatalf("order must survive a failed delete")
	}

	// the echo is case-insensitive
	if _, err := f.svc.Delete(context.Background(), agencyActor, order.ID, strings.ToLower(order.TrackingCode)); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := f.orders.byID[order.ID]; ok {
		t.Fatalf("order must be gone after delete")
	}

	last := f.feed.changes[len(f.feed.changes)-1]
	if last.Kind != repository.ChangeDelete || last.Order != nil {
		t.Fatalf("delete feed events carry only the id, got %+v", last)
	}
}

func TestListVisibility(t *testing.T) {
	f := newFixture(t)
	f.suppliers.byID["sup-1"] = domain.Supplier{ID: "sup-1", Name: "Factory One", Email: "factory@example.com"}
	first := f.mustCreate(t)
	f.mustCreate(t)
	if _, _, err := f.svc.AssignSupplier(context.Background(), ownerActor, first.ID, "sup-1"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	all, err := f.svc.List(context.Background(), ownerActor)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("agency must see everything, got %d", len(all))
	}

	mine, err := f.svc.List(context.Background(), supplierActor("sup-1"))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Fatalf("supplier must only see assigned orders, got %d", len(mine))
	}

	if _, err := f.svc.List(context.Background(), domain.Actor{Role: domain.RoleSupplier}); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("supplier without an id must be rejected, got %v", err)
	}
}

func TestTrackNormalizesCode(t *testing.T) {
	f := newFixture(t)
	order := f.mustCreate(t)
	if _, _, err := f.svc.SetAgencyProgress(context.Background(), agencyActor, order.ID, domain.FlagClientPaid, true); err != nil {
		t.Fatalf("progress failed: %v", err)
	}

	sloppy := "  " + strings.ToLower(order.TrackingCode) + " "
	view, err := f.svc.Track(context.Background(), sloppy)
	if err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if view.TrackingCode != order.TrackingCode {
		t.Fatalf("unexpected view %+v", view)
	}
	if len(view.Timeline) != 7 {
		t.Fatalf("expected 7 milestones, got %d", len(view.Timeline))
	}
	if view.FriendlyStatus != "Awaiting Sample Shipment" {
		t.Fatalf("unexpected friendly status %q", view.FriendlyStatus)
	}
	if view.PercentComplete != 13 {
		t.Fatalf("expected 13%% for 1/8, got %d", view.PercentComplete)
	}
}
