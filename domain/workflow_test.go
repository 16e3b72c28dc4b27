package domain

import (
	"testing"
	"time"
)

func paidOrder(now time.Time) *Order {
	o := &Order{Status: StatusPaid, SupplierPaymentStatus: PaymentUnpaid}
	_ = o.Progress.Set(FlagClientPaid, true, now)
	return o
}

func TestFriendlyStatusPriority(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	unpaid := &Order{Status: StatusProductionStarted, SupplierPaymentStatus: PaymentVerified}
	if got := FriendlyStatus(unpaid); got != "Awaiting Client Payment" {
		t.Fatalf("client payment must dominate everything else, got %q", got)
	}

	o := paidOrder(now)
	if got := FriendlyStatus(o); got != "Awaiting Sample Shipment" {
		t.Fatalf("expected Awaiting Sample Shipment, got %q", got)
	}

	o.ClientShipmentProofURL = "https://cdn/proof.jpg"
	_ = o.MarkSupplierPaid("", now)
	if got := FriendlyStatus(o); got != "Verify Supplier Payment" {
		t.Fatalf("expected Verify Supplier Payment, got %q", got)
	}

	_ = o.VerifySupplierPayment(now)
	if got := FriendlyStatus(o); got != "Paid to Supplier" {
		t.Fatalf("expected Paid to Supplier, got %q", got)
	}

	done := paidOrder(now)
	done.ClientShipmentProofURL = "https://cdn/proof.jpg"
	done.Status = StatusCompleted
	if got := FriendlyStatus(done); got != "Campaign Completed" {
		t.Fatalf("expected Campaign Completed, got %q", got)
	}

	fallthru := paidOrder(now)
	fallthru.ClientShipmentProofURL = "https://cdn/proof.jpg"
	fallthru.Status = StatusProductionStarted
	if got := FriendlyStatus(fallthru); got != "PRODUCTION_STARTED" {
		t.Fatalf("expected raw status fallback, got %q", got)
	}
}

func TestTimelineSingleActive(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	o := paidOrder(now)
	_ = o.Progress.Set(FlagGuidelinesApproved, true, now)

	items := Timeline(o)
	if len(items) != 7 {
		t.Fatalf("expected 7 milestones, got %d", len(items))
	}

	active := 0
	for _, m := range items {
		if m.Status == MilestoneActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active milestone, got %d", active)
	}
	if items[0].Status != MilestoneCompleted || items[1].Status != MilestoneCompleted {
		t.Fatalf("completed steps mislabeled: %v %v", items[0].Status, items[1].Status)
	}
	if items[2].Key != FlagAffiliatesSelected || items[2].Status != MilestoneActive {
		t.Fatalf("expected affiliatesSelected active, got %s=%s", items[2].Key, items[2].Status)
	}
	for _, m := range items[3:] {
		if m.Status != MilestonePending {
			t.Fatalf("milestone %s should be pending, got %s", m.Key, m.Status)
		}
	}
}

func TestTimelineOutOfOrderGap(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	o := paidOrder(now)
	// a later flag flipped while an earlier one is still open
	_ = o.Progress.Set(FlagSamplesReceived, true, now)

	items := Timeline(o)
	if items[1].Status != MilestoneActive {
		t.Fatalf("first gap must be active, got %s", items[1].Status)
	}
	if items[3].Status != MilestoneCompleted {
		t.Fatalf("out-of-order completed flag must still show completed, got %s", items[3].Status)
	}
	if items[2].Status != MilestonePending {
		t.Fatalf("steps after the active gap stay pending, got %s", items[2].Status)
	}
}

func TestAddBusinessDaysSkipsWeekends(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	got := AddBusinessDays(monday, 14)
	want := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want.Format("2006-01-02"), got.Format("2006-01-02"))
	}

	friday := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	got = AddBusinessDays(friday, 1)
	want = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("one business day from Friday must be Monday, got %s", got.Format("2006-01-02"))
	}
}

func TestProjectDeadline(t *testing.T) {
	received := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	o := paidOrder(received)
	if _, ok := ProjectDeadline(o, received); ok {
		t.Fatalf("no deadline before samples are received")
	}

	_ = o.Progress.Set(FlagSamplesReceived, true, received)

	proj, ok := ProjectDeadline(o, received.AddDate(0, 0, 1))
	if !ok {
		t.Fatalf("expected projection while report outstanding")
	}
	if !proj.Deadline.Equal(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected deadline %s", proj.Deadline.Format("2006-01-02"))
	}
	if proj.Class != DeadlineOnTrack {
		t.Fatalf("expected on_track, got %s", proj.Class)
	}

	proj, _ = ProjectDeadline(o, proj.Deadline.AddDate(0, 0, -2))
	if proj.Class != DeadlineUrgent {
		t.Fatalf("expected urgent near the deadline, got %s", proj.Class)
	}

	proj, _ = ProjectDeadline(o, time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC))
	if proj.Class != DeadlineOverdue {
		t.Fatalf("expected overdue past the deadline, got %s", proj.Class)
	}

	_ = o.Progress.Set(FlagReportSent, true, received)
	if _, ok := ProjectDeadline(o, received); ok {
		t.Fatalf("no deadline once the report is sent")
	}
}

func TestShouldAutoVerify(t *testing.T) {
	marked := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	o := &Order{SupplierPaymentStatus: PaymentUnpaid}

	if ShouldAutoVerify(o, marked.Add(48*time.Hour)) {
		t.Fatalf("unpaid orders never auto-verify")
	}

	_ = o.MarkSupplierPaid("", marked)
	if ShouldAutoVerify(o, marked.Add(23*time.Hour)) {
		t.Fatalf("23h is inside the verification window")
	}
	if !ShouldAutoVerify(o, marked.Add(25*time.Hour)) {
		t.Fatalf("25h must escalate")
	}

	_ = o.VerifySupplierPayment(marked.Add(25 * time.Hour))
	if ShouldAutoVerify(o, marked.Add(48*time.Hour)) {
		t.Fatalf("verified orders never match again")
	}
}
