package domain

import (
	"strings"
	"testing"
	"time"
)

func TestComplianceMissingNamesEveryItem(t *testing.T) {
	c := ComplianceChecklist{
		TermsAcknowledged:         true,
		VerbalBriefing:            true,
		ShippingAcknowledged:      true,
		ContentGuidelinesProvided: true,
	}
	missing := c.Missing()
	if len(missing) != 1 || missing[0] != "commissionSet" {
		t.Fatalf("expected exactly [commissionSet], got %v", missing)
	}

	var empty ComplianceChecklist
	if got := len(empty.Missing()); got != 5 {
		t.Fatalf("expected all 5 items missing, got %d", got)
	}
	full := ComplianceChecklist{
		CommissionSet:             true,
		TermsAcknowledged:         true,
		VerbalBriefing:            true,
		ShippingAcknowledged:      true,
		ContentGuidelinesProvided: true,
	}
	if !full.Complete() {
		t.Fatalf("expected complete checklist")
	}
}

func TestPackageSnapshotValidate(t *testing.T) {
	snapshot := PackageSnapshot{AffiliateCount: 10, VideoCountPerAffiliate: 2, TotalVideos: 20}
	if err := snapshot.Validate(); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}

	bad := PackageSnapshot{AffiliateCount: 10, VideoCountPerAffiliate: 2, TotalVideos: 19}
	if err := bad.Validate(); !IsDomainError(err, ErrCodeInvalidPackage) {
		t.Fatalf("expected invalid package error, got %v", err)
	}
	none := PackageSnapshot{}
	if err := none.Validate(); !IsDomainError(err, ErrCodeInvalidPackage) {
		t.Fatalf("expected invalid package error for zero counts, got %v", err)
	}
}

func TestRecomputeProfit(t *testing.T) {
	o := Order{Package: PackageSnapshot{PriceClient: 5000, CostSupplier: 3200, Profit: 999}}
	o.RecomputeProfit()
	if o.Package.Profit != 1800 {
		t.Fatalf("expected profit 1800, got %v", o.Package.Profit)
	}
}

func TestNewTrackingCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewTrackingCode()
		if len(code) != 8 {
			t.Fatalf("expected 8 characters, got %q", code)
		}
		for _, ch := range code {
			if !strings.ContainsRune(trackingCodeAlphabet, ch) {
				t.Fatalf("unexpected character %q in %q", ch, code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Fatalf("suspiciously many collisions: %d unique of 100", len(seen))
	}
}

func TestPaymentStateMachine(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	o := &Order{SupplierPaymentStatus: PaymentUnpaid}
	if err := o.VerifySupplierPayment(now); !IsDomainError(err, ErrCodeInvalidTransition) {
		t.Fatalf("verify from unpaid must fail, got %v", err)
	}
	if err := o.DisputeSupplierPayment(); !IsDomainError(err, ErrCodeInvalidTransition) {
		t.Fatalf("dispute from unpaid must fail, got %v", err)
	}

	if err := o.MarkSupplierPaid("https://proof", now); err != nil {
		t.Fatalf("mark from unpaid failed: %v", err)
	}
	if o.SupplierPaymentStatus != PaymentPendingVerification {
		t.Fatalf("expected pending_verification, got %s", o.SupplierPaymentStatus)
	}
	if o.SupplierPaymentDate == nil || !o.SupplierPaymentDate.Equal(now) {
		t.Fatalf("expected payment date stamped")
	}
	if err := o.MarkSupplierPaid("", now); !IsDomainError(err, ErrCodeInvalidTransition) {
		t.Fatalf("double mark must fail, got %v", err)
	}

	later := now.Add(time.Hour)
	if err := o.VerifySupplierPayment(later); err != nil {
		t.Fatalf("verify from pending failed: %v", err)
	}
	if o.SupplierPaymentStatus != PaymentVerified {
		t.Fatalf("expected verified, got %s", o.SupplierPaymentStatus)
	}
	if o.SupplierPaymentVerifiedDate == nil || !o.SupplierPaymentVerifiedDate.Equal(later) {
		t.Fatalf("expected verified date stamped")
	}
	if err := o.DisputeSupplierPayment(); !IsDomainError(err, ErrCodeInvalidTransition) {
		t.Fatalf("dispute after verified must fail, got %v", err)
	}

	d := &Order{SupplierPaymentStatus: PaymentUnpaid}
	_ = d.MarkSupplierPaid("", now)
	if err := d.DisputeSupplierPayment(); err != nil {
		t.Fatalf("dispute from pending failed: %v", err)
	}
	if d.SupplierPaymentStatus != PaymentDisputed {
		t.Fatalf("expected disputed, got %s", d.SupplierPaymentStatus)
	}
}
