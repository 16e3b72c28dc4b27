package domain

import (
	"testing"
	"time"
)

func TestAgencyProgressSetStampsDate(t *testing.T) {
	var p AgencyProgress
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	if err := p.Set(FlagClientPaid, true, now); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if !p.ClientPaid {
		t.Fatalf("expected clientPaid true")
	}
	if p.ClientPaidDate == nil || !p.ClientPaidDate.Equal(now) {
		t.Fatalf("expected clientPaidDate %v, got %v", now, p.ClientPaidDate)
	}
}

func TestAgencyProgressUndoClearsDate(t *testing.T) {
	var p AgencyProgress
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	if err := p.Set(FlagSamplesReceived, true, now); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := p.Set(FlagSamplesReceived, false, now.Add(time.Hour)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if p.SamplesReceived {
		t.Fatalf("expected samplesReceived false after undo")
	}
	if p.SamplesReceivedDate != nil {
		t.Fatalf("expected date cleared after undo, got %v", p.SamplesReceivedDate)
	}
}

func TestAgencyProgressRoundTripResetsDate(t *testing.T) {
	var p AgencyProgress
	first := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	_ = p.Set(FlagReportSent, true, first)
	_ = p.Set(FlagReportSent, false, first.Add(time.Hour))
	_ = p.Set(FlagReportSent, true, second)

	if p.ReportSentDate == nil || !p.ReportSentDate.Equal(second) {
		t.Fatalf("expected date reset to %v, got %v", second, p.ReportSentDate)
	}
}

func TestAgencyProgressUnknownFlag(t *testing.T) {
	var p AgencyProgress
	if err := p.Set(AgencyFlag("bogus"), true, time.Now()); !IsDomainError(err, ErrCodeValidation) {
		t.Fatalf("expected validation error for unknown flag, got %v", err)
	}
}

func TestPercentComplete(t *testing.T) {
	var p AgencyProgress
	now := time.Now()
	if got := p.PercentComplete(); got != 0 {
		t.Fatalf("expected 0%%, got %d", got)
	}

	_ = p.Set(FlagClientPaid, true, now)
	_ = p.Set(FlagSupplierPaid, true, now)
	_ = p.Set(FlagGuidelinesApproved, true, now)
	if got := p.PercentComplete(); got != 38 {
		t.Fatalf("expected 38%% for 3/8, got %d", got)
	}

	// flags outside the display subset do not move the needle
	_ = p.Set(FlagAgreementSigned, true, now)
	_ = p.Set(FlagCommissionSet, true, now)
	_ = p.Set(FlagBriefingCompleted, true, now)
	if got := p.PercentComplete(); got != 38 {
		t.Fatalf("expected 38%% unaffected by non-display flags, got %d", got)
	}

	_ = p.Set(FlagAffiliatesSelected, true, now)
	_ = p.Set(FlagSamplesReceived, true, now)
	_ = p.Set(FlagProductionStarted, true, now)
	_ = p.Set(FlagVideosCompleted, true, now)
	_ = p.Set(FlagReportSent, true, now)
	if got := p.PercentComplete(); got != 100 {
		t.Fatalf("expected 100%%, got %d", got)
	}
}

func TestSupplierProgressRosterValidation(t *testing.T) {
	now := time.Now()
	fullChecklist := &RosterChecklist{
		LinkAccessible:     true,
		CountMatches:       true,
		AllColumnsComplete: true,
		AffiliatesSuitable: true,
	}

	cases := []struct {
		name    string
		payload *SupplierPayload
	}{
		{"nil payload", nil},
		{"missing url", &SupplierPayload{Checklist: fullChecklist}},
		{"wrong host", &SupplierPayload{SheetURL: "https://example.com/sheet", Checklist: fullChecklist}},
		{"incomplete checklist", &SupplierPayload{
			SheetURL:  "https://docs.google.com/spreadsheets/d/abc",
			Checklist: &RosterChecklist{LinkAccessible: true},
		}},
	}
	for _, tc := range cases {
		var p SupplierProgress
		err := p.Set(SupplierFlagAffiliatesSubmitted, true, tc.payload, now)
		if !IsDomainError(err, ErrCodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
		if p.AffiliatesSubmitted {
			t.Fatalf("%s: flag must not flip on rejected payload", tc.name)
		}
	}

	var p SupplierProgress
	err := p.Set(SupplierFlagAffiliatesSubmitted, true, &SupplierPayload{
		SheetURL:  "https://docs.google.com/spreadsheets/d/abc",
		Checklist: fullChecklist,
	}, now)
	if err != nil {
		t.Fatalf("valid roster rejected: %v", err)
	}
	if !p.AffiliatesSubmitted || p.AffiliateSheetURL == "" {
		t.Fatalf("expected roster recorded, got %+v", p)
	}
}

func TestSupplierProgressProductionRequiresDates(t *testing.T) {
	var p SupplierProgress
	now := time.Now()

	err := p.Set(SupplierFlagProductionStarted, true, &SupplierPayload{StartDate: "2025-06-02"}, now)
	if !IsDomainError(err, ErrCodeValidation) {
		t.Fatalf("expected validation error without deadline, got %v", err)
	}

	err = p.Set(SupplierFlagProductionStarted, true, &SupplierPayload{
		StartDate: "2025-06-02",
		Deadline:  "2025-06-20",
	}, now)
	if err != nil {
		t.Fatalf("valid production payload rejected: %v", err)
	}
	if p.VideoStartDate != "2025-06-02" || p.VideoDeadline != "2025-06-20" {
		t.Fatalf("expected dates recorded, got %+v", p)
	}
}

func TestSupplierProgressReportRequiresURL(t *testing.T) {
	var p SupplierProgress
	now := time.Now()

	if err := p.Set(SupplierFlagReportSubmitted, true, nil, now); !IsDomainError(err, ErrCodeValidation) {
		t.Fatalf("expected validation error without report url, got %v", err)
	}
	if err := p.Set(SupplierFlagReportSubmitted, true, &SupplierPayload{ReportURL: "https://docs.google.com/d/report"}, now); err != nil {
		t.Fatalf("valid report rejected: %v", err)
	}
}
