package domain

import (
	"math"
	"time"
)

// FriendlyStatus derives the human-readable label shown on dashboards.
// Priority order, first match wins; nothing is stored.
func FriendlyStatus(o *Order) string {
	switch {
	case !o.Progress.ClientPaid:
		return "Awaiting Client Payment"
	case o.ClientShipmentProofURL == "":
		return "Awaiting Sample Shipment"
	case o.SupplierPaymentStatus == PaymentPendingVerification:
		return "Verify Supplier Payment"
	case o.SupplierPaymentStatus == PaymentVerified:
		return "Paid to Supplier"
	case o.Status == StatusCompleted:
		return "Campaign Completed"
	default:
		return string(o.Status)
	}
}

// MilestoneStatus tags a timeline entry.
type MilestoneStatus string

const (
	MilestonePending   MilestoneStatus = "pending"
	MilestoneActive    MilestoneStatus = "active"
	MilestoneCompleted MilestoneStatus = "completed"
)

// Milestone is a client-facing timeline entry.
type Milestone struct {
	Key         AgencyFlag      `json:"key"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      MilestoneStatus `json:"status"`
	Date        *time.Time      `json:"date,omitempty"`
}

type milestoneSpec struct {
	flag        AgencyFlag
	title       string
	description string
}

var timelineSpecs = []milestoneSpec{
	{FlagClientPaid, "Payment Received", "Your payment has been confirmed and the order is being processed"},
	{FlagGuidelinesApproved, "Guidelines Approved", "Content guidelines have been reviewed and approved"},
	{FlagAffiliatesSelected, "Affiliates Selected", "Affiliates have been selected for your campaign"},
	{FlagSamplesReceived, "Samples Shipped", "Product samples have been sent to all affiliates"},
	{FlagProductionStarted, "Production Started", "Affiliates have started creating content"},
	{FlagVideosCompleted, "Videos Completed", "All campaign videos have been produced"},
	{FlagReportSent, "Report Sent", "The final campaign report has been delivered"},
}

// Timeline builds the seven public milestones. The first incomplete step in
// sequence order is active; everything after it stays pending even if a later
// flag is somehow unset out of order.
func Timeline(o *Order) []Milestone {
	items := make([]Milestone, 0, len(timelineSpecs))
	activeAssigned := false
	for _, spec := range timelineSpecs {
		done, date, _ := o.Progress.Flag(spec.flag)
		status := MilestonePending
		switch {
		case done:
			status = MilestoneCompleted
		case !activeAssigned:
			status = MilestoneActive
			activeAssigned = true
		}
		items = append(items, Milestone{
			Key:         spec.flag,
			Title:       spec.title,
			Description: spec.description,
			Status:      status,
			Date:        date,
		})
	}
	return items
}

// DeadlineClass buckets the projected report deadline.
type DeadlineClass string

const (
	DeadlineOverdue DeadlineClass = "overdue"
	DeadlineUrgent  DeadlineClass = "urgent"
	DeadlineOnTrack DeadlineClass = "on_track"
)

// DeadlineProjection is the working-day report deadline derived from the
// sample shipment date.
type DeadlineProjection struct {
	Deadline      time.Time     `json:"deadline"`
	DaysRemaining int           `json:"days_remaining"`
	Class         DeadlineClass `json:"class"`
}

const reportDeadlineBusinessDays = 14

// ProjectDeadline computes the report deadline: samples received date plus 14
// business days, weekends skipped. It only applies while the report is
// outstanding; the second return value reports applicability.
func ProjectDeadline(o *Order, now time.Time) (DeadlineProjection, bool) {
	if !o.Progress.SamplesReceived || o.Progress.SamplesReceivedDate == nil || o.Progress.ReportSent {
		return DeadlineProjection{}, false
	}

	deadline := AddBusinessDays(*o.Progress.SamplesReceivedDate, reportDeadlineBusinessDays)
	remaining := int(math.Ceil(deadline.Sub(now).Hours() / 24))

	class := DeadlineOnTrack
	switch {
	case remaining < 0:
		class = DeadlineOverdue
	case remaining <= 3:
		class = DeadlineUrgent
	}

	return DeadlineProjection{
		Deadline:      deadline,
		DaysRemaining: remaining,
		Class:         class,
	}, true
}

// AddBusinessDays advances the date by the given number of working days,
// skipping Saturdays and Sundays. No holiday calendar is applied.
func AddBusinessDays(t time.Time, days int) time.Time {
	added := 0
	for added < days {
		t = t.AddDate(0, 0, 1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return t
}

// paymentVerificationTimeout is how long a payment may sit in
// pending_verification before it is escalated to verified automatically.
const paymentVerificationTimeout = 24 * time.Hour

// ShouldAutoVerify reports whether the periodic sweep must escalate this
// order's payment. Safe to re-evaluate on every tick: already-verified orders
// never match.
func ShouldAutoVerify(o *Order, now time.Time) bool {
	if o.SupplierPaymentStatus != PaymentPendingVerification || o.SupplierPaymentDate == nil {
		return false
	}
	return now.Sub(*o.SupplierPaymentDate) >= paymentVerificationTimeout
}
